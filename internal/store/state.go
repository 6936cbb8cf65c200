package store

import (
	"encoding/json"
	"fmt"

	"github.com/intern-hub/intern-portal-hub/internal/domain/entity"
	"github.com/intern-hub/intern-portal-hub/internal/domain/shared"
)

// stateVersion is the snapshot document format version. Bump on layout
// changes that need a migration on load.
const stateVersion = 1

// State is the full persisted contents of the store: one array per entity
// kind plus the format version. It is serialized as a single JSON document
// after every mutation and restored once at startup.
type State struct {
	Version       int                   `json:"version"`
	Users         []entity.User         `json:"users"`
	Students      []entity.Student      `json:"students"`
	Reports       []entity.WeeklyReport `json:"weekly_reports"`
	Certificates  []entity.Certificate  `json:"certificates"`
	NOCRequests   []entity.NOCRequest   `json:"noc_requests"`
	Companies     []entity.Company      `json:"companies"`
	Opportunities []entity.Opportunity  `json:"opportunities"`
	Tasks         []entity.AssignedTask `json:"assigned_tasks"`
	TaskStatuses  []entity.TaskStatus   `json:"task_statuses"`
	Applications  []entity.Application  `json:"applications"`
	Logs          []entity.SystemLog    `json:"system_logs"`
}

// NewState returns an empty state with the current format version.
// Collections start non-nil so the snapshot document always carries every
// kind, including zero-length ones.
func NewState() State {
	return State{
		Version:       stateVersion,
		Users:         []entity.User{},
		Students:      []entity.Student{},
		Reports:       []entity.WeeklyReport{},
		Certificates:  []entity.Certificate{},
		NOCRequests:   []entity.NOCRequest{},
		Companies:     []entity.Company{},
		Opportunities: []entity.Opportunity{},
		Tasks:         []entity.AssignedTask{},
		TaskStatuses:  []entity.TaskStatus{},
		Applications:  []entity.Application{},
		Logs:          []entity.SystemLog{},
	}
}

// Encode serializes the state to the snapshot document.
func (s State) Encode() ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return data, nil
}

// DecodeState parses a snapshot document back into a State.
func DecodeState(blob []byte) (State, error) {
	var s State
	if err := json.Unmarshal(blob, &s); err != nil {
		return State{}, shared.WrapError("store", "DecodeState", shared.ErrSnapshotCorrupt, "unmarshal snapshot", err)
	}
	if s.Version == 0 {
		s.Version = stateVersion
	}
	if s.Version > stateVersion {
		return State{}, shared.NewDomainError("store", "DecodeState", shared.ErrSnapshotCorrupt,
			fmt.Sprintf("snapshot version %d is newer than supported %d", s.Version, stateVersion))
	}
	s.normalize()
	return s, nil
}

// normalize replaces nil collections with empty ones so engine code never
// branches on nil slices.
func (s *State) normalize() {
	if s.Users == nil {
		s.Users = []entity.User{}
	}
	if s.Students == nil {
		s.Students = []entity.Student{}
	}
	if s.Reports == nil {
		s.Reports = []entity.WeeklyReport{}
	}
	if s.Certificates == nil {
		s.Certificates = []entity.Certificate{}
	}
	if s.NOCRequests == nil {
		s.NOCRequests = []entity.NOCRequest{}
	}
	if s.Companies == nil {
		s.Companies = []entity.Company{}
	}
	if s.Opportunities == nil {
		s.Opportunities = []entity.Opportunity{}
	}
	if s.Tasks == nil {
		s.Tasks = []entity.AssignedTask{}
	}
	if s.TaskStatuses == nil {
		s.TaskStatuses = []entity.TaskStatus{}
	}
	if s.Applications == nil {
		s.Applications = []entity.Application{}
	}
	if s.Logs == nil {
		s.Logs = []entity.SystemLog{}
	}
}

// cloneState returns a copy of s with fresh collection slices. Records are
// plain values, so copying the slices is enough to detach callers from
// engine state.
func cloneState(s State) State {
	out := s
	out.Users = append([]entity.User{}, s.Users...)
	out.Students = append([]entity.Student{}, s.Students...)
	out.Reports = append([]entity.WeeklyReport{}, s.Reports...)
	out.Certificates = append([]entity.Certificate{}, s.Certificates...)
	out.NOCRequests = append([]entity.NOCRequest{}, s.NOCRequests...)
	out.Companies = append([]entity.Company{}, s.Companies...)
	out.Opportunities = append([]entity.Opportunity{}, s.Opportunities...)
	out.Tasks = append([]entity.AssignedTask{}, s.Tasks...)
	out.TaskStatuses = append([]entity.TaskStatus{}, s.TaskStatuses...)
	out.Applications = append([]entity.Application{}, s.Applications...)
	out.Logs = append([]entity.SystemLog{}, s.Logs...)
	return out
}

// Counts returns the live record count per kind. Soft-deleted tasks are
// counted: they are still records.
func (s State) Counts() map[shared.EntityKind]int {
	return map[shared.EntityKind]int{
		shared.KindUser:         len(s.Users),
		shared.KindStudent:      len(s.Students),
		shared.KindWeeklyReport: len(s.Reports),
		shared.KindCertificate:  len(s.Certificates),
		shared.KindNOCRequest:   len(s.NOCRequests),
		shared.KindCompany:      len(s.Companies),
		shared.KindOpportunity:  len(s.Opportunities),
		shared.KindAssignedTask: len(s.Tasks),
		shared.KindTaskStatus:   len(s.TaskStatuses),
		shared.KindApplication:  len(s.Applications),
		shared.KindSystemLog:    len(s.Logs),
	}
}
