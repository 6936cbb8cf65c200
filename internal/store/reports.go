package store

import (
	"context"

	"github.com/intern-hub/intern-portal-hub/internal/domain/entity"
	"github.com/intern-hub/intern-portal-hub/internal/domain/shared"
)

func reportID(r entity.WeeklyReport) int { return r.ID }

// CreateReport appends a new weekly report. SubmittedAt and UpdatedAt are
// engine-assigned so recency ordering within the kind is monotonic.
func (s *Store) CreateReport(ctx context.Context, r entity.WeeklyReport) (entity.WeeklyReport, error) {
	event, err := s.mutate(ctx, "CreateReport", func(st *State) (shared.Event, error) {
		r.ID = nextID(st.Reports, reportID)
		r.SubmittedAt = s.now()
		r.UpdatedAt = r.SubmittedAt
		st.Reports = append(st.Reports, r)
		return s.newEvent(shared.KindWeeklyReport, shared.OpCreated, r), nil
	})
	if err != nil {
		return entity.WeeklyReport{}, err
	}
	return event.Record.(entity.WeeklyReport), nil
}

// GetReportByID returns the report with the given id, or ErrReportNotFound.
func (s *Store) GetReportByID(ctx context.Context, id int) (entity.WeeklyReport, error) {
	var (
		out   entity.WeeklyReport
		found bool
	)
	if err := s.read("GetReportByID", func(st *State) {
		if i := indexByID(st.Reports, reportID, id); i >= 0 {
			out, found = st.Reports[i], true
		}
	}); err != nil {
		return entity.WeeklyReport{}, err
	}
	if !found {
		return entity.WeeklyReport{}, ErrReportNotFound
	}
	return out, nil
}

// UpdateReport shallow-merges the patch over the stored report and
// refreshes UpdatedAt. Status strings are opaque to the engine; review
// workflows validate them before calling.
func (s *Store) UpdateReport(ctx context.Context, id int, patch entity.WeeklyReportPatch) (entity.WeeklyReport, error) {
	event, err := s.mutate(ctx, "UpdateReport", func(st *State) (shared.Event, error) {
		i := indexByID(st.Reports, reportID, id)
		if i < 0 {
			return shared.Event{}, ErrReportNotFound
		}
		r := st.Reports[i]
		if patch.TeacherID != nil {
			r.TeacherID = *patch.TeacherID
		}
		if patch.Week != nil {
			r.Week = *patch.Week
		}
		if patch.Title != nil {
			r.Title = *patch.Title
		}
		if patch.Content != nil {
			r.Content = *patch.Content
		}
		if patch.Status != nil {
			r.Status = *patch.Status
		}
		if patch.Remarks != nil {
			r.Remarks = *patch.Remarks
		}
		r.UpdatedAt = s.now()
		st.Reports[i] = r
		return s.newEvent(shared.KindWeeklyReport, shared.OpUpdated, r), nil
	})
	if err != nil {
		return entity.WeeklyReport{}, err
	}
	return event.Record.(entity.WeeklyReport), nil
}

// ListReports returns every weekly report.
func (s *Store) ListReports(ctx context.Context) ([]entity.WeeklyReport, error) {
	var out []entity.WeeklyReport
	err := s.read("ListReports", func(st *State) {
		out = filterCopy(st.Reports, func(entity.WeeklyReport) bool { return true })
	})
	return out, err
}

// ListReportsByStudent returns the reports submitted by a student.
func (s *Store) ListReportsByStudent(ctx context.Context, studentID int) ([]entity.WeeklyReport, error) {
	var out []entity.WeeklyReport
	err := s.read("ListReportsByStudent", func(st *State) {
		out = filterCopy(st.Reports, func(r entity.WeeklyReport) bool { return r.StudentID == studentID })
	})
	return out, err
}

// ListReportsByTeacher returns the reports awaiting a supervisor.
func (s *Store) ListReportsByTeacher(ctx context.Context, teacherID int) ([]entity.WeeklyReport, error) {
	var out []entity.WeeklyReport
	err := s.read("ListReportsByTeacher", func(st *State) {
		out = filterCopy(st.Reports, func(r entity.WeeklyReport) bool { return r.TeacherID == teacherID })
	})
	return out, err
}
