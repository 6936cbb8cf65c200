package store

import (
	"context"

	"github.com/intern-hub/intern-portal-hub/internal/domain/entity"
	"github.com/intern-hub/intern-portal-hub/internal/domain/shared"
)

func nocRequestID(n entity.NOCRequest) int { return n.ID }

// CreateNOCRequest appends a new NOC request with an engine-assigned id and
// request timestamp.
func (s *Store) CreateNOCRequest(ctx context.Context, n entity.NOCRequest) (entity.NOCRequest, error) {
	event, err := s.mutate(ctx, "CreateNOCRequest", func(st *State) (shared.Event, error) {
		n.ID = nextID(st.NOCRequests, nocRequestID)
		n.RequestedAt = s.now()
		st.NOCRequests = append(st.NOCRequests, n)
		return s.newEvent(shared.KindNOCRequest, shared.OpCreated, n), nil
	})
	if err != nil {
		return entity.NOCRequest{}, err
	}
	return event.Record.(entity.NOCRequest), nil
}

// GetNOCRequestByID returns the NOC request with the given id.
func (s *Store) GetNOCRequestByID(ctx context.Context, id int) (entity.NOCRequest, error) {
	var (
		out   entity.NOCRequest
		found bool
	)
	if err := s.read("GetNOCRequestByID", func(st *State) {
		if i := indexByID(st.NOCRequests, nocRequestID, id); i >= 0 {
			out, found = st.NOCRequests[i], true
		}
	}); err != nil {
		return entity.NOCRequest{}, err
	}
	if !found {
		return entity.NOCRequest{}, ErrNOCRequestNotFound
	}
	return out, nil
}

// UpdateNOCRequest shallow-merges the patch over the stored request.
func (s *Store) UpdateNOCRequest(ctx context.Context, id int, patch entity.NOCRequestPatch) (entity.NOCRequest, error) {
	event, err := s.mutate(ctx, "UpdateNOCRequest", func(st *State) (shared.Event, error) {
		i := indexByID(st.NOCRequests, nocRequestID, id)
		if i < 0 {
			return shared.Event{}, ErrNOCRequestNotFound
		}
		n := st.NOCRequests[i]
		if patch.Company != nil {
			n.Company = *patch.Company
		}
		if patch.Position != nil {
			n.Position = *patch.Position
		}
		if patch.StartDate != nil {
			n.StartDate = *patch.StartDate
		}
		if patch.EndDate != nil {
			n.EndDate = *patch.EndDate
		}
		if patch.Status != nil {
			n.Status = *patch.Status
		}
		if patch.Remarks != nil {
			n.Remarks = *patch.Remarks
		}
		st.NOCRequests[i] = n
		return s.newEvent(shared.KindNOCRequest, shared.OpUpdated, n), nil
	})
	if err != nil {
		return entity.NOCRequest{}, err
	}
	return event.Record.(entity.NOCRequest), nil
}

// ListNOCRequests returns every NOC request.
func (s *Store) ListNOCRequests(ctx context.Context) ([]entity.NOCRequest, error) {
	var out []entity.NOCRequest
	err := s.read("ListNOCRequests", func(st *State) {
		out = filterCopy(st.NOCRequests, func(entity.NOCRequest) bool { return true })
	})
	return out, err
}

// ListNOCRequestsByStudent returns a student's NOC requests.
func (s *Store) ListNOCRequestsByStudent(ctx context.Context, studentID int) ([]entity.NOCRequest, error) {
	var out []entity.NOCRequest
	err := s.read("ListNOCRequestsByStudent", func(st *State) {
		out = filterCopy(st.NOCRequests, func(n entity.NOCRequest) bool { return n.StudentID == studentID })
	})
	return out, err
}
