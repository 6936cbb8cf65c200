package store

import (
	"context"

	"github.com/intern-hub/intern-portal-hub/internal/domain/entity"
	"github.com/intern-hub/intern-portal-hub/internal/domain/shared"
)

func applicationID(a entity.Application) int { return a.ID }

// CreateApplication appends a new application and bumps the Applicants
// counter on the referenced opportunity inside the same locked section, so
// one snapshot save covers both changes. A dangling OpportunityID is not an
// error: the application is still stored and the counter update is skipped.
//
// Only the application-created event is emitted. Subscribers holding
// opportunity projections do not see the counter change until the next
// opportunity event refreshes their copy; readers going through the store
// always see the incremented value.
func (s *Store) CreateApplication(ctx context.Context, a entity.Application) (entity.Application, error) {
	event, err := s.mutate(ctx, "CreateApplication", func(st *State) (shared.Event, error) {
		a.ID = nextID(st.Applications, applicationID)
		a.AppliedAt = s.now()
		st.Applications = append(st.Applications, a)
		if i := indexByID(st.Opportunities, opportunityID, a.OpportunityID); i >= 0 {
			st.Opportunities[i].Applicants++
		}
		return s.newEvent(shared.KindApplication, shared.OpCreated, a), nil
	})
	if err != nil {
		return entity.Application{}, err
	}
	return event.Record.(entity.Application), nil
}

// GetApplicationByID returns the application with the given id.
func (s *Store) GetApplicationByID(ctx context.Context, id int) (entity.Application, error) {
	var (
		out   entity.Application
		found bool
	)
	if err := s.read("GetApplicationByID", func(st *State) {
		if i := indexByID(st.Applications, applicationID, id); i >= 0 {
			out, found = st.Applications[i], true
		}
	}); err != nil {
		return entity.Application{}, err
	}
	if !found {
		return entity.Application{}, ErrApplicationNotFound
	}
	return out, nil
}

// UpdateApplication shallow-merges the patch over the stored application.
// Used by placement staff to move an application through its status flow.
func (s *Store) UpdateApplication(ctx context.Context, id int, patch entity.ApplicationPatch) (entity.Application, error) {
	event, err := s.mutate(ctx, "UpdateApplication", func(st *State) (shared.Event, error) {
		i := indexByID(st.Applications, applicationID, id)
		if i < 0 {
			return shared.Event{}, ErrApplicationNotFound
		}
		a := st.Applications[i]
		if patch.Resume != nil {
			a.Resume = *patch.Resume
		}
		if patch.Status != nil {
			a.Status = *patch.Status
		}
		st.Applications[i] = a
		return s.newEvent(shared.KindApplication, shared.OpUpdated, a), nil
	})
	if err != nil {
		return entity.Application{}, err
	}
	return event.Record.(entity.Application), nil
}

// ListApplications returns every application.
func (s *Store) ListApplications(ctx context.Context) ([]entity.Application, error) {
	var out []entity.Application
	err := s.read("ListApplications", func(st *State) {
		out = filterCopy(st.Applications, func(entity.Application) bool { return true })
	})
	return out, err
}

// ListApplicationsByStudent returns a student's applications.
func (s *Store) ListApplicationsByStudent(ctx context.Context, studentID int) ([]entity.Application, error) {
	var out []entity.Application
	err := s.read("ListApplicationsByStudent", func(st *State) {
		out = filterCopy(st.Applications, func(a entity.Application) bool { return a.StudentID == studentID })
	})
	return out, err
}

// ListApplicationsByOpportunity returns the applications filed against one
// opportunity.
func (s *Store) ListApplicationsByOpportunity(ctx context.Context, opportunityID int) ([]entity.Application, error) {
	var out []entity.Application
	err := s.read("ListApplicationsByOpportunity", func(st *State) {
		out = filterCopy(st.Applications, func(a entity.Application) bool { return a.OpportunityID == opportunityID })
	})
	return out, err
}
