package store

import (
	"context"

	"github.com/intern-hub/intern-portal-hub/internal/domain/entity"
	"github.com/intern-hub/intern-portal-hub/internal/domain/shared"
)

func opportunityID(o entity.Opportunity) int { return o.ID }

// CreateOpportunity appends a new opening with an engine-assigned id and
// posting timestamp. The Applicants counter always starts at zero; it is
// maintained by CreateApplication, never by callers.
func (s *Store) CreateOpportunity(ctx context.Context, o entity.Opportunity) (entity.Opportunity, error) {
	event, err := s.mutate(ctx, "CreateOpportunity", func(st *State) (shared.Event, error) {
		o.ID = nextID(st.Opportunities, opportunityID)
		o.PostedAt = s.now()
		o.Applicants = 0
		st.Opportunities = append(st.Opportunities, o)
		return s.newEvent(shared.KindOpportunity, shared.OpCreated, o), nil
	})
	if err != nil {
		return entity.Opportunity{}, err
	}
	return event.Record.(entity.Opportunity), nil
}

// GetOpportunityByID returns the opportunity with the given id.
func (s *Store) GetOpportunityByID(ctx context.Context, id int) (entity.Opportunity, error) {
	var (
		out   entity.Opportunity
		found bool
	)
	if err := s.read("GetOpportunityByID", func(st *State) {
		if i := indexByID(st.Opportunities, opportunityID, id); i >= 0 {
			out, found = st.Opportunities[i], true
		}
	}); err != nil {
		return entity.Opportunity{}, err
	}
	if !found {
		return entity.Opportunity{}, ErrOpportunityNotFound
	}
	return out, nil
}

// UpdateOpportunity shallow-merges the patch over the stored opportunity.
// Applicants is not patchable.
func (s *Store) UpdateOpportunity(ctx context.Context, id int, patch entity.OpportunityPatch) (entity.Opportunity, error) {
	event, err := s.mutate(ctx, "UpdateOpportunity", func(st *State) (shared.Event, error) {
		i := indexByID(st.Opportunities, opportunityID, id)
		if i < 0 {
			return shared.Event{}, ErrOpportunityNotFound
		}
		o := st.Opportunities[i]
		if patch.CompanyID != nil {
			o.CompanyID = *patch.CompanyID
		}
		if patch.Title != nil {
			o.Title = *patch.Title
		}
		if patch.Description != nil {
			o.Description = *patch.Description
		}
		if patch.Location != nil {
			o.Location = *patch.Location
		}
		if patch.Stipend != nil {
			o.Stipend = *patch.Stipend
		}
		if patch.Deadline != nil {
			o.Deadline = *patch.Deadline
		}
		st.Opportunities[i] = o
		return s.newEvent(shared.KindOpportunity, shared.OpUpdated, o), nil
	})
	if err != nil {
		return entity.Opportunity{}, err
	}
	return event.Record.(entity.Opportunity), nil
}

// ListOpportunities returns every posted opening.
func (s *Store) ListOpportunities(ctx context.Context) ([]entity.Opportunity, error) {
	var out []entity.Opportunity
	err := s.read("ListOpportunities", func(st *State) {
		out = filterCopy(st.Opportunities, func(entity.Opportunity) bool { return true })
	})
	return out, err
}

// ListOpportunitiesByCompany returns the openings posted under a company.
func (s *Store) ListOpportunitiesByCompany(ctx context.Context, companyID int) ([]entity.Opportunity, error) {
	var out []entity.Opportunity
	err := s.read("ListOpportunitiesByCompany", func(st *State) {
		out = filterCopy(st.Opportunities, func(o entity.Opportunity) bool { return o.CompanyID == companyID })
	})
	return out, err
}
