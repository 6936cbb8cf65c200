package store

import (
	"context"

	"github.com/intern-hub/intern-portal-hub/internal/domain/entity"
	"github.com/intern-hub/intern-portal-hub/internal/domain/shared"
)

func companyID(c entity.Company) int { return c.ID }

// CreateCompany appends a new partner company with an engine-assigned id
// and creation timestamp.
func (s *Store) CreateCompany(ctx context.Context, c entity.Company) (entity.Company, error) {
	event, err := s.mutate(ctx, "CreateCompany", func(st *State) (shared.Event, error) {
		c.ID = nextID(st.Companies, companyID)
		c.CreatedAt = s.now()
		st.Companies = append(st.Companies, c)
		return s.newEvent(shared.KindCompany, shared.OpCreated, c), nil
	})
	if err != nil {
		return entity.Company{}, err
	}
	return event.Record.(entity.Company), nil
}

// GetCompanyByID returns the company with the given id.
func (s *Store) GetCompanyByID(ctx context.Context, id int) (entity.Company, error) {
	var (
		out   entity.Company
		found bool
	)
	if err := s.read("GetCompanyByID", func(st *State) {
		if i := indexByID(st.Companies, companyID, id); i >= 0 {
			out, found = st.Companies[i], true
		}
	}); err != nil {
		return entity.Company{}, err
	}
	if !found {
		return entity.Company{}, ErrCompanyNotFound
	}
	return out, nil
}

// UpdateCompany shallow-merges the patch over the stored company.
func (s *Store) UpdateCompany(ctx context.Context, id int, patch entity.CompanyPatch) (entity.Company, error) {
	event, err := s.mutate(ctx, "UpdateCompany", func(st *State) (shared.Event, error) {
		i := indexByID(st.Companies, companyID, id)
		if i < 0 {
			return shared.Event{}, ErrCompanyNotFound
		}
		c := st.Companies[i]
		if patch.Name != nil {
			c.Name = *patch.Name
		}
		if patch.Industry != nil {
			c.Industry = *patch.Industry
		}
		if patch.Location != nil {
			c.Location = *patch.Location
		}
		if patch.Website != nil {
			c.Website = *patch.Website
		}
		st.Companies[i] = c
		return s.newEvent(shared.KindCompany, shared.OpUpdated, c), nil
	})
	if err != nil {
		return entity.Company{}, err
	}
	return event.Record.(entity.Company), nil
}

// ListCompanies returns every partner company.
func (s *Store) ListCompanies(ctx context.Context) ([]entity.Company, error) {
	var out []entity.Company
	err := s.read("ListCompanies", func(st *State) {
		out = filterCopy(st.Companies, func(entity.Company) bool { return true })
	})
	return out, err
}
