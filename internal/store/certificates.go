package store

import (
	"context"

	"github.com/intern-hub/intern-portal-hub/internal/domain/entity"
	"github.com/intern-hub/intern-portal-hub/internal/domain/shared"
)

func certificateID(c entity.Certificate) int { return c.ID }

// CreateCertificate appends a new certificate record with an engine-assigned
// id and upload timestamp.
func (s *Store) CreateCertificate(ctx context.Context, c entity.Certificate) (entity.Certificate, error) {
	event, err := s.mutate(ctx, "CreateCertificate", func(st *State) (shared.Event, error) {
		c.ID = nextID(st.Certificates, certificateID)
		c.UploadDate = s.now()
		st.Certificates = append(st.Certificates, c)
		return s.newEvent(shared.KindCertificate, shared.OpCreated, c), nil
	})
	if err != nil {
		return entity.Certificate{}, err
	}
	return event.Record.(entity.Certificate), nil
}

// GetCertificateByID returns the certificate with the given id.
func (s *Store) GetCertificateByID(ctx context.Context, id int) (entity.Certificate, error) {
	var (
		out   entity.Certificate
		found bool
	)
	if err := s.read("GetCertificateByID", func(st *State) {
		if i := indexByID(st.Certificates, certificateID, id); i >= 0 {
			out, found = st.Certificates[i], true
		}
	}); err != nil {
		return entity.Certificate{}, err
	}
	if !found {
		return entity.Certificate{}, ErrCertificateNotFound
	}
	return out, nil
}

// UpdateCertificate shallow-merges the patch over the stored certificate.
func (s *Store) UpdateCertificate(ctx context.Context, id int, patch entity.CertificatePatch) (entity.Certificate, error) {
	event, err := s.mutate(ctx, "UpdateCertificate", func(st *State) (shared.Event, error) {
		i := indexByID(st.Certificates, certificateID, id)
		if i < 0 {
			return shared.Event{}, ErrCertificateNotFound
		}
		c := st.Certificates[i]
		if patch.Name != nil {
			c.Name = *patch.Name
		}
		if patch.FileName != nil {
			c.FileName = *patch.FileName
		}
		if patch.Status != nil {
			c.Status = *patch.Status
		}
		st.Certificates[i] = c
		return s.newEvent(shared.KindCertificate, shared.OpUpdated, c), nil
	})
	if err != nil {
		return entity.Certificate{}, err
	}
	return event.Record.(entity.Certificate), nil
}

// DeleteCertificate hard-removes a certificate. Certificates are the one
// kind with hard removal: a withdrawn upload should not stay addressable.
// The deleted event carries the record as it was just before removal.
func (s *Store) DeleteCertificate(ctx context.Context, id int) error {
	_, err := s.mutate(ctx, "DeleteCertificate", func(st *State) (shared.Event, error) {
		i := indexByID(st.Certificates, certificateID, id)
		if i < 0 {
			return shared.Event{}, ErrCertificateNotFound
		}
		c := st.Certificates[i]
		st.Certificates = append(st.Certificates[:i], st.Certificates[i+1:]...)
		return s.newEvent(shared.KindCertificate, shared.OpDeleted, c), nil
	})
	return err
}

// ListCertificates returns every certificate record.
func (s *Store) ListCertificates(ctx context.Context) ([]entity.Certificate, error) {
	var out []entity.Certificate
	err := s.read("ListCertificates", func(st *State) {
		out = filterCopy(st.Certificates, func(entity.Certificate) bool { return true })
	})
	return out, err
}

// ListCertificatesByStudent returns a student's uploaded certificates.
func (s *Store) ListCertificatesByStudent(ctx context.Context, studentID int) ([]entity.Certificate, error) {
	var out []entity.Certificate
	err := s.read("ListCertificatesByStudent", func(st *State) {
		out = filterCopy(st.Certificates, func(c entity.Certificate) bool { return c.StudentID == studentID })
	})
	return out, err
}
