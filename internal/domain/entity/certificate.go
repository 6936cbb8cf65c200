package entity

import "time"

// CertificateStatus is the verification state of an uploaded certificate.
type CertificateStatus string

const (
	// CertificatePending - uploaded, awaiting verification.
	CertificatePending CertificateStatus = "pending"
	// CertificateVerified - checked and accepted.
	CertificateVerified CertificateStatus = "verified"
	// CertificateRejected - not accepted.
	CertificateRejected CertificateStatus = "rejected"
)

// IsValid checks membership in the closed certificate status set.
func (s CertificateStatus) IsValid() bool {
	switch s {
	case CertificatePending, CertificateVerified, CertificateRejected:
		return true
	default:
		return false
	}
}

// Certificate is a completion or training certificate uploaded by a student.
// FileName points at an externally stored file; the store only keeps metadata.
type Certificate struct {
	ID         int               `json:"id"`
	StudentID  int               `json:"student_id"`
	Name       string            `json:"name"`
	FileName   string            `json:"file_name"`
	Status     CertificateStatus `json:"status"`
	UploadDate time.Time         `json:"upload_date"`
}

// CertificatePatch is a partial update for Certificate.
type CertificatePatch struct {
	Name     *string            `json:"name,omitempty"`
	FileName *string            `json:"file_name,omitempty"`
	Status   *CertificateStatus `json:"status,omitempty"`
}
