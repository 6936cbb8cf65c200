package store

import (
	"github.com/intern-hub/intern-portal-hub/internal/domain/shared"
)

// Per-kind not-found errors. All of them match shared.ErrNotFound through
// errors.Is, so callers can probe with shared.IsNotFound without caring
// which kind was addressed.
var (
	ErrUserNotFound        = shared.NewDomainError("store", "GetUser", shared.ErrNotFound, "user not found")
	ErrStudentNotFound     = shared.NewDomainError("store", "GetStudent", shared.ErrNotFound, "student not found")
	ErrReportNotFound      = shared.NewDomainError("store", "GetReport", shared.ErrNotFound, "weekly report not found")
	ErrCertificateNotFound = shared.NewDomainError("store", "GetCertificate", shared.ErrNotFound, "certificate not found")
	ErrNOCRequestNotFound  = shared.NewDomainError("store", "GetNOCRequest", shared.ErrNotFound, "NOC request not found")
	ErrCompanyNotFound     = shared.NewDomainError("store", "GetCompany", shared.ErrNotFound, "company not found")
	ErrOpportunityNotFound = shared.NewDomainError("store", "GetOpportunity", shared.ErrNotFound, "opportunity not found")
	ErrTaskNotFound        = shared.NewDomainError("store", "GetTask", shared.ErrNotFound, "assigned task not found")
	ErrTaskStatusNotFound  = shared.NewDomainError("store", "GetTaskStatus", shared.ErrNotFound, "task status not found")
	ErrApplicationNotFound = shared.NewDomainError("store", "GetApplication", shared.ErrNotFound, "application not found")
	ErrLogNotFound         = shared.NewDomainError("store", "GetLog", shared.ErrNotFound, "system log not found")
)
