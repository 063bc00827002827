package services

import (
	"github.com/procline/error_service/internal/domain"
	"github.com/procline/error_service/internal/errs"
)

// Operations gated by AccessPolicy. Role checks live here instead of being
// re-implemented per endpoint.
const (
	OpCreateError    = "error.create"
	OpUpdateError    = "error.update"
	OpAssignError    = "error.assign"
	OpDeleteError    = "error.delete"
	OpCommentError   = "error.comment"
	OpAttachError    = "error.attach"
	OpReadReports    = "report.read"
	OpReadAuditLogs  = "audit.read"
	OpListUsers      = "user.list"
	OpUpdateUser     = "user.update"
	OpDeactivateUser = "user.deactivate"
	OpCreateProcess  = "process.create"
	OpUpdateProcess  = "process.update"
	OpDeleteProcess  = "process.delete"
	OpAddStep        = "process.add_step"
)

// Actor identifies the authenticated caller of a workflow operation plus
// the request origin recorded in audit entries.
type Actor struct {
	ID        uint
	Role      string
	IPAddress string
	UserAgent string
}

type AccessPolicy struct {
	rules map[string][]string
}

func NewAccessPolicy() AccessPolicy {
	anyRole := []string{domain.RoleAdmin, domain.RoleManager, domain.RoleEmployee}
	managers := []string{domain.RoleAdmin, domain.RoleManager}
	adminOnly := []string{domain.RoleAdmin}

	return AccessPolicy{rules: map[string][]string{
		OpCreateError:  anyRole,
		OpUpdateError:  anyRole,
		OpCommentError: anyRole,
		OpAttachError:  anyRole,

		OpAssignError:   managers,
		OpDeleteError:   managers,
		OpReadReports:   managers,
		OpReadAuditLogs: managers,
		OpListUsers:     managers,
		OpCreateProcess: managers,
		OpUpdateProcess: managers,
		OpAddStep:       managers,

		OpUpdateUser:     adminOnly,
		OpDeactivateUser: adminOnly,
		OpDeleteProcess:  adminOnly,
	}}
}

func (p AccessPolicy) Allowed(role, operation string) bool {
	roles, ok := p.rules[operation]
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// Authorize returns a Forbidden error before any mutation is attempted.
func (p AccessPolicy) Authorize(actor Actor, operation string) error {
	if actor.ID == 0 {
		return errs.Forbiddenf("unauthenticated caller")
	}
	if !p.Allowed(actor.Role, operation) {
		return errs.Forbiddenf("role %s may not perform %s", actor.Role, operation)
	}
	return nil
}
