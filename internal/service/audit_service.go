package service

import (
	"context"

	"shelter-registry/internal/domain/entity"

	"github.com/sirupsen/logrus"
)

// AuditService records who changed the register and how
type AuditService interface {
	LogCreate(ctx context.Context, action string, folio string, newValue interface{})
	LogUpdate(ctx context.Context, action string, folio string, oldValue, newValue interface{})
}

type auditService struct {
	log *logrus.Logger
}

func NewAuditService(log *logrus.Logger) AuditService {
	return &auditService{log: log}
}

// LogCreate logs a new register row
func (s *auditService) LogCreate(ctx context.Context, action string, folio string, newValue interface{}) {
	s.entry(ctx, action, folio).
		WithField("new_value", newValue).
		Info("Register changed")
}

// LogUpdate logs a changed register row with old and new values
func (s *auditService) LogUpdate(ctx context.Context, action string, folio string, oldValue, newValue interface{}) {
	s.entry(ctx, action, folio).
		WithFields(logrus.Fields{
			"old_value": oldValue,
			"new_value": newValue,
		}).
		Info("Register changed")
}

func (s *auditService) entry(ctx context.Context, action, folio string) *logrus.Entry {
	fields := logrus.Fields{
		"audit":  true,
		"action": action,
		"folio":  folio,
	}
	if role, ok := entity.StaffRoleFromContext(ctx); ok {
		fields["staff_role"] = string(role)
	}
	return s.log.WithContext(ctx).WithFields(fields)
}
