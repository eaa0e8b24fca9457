package service

import (
	"context"
	"testing"

	"shelter-registry/internal/domain/entity"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditService_LogCreate(t *testing.T) {
	log, hook := test.NewNullLogger()
	audit := NewAuditService(log)

	ctx := entity.ContextWithStaffRole(context.Background(), entity.StaffRoleReception)
	audit.LogCreate(ctx, entity.AuditActionPersonAdmit, "1001", map[string]string{"name": "Ana"})

	require.Len(t, hook.AllEntries(), 1)
	e := hook.LastEntry()
	assert.Equal(t, logrus.InfoLevel, e.Level)
	assert.Equal(t, entity.AuditActionPersonAdmit, e.Data["action"])
	assert.Equal(t, "1001", e.Data["folio"])
	assert.Equal(t, "reception", e.Data["staff_role"])
	assert.Equal(t, map[string]string{"name": "Ana"}, e.Data["new_value"])
	assert.NotContains(t, e.Data, "old_value")
}

func TestAuditService_LogUpdateWithoutRole(t *testing.T) {
	log, hook := test.NewNullLogger()
	audit := NewAuditService(log)

	audit.LogUpdate(context.Background(), entity.AuditActionPersonDischarge, "1001-A", "active", "discharged")

	e := hook.LastEntry()
	require.NotNil(t, e)
	assert.Equal(t, "active", e.Data["old_value"])
	assert.Equal(t, "discharged", e.Data["new_value"])
	assert.NotContains(t, e.Data, "staff_role")
}
