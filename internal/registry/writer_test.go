package registry

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/prazodigital/prazos-backend/pkg/db/models"
)

func TestActivate_FlipsInactiveTenant(t *testing.T) {
	conn := newTestDB(t)
	writer := NewWriter(conn)

	tenant := seedTenant(t, conn, func(tn *models.Tenant) {
		tn.Active = false
	})

	activated, err := writer.Activate(context.Background(), tenant.ID)
	require.NoError(t, err)
	require.True(t, activated.Active)

	var stored models.Tenant
	require.NoError(t, conn.First(&stored, "id = ?", tenant.ID).Error)
	require.True(t, stored.Active)
}

func TestActivate_AlreadyActiveIsNoOp(t *testing.T) {
	conn := newTestDB(t)
	writer := NewWriter(conn)

	tenant := seedTenant(t, conn, nil)

	activated, err := writer.Activate(context.Background(), tenant.ID)
	require.NoError(t, err)
	require.True(t, activated.Active)
	require.Equal(t, tenant.ID, activated.ID)
}

func TestActivate_UnknownTenant(t *testing.T) {
	conn := newTestDB(t)
	writer := NewWriter(conn)

	_, err := writer.Activate(context.Background(), uuid.New())
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
