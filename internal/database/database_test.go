package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"

	"github.com/example/intima/internal/models"
	"github.com/example/intima/internal/utils"
)

func TestOpenSQLiteAndMigrate(t *testing.T) {
	conn, err := Open("sqlite://file::memory:", gormlogger.Silent)
	require.NoError(t, err)
	require.NoError(t, Migrate(conn))

	for _, table := range []interface{}{&models.Product{}, &models.Order{}, &models.StoreSettings{}} {
		assert.True(t, conn.Migrator().HasTable(table))
	}
}

func TestEnsureAdmin(t *testing.T) {
	conn, err := Open("sqlite://file::memory:", gormlogger.Silent)
	require.NoError(t, err)
	require.NoError(t, Migrate(conn))

	created, err := EnsureAdmin(conn, "", "secret")
	require.NoError(t, err)
	assert.False(t, created)

	created, err = EnsureAdmin(conn, "+5511999990000", "secret")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = EnsureAdmin(conn, "+5511999990000", "other")
	require.NoError(t, err)
	assert.False(t, created, "existing admin is left alone")

	var admin models.User
	require.NoError(t, conn.Where("phone = ?", "+5511999990000").First(&admin).Error)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.True(t, admin.IsActive)
	assert.True(t, utils.CheckPassword(admin.PasswordHash, "secret"))
}

func TestEnsureDatabaseIgnoresNonPostgres(t *testing.T) {
	assert.NoError(t, ensureDatabase("sqlite://test.db"))
	assert.NoError(t, ensureDatabase("host=localhost user=x"))
}
