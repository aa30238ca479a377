package migration

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestEmbeddedSchema(t *testing.T) {
	schema, err := embeddedSchema()
	require.NoError(t, err)
	assert.Equal(t, uint(1), schema.Version)
	assert.Len(t, schema.Checksum, 64)

	again, err := embeddedSchema()
	require.NoError(t, err)
	assert.Equal(t, schema.Checksum, again.Checksum)
}

func TestParseMigrationVersion(t *testing.T) {
	v, ok := parseMigrationVersion("000012_add_index.up.sql")
	assert.True(t, ok)
	assert.Equal(t, uint(12), v)

	_, ok = parseMigrationVersion("init.up.sql")
	assert.False(t, ok)
	_, ok = parseMigrationVersion("abc_init.up.sql")
	assert.False(t, ok)
}

func TestRunAutoMigratesSQLite(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, Run(context.Background(), db, "sqlite", zap.NewNop()))

	for _, table := range []string{"invoices", "invoice_items", "custom_fields"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestRunRequiresHandle(t *testing.T) {
	assert.Error(t, Run(context.Background(), nil, "sqlite", zap.NewNop()))

	_, err := RunMigrations(context.Background(), nil)
	assert.Error(t, err)
}

func TestWithMigrationLockFailsWithoutAdvisoryLocks(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	called := false
	err = withMigrationLock(context.Background(), sqlDB, func(context.Context) error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "acquire migration lock")
	assert.NotErrorIs(t, err, ErrMigrationLockTimeout)
	assert.False(t, called, "fn must not run without the lock")
}

func TestWithMigrationLockClosedPool(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = RunMigrations(context.Background(), sqlDB)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pin migration lock connection")
}
