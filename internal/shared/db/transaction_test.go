package db

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type txProbe struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&txProbe{}))
	return db
}

func TestRunInTransaction_CommitsOnSuccess(t *testing.T) {
	gdb := setupDB(t)
	tm := NewTransactionManager(gdb)

	err := tm.RunInTransaction(context.Background(), func(ctx context.Context) error {
		assert.True(t, InTransaction(ctx))
		return GetTxFromContext(ctx, gdb).Create(&txProbe{Name: "a"}).Error
	})
	require.NoError(t, err)

	var count int64
	gdb.Model(&txProbe{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRunInTransaction_RollsBackOnError(t *testing.T) {
	gdb := setupDB(t)
	tm := NewTransactionManager(gdb)
	boom := errors.New("boom")

	err := tm.RunInTransaction(context.Background(), func(ctx context.Context) error {
		require.NoError(t, GetTxFromContext(ctx, gdb).Create(&txProbe{Name: "a"}).Error)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int64
	gdb.Model(&txProbe{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestRunInTransaction_NestedCallJoinsOuter(t *testing.T) {
	gdb := setupDB(t)
	tm := NewTransactionManager(gdb)

	err := tm.RunInTransaction(context.Background(), func(outer context.Context) error {
		inner := tm.RunInTransaction(outer, func(ctx context.Context) error {
			assert.Same(t, GetTxFromContext(outer, gdb), GetTxFromContext(ctx, gdb))
			return GetTxFromContext(ctx, gdb).Create(&txProbe{Name: "inner"}).Error
		})
		require.NoError(t, inner)
		return errors.New("abort outer")
	})
	require.Error(t, err)

	var count int64
	gdb.Model(&txProbe{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestGetTxFromContext_FallsBackToDefault(t *testing.T) {
	gdb := setupDB(t)
	assert.False(t, InTransaction(context.Background()))
	assert.NotNil(t, GetTxFromContext(context.Background(), gdb))
}
