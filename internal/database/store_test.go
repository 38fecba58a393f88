package database_test

import (
	"context"
	"errors"
	"testing"

	"dadaocheng/exploration/internal/database"
	"dadaocheng/exploration/internal/model/group"
	"dadaocheng/exploration/internal/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestStore_QueryAndExec(t *testing.T) {
	store := testutils.SetupTestStore(t)
	ctx := context.Background()
	g := testutils.EnsureGroup(store.DB(ctx), 7)

	n, err := store.Exec(ctx, "UPDATE groups SET group_name = ? WHERE id = ?", "第七組", g.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var names []string
	require.NoError(t, store.Query(ctx, &names, "SELECT group_name FROM groups WHERE id = ?", g.ID))
	assert.Equal(t, []string{"第七組"}, names)
}

func TestStore_QueryClassifiesErrors(t *testing.T) {
	store := testutils.SetupTestStore(t)

	var out []int
	err := store.Query(context.Background(), &out, "SELEC broken")
	assert.ErrorIs(t, err, database.ErrConstraintViolation)
}

func TestStore_WithTx_RollbackOnError(t *testing.T) {
	store := testutils.SetupTestStore(t)
	ctx := context.Background()
	g := testutils.EnsureGroup(store.DB(ctx), 8)

	sentinel := errors.New("abort")
	err := store.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Model(&group.Group{}).Where("id = ?", g.ID).Update("group_name", "changed").Error; err != nil {
			return err
		}
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)

	var reloaded group.Group
	require.NoError(t, store.DB(ctx).First(&reloaded, g.ID).Error)
	assert.Equal(t, g.GroupName, reloaded.GroupName)
}

func TestStore_WithTx_RollbackOnPanic(t *testing.T) {
	store := testutils.SetupTestStore(t)
	ctx := context.Background()
	g := testutils.EnsureGroup(store.DB(ctx), 9)

	assert.Panics(t, func() {
		_ = store.WithTx(ctx, func(tx *gorm.DB) error {
			tx.Model(&group.Group{}).Where("id = ?", g.ID).Update("group_name", "changed")
			panic("boom")
		})
	})

	var reloaded group.Group
	require.NoError(t, store.DB(ctx).First(&reloaded, g.ID).Error)
	assert.Equal(t, g.GroupName, reloaded.GroupName)
}

func TestStore_WithTx_Commit(t *testing.T) {
	store := testutils.SetupTestStore(t)
	ctx := context.Background()
	g := testutils.EnsureGroup(store.DB(ctx), 10)

	err := store.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Model(&group.Group{}).Where("id = ?", g.ID).Update("group_name", "committed").Error
	})
	require.NoError(t, err)

	var reloaded group.Group
	require.NoError(t, store.DB(ctx).First(&reloaded, g.ID).Error)
	assert.Equal(t, "committed", reloaded.GroupName)
}

func TestStore_Ping(t *testing.T) {
	store := database.NewStore(testutils.OpenTestDB(t), nil)
	assert.NoError(t, store.Ping(context.Background()))
}
