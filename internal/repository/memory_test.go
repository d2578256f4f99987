package repository

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"go-checklist-api/internal/model"
)

func TestMemoryUserRepository(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	users := NewMemoryStore().Users()

	alice, err := users.Insert(ctx, model.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"})
	require.NoError(t, err)
	require.Equal(t, int64(1), alice.ID)
	require.False(t, alice.CreatedAt.IsZero())

	_, err = users.Insert(ctx, model.User{Username: "alice", Email: "other@example.com"})
	require.ErrorIs(t, err, model.ErrUserAlreadyExists)

	_, err = users.Insert(ctx, model.User{Username: "alicia", Email: "alice@example.com"})
	require.ErrorIs(t, err, model.ErrEmailAlreadyExists)

	found, err := users.FindByUsername(ctx, " alice ")
	require.NoError(t, err)
	require.Equal(t, alice.ID, found.ID)

	require.NoError(t, users.Delete(ctx, alice.ID))
	_, err = users.FindByID(ctx, alice.ID)
	require.ErrorIs(t, err, model.ErrUserNotFound)
}

func TestMemoryChecklistRepositories(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()
	checklists := store.Checklists()
	items := store.ChecklistItems()

	trip, err := checklists.Create(ctx, "Road Trip")
	require.NoError(t, err)
	_, err = checklists.Create(ctx, "Groceries")
	require.NoError(t, err)

	page, total, err := checklists.List(ctx, "trip", 10, 0)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, trip.ID, page[0].ID)

	page, total, err = checklists.List(ctx, "", 1, 1)
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Len(t, page, 1)
	require.Equal(t, "Groceries", page[0].Name)

	_, err = items.Create(ctx, model.ChecklistItem{Name: "Snacks", ChecklistID: 99, Status: model.StatusIncomplete})
	require.ErrorIs(t, err, model.ErrChecklistNotFound)

	item, err := items.Create(ctx, model.ChecklistItem{Name: "Snacks", ChecklistID: trip.ID, Status: model.StatusIncomplete})
	require.NoError(t, err)
	require.NotNil(t, item.Checklist)
	require.Equal(t, "Road Trip", item.Checklist.Name)

	require.ErrorIs(t, checklists.Delete(ctx, trip.ID), model.ErrChecklistInUse)

	updated, err := items.UpdateStatus(ctx, item.ID, model.StatusCompleted)
	require.NoError(t, err)
	require.Equal(t, model.StatusCompleted, updated.Status)
	require.False(t, updated.UpdatedAt.Before(item.UpdatedAt))

	require.NoError(t, items.Delete(ctx, item.ID))
	require.ErrorIs(t, items.Delete(ctx, item.ID), model.ErrChecklistItemNotFound)
	require.NoError(t, checklists.Delete(ctx, trip.ID))
	require.ErrorIs(t, checklists.Delete(ctx, trip.ID), model.ErrChecklistNotFound)
}

func TestWindow(t *testing.T) {
	t.Parallel()

	items := []int{1, 2, 3, 4, 5}
	cases := []struct {
		name          string
		limit, offset int
		want          []int
	}{
		{"first page", 2, 0, []int{1, 2}},
		{"last partial page", 2, 4, []int{5}},
		{"past the end", 2, 5, []int{}},
		{"negative offset", 2, -100, []int{}},
		{"offset near max int", math.MaxInt, math.MaxInt - 1, []int{}},
		{"large limit", math.MaxInt, 3, []int{4, 5}},
		{"no limit", 0, 1, []int{2, 3, 4, 5}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, window(items, tc.limit, tc.offset))
		})
	}
}
