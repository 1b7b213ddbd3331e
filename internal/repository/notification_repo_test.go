package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"taskboard/internal/database"
	"taskboard/internal/domain"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	return db
}

func seedNotifications(t *testing.T, db *gorm.DB, userID int64, n int) {
	t.Helper()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		row := notificationModel{
			UserID:    userID,
			Type:      string(domain.NotifTaskAssigned),
			ActorID:   99,
			Title:     "New task assigned",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(&row).Error)
	}
}

func TestNotificationRepository_ListByUser_KeysetPagination(t *testing.T) {
	db := openTestDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	seedNotifications(t, db, 1, 5)
	seedNotifications(t, db, 2, 3) // другой пользователь

	first, err := repo.ListByUser(ctx, 1, 2, nil)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.True(t, first[0].CreatedAt.After(first[1].CreatedAt), "newest first")

	cursor := first[1].CreatedAt
	second, err := repo.ListByUser(ctx, 1, 2, &cursor)
	require.NoError(t, err)
	require.Len(t, second, 2)

	// pages never overlap and never leak another user's rows
	seen := map[int64]bool{}
	for _, n := range append(first, second...) {
		assert.Equal(t, int64(1), n.UserID)
		assert.False(t, seen[n.ID], "row %d returned twice", n.ID)
		seen[n.ID] = true
	}
	assert.True(t, second[0].CreatedAt.Before(cursor))
}

func TestNotificationRepository_DedupKeyUnique(t *testing.T) {
	db := openTestDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	n1 := &domain.Notification{
		UserID:   2,
		ActorID:  1,
		Type:     domain.NotifTaskAssigned,
		Title:    "New task assigned: Ship it",
		TaskID:   42,
		DedupKey: "task_assigned:1:42:2",
	}
	require.NoError(t, repo.Create(ctx, n1))

	retry := &domain.Notification{
		UserID:   2,
		ActorID:  1,
		Type:     domain.NotifTaskAssigned,
		Title:    "New task assigned: Ship it",
		TaskID:   42,
		DedupKey: "task_assigned:1:42:2",
	}
	err := repo.Create(ctx, retry)
	require.Error(t, err)
	assert.True(t, IsDuplicate(err))

	var count int64
	db.Model(&notificationModel{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestNotificationRepository_EmptyDedupKeyNeverCollides(t *testing.T) {
	db := openTestDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		n := &domain.Notification{
			UserID:  2,
			ActorID: domain.ActorSystem,
			Type:    domain.NotifTaskUpdate,
			Title:   "Task updated",
		}
		require.NoError(t, repo.Create(ctx, n))
	}

	var count int64
	db.Model(&notificationModel{}).Count(&count)
	assert.Equal(t, int64(3), count)
}

func TestNotificationRepository_SetRead_ScopedToOwner(t *testing.T) {
	db := openTestDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	n := &domain.Notification{
		UserID:  2,
		ActorID: 1,
		Type:    domain.NotifTaskAssigned,
		Title:   "New task assigned",
	}
	require.NoError(t, repo.Create(ctx, n))

	// someone else's id + another user's row
	err := repo.SetRead(ctx, n.ID, 777, true)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repo.SetRead(ctx, n.ID, 2, true))

	unread, err := repo.CountUnread(ctx, 2)
	require.NoError(t, err)
	assert.Zero(t, unread)
}

func TestNotificationRepository_MarkAllReadAndClear(t *testing.T) {
	db := openTestDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	seedNotifications(t, db, 1, 4)
	seedNotifications(t, db, 2, 2)

	require.NoError(t, repo.MarkAllRead(ctx, 1))

	unread, err := repo.CountUnread(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, unread)

	otherUnread, err := repo.CountUnread(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), otherUnread)

	require.NoError(t, repo.DeleteAllForUser(ctx, 1))
	rows, err := repo.ListByUser(ctx, 1, 10, nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
