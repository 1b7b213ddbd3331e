package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"taskboard/internal/domain"
)

// Mock store and pusher
type MockNotificationStore struct {
	mock.Mock
}

func (m *MockNotificationStore) Create(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	if n != nil && args.Error(0) == nil {
		n.ID = n.UserID * 100 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockNotificationStore) ListByUser(ctx context.Context, userID int64, limit int, before *time.Time) ([]domain.Notification, error) {
	args := m.Called(ctx, userID, limit, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *MockNotificationStore) CountUnread(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationStore) SetRead(ctx context.Context, id, userID int64, read bool) error {
	args := m.Called(ctx, id, userID, read)
	return args.Error(0)
}

func (m *MockNotificationStore) MarkAllRead(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockNotificationStore) DeleteAllForUser(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockPusher struct {
	mock.Mock
}

func (m *MockPusher) PushToUser(userID int64, n *domain.Notification) {
	m.Called(userID, n)
}

func TestService_FanOut_WritesRowPerRecipient(t *testing.T) {
	mockStore := new(MockNotificationStore)
	mockStore.On("Create", mock.Anything, mock.Anything).Return(nil)

	mockPusher := new(MockPusher)
	mockPusher.On("PushToUser", int64(2), mock.Anything).Return()
	mockPusher.On("PushToUser", int64(3), mock.Anything).Return()

	service := NewService(mockStore, nil, mockPusher)

	res := service.FanOut(context.Background(), FanOutInput{
		Type:       domain.NotifTaskAssigned,
		ActorID:    1,
		Recipients: []int64{2, 3},
		Title:      "New task assigned: Ship it",
		TaskID:     42,
	})

	assert.Equal(t, FanOutResult{Written: 2}, res)
	mockStore.AssertNumberOfCalls(t, "Create", 2)
	mockPusher.AssertExpectations(t)
}

func TestService_FanOut_SkipsActorAndZero(t *testing.T) {
	mockStore := new(MockNotificationStore)
	mockStore.On("Create", mock.Anything, mock.Anything).Return(nil)

	service := NewService(mockStore, nil, nil)

	res := service.FanOut(context.Background(), FanOutInput{
		Type:       domain.NotifTaskAssigned,
		ActorID:    1,
		Recipients: []int64{1, 0, 2},
		TaskID:     42,
	})

	assert.Equal(t, 1, res.Written)
	mockStore.AssertNumberOfCalls(t, "Create", 1)
}

func TestService_FanOut_EmptyRecipientsIsNoOp(t *testing.T) {
	mockStore := new(MockNotificationStore)
	service := NewService(mockStore, nil, nil)

	res := service.FanOut(context.Background(), FanOutInput{
		Type:    domain.NotifTaskCreated,
		ActorID: 1,
	})

	assert.Zero(t, res.Written)
	mockStore.AssertNotCalled(t, "Create")
}

func TestService_FanOut_OneBadRowNeverBlocksOthers(t *testing.T) {
	mockStore := new(MockNotificationStore)
	mockStore.On("Create", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.UserID == 3
	})).Return(errors.New("disk full"))
	mockStore.On("Create", mock.Anything, mock.Anything).Return(nil)

	service := NewService(mockStore, nil, nil)

	res := service.FanOut(context.Background(), FanOutInput{
		Type:       domain.NotifTaskCreated,
		ActorID:    1,
		Recipients: []int64{2, 3, 4},
		TaskID:     42,
	})

	assert.Equal(t, FanOutResult{Written: 2, Failed: 1}, res)
	mockStore.AssertNumberOfCalls(t, "Create", 3)
}

func TestService_FanOut_DuplicateKeySkippedSilently(t *testing.T) {
	mockStore := new(MockNotificationStore)
	mockStore.On("Create", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.UserID == 2
	})).Return(gorm.ErrDuplicatedKey)
	mockStore.On("Create", mock.Anything, mock.Anything).Return(nil)

	mockPusher := new(MockPusher)
	mockPusher.On("PushToUser", int64(3), mock.Anything).Return()

	service := NewService(mockStore, nil, mockPusher)

	res := service.FanOut(context.Background(), FanOutInput{
		Type:       domain.NotifTaskAssigned,
		ActorID:    1,
		Recipients: []int64{2, 3},
		TaskID:     42,
		DedupToken: "req-7f3a",
	})

	assert.Equal(t, FanOutResult{Written: 1, Duplicates: 1}, res)
	// a skipped duplicate must not be pushed again
	mockPusher.AssertNotCalled(t, "PushToUser", int64(2), mock.Anything)
}

func TestService_FanOut_DedupKeyPrefersMessageID(t *testing.T) {
	mockStore := new(MockNotificationStore)
	var captured *domain.Notification
	mockStore.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		captured = args.Get(1).(*domain.Notification)
	}).Return(nil)

	service := NewService(mockStore, nil, nil)

	service.FanOut(context.Background(), FanOutInput{
		Type:        domain.NotifMessageNew,
		ActorID:     1,
		Recipients:  []int64{2},
		WorkspaceID: 5,
		ThreadID:    11,
		MessageID:   77,
	})

	assert.Equal(t, "message_new:1:77:2", captured.DedupKey)
}

func TestService_FanOut_ObjectContextAloneGetsNoKey(t *testing.T) {
	mockStore := new(MockNotificationStore)
	var captured *domain.Notification
	mockStore.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		captured = args.Get(1).(*domain.Notification)
	}).Return(nil)

	service := NewService(mockStore, nil, nil)

	// re-assigning the same task later is a new event, so a task id by
	// itself must never become a dedup key
	service.FanOut(context.Background(), FanOutInput{
		Type:       domain.NotifTaskAssigned,
		ActorID:    1,
		Recipients: []int64{2},
		TaskID:     42,
	})

	assert.Empty(t, captured.DedupKey)
}

func TestService_FanOut_DistinctTransitionsGetDistinctKeys(t *testing.T) {
	mockStore := new(MockNotificationStore)
	var keys []string
	mockStore.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		keys = append(keys, args.Get(1).(*domain.Notification).DedupKey)
	}).Return(nil)

	service := NewService(mockStore, nil, nil)

	for _, status := range []string{"in_progress", "done"} {
		res := service.FanOut(context.Background(), FanOutInput{
			Type:       domain.NotifTaskUpdate,
			ActorID:    1,
			Recipients: []int64{2},
			TaskID:     42,
			DedupToken: status,
		})
		assert.Equal(t, 1, res.Written)
	}

	require.Len(t, keys, 2)
	assert.NotEmpty(t, keys[0])
	assert.NotEmpty(t, keys[1])
	assert.NotEqual(t, keys[0], keys[1])
}

func TestService_FanOut_NoContextMeansNoDedupKey(t *testing.T) {
	mockStore := new(MockNotificationStore)
	var captured *domain.Notification
	mockStore.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		captured = args.Get(1).(*domain.Notification)
	}).Return(nil)

	service := NewService(mockStore, nil, nil)

	service.FanOut(context.Background(), FanOutInput{
		Type:       domain.NotifTaskUpdate,
		ActorID:    domain.ActorSystem,
		Recipients: []int64{2},
	})

	assert.Empty(t, captured.DedupKey)
}
