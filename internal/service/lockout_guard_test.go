// File: internal/service/lockout_guard_test.go
package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

const (
	testMaxAttempts = 5
	testWindow      = 15 * time.Minute
	testBlockFor    = 15 * time.Minute
)

func newTestGuard(store *MockAttemptStore) *LockoutGuard {
	return NewLockoutGuard(store, testMaxAttempts, testWindow, testBlockFor, zap.NewNop())
}

func TestLockoutGuard_RecordFailure_CountsDown(t *testing.T) {
	store := &MockAttemptStore{}
	guard := newTestGuard(store)
	ctx := context.Background()

	store.On("Increment", ctx, "login:attempts:user@example.com", testWindow).Return(int64(1), nil).Once()

	remaining, blocked := guard.RecordFailure(ctx, "user@example.com")

	assert.Equal(t, 4, remaining)
	assert.False(t, blocked)
	store.AssertExpectations(t)
}

func TestLockoutGuard_RecordFailure_BlocksAtThreshold(t *testing.T) {
	store := &MockAttemptStore{}
	guard := newTestGuard(store)
	ctx := context.Background()

	store.On("Increment", ctx, "login:attempts:user@example.com", testWindow).Return(int64(5), nil).Once()
	store.On("SetFlag", ctx, "login:blocked:user@example.com", testBlockFor).Return(nil).Once()

	remaining, blocked := guard.RecordFailure(ctx, "user@example.com")

	assert.Equal(t, 0, remaining)
	assert.True(t, blocked)
	store.AssertExpectations(t)
}

func TestLockoutGuard_IsBlocked(t *testing.T) {
	store := &MockAttemptStore{}
	guard := newTestGuard(store)
	ctx := context.Background()

	store.On("FlagExists", ctx, "login:blocked:user@example.com").Return(true, nil).Once()
	assert.True(t, guard.IsBlocked(ctx, "user@example.com"))

	store.On("FlagExists", ctx, "login:blocked:other@example.com").Return(false, nil).Once()
	assert.False(t, guard.IsBlocked(ctx, "other@example.com"))

	store.AssertExpectations(t)
}

func TestLockoutGuard_DegradesOpenOnStoreFailure(t *testing.T) {
	store := &MockAttemptStore{}
	guard := newTestGuard(store)
	ctx := context.Background()
	storeErr := errors.New("connection refused")

	store.On("FlagExists", ctx, mock.Anything).Return(false, storeErr).Once()
	assert.False(t, guard.IsBlocked(ctx, "user@example.com"))

	store.On("Increment", ctx, mock.Anything, testWindow).Return(int64(0), storeErr).Once()
	_, blocked := guard.RecordFailure(ctx, "user@example.com")
	assert.False(t, blocked)

	store.AssertExpectations(t)
}

func TestLockoutGuard_Reset(t *testing.T) {
	store := &MockAttemptStore{}
	guard := newTestGuard(store)
	ctx := context.Background()

	store.On("Delete", ctx, []string{"login:attempts:user@example.com", "login:blocked:user@example.com"}).Return(nil).Once()

	guard.Reset(ctx, "user@example.com")
	store.AssertExpectations(t)
}
