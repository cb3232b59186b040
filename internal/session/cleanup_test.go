package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voice-agent/internal/common/logger"
)

func TestCleanupService_StartStop(t *testing.T) {
	m := newTestManager(t)
	svc := NewCleanupService(m, 10*time.Millisecond, logger.NewTestLogger(t))

	svc.Start(context.Background())
	assert.True(t, svc.IsRunning())

	svc.Start(context.Background())
	assert.True(t, svc.IsRunning())

	svc.Stop()
	assert.False(t, svc.IsRunning())

	svc.Stop()
}

func TestCleanupService_RemovesIdleSessions(t *testing.T) {
	m := newTestManager(t, WithIdleTimeout(20*time.Millisecond))
	_, err := m.Start(context.Background(), StartRequest{ConversationID: "idle"})
	require.NoError(t, err)

	svc := NewCleanupService(m, 10*time.Millisecond, logger.NewTestLogger(t))
	svc.Start(context.Background())
	defer svc.Stop()

	assert.Eventually(t, func() bool {
		return m.Stats()["total"] == 0
	}, time.Second, 10*time.Millisecond)
}

func TestCleanupService_StopsWithContext(t *testing.T) {
	m := newTestManager(t)
	svc := NewCleanupService(m, time.Hour, logger.NewTestLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	svc.Start(ctx)
	cancel()

	assert.Eventually(t, func() bool { return !svc.IsRunning() }, time.Second, 5*time.Millisecond)
}
