package session

import (
	"context"
	"sync"
	"time"

	"voice-agent/internal/common/logger"
)

// DefaultCleanupInterval is the default interval at which idle sessions are cleaned up.
const DefaultCleanupInterval = 1 * time.Minute

// CleanupService periodically drops idle sessions.
type CleanupService struct {
	manager  *Manager
	interval time.Duration
	logger   logger.Logger
	cancel   context.CancelFunc
	done     chan struct{}
	mu       sync.Mutex
	running  bool
}

func NewCleanupService(manager *Manager, interval time.Duration, log logger.Logger) *CleanupService {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	return &CleanupService{
		manager:  manager,
		interval: interval,
		logger:   log.With(map[string]interface{}{"component": "session.cleanup"}),
	}
}

// Start is a no-op when the service is already running.
func (c *CleanupService) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return
	}

	cleanupCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})
	c.running = true

	go c.run(cleanupCtx, c.done)
}

// Stop cancels the loop and waits for it to exit.
func (c *CleanupService) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	cancel := c.cancel
	done := c.done
	c.mu.Unlock()

	cancel()
	<-done
}

func (c *CleanupService) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

func (c *CleanupService) run(ctx context.Context, done chan struct{}) {
	defer func() {
		c.mu.Lock()
		c.running = false
		close(done)
		c.mu.Unlock()
	}()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("cleanup service stopping", nil)
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

func (c *CleanupService) cleanup() {
	start := time.Now()
	removed := c.manager.CleanupExpired()
	if removed > 0 {
		c.logger.Info("cleaned up idle sessions", map[string]interface{}{
			"removed":  removed,
			"duration": time.Since(start).String(),
		})
	}

	stats := c.manager.Stats()
	c.logger.Debug("session stats after cleanup", map[string]interface{}{
		"total":  stats["total"],
		"active": stats["active"],
	})
}
