package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rileyhilliard/hostmon/internal/config"
	"github.com/rileyhilliard/hostmon/internal/history"
	"github.com/rileyhilliard/hostmon/internal/logger"
	sourcetesting "github.com/rileyhilliard/hostmon/internal/source/testing"
)

func TestNewSessionSeedsScheduler(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.FPS = 30
	cfg.Paused = true
	cfg.ProcessInterval = 2 * time.Second
	cfg.Scales.CPU = 150

	clock := &manualClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	sess := newSession(cfg, sourcetesting.NewFakeSource(), "fake", "nginx", logger.Noop(), clock)
	sched := sess.Scheduler()

	assert.Equal(t, clock.Now(), sched.Now())
	assert.Equal(t, 30, sched.FPS())
	assert.True(t, sched.Paused())
	assert.Equal(t, 2*time.Second, sched.ProcessInterval())
	assert.Equal(t, 150.0, sched.YScale(history.CPU))
	assert.Equal(t, "nginx", sess.State().Filter)
}

func TestNewSessionDefaultsToSystemClock(t *testing.T) {
	sess := newSession(config.DefaultConfig(), sourcetesting.NewFakeSource(), "fake", "", logger.Noop(), nil)

	before := time.Now()
	now := sess.Scheduler().Now()
	assert.False(t, now.Before(before.Add(-time.Second)))
}
