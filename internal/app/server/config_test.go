package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, "7202", cfg.Port)
	assert.Equal(t, 60*time.Second, cfg.IdleTimeout)
	assert.Equal(t, 5*time.Minute, cfg.RankInterval)
	assert.Equal(t, 50, cfg.RankBatchSize)
	assert.Equal(t, time.Minute, cfg.RoomSweepInterval)
	assert.Equal(t, time.Minute, cfg.RoomLinger)
	assert.Equal(t, 10*time.Minute, cfg.RoomIdleTimeout)
	assert.Equal(t, 10, cfg.BattleWinPoints)
}
