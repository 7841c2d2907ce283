package server

import (
	"sync"
	"time"

	"github.com/codeclash-vn/codeclash/internal/domains/entities"
	"github.com/codeclash-vn/codeclash/pkg/logging"
	"github.com/codeclash-vn/codeclash/pkg/utils"
	"go.uber.org/zap"
)

type participant struct {
	playerId    string
	displayName string
}

// room is the ephemeral context of one live battle: exactly two
// participants and the level snapshot fixed at pairing time. Transport
// channels subscribe to it for relay traffic.
type room struct {
	id           string
	mode         entities.GameMode
	participants [2]participant
	level        entities.LevelSnapshot
	createdAt    time.Time

	mu           sync.Mutex
	subscribers  map[string]subscriber
	ended        bool
	endedAt      time.Time
	lastActivity time.Time
}

// join subscribes a channel to the room's relay group. Joining twice has
// no additional effect.
func (r *room) join(sub subscriber) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subscribers[sub.ChannelId()] = sub
	r.lastActivity = time.Now()
}

func (r *room) leave(channelId string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.subscribers, channelId)
}

// broadcast delivers the payload to every subscriber except the sender.
// Fire and forget: write failures are logged, never retried, and a room
// with no other subscriber drops the payload silently.
func (r *room) broadcast(senderChannelId string, v interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastActivity = time.Now()
	for channelId, sub := range r.subscribers {
		if channelId == senderChannelId {
			continue
		}
		if err := sub.Send(v); err != nil {
			logging.Error("failed to relay to subscriber",
				zap.String("room_id", r.id),
				zap.String("channel_id", channelId),
				zap.Error(err),
			)
		}
	}
}

// markEnded records that a terminal event has been broadcast. Terminal
// events stay non-exclusive; only the first call flips the flag.
func (r *room) markEnded() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ended {
		return
	}
	r.ended = true
	r.endedAt = time.Now()
}

func (r *room) endedTime() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.endedAt
}

func (r *room) isEnded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ended
}

func (r *room) subscriberCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subscribers)
}

// roomRegistry owns every live room. Rooms are created at pairing time
// and reaped by sweep once ended or abandoned, so the registry stays
// bounded over the process lifetime.
type roomRegistry struct {
	mu    sync.Mutex
	rooms map[string]*room

	linger      time.Duration
	idleTimeout time.Duration
}

func newRoomRegistry(linger, idleTimeout time.Duration) *roomRegistry {
	return &roomRegistry{
		rooms:       make(map[string]*room),
		linger:      linger,
		idleTimeout: idleTimeout,
	}
}

func (reg *roomRegistry) create(
	mode entities.GameMode,
	player1,
	player2 participant,
	level entities.LevelSnapshot,
) *room {
	now := time.Now()
	newRoom := &room{
		id:           utils.GenerateUUID(),
		mode:         mode,
		participants: [2]participant{player1, player2},
		level:        level,
		createdAt:    now,
		subscribers:  make(map[string]subscriber),
		lastActivity: now,
	}
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.rooms[newRoom.id] = newRoom
	return newRoom
}

func (reg *roomRegistry) get(roomId string) (*room, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	r, exists := reg.rooms[roomId]
	return r, exists
}

// dropChannel removes the channel from every room it subscribed to.
func (reg *roomRegistry) dropChannel(channelId string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	for _, r := range reg.rooms {
		r.leave(channelId)
	}
}

// sweep removes rooms that finished longer than the linger period ago,
// and rooms with no remaining subscribers that have been idle past the
// idle timeout. Returns the number of rooms removed.
func (reg *roomRegistry) sweep(now time.Time) int {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	removed := 0
	for roomId, r := range reg.rooms {
		r.mu.Lock()
		expired := (r.ended && now.Sub(r.endedAt) > reg.linger) ||
			(len(r.subscribers) == 0 && now.Sub(r.lastActivity) > reg.idleTimeout)
		r.mu.Unlock()
		if expired {
			delete(reg.rooms, roomId)
			removed++
		}
	}
	return removed
}
