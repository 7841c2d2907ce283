package server

import (
	"sync"
	"time"

	"github.com/codeclash-vn/codeclash/internal/domains/entities"
)

// waitingEntry is a parked, unmatched request for one game mode.
type waitingEntry struct {
	playerId    string
	displayName string
	sub         subscriber
	mode        entities.GameMode
	enqueuedAt  time.Time
}

// matchQueue holds at most one waiting entry per game mode. It is not a
// FIFO of arbitrary depth: the first request parks, the second pairs.
type matchQueue struct {
	mu      sync.Mutex
	waiting map[entities.GameMode]*waitingEntry
}

func newMatchQueue() *matchQueue {
	return &matchQueue{
		waiting: make(map[entities.GameMode]*waitingEntry),
	}
}

// enqueue parks the entry if the mode's slot is empty. If a counterpart
// is already parked it is removed and returned; the caller does not take
// the slot. Two concurrent calls for the same mode can never both park,
// and can never both claim the same counterpart.
func (q *matchQueue) enqueue(entry *waitingEntry) (*waitingEntry, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	counterpart, exists := q.waiting[entry.mode]
	if !exists {
		q.waiting[entry.mode] = entry
		return nil, false
	}
	delete(q.waiting, entry.mode)
	return counterpart, true
}

// removeByChannel clears any parked entry owned by the given channel.
// A channel with nothing parked is a no-op.
func (q *matchQueue) removeByChannel(channelId string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for mode, entry := range q.waiting {
		if entry.sub.ChannelId() == channelId {
			delete(q.waiting, mode)
		}
	}
}

func (q *matchQueue) parked(mode entities.GameMode) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	_, exists := q.waiting[mode]
	return exists
}
