package server

import (
	"testing"
	"time"

	"github.com/codeclash-vn/codeclash/internal/domains/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRoom(reg *roomRegistry) *room {
	return reg.create(
		entities.GameModeContest,
		participant{playerId: "alice", displayName: "Alice"},
		participant{playerId: "bob", displayName: "Bob"},
		entities.LevelSnapshot{LevelId: "lvl-1"},
	)
}

func TestBroadcastSkipsSender(t *testing.T) {
	reg := newRoomRegistry(time.Minute, 10*time.Minute)
	r := newTestRoom(reg)
	subA := &fakeSubscriber{channelId: "chA"}
	subB := &fakeSubscriber{channelId: "chB"}
	r.join(subA)
	r.join(subB)

	r.broadcast("chA", "hello")

	assert.Empty(t, subA.sent())
	require.Len(t, subB.sent(), 1)
	assert.Equal(t, "hello", subB.sent()[0])
}

func TestBroadcastWithNoOtherSubscriberIsDropped(t *testing.T) {
	reg := newRoomRegistry(time.Minute, 10*time.Minute)
	r := newTestRoom(reg)
	subA := &fakeSubscriber{channelId: "chA"}
	r.join(subA)

	r.broadcast("chA", "hello")

	assert.Empty(t, subA.sent())
}

func TestJoinIsIdempotent(t *testing.T) {
	reg := newRoomRegistry(time.Minute, 10*time.Minute)
	r := newTestRoom(reg)
	sub := &fakeSubscriber{channelId: "chA"}

	r.join(sub)
	r.join(sub)

	assert.Equal(t, 1, r.subscriberCount())
}

func TestDropChannelLeavesAllRooms(t *testing.T) {
	reg := newRoomRegistry(time.Minute, 10*time.Minute)
	room1 := newTestRoom(reg)
	room2 := newTestRoom(reg)
	sub := &fakeSubscriber{channelId: "chA"}
	room1.join(sub)
	room2.join(sub)

	reg.dropChannel("chA")

	assert.Equal(t, 0, room1.subscriberCount())
	assert.Equal(t, 0, room2.subscriberCount())
}

func TestSweepRemovesLingeredEndedRooms(t *testing.T) {
	reg := newRoomRegistry(time.Minute, 10*time.Minute)
	r := newTestRoom(reg)
	r.markEnded()

	removed := reg.sweep(time.Now().Add(2 * time.Minute))

	assert.Equal(t, 1, removed)
	_, exists := reg.get(r.id)
	assert.False(t, exists)
}

func TestSweepKeepsFreshEndedRooms(t *testing.T) {
	reg := newRoomRegistry(time.Minute, 10*time.Minute)
	r := newTestRoom(reg)
	r.markEnded()

	removed := reg.sweep(time.Now())

	assert.Equal(t, 0, removed)
	_, exists := reg.get(r.id)
	assert.True(t, exists)
}

func TestSweepRemovesAbandonedRooms(t *testing.T) {
	reg := newRoomRegistry(time.Minute, 10*time.Minute)
	r := newTestRoom(reg)

	removed := reg.sweep(time.Now().Add(11 * time.Minute))

	assert.Equal(t, 1, removed)
	_, exists := reg.get(r.id)
	assert.False(t, exists)
}

func TestSweepKeepsActiveRooms(t *testing.T) {
	reg := newRoomRegistry(time.Minute, 10*time.Minute)
	r := newTestRoom(reg)
	sub := &fakeSubscriber{channelId: "chA"}
	r.join(sub)

	removed := reg.sweep(time.Now().Add(11 * time.Minute))

	assert.Equal(t, 0, removed)
}

func TestMarkEndedOnlyFirstCallSetsTime(t *testing.T) {
	reg := newRoomRegistry(time.Minute, 10*time.Minute)
	r := newTestRoom(reg)

	r.markEnded()
	first := r.endedTime()
	time.Sleep(5 * time.Millisecond)
	r.markEnded()

	assert.True(t, r.isEnded())
	assert.Equal(t, first, r.endedTime())
}
