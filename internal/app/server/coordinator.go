package server

import (
	"context"
	"time"

	"github.com/codeclash-vn/codeclash/internal/domains/dtos"
	"github.com/codeclash-vn/codeclash/internal/domains/entities"
	"github.com/codeclash-vn/codeclash/pkg/logging"
	"go.uber.org/zap"
)

// LevelProvider supplies a candidate level for a game mode at pairing time.
type LevelProvider interface {
	FetchRandomLevel(ctx context.Context, mode entities.GameMode) (entities.Level, error)
}

// coordinator pairs battle requests and relays in-room traffic. All queue
// and registry mutations happen under their own locks; the one suspension
// point is the level fetch inside requestMatch, which runs only after both
// identities have been captured.
type coordinator struct {
	queue  *matchQueue
	rooms  *roomRegistry
	levels LevelProvider
}

func newCoordinator(levels LevelProvider, rooms *roomRegistry) *coordinator {
	return &coordinator{
		queue:  newMatchQueue(),
		rooms:  rooms,
		levels: levels,
	}
}

// requestMatch parks the request or, when a counterpart is waiting,
// creates a room around a freshly fetched level and notifies both sides.
func (c *coordinator) requestMatch(ctx context.Context, sub subscriber, req dtos.FindMatchRequest) {
	mode, err := entities.ParseGameMode(req.GameMode)
	if err != nil {
		sub.Send(dtos.MatchErrorResponse{
			Type:    "match_error",
			Message: "unknown game mode: " + req.GameMode,
			Error:   ErrStatusUnknownGameMode,
		})
		return
	}

	requester := &waitingEntry{
		playerId:    req.PlayerId,
		displayName: req.DisplayName,
		sub:         sub,
		mode:        mode,
		enqueuedAt:  time.Now(),
	}
	counterpart, paired := c.queue.enqueue(requester)
	if !paired {
		logging.Info("player parked for match",
			zap.String("player_id", req.PlayerId),
			zap.String("game_mode", req.GameMode),
		)
		return
	}

	// Both identities are fixed from here on. The slot is already clear,
	// so a third request for this mode may race in during the level fetch
	// without touching this pairing.
	level, err := c.levels.FetchRandomLevel(ctx, mode)
	if err != nil {
		c.failPairing(requester, counterpart, "no level available for "+req.GameMode, ErrStatusLevelUnavailable, err)
		return
	}
	if err := level.ValidateForMode(mode); err != nil {
		c.failPairing(requester, counterpart, "level unplayable for "+req.GameMode, ErrStatusLevelInvalid, err)
		return
	}

	snapshot := level.Snapshot()
	battleRoom := c.rooms.create(
		mode,
		participant{playerId: requester.playerId, displayName: requester.displayName},
		participant{playerId: counterpart.playerId, displayName: counterpart.displayName},
		snapshot,
	)

	levelResp := dtos.LevelResponseFromSnapshot(snapshot)
	c.notifyMatchFound(requester, counterpart, battleRoom, levelResp)
	c.notifyMatchFound(counterpart, requester, battleRoom, levelResp)

	logging.Info("match found",
		zap.String("room_id", battleRoom.id),
		zap.String("game_mode", req.GameMode),
		zap.String("player1_id", requester.playerId),
		zap.String("player2_id", counterpart.playerId),
	)
}

// failPairing notifies both captured sides. The counterpart's own request
// completed the moment its slot was cleared, so without this it would be
// stranded waiting on a pairing that no longer exists.
func (c *coordinator) failPairing(requester, counterpart *waitingEntry, message, status string, err error) {
	logging.Error("pairing failed",
		zap.String("game_mode", string(requester.mode)),
		zap.String("requester_id", requester.playerId),
		zap.String("counterpart_id", counterpart.playerId),
		zap.Error(err),
	)
	resp := dtos.MatchErrorResponse{
		Type:    "match_error",
		Message: message,
		Error:   status,
	}
	requester.sub.Send(resp)
	counterpart.sub.Send(resp)
}

func (c *coordinator) notifyMatchFound(to, opponent *waitingEntry, battleRoom *room, level dtos.LevelResponse) {
	err := to.sub.Send(dtos.MatchFoundResponse{
		Type:     "match_found",
		RoomId:   battleRoom.id,
		GameMode: string(battleRoom.mode),
		Level:    level,
		Opponent: dtos.OpponentResponse{
			PlayerId:    opponent.playerId,
			DisplayName: opponent.displayName,
		},
	})
	if err != nil {
		logging.Error("failed to notify matched player",
			zap.String("room_id", battleRoom.id),
			zap.String("player_id", to.playerId),
			zap.Error(err),
		)
	}
}

func (c *coordinator) joinRoom(sub subscriber, roomId string) error {
	battleRoom, exists := c.rooms.get(roomId)
	if !exists {
		return ErrRoomNotFound
	}
	battleRoom.join(sub)
	return nil
}

// relay broadcasts the payload to every subscriber of the room except the
// sender. No acknowledgment, no persistence.
func (c *coordinator) relay(roomId, senderChannelId string, v interface{}) error {
	battleRoom, exists := c.rooms.get(roomId)
	if !exists {
		return ErrRoomNotFound
	}
	battleRoom.broadcast(senderChannelId, v)
	return nil
}

// reportGiveUp broadcasts a forfeit to the rest of the room.
func (c *coordinator) reportGiveUp(sub subscriber, req dtos.GiveUpRequest) error {
	battleRoom, exists := c.rooms.get(req.RoomId)
	if !exists {
		return ErrRoomNotFound
	}
	battleRoom.broadcast(sub.ChannelId(), dtos.OpponentGaveUpResponse{
		Type:      "opponent_gave_up",
		Loser:     req.Loser,
		Timestamp: time.Now(),
	})
	battleRoom.markEnded()
	return nil
}

// reportCompletion answers the sender with challenge_won and tells the
// rest of the room the challenge was taken. Competing completion claims
// are each delivered as-is; no exclusivity is enforced.
func (c *coordinator) reportCompletion(sub subscriber, req dtos.ChallengeCompletedRequest) (*room, error) {
	battleRoom, exists := c.rooms.get(req.RoomId)
	if !exists {
		return nil, ErrRoomNotFound
	}
	now := time.Now()
	if err := sub.Send(dtos.ChallengeWonResponse{
		Type:      "challenge_won",
		Winner:    req.Winner,
		Timestamp: now,
	}); err != nil {
		logging.Error("failed to notify winner",
			zap.String("room_id", req.RoomId),
			zap.Error(err),
		)
	}
	battleRoom.broadcast(sub.ChannelId(), dtos.OpponentWonChallengeResponse{
		Type:      "opponent_won_challenge",
		Winner:    req.Winner,
		Timestamp: now,
	})
	battleRoom.markEnded()
	return battleRoom, nil
}

// disconnect clears everything owned by a closed channel: a parked match
// request, if any, and every room subscription.
func (c *coordinator) disconnect(channelId string) {
	c.queue.removeByChannel(channelId)
	c.rooms.dropChannel(channelId)
}
