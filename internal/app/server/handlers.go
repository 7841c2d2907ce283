package server

import (
	"context"
	"encoding/json"

	"github.com/codeclash-vn/codeclash/internal/domains/dtos"
	"github.com/codeclash-vn/codeclash/internal/domains/entities"
	"github.com/codeclash-vn/codeclash/pkg/logging"
	"github.com/codeclash-vn/codeclash/pkg/utils"
	"go.uber.org/zap"
)

// Handler for one inbound websocket message.
func (s *server) handleWebSocketMessage(ctx context.Context, cl *client, p payload) {
	switch p.Type {
	case "find_match":
		var req dtos.FindMatchRequest
		if !s.decode(cl, p.Data, &req) {
			return
		}
		s.coordinator.requestMatch(ctx, cl, req)
	case "join_room":
		var req dtos.JoinRoomRequest
		if !s.decode(cl, p.Data, &req) {
			return
		}
		if err := s.coordinator.joinRoom(cl, req.RoomId); err != nil {
			s.sendRoomError(cl, req.RoomId, err)
		}
	case "code_update":
		var req dtos.CodeUpdateRequest
		if !s.decode(cl, p.Data, &req) {
			return
		}
		err := s.coordinator.relay(req.RoomId, cl.ChannelId(), dtos.CodeUpdateResponse{
			Type:   "code_update",
			RoomId: req.RoomId,
			Code:   req.Code,
		})
		if err != nil {
			s.sendRoomError(cl, req.RoomId, err)
		}
	case "progress_update":
		var req dtos.ProgressUpdateRequest
		if !s.decode(cl, p.Data, &req) {
			return
		}
		err := s.coordinator.relay(req.RoomId, cl.ChannelId(), dtos.ProgressUpdateResponse{
			Type:     "progress_update",
			RoomId:   req.RoomId,
			Progress: req.Progress,
		})
		if err != nil {
			s.sendRoomError(cl, req.RoomId, err)
		}
	case "give_up":
		var req dtos.GiveUpRequest
		if !s.decode(cl, p.Data, &req) {
			return
		}
		if err := s.coordinator.reportGiveUp(cl, req); err != nil {
			s.sendRoomError(cl, req.RoomId, err)
		}
	case "challenge_completed":
		var req dtos.ChallengeCompletedRequest
		if !s.decode(cl, p.Data, &req) {
			return
		}
		battleRoom, err := s.coordinator.reportCompletion(cl, req)
		if err != nil {
			s.sendRoomError(cl, req.RoomId, err)
			return
		}
		go s.recordBattleResult(battleRoom, req.Winner)
	default:
		logging.Info("invalid payload type", zap.String("type", p.Type))
	}
}

// Handler for when a client connection closes.
func (s *server) handleClientDisconnect(cl *client) {
	s.coordinator.disconnect(cl.ChannelId())
	logging.Info("client disconnected", zap.String("channel_id", cl.ChannelId()))
}

// recordBattleResult persists the outcome and credits the winner. Errors
// stay out of the room; the rank recomputer picks the increment up on its
// next tick.
func (s *server) recordBattleResult(battleRoom *room, winnerId string) {
	if s.storageClient == nil {
		return
	}

	players := make([]entities.BattleParticipant, 0, len(battleRoom.participants))
	winnerKnown := false
	for _, p := range battleRoom.participants {
		players = append(players, entities.BattleParticipant{
			PlayerId:    p.playerId,
			DisplayName: p.displayName,
		})
		if p.playerId == winnerId {
			winnerKnown = true
		}
	}
	if !winnerKnown {
		logging.Warn("completion reported by non-participant, not recording",
			zap.String("room_id", battleRoom.id),
			zap.String("winner_id", winnerId),
		)
		return
	}

	ctx := context.Background()
	err := s.storageClient.PutMatchRecord(ctx, entities.MatchRecord{
		MatchId:  utils.GenerateUUID(),
		RoomId:   battleRoom.id,
		GameMode: string(battleRoom.mode),
		WinnerId: winnerId,
		Players:  players,
		EndedAt:  battleRoom.endedTime(),
	})
	if err != nil {
		logging.Error("failed to record battle result",
			zap.String("room_id", battleRoom.id),
			zap.Error(err),
		)
	}
	if err := s.storageClient.AddBattleScore(ctx, winnerId, s.config.BattleWinPoints); err != nil {
		logging.Error("failed to credit battle score",
			zap.String("winner_id", winnerId),
			zap.Error(err),
		)
	}
}

func (s *server) decode(cl *client, data json.RawMessage, v interface{}) bool {
	if err := json.Unmarshal(data, v); err != nil {
		logging.Info("malformed payload data",
			zap.String("channel_id", cl.ChannelId()),
			zap.Error(err),
		)
		return false
	}
	return true
}

func (s *server) sendRoomError(cl *client, roomId string, err error) {
	logging.Info("room operation failed",
		zap.String("room_id", roomId),
		zap.Error(err),
	)
	cl.Send(errorResponse{
		Type:  "error",
		Error: ErrStatusUnknownRoom,
	})
}
