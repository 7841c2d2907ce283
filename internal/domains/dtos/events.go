package dtos

import (
	"time"

	"github.com/codeclash-vn/codeclash/internal/domains/entities"
)

// Inbound payloads, one per websocket event type.

type FindMatchRequest struct {
	PlayerId    string `json:"playerId"`
	DisplayName string `json:"displayName"`
	GameMode    string `json:"gameMode"`
}

type JoinRoomRequest struct {
	RoomId string `json:"roomId"`
}

type CodeUpdateRequest struct {
	RoomId string `json:"roomId"`
	Code   string `json:"code"`
}

type ProgressUpdateRequest struct {
	RoomId   string `json:"roomId"`
	Progress int    `json:"progress"`
}

type GiveUpRequest struct {
	RoomId string `json:"roomId"`
	Loser  string `json:"loser"`
}

type ChallengeCompletedRequest struct {
	RoomId string `json:"roomId"`
	Winner string `json:"winner"`
}

// Outbound payloads. Each carries its own event type so a response can
// be written to the socket as-is.

type OpponentResponse struct {
	PlayerId    string `json:"playerId"`
	DisplayName string `json:"displayName"`
}

type LevelResponse struct {
	LevelId          string              `json:"levelId"`
	Title            string              `json:"title"`
	Difficulty       string              `json:"difficulty"`
	Points           int                 `json:"points"`
	TestCases        []entities.TestCase `json:"testCases,omitempty"`
	Code             string              `json:"code,omitempty"`
	TimeLimitSeconds int                 `json:"timeLimitSeconds,omitempty"`
	BuggyCode        string              `json:"buggyCode,omitempty"`
}

type MatchFoundResponse struct {
	Type     string           `json:"type"`
	RoomId   string           `json:"roomId"`
	GameMode string           `json:"gameMode"`
	Level    LevelResponse    `json:"level"`
	Opponent OpponentResponse `json:"opponent"`
}

type MatchErrorResponse struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

type CodeUpdateResponse struct {
	Type   string `json:"type"`
	RoomId string `json:"roomId"`
	Code   string `json:"code"`
}

type ProgressUpdateResponse struct {
	Type     string `json:"type"`
	RoomId   string `json:"roomId"`
	Progress int    `json:"progress"`
}

type OpponentGaveUpResponse struct {
	Type      string    `json:"type"`
	Loser     string    `json:"loser"`
	Timestamp time.Time `json:"timestamp"`
}

type ChallengeWonResponse struct {
	Type      string    `json:"type"`
	Winner    string    `json:"winner"`
	Timestamp time.Time `json:"timestamp"`
}

type OpponentWonChallengeResponse struct {
	Type      string    `json:"type"`
	Winner    string    `json:"winner"`
	Timestamp time.Time `json:"timestamp"`
}

func LevelResponseFromSnapshot(snapshot entities.LevelSnapshot) LevelResponse {
	return LevelResponse{
		LevelId:          snapshot.LevelId,
		Title:            snapshot.Title,
		Difficulty:       snapshot.Difficulty,
		Points:           snapshot.Points,
		TestCases:        snapshot.TestCases,
		Code:             snapshot.Code,
		TimeLimitSeconds: snapshot.TimeLimitSeconds,
		BuggyCode:        snapshot.BuggyCode,
	}
}
