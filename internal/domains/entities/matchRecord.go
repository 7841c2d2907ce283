package entities

import "time"

type BattleParticipant struct {
	PlayerId    string `dynamodbav:"PlayerId"`
	DisplayName string `dynamodbav:"DisplayName"`
}

// MatchRecord is the persisted outcome of one finished battle.
type MatchRecord struct {
	MatchId  string              `dynamodbav:"MatchId"`
	RoomId   string              `dynamodbav:"RoomId"`
	GameMode string              `dynamodbav:"GameMode"`
	WinnerId string              `dynamodbav:"WinnerId"`
	Players  []BattleParticipant `dynamodbav:"Players"`
	EndedAt  time.Time           `dynamodbav:"EndedAt"`
}
