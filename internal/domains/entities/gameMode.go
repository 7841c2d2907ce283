package entities

import "fmt"

// GameMode selects the battle format and the mandatory fields a level
// must carry to be playable in that format.
type GameMode string

const (
	GameModeContest   GameMode = "contest"
	GameModeDebugging GameMode = "debugging"
	GameModeFlashcode GameMode = "flashcode"
)

var ErrUnknownGameMode = fmt.Errorf("unknown game mode")

func ParseGameMode(s string) (GameMode, error) {
	switch GameMode(s) {
	case GameModeContest, GameModeDebugging, GameModeFlashcode:
		return GameMode(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownGameMode, s)
}
