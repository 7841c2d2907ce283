package entities

import "fmt"

var ErrLevelInvalid = fmt.Errorf("level missing mandatory fields")

type TestCase struct {
	Input  string `dynamodbav:"Input" json:"input"`
	Output string `dynamodbav:"Output" json:"output"`
}

// Level is a challenge as stored, covering the superset of fields used
// by the three game modes.
type Level struct {
	LevelId          string     `dynamodbav:"LevelId"`
	GameMode         string     `dynamodbav:"GameMode"`
	Title            string     `dynamodbav:"Title"`
	Difficulty       string     `dynamodbav:"Difficulty"`
	Points           int        `dynamodbav:"Points"`
	TestCases        []TestCase `dynamodbav:"TestCases"`
	Code             string     `dynamodbav:"Code"`
	TimeLimitSeconds int        `dynamodbav:"TimeLimitSeconds"`
	BuggyCode        string     `dynamodbav:"BuggyCode"`
}

// LevelSnapshot is the immutable subset of a level embedded into a room
// at pairing time.
type LevelSnapshot struct {
	LevelId          string
	Title            string
	Difficulty       string
	Points           int
	TestCases        []TestCase
	Code             string
	TimeLimitSeconds int
	BuggyCode        string
}

// ValidateForMode checks the mandatory fields for the given mode.
// Missing mandatory fields are never defaulted; only cosmetic fields
// (difficulty, points) get substitutes, and that happens in Snapshot.
func (l Level) ValidateForMode(mode GameMode) error {
	switch mode {
	case GameModeContest:
		if len(l.TestCases) == 0 {
			return fmt.Errorf("%w: contest level %q has no test cases", ErrLevelInvalid, l.LevelId)
		}
	case GameModeFlashcode:
		if l.Code == "" {
			return fmt.Errorf("%w: flashcode level %q has no code payload", ErrLevelInvalid, l.LevelId)
		}
		if l.TimeLimitSeconds <= 0 {
			return fmt.Errorf("%w: flashcode level %q has no positive time limit", ErrLevelInvalid, l.LevelId)
		}
	case GameModeDebugging:
		if l.BuggyCode == "" {
			return fmt.Errorf("%w: debugging level %q has no buggy source", ErrLevelInvalid, l.LevelId)
		}
	default:
		return ErrUnknownGameMode
	}
	return nil
}

// Snapshot freezes the level for embedding into a room. Cosmetic fields
// fall back to display defaults when absent.
func (l Level) Snapshot() LevelSnapshot {
	difficulty := l.Difficulty
	if difficulty == "" {
		difficulty = "medium"
	}
	points := l.Points
	if points == 0 {
		points = 100
	}
	return LevelSnapshot{
		LevelId:          l.LevelId,
		Title:            l.Title,
		Difficulty:       difficulty,
		Points:           points,
		TestCases:        l.TestCases,
		Code:             l.Code,
		TimeLimitSeconds: l.TimeLimitSeconds,
		BuggyCode:        l.BuggyCode,
	}
}
