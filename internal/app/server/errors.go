package server

import "errors"

var (
	ErrStatusUnknownGameMode  string = "UNKNOWN_GAME_MODE"
	ErrStatusLevelUnavailable string = "LEVEL_UNAVAILABLE"
	ErrStatusLevelInvalid     string = "LEVEL_INVALID"
	ErrStatusUnknownRoom      string = "UNKNOWN_ROOM"
)

var ErrRoomNotFound = errors.New("room not found")
