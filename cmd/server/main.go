package main

import (
	"github.com/codeclash-vn/codeclash/internal/app/server"
	"github.com/codeclash-vn/codeclash/pkg/logging"
	"go.uber.org/zap"
)

func main() {
	logging.Fatal("Battle server exited: ", zap.Error(
		server.NewServer().Start(),
	))
}
