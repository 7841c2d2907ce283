package main

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/codeclash-vn/codeclash/internal/app/ranking"
	"github.com/codeclash-vn/codeclash/internal/aws/storage"
	"github.com/codeclash-vn/codeclash/pkg/logging"
	"go.uber.org/zap"
)

// One-shot rank recompute, for running out of band of the server.
func main() {
	ctx := context.Background()
	cfg, _ := config.LoadDefaultConfig(ctx)
	storageClient := storage.NewClient(dynamodb.NewFromConfig(cfg))

	recomputer := ranking.NewRecomputer(storageClient, 0, ranking.DefaultBatchSize)
	if err := recomputer.Run(ctx); err != nil {
		logging.Fatal("rank recompute failed", zap.Error(err))
	}
	logging.Sync()
}
