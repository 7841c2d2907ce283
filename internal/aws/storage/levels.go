package storage

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/codeclash-vn/codeclash/internal/domains/entities"
)

var ErrLevelNotFound = fmt.Errorf("no level found for game mode")

// FetchRandomLevel returns a uniformly random level for the given mode,
// following query pagination so every level is a candidate.
func (client *Client) FetchRandomLevel(
	ctx context.Context,
	mode entities.GameMode,
) (
	entities.Level,
	error,
) {
	var levels []entities.Level
	var lastKey map[string]types.AttributeValue
	for {
		output, err := client.dynamodb.Query(ctx, &dynamodb.QueryInput{
			TableName:              client.cfg.LevelsTableName,
			IndexName:              aws.String("GameModeIndex"),
			KeyConditionExpression: aws.String("GameMode = :gameMode"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":gameMode": &types.AttributeValueMemberS{Value: string(mode)},
			},
			ExclusiveStartKey: lastKey,
		})
		if err != nil {
			return entities.Level{}, fmt.Errorf("failed to query levels: %w", err)
		}
		var page []entities.Level
		if err := attributevalue.UnmarshalListOfMaps(output.Items, &page); err != nil {
			return entities.Level{}, fmt.Errorf("failed to unmarshal levels: %w", err)
		}
		levels = append(levels, page...)
		if output.LastEvaluatedKey == nil {
			break
		}
		lastKey = output.LastEvaluatedKey
	}
	if len(levels) == 0 {
		return entities.Level{}, fmt.Errorf("%w: %s", ErrLevelNotFound, mode)
	}
	return levels[rand.Intn(len(levels))], nil
}
