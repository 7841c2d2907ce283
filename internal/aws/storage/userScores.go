package storage

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/codeclash-vn/codeclash/internal/domains/entities"
)

// FetchUserScores scans the whole user score table, following pagination
// until the scan is exhausted. The recomputer works on this one snapshot.
func (client *Client) FetchUserScores(ctx context.Context) ([]entities.UserScore, error) {
	var userScores []entities.UserScore
	var lastKey map[string]types.AttributeValue
	for {
		output, err := client.dynamodb.Scan(ctx, &dynamodb.ScanInput{
			TableName:         client.cfg.UserScoresTableName,
			ExclusiveStartKey: lastKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan user scores: %w", err)
		}
		var page []entities.UserScore
		if err := attributevalue.UnmarshalListOfMaps(output.Items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal user scores: %w", err)
		}
		userScores = append(userScores, page...)
		if output.LastEvaluatedKey == nil {
			return userScores, nil
		}
		lastKey = output.LastEvaluatedKey
	}
}

// UpdateUserRank overwrites the derived honor score and rank for one user.
func (client *Client) UpdateUserRank(
	ctx context.Context,
	userId string,
	userRank entities.UserRank,
) error {
	_, err := client.dynamodb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: client.cfg.UserScoresTableName,
		Key: map[string]types.AttributeValue{
			"UserId": &types.AttributeValueMemberS{Value: userId},
		},
		UpdateExpression: aws.String("SET HonorScore = :honorScore, #rank = :rank"),
		ExpressionAttributeNames: map[string]string{
			"#rank": "Rank",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":honorScore": &types.AttributeValueMemberN{Value: strconv.Itoa(userRank.HonorScore)},
			":rank":       &types.AttributeValueMemberN{Value: strconv.Itoa(userRank.Rank)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to update user rank: %w", err)
	}
	return nil
}

// AddBattleScore credits a battle win. The increment is folded into the
// honor score on the next recompute tick.
func (client *Client) AddBattleScore(ctx context.Context, userId string, points int) error {
	_, err := client.dynamodb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: client.cfg.UserScoresTableName,
		Key: map[string]types.AttributeValue{
			"UserId": &types.AttributeValueMemberS{Value: userId},
		},
		UpdateExpression: aws.String("ADD BattleScore :points"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":points": &types.AttributeValueMemberN{Value: strconv.Itoa(points)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to add battle score: %w", err)
	}
	return nil
}

// PutMatchRecord persists the outcome of one finished battle.
func (client *Client) PutMatchRecord(ctx context.Context, record entities.MatchRecord) error {
	av, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("failed to marshal match record map: %w", err)
	}
	_, err = client.dynamodb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: client.cfg.MatchRecordsTableName,
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("failed to put match record: %w", err)
	}
	return nil
}
