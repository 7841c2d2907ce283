package storage

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/codeclash-vn/codeclash/internal/domains/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDynamo struct {
	firstPage  *dynamodb.QueryOutput
	secondPage *dynamodb.QueryOutput
}

func (f *fakeDynamo) Query(ctx context.Context, params *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	if params.ExclusiveStartKey == nil {
		return f.firstPage, nil
	}
	return f.secondPage, nil
}

func (f *fakeDynamo) Scan(ctx context.Context, params *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	return &dynamodb.ScanOutput{}, nil
}

func (f *fakeDynamo) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	return &dynamodb.UpdateItemOutput{}, nil
}

func (f *fakeDynamo) PutItem(ctx context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	return &dynamodb.PutItemOutput{}, nil
}

func levelPage(t *testing.T, lastKey map[string]types.AttributeValue, levels ...entities.Level) *dynamodb.QueryOutput {
	t.Helper()
	items := make([]map[string]types.AttributeValue, 0, len(levels))
	for _, level := range levels {
		av, err := attributevalue.MarshalMap(level)
		require.NoError(t, err)
		items = append(items, av)
	}
	return &dynamodb.QueryOutput{Items: items, LastEvaluatedKey: lastKey}
}

func TestFetchRandomLevelPicksFromAllPages(t *testing.T) {
	lastKey := map[string]types.AttributeValue{
		"LevelId": &types.AttributeValueMemberS{Value: "lvl-1"},
	}
	client := &Client{
		dynamodb: &fakeDynamo{
			firstPage:  levelPage(t, lastKey, entities.Level{LevelId: "lvl-1", BuggyCode: "x"}),
			secondPage: levelPage(t, nil, entities.Level{LevelId: "lvl-2", BuggyCode: "y"}),
		},
		cfg: loadConfig(),
	}

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		level, err := client.FetchRandomLevel(context.Background(), entities.GameModeDebugging)
		require.NoError(t, err)
		seen[level.LevelId] = true
	}

	assert.True(t, seen["lvl-1"])
	assert.True(t, seen["lvl-2"], "levels past the first query page must be candidates")
}

func TestFetchRandomLevelNotFound(t *testing.T) {
	client := &Client{
		dynamodb: &fakeDynamo{firstPage: levelPage(t, nil)},
		cfg:      loadConfig(),
	}

	_, err := client.FetchRandomLevel(context.Background(), entities.GameModeContest)
	assert.ErrorIs(t, err, ErrLevelNotFound)
}
