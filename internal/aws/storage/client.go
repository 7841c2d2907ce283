package storage

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/spf13/viper"
)

// dynamoAPI is the slice of the DynamoDB client this package calls.
type dynamoAPI interface {
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

type Client struct {
	dynamodb dynamoAPI
	cfg      config
}

type config struct {
	LevelsTableName       *string
	UserScoresTableName   *string
	MatchRecordsTableName *string
}

func NewClient(dynamoClient *dynamodb.Client) *Client {
	return &Client{
		dynamodb: dynamoClient,
		cfg:      loadConfig(),
	}
}

func loadConfig() config {
	viper.SetDefault("LEVELS_TABLE_NAME", "Levels")
	viper.SetDefault("USER_SCORES_TABLE_NAME", "UserScores")
	viper.SetDefault("MATCH_RECORDS_TABLE_NAME", "MatchRecords")
	viper.AutomaticEnv()

	return config{
		LevelsTableName:       aws.String(viper.GetString("LEVELS_TABLE_NAME")),
		UserScoresTableName:   aws.String(viper.GetString("USER_SCORES_TABLE_NAME")),
		MatchRecordsTableName: aws.String(viper.GetString("MATCH_RECORDS_TABLE_NAME")),
	}
}
