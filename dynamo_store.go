package lessonstore

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoConfig carries the settings for the hosted backend.
type DynamoConfig struct {
	Region    string
	Endpoint  string // optional, for DynamoDB Local
	TableName string
}

// DynamoStore keeps the key namespace in a DynamoDB table, one item per
// storage key (PK = the key itself, "v" = the string value). Desktop builds
// that park their state in the user's own table use this instead of Badger.
type DynamoStore struct {
	client    *dynamodb.Client
	tableName string
}

// NewDynamoStore loads AWS configuration and returns a table-bound store.
func NewDynamoStore(ctx context.Context, cfg DynamoConfig) (*DynamoStore, error) {
	var opts []func(*config.LoadOptions) error
	opts = append(opts, config.WithRegion(cfg.Region))

	if cfg.Endpoint != "" {
		opts = append(opts, config.WithBaseEndpoint(cfg.Endpoint))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &DynamoStore{
		client:    dynamodb.NewFromConfig(awsCfg),
		tableName: cfg.TableName,
	}, nil
}

func (s *DynamoStore) Get(ctx context.Context, key string) (string, bool, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: key},
		},
	})
	if err != nil {
		return "", false, fmt.Errorf("GetItem %s: %w", key, err)
	}

	if out.Item == nil {
		return "", false, nil
	}

	attr, ok := out.Item["v"]
	if !ok {
		return "", false, nil
	}
	sv, ok := attr.(*types.AttributeValueMemberS)
	if !ok {
		return "", false, fmt.Errorf("GetItem %s: value attribute is not a string", key)
	}
	return sv.Value, true, nil
}

func (s *DynamoStore) Set(ctx context.Context, key, value string) error {
	now := time.Now().UTC().Format(time.RFC3339)

	_, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &s.tableName,
		Item: map[string]types.AttributeValue{
			"PK":        &types.AttributeValueMemberS{Value: key},
			"v":         &types.AttributeValueMemberS{Value: value},
			"updatedAt": &types.AttributeValueMemberS{Value: now},
		},
	})
	if err != nil {
		return fmt.Errorf("PutItem %s: %w", key, err)
	}
	return nil
}

func (s *DynamoStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: key},
		},
	})
	if err != nil {
		return fmt.Errorf("DeleteItem %s: %w", key, err)
	}
	return nil
}
