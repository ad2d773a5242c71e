package usermode

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// dynamoAPI is the subset of *dynamodb.Client used by DynamoBackend.
type dynamoAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// DynamoBackend implements Backend by storing the whole table as a single
// DynamoDB item.
type DynamoBackend struct {
	client    dynamoAPI
	tableName string
	key       string
}

// NewDynamoBackend creates a DynamoDB client and returns a DynamoBackend.
func NewDynamoBackend(ctx context.Context, cfg Config) (*DynamoBackend, error) {
	var opts []func(*config.LoadOptions) error
	opts = append(opts, config.WithRegion(cfg.AWSRegion))

	if cfg.DynamoEndpoint != "" {
		opts = append(opts, config.WithBaseEndpoint(cfg.DynamoEndpoint))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return newDynamoBackend(dynamodb.NewFromConfig(awsCfg), cfg.DynamoTableName, cfg.TableKey), nil
}

func newDynamoBackend(client dynamoAPI, tableName, key string) *DynamoBackend {
	if key == "" {
		key = "default"
	}
	return &DynamoBackend{client: client, tableName: tableName, key: key}
}

func (b *DynamoBackend) pk() string {
	return "MODES#" + b.key
}

func (b *DynamoBackend) itemKey() map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: b.pk()},
	}
}

func (b *DynamoBackend) Load(ctx context.Context) (map[string]string, error) {
	out, err := b.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      &b.tableName,
		Key:            b.itemKey(),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("GetItem: %w", err)
	}

	if out.Item == nil {
		return nil, fmt.Errorf("%s: %w", b.pk(), ErrTableNotExist)
	}

	return unmarshalModes(b.pk(), out.Item)
}

func (b *DynamoBackend) Save(ctx context.Context, table map[string]string) error {
	modes := make(map[string]types.AttributeValue, len(table))
	for k, v := range table {
		modes[k] = &types.AttributeValueMemberS{Value: v}
	}

	item := b.itemKey()
	item["modes"] = &types.AttributeValueMemberM{Value: modes}
	item["updatedAt"] = &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)}

	_, err := b.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &b.tableName,
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("PutItem: %w", err)
	}

	return nil
}

// unmarshalModes extracts the modes map from a DynamoDB item.
func unmarshalModes(source string, item map[string]types.AttributeValue) (map[string]string, error) {
	attr, ok := item["modes"]
	if !ok {
		return nil, &FormatError{Source: source}
	}

	m, ok := attr.(*types.AttributeValueMemberM)
	if !ok {
		return nil, &FormatError{Source: source}
	}

	result := make(map[string]string, len(m.Value))
	for k, v := range m.Value {
		sv, ok := v.(*types.AttributeValueMemberS)
		if !ok {
			continue
		}
		result[k] = sv.Value
	}

	return result, nil
}
