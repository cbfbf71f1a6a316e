// Package dynamo backs the StateStore with a single DynamoDB table.
// TTL relies on the table's time-to-live attribute; because DynamoDB
// removes expired items lazily, reads re-check expiry themselves.
package dynamo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// record is the single-table item layout. ExpiresAt is the epoch-seconds
// TTL attribute; zero means no expiry.
type record struct {
	Key       string `dynamodbav:"pk"`
	Value     string `dynamodbav:"value"`
	ExpiresAt int64  `dynamodbav:"expires_at,omitempty"`
}

func (r record) expired(now time.Time) bool {
	return r.ExpiresAt > 0 && now.Unix() >= r.ExpiresAt
}

// Store adapts a DynamoDB table to the StateStore contract.
type Store struct {
	client *dynamodb.Client
	table  string
	logger *zap.Logger
}

// NewStore creates a store over an existing table whose partition key is
// the string attribute "pk".
func NewStore(client *dynamodb.Client, table string, logger *zap.Logger) *Store {
	return &Store{client: client, table: table, logger: logger}
}

func (s *Store) PutJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) bool {
	raw, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("State serialization failed", zap.String("key", key), zap.Error(err))
		return false
	}

	rec := record{Key: key, Value: string(raw)}
	if ttl > 0 {
		rec.ExpiresAt = time.Now().Add(ttl).Unix()
	}

	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		s.logger.Warn("State item marshaling failed", zap.String("key", key), zap.Error(err))
		return false
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		s.logger.Warn("State write failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *Store) GetJSON(ctx context.Context, key string, dest interface{}) bool {
	rec, ok := s.load(ctx, key)
	if !ok {
		return false
	}

	if err := json.Unmarshal([]byte(rec.Value), dest); err != nil {
		s.logger.Warn("State deserialization failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *Store) Delete(ctx context.Context, key string) bool {
	out, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:    aws.String(s.table),
		Key:          keyAttributes(key),
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		s.logger.Warn("State delete failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return len(out.Attributes) > 0
}

func (s *Store) Exists(ctx context.Context, key string) bool {
	_, ok := s.load(ctx, key)
	return ok
}

func (s *Store) Keys(ctx context.Context, prefix string) []string {
	expr, err := expression.NewBuilder().
		WithFilter(expression.BeginsWith(expression.Name("pk"), prefix)).
		WithProjection(expression.NamesList(expression.Name("pk"), expression.Name("expires_at"))).
		Build()
	if err != nil {
		s.logger.Warn("State key scan expression failed", zap.Error(err))
		return nil
	}

	now := time.Now()
	var keys []string
	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName:                 aws.String(s.table),
		FilterExpression:          expr.Filter(),
		ProjectionExpression:      expr.Projection(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			s.logger.Warn("State key scan failed", zap.String("prefix", prefix), zap.Error(err))
			return keys
		}
		for _, item := range page.Items {
			var rec record
			if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
				continue
			}
			if !rec.expired(now) {
				keys = append(keys, rec.Key)
			}
		}
	}
	return keys
}

func (s *Store) load(ctx context.Context, key string) (record, bool) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key:       keyAttributes(key),
	})
	if err != nil {
		s.logger.Warn("State read failed", zap.String("key", key), zap.Error(err))
		return record{}, false
	}
	if out.Item == nil {
		return record{}, false
	}

	var rec record
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		s.logger.Warn("State item unmarshaling failed", zap.String("key", key), zap.Error(err))
		return record{}, false
	}
	if rec.expired(time.Now()) {
		return record{}, false
	}
	return rec, true
}

func keyAttributes(key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"pk": &types.AttributeValueMemberS{Value: key},
	}
}
