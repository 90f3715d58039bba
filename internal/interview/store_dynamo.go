package interview

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/pitchlane/interview-platform/pkg/logging"
)

type dynamoAPI interface {
	PutItem(context.Context, *dynamodb.PutItemInput, ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(context.Context, *dynamodb.GetItemInput, ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(context.Context, *dynamodb.DeleteItemInput, ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// DynamoStore persists interview sessions to DynamoDB. Revision checks ride
// on conditional writes so two racing submissions cannot both commit.
type DynamoStore struct {
	client    dynamoAPI
	tableName string
	ttl       time.Duration
	logger    *logging.Logger
}

var _ SessionStore = (*DynamoStore)(nil)

// NewDynamoStore builds a store backed by the provided DynamoDB client.
func NewDynamoStore(client dynamoAPI, tableName string, ttl time.Duration, logger *logging.Logger) *DynamoStore {
	if client == nil {
		panic("interview: dynamodb client cannot be nil")
	}
	if tableName == "" {
		panic("interview: table name cannot be empty")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &DynamoStore{client: client, tableName: tableName, ttl: ttl, logger: logger}
}

// dynamoSessionRecord wraps the session with the table's TTL attribute.
type dynamoSessionRecord struct {
	InterviewSession
	ExpiresAt int64 `dynamodbav:"expiresAt,omitempty"`
}

// Get loads a session with a strongly consistent read.
func (s *DynamoStore) Get(ctx context.Context, sessionID string) (*InterviewSession, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: sessionID required", ErrValidation)
	}
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.tableName),
		ConsistentRead: aws.Bool(true),
		Key: map[string]types.AttributeValue{
			"sessionId": &types.AttributeValueMemberS{Value: sessionID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: dynamodb get: %s", ErrStoreUnavailable, err)
	}
	if out.Item == nil {
		return nil, ErrSessionNotFound
	}

	var record dynamoSessionRecord
	if err := attributevalue.UnmarshalMap(out.Item, &record); err != nil {
		return nil, fmt.Errorf("interview: failed to decode session: %w", err)
	}
	return &record.InterviewSession, nil
}

// Put writes the session, conditioned on the revision the caller read.
func (s *DynamoStore) Put(ctx context.Context, session *InterviewSession) error {
	if session == nil || session.SessionID == "" {
		return fmt.Errorf("%w: session required", ErrValidation)
	}

	expected := session.Revision
	session.Revision = expected + 1
	record := dynamoSessionRecord{InterviewSession: *session}
	if s.ttl > 0 {
		record.ExpiresAt = time.Now().UTC().Add(s.ttl).Unix()
	}

	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		session.Revision = expected
		return fmt.Errorf("interview: failed to marshal session: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	}
	if expected == 0 {
		input.ConditionExpression = aws.String("attribute_not_exists(sessionId)")
	} else {
		input.ConditionExpression = aws.String("revision = :expected")
		input.ExpressionAttributeValues = map[string]types.AttributeValue{
			":expected": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", expected)},
		}
	}

	if _, err := s.client.PutItem(ctx, input); err != nil {
		session.Revision = expected
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return ErrRevisionConflict
		}
		return fmt.Errorf("%w: dynamodb put: %s", ErrStoreUnavailable, err)
	}
	return nil
}

// Delete removes the session item.
func (s *DynamoStore) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("%w: sessionID required", ErrValidation)
	}
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"sessionId": &types.AttributeValueMemberS{Value: sessionID},
		},
	})
	if err != nil {
		return fmt.Errorf("%w: dynamodb delete: %s", ErrStoreUnavailable, err)
	}
	return nil
}
