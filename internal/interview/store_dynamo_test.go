package interview

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockDynamoClient stores items in a map and honors the store's condition
// expressions.
type mockDynamoClient struct {
	items   map[string]map[string]types.AttributeValue
	putErr  error
	getErr  error
	lastPut *dynamodb.PutItemInput
}

func newMockDynamo() *mockDynamoClient {
	return &mockDynamoClient{items: map[string]map[string]types.AttributeValue{}}
}

func (m *mockDynamoClient) key(item map[string]types.AttributeValue) string {
	if v, ok := item["sessionId"].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}

func (m *mockDynamoClient) PutItem(_ context.Context, input *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if m.putErr != nil {
		return nil, m.putErr
	}
	m.lastPut = input
	id := m.key(input.Item)

	existing, exists := m.items[id]
	if input.ConditionExpression != nil {
		switch *input.ConditionExpression {
		case "attribute_not_exists(sessionId)":
			if exists {
				return nil, &types.ConditionalCheckFailedException{}
			}
		case "revision = :expected":
			if !exists {
				return nil, &types.ConditionalCheckFailedException{}
			}
			want := input.ExpressionAttributeValues[":expected"].(*types.AttributeValueMemberN).Value
			got := existing["revision"].(*types.AttributeValueMemberN).Value
			if want != got {
				return nil, &types.ConditionalCheckFailedException{}
			}
		}
	}
	m.items[id] = input.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (m *mockDynamoClient) GetItem(_ context.Context, input *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	id := m.key(input.Key)
	item, ok := m.items[id]
	if !ok {
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{Item: item}, nil
}

func (m *mockDynamoClient) DeleteItem(_ context.Context, input *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	delete(m.items, m.key(input.Key))
	return &dynamodb.DeleteItemOutput{}, nil
}

func TestDynamoStore_RoundTrip(t *testing.T) {
	mock := newMockDynamo()
	store := NewDynamoStore(mock, "interview-sessions", time.Hour, nil)
	ctx := context.Background()

	session := newActiveSession("sess-dyn-1")
	require.NoError(t, store.Put(ctx, session))
	assert.Equal(t, int64(1), session.Revision)

	loaded, err := store.Get(ctx, "sess-dyn-1")
	require.NoError(t, err)
	assert.Equal(t, "Sarah Johnson", loaded.FounderName)
	assert.Equal(t, StatusActive, loaded.Status)
	assert.Equal(t, int64(1), loaded.Revision)
}

func TestDynamoStore_TTLAttribute(t *testing.T) {
	mock := newMockDynamo()
	store := NewDynamoStore(mock, "interview-sessions", time.Hour, nil)

	require.NoError(t, store.Put(context.Background(), newActiveSession("sess-dyn-1")))

	var record dynamoSessionRecord
	require.NoError(t, attributevalue.UnmarshalMap(mock.lastPut.Item, &record))
	assert.Greater(t, record.ExpiresAt, time.Now().Unix())
}

func TestDynamoStore_RevisionConflict(t *testing.T) {
	mock := newMockDynamo()
	store := NewDynamoStore(mock, "interview-sessions", 0, nil)
	ctx := context.Background()

	session := newActiveSession("sess-dyn-1")
	require.NoError(t, store.Put(ctx, session))

	stale := newActiveSession("sess-dyn-1")
	err := store.Put(ctx, stale)
	assert.ErrorIs(t, err, ErrRevisionConflict)
	assert.Equal(t, int64(0), stale.Revision)
}

func TestDynamoStore_GetMissing(t *testing.T) {
	store := NewDynamoStore(newMockDynamo(), "interview-sessions", 0, nil)

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestDynamoStore_StoreUnavailable(t *testing.T) {
	mock := newMockDynamo()
	mock.putErr = errors.New("throttled")
	store := NewDynamoStore(mock, "interview-sessions", 0, nil)

	session := newActiveSession("sess-dyn-1")
	err := store.Put(context.Background(), session)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Equal(t, int64(0), session.Revision)
}

func TestDynamoStore_Delete(t *testing.T) {
	mock := newMockDynamo()
	store := NewDynamoStore(mock, "interview-sessions", 0, nil)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, newActiveSession("sess-dyn-1")))
	require.NoError(t, store.Delete(ctx, "sess-dyn-1"))

	_, err := store.Get(ctx, "sess-dyn-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
