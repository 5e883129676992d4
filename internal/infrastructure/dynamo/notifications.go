package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/Manemax937/HostelApp/internal/domain"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// maxBatchDelete is the DynamoDB BatchWriteItem item limit.
const maxBatchDelete = 25

// NotificationRepo provides typed DynamoDB operations for the notifications table.
type NotificationRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewNotificationRepo(client *dynamodb.Client, tableName string) *NotificationRepo {
	return &NotificationRepo{client: client, tableName: tableName}
}

func (r *NotificationRepo) Put(ctx context.Context, n *domain.Notification) error {
	item, err := attributevalue.MarshalMap(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// ListIDsOlderThan scans for notifications created strictly before cutoff and
// returns their ids, following pagination until the table is exhausted.
// created_at is stored as an RFC3339 string, so a lexicographic comparison is
// a chronological one.
func (r *NotificationRepo) ListIDsOlderThan(ctx context.Context, cutoff time.Time) ([]string, error) {
	var ids []string
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:            aws.String(r.tableName),
			ProjectionExpression: aws.String("notification_id"),
			FilterExpression:     aws.String("created_at < :cutoff"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":cutoff": &types.AttributeValueMemberS{Value: cutoff.UTC().Format(time.RFC3339Nano)},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, err
		}
		for _, item := range out.Items {
			if v, ok := item["notification_id"].(*types.AttributeValueMemberS); ok {
				ids = append(ids, v.Value)
			}
		}
		if out.LastEvaluatedKey == nil {
			return ids, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

// DeleteBatch deletes the given notification ids, chunked to the
// BatchWriteItem limit. Unprocessed items are resubmitted a few times before
// giving up.
func (r *NotificationRepo) DeleteBatch(ctx context.Context, ids []string) error {
	for _, requests := range deleteRequestChunks(ids) {
		if err := r.writeBatch(ctx, requests); err != nil {
			return err
		}
	}
	return nil
}

// deleteRequestChunks converts ids into delete requests grouped into chunks
// no larger than the BatchWriteItem limit.
func deleteRequestChunks(ids []string) [][]types.WriteRequest {
	var chunks [][]types.WriteRequest
	for start := 0; start < len(ids); start += maxBatchDelete {
		end := start + maxBatchDelete
		if end > len(ids) {
			end = len(ids)
		}
		requests := make([]types.WriteRequest, 0, end-start)
		for _, id := range ids[start:end] {
			requests = append(requests, types.WriteRequest{
				DeleteRequest: &types.DeleteRequest{Key: strKey("notification_id", id)},
			})
		}
		chunks = append(chunks, requests)
	}
	return chunks
}

func (r *NotificationRepo) writeBatch(ctx context.Context, requests []types.WriteRequest) error {
	for attempt := 0; len(requests) > 0; attempt++ {
		if attempt == 5 {
			return fmt.Errorf("batch delete: %d items still unprocessed after %d attempts", len(requests), attempt)
		}
		out, err := r.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{r.tableName: requests},
		})
		if err != nil {
			return err
		}
		requests = out.UnprocessedItems[r.tableName]
	}
	return nil
}
