package dynamo

import (
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteRequestChunks_Empty(t *testing.T) {
	assert.Empty(t, deleteRequestChunks(nil))
}

func TestDeleteRequestChunks_UnderLimit(t *testing.T) {
	chunks := deleteRequestChunks([]string{"a", "b", "c"})
	require.Len(t, chunks, 1)
	assert.Len(t, chunks[0], 3)
}

func TestDeleteRequestChunks_SplitsAtLimit(t *testing.T) {
	ids := make([]string, 0, 60)
	for i := 0; i < 60; i++ {
		ids = append(ids, fmt.Sprintf("n%03d", i))
	}
	chunks := deleteRequestChunks(ids)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 25)
	assert.Len(t, chunks[1], 25)
	assert.Len(t, chunks[2], 10)
}

func TestDeleteRequestChunks_KeyShape(t *testing.T) {
	chunks := deleteRequestChunks([]string{"abc"})
	require.Len(t, chunks, 1)
	require.Len(t, chunks[0], 1)
	req := chunks[0][0]
	require.NotNil(t, req.DeleteRequest)
	key, ok := req.DeleteRequest.Key["notification_id"].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "abc", key.Value)
}
