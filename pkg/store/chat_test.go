package store_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xhad/versewise/internal/models"
	"github.com/xhad/versewise/pkg/store"
)

func getTestConfig(t *testing.T) store.StoreConfig {
	t.Helper()
	conn := os.Getenv("DATABASE_URL")
	if conn == "" {
		t.Skip("DATABASE_URL not set")
	}
	return store.StoreConfig{
		ConnString: conn,
		TableName:  "test_chat_messages",
	}
}

func TestChatStore(t *testing.T) {
	ctx := context.Background()
	s, err := store.NewWithConfig(ctx, getTestConfig(t))
	require.NoError(t, err)
	defer s.Close()

	user := "user-" + uuid.NewString()
	base := time.Now().UTC().Truncate(time.Millisecond)

	first := models.ChatMessage{
		ID:        uuid.NewString(),
		UserID:    user,
		Message:   "What does John 3:16 mean?",
		Response:  "It speaks of God's love.",
		Timestamp: base,
	}
	second := models.ChatMessage{
		ID:        uuid.NewString(),
		UserID:    user,
		Message:   "And G26?",
		Response:  "ἀγάπη is self-giving love.",
		Timestamp: base.Add(time.Second),
	}
	require.NoError(t, s.Save(ctx, first))
	require.NoError(t, s.Save(ctx, second))
	require.NoError(t, s.Save(ctx, models.ChatMessage{
		ID: uuid.NewString(), UserID: "someone-else", Message: "hi", Response: "hello", Timestamp: base,
	}))

	history, err := s.History(ctx, user, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, second.ID, history[0].ID)
	assert.Equal(t, first.Message, history[1].Message)
	assert.True(t, first.Timestamp.Equal(history[1].Timestamp))

	history, err = s.History(ctx, user, 1)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestChatStoreBadConnString(t *testing.T) {
	_, err := store.NewWithConfig(context.Background(), store.StoreConfig{ConnString: "not a url://"})
	assert.Error(t, err)
}
