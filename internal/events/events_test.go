package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	at := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	data, err := encode(UserEvent{UserID: "u1", Email: "ada@example.com", Flow: "signup", At: at})
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "u1", got["user_id"])
	assert.Equal(t, "signup", got["flow"])
	assert.Equal(t, "2026-03-04T05:06:07Z", got["at"])
}

func TestEncode_StampsTime(t *testing.T) {
	data, err := encode(UserEvent{UserID: "u1"})
	require.NoError(t, err)

	var got UserEvent
	require.NoError(t, json.Unmarshal(data, &got))
	assert.False(t, got.At.IsZero())
}

func TestConnect_Unreachable(t *testing.T) {
	_, err := Connect("nats://127.0.0.1:1")
	assert.Error(t, err)
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	assert.NoError(t, p.Publish(context.Background(), SubjectUserCreated, UserEvent{}))
	p.Close()
}
