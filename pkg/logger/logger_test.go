package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newBufferedLogger(t *testing.T) (*Logger, *bytes.Buffer) {
	t.Helper()
	l, err := NewLogger(&Config{Level: DebugLevel, Format: "json", AppName: "lms", Version: "test"})
	require.NoError(t, err)
	buf := &bytes.Buffer{}
	l.SetOutput(buf)
	return l, buf
}

func TestWithFieldDoesNotMutateParent(t *testing.T) {
	base, buf := newBufferedLogger(t)

	child := base.WithField("stage", "verify")
	base.Info("parent")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.NotContains(t, entry, "stage")

	buf.Reset()
	child.Info("child")
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "verify", entry["stage"])
	assert.Equal(t, "lms", entry["app"])
	assert.Equal(t, "test", entry["version"])
}

func TestWithContextExtractsRequestAndUser(t *testing.T) {
	l, buf := newBufferedLogger(t)
	userID := primitive.NewObjectID()

	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = ContextWithUserID(ctx, userID)
	l.WithContext(ctx).Info("hello")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, userID.Hex(), entry["user_id"])
}

func TestLogCheckoutEventLevels(t *testing.T) {
	l, buf := newBufferedLogger(t)

	l.LogCheckoutEvent("verify", "failed", map[string]interface{}{"reason": "signature"})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warning", entry["level"])
	assert.Equal(t, "checkout_event", entry["type"])
	assert.Equal(t, "signature", entry["reason"])
}
