package logsvc

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/trezcool/shkola/core"
	"github.com/trezcool/shkola/core/user"
)

func newObservedLogger(t *testing.T) (*RollbarLogger, *observer.ObservedLogs) {
	t.Helper()
	zc, logs := observer.New(zap.DebugLevel)
	l := NewRollbarLogger(zap.New(zc), core.NewTestConfig())
	l.Enable(false)
	return l, logs
}

func TestRollbarLogger_fields(t *testing.T) {
	l, logs := newObservedLogger(t)
	usr := user.User{ID: "u-1", Name: "Anna", Email: "anna@school.test"}

	l.Named("API").Error("request failed", errors.New("boom"), map[string]interface{}{"path": "/v1/bell"}, usr, usr)

	entries := logs.All()
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, "request failed", entry.Message)
	assert.Equal(t, "API", entry.LoggerName)
	assert.Equal(t, zap.ErrorLevel, entry.Level)

	ctx := entry.ContextMap()
	assert.Equal(t, "boom", ctx["error"])
	assert.Equal(t, "u-1", ctx["user_id"])
	assert.Contains(t, ctx, "extras")
	// a user is only reported once
	userFields := 0
	for _, f := range entry.Context {
		if f.Key == "user_id" {
			userFields++
		}
	}
	assert.Equal(t, 1, userFields)
}

func TestRollbarLogger_levels(t *testing.T) {
	l, logs := newObservedLogger(t)

	l.Debug("d")
	l.Info("i")
	l.Warn("w")

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zap.DebugLevel, entries[0].Level)
	assert.Equal(t, zap.InfoLevel, entries[1].Level)
	assert.Equal(t, zap.WarnLevel, entries[2].Level)
}
