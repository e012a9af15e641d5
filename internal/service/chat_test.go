package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Nollerx/virtual-tryon-widget/internal/domain"
	"github.com/Nollerx/virtual-tryon-widget/internal/webhook"
)

type mockResponder struct {
	reply string
	err   error
	last  webhook.ChatRequest
}

func (m *mockResponder) Chat(ctx context.Context, req webhook.ChatRequest) (string, error) {
	m.last = req
	return m.reply, m.err
}

func TestChatSendRelaysReply(t *testing.T) {
	repos := newTestRepos()
	ctx := context.Background()
	require.NoError(t, repos.Session.Create(ctx, &domain.Session{ID: "sess-1", Device: domain.DeviceInfo{IsMobile: true}}))

	responder := &mockResponder{reply: "Try the navy midi dress!"}
	svc := NewChatService(repos, responder, zap.NewNop())

	reply, err := svc.Send(ctx, "sess-1", "  what should I wear to a wedding?  ")
	require.NoError(t, err)
	assert.Equal(t, "Try the navy midi dress!", reply)
	assert.Equal(t, "what should I wear to a wedding?", responder.last.Message)
	assert.True(t, responder.last.DeviceInfo.IsMobile)
}

func TestChatSendEmptyMessage(t *testing.T) {
	repos := newTestRepos()
	svc := NewChatService(repos, &mockResponder{}, zap.NewNop())

	_, err := svc.Send(context.Background(), "sess-1", "   ")
	assert.Error(t, err)
}

func TestChatSendFallsBackOnFailure(t *testing.T) {
	repos := newTestRepos()
	ctx := context.Background()
	require.NoError(t, repos.Session.Create(ctx, &domain.Session{ID: "sess-1"}))

	responder := &mockResponder{err: assert.AnError}
	svc := NewChatService(repos, responder, zap.NewNop())

	reply, err := svc.Send(ctx, "sess-1", "hello")
	require.NoError(t, err, "unreachable assistant degrades to a canned reply")
	assert.Contains(t, fallbackChatReplies, reply)
}

func TestChatSendOverlongMessage(t *testing.T) {
	repos := newTestRepos()
	ctx := context.Background()
	require.NoError(t, repos.Session.Create(ctx, &domain.Session{ID: "sess-1"}))

	responder := &mockResponder{reply: "ok"}
	svc := NewChatService(repos, responder, zap.NewNop())

	_, err := svc.Send(ctx, "sess-1", strings.Repeat("a", 1001))
	assert.Error(t, err)
	assert.Empty(t, responder.last.Message, "overlong message never reaches the assistant")
}
