package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Nollerx/virtual-tryon-widget/internal/repository"
	"github.com/Nollerx/virtual-tryon-widget/internal/webhook"
	"github.com/Nollerx/virtual-tryon-widget/pkg/errors"
)

// ChatResponder answers shopper chat messages
type ChatResponder interface {
	Chat(ctx context.Context, req webhook.ChatRequest) (string, error)
}

const maxChatMessageLen = 1000

// Canned replies shown when the assistant is unreachable, so the chat
// panel always answers something.
var fallbackChatReplies = []string{
	"I'm having trouble connecting right now. Please try again in a moment!",
	"Sorry, I couldn't reach our styling assistant. Try asking again shortly.",
}

// ChatService relays shopper messages to the styling assistant
type ChatService struct {
	repos     *repository.Repositories
	responder ChatResponder
	logger    *zap.Logger
}

// NewChatService creates a new chat service
func NewChatService(repos *repository.Repositories, responder ChatResponder, logger *zap.Logger) *ChatService {
	return &ChatService{
		repos:     repos,
		responder: responder,
		logger:    logger,
	}
}

// Send relays one chat message and returns the assistant's reply. Network
// failures degrade to a canned reply instead of an error.
func (s *ChatService) Send(ctx context.Context, sessionID, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", &errors.ErrValidation{Message: "message must not be empty"}
	}
	if len(message) > maxChatMessageLen {
		return "", &errors.ErrValidation{Message: "message must be under 1000 characters"}
	}

	session, err := s.repos.Session.GetByID(ctx, sessionID)
	if err != nil {
		return "", err
	}

	reply, err := s.responder.Chat(ctx, webhook.ChatRequest{
		SessionID:  session.ID,
		Message:    message,
		DeviceInfo: session.Device,
		Timestamp:  time.Now().UTC(),
	})
	if err != nil {
		s.logger.Warn("Chat relay failed, using fallback reply",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return fallbackChatReplies[len(message)%len(fallbackChatReplies)], nil
	}
	return reply, nil
}
