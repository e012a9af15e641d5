package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Nollerx/virtual-tryon-widget/internal/domain"
	"github.com/Nollerx/virtual-tryon-widget/internal/repository"
	"github.com/Nollerx/virtual-tryon-widget/pkg/errors"
)

// SessionRepository is an in-memory session store. Sessions live for the
// lifetime of the process, mirroring the per-tab lifetime of the widget.
type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		sessions: make(map[string]*domain.Session),
	}
}

func (r *SessionRepository) Create(ctx context.Context, session *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[session.ID]; exists {
		return &errors.ErrValidation{Message: "session already exists"}
	}

	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now

	clone := *session
	r.sessions[session.ID] = &clone
	return nil
}

func (r *SessionRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[id]
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "session", ID: id}
	}

	clone := *session
	return &clone, nil
}

func (r *SessionRepository) Save(ctx context.Context, session *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[session.ID]; !ok {
		return &errors.ErrNotFound{Resource: "session", ID: session.ID}
	}

	session.UpdatedAt = time.Now().UTC()
	clone := *session
	r.sessions[session.ID] = &clone
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return &errors.ErrNotFound{Resource: "session", ID: id}
	}
	delete(r.sessions, id)
	return nil
}

var _ repository.SessionRepository = (*SessionRepository)(nil)
