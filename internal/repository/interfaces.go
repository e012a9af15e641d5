package repository

import (
	"context"

	"github.com/Nollerx/virtual-tryon-widget/internal/domain"
)

// SessionRepository defines widget session data access methods
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, id string) error
}

// WardrobeRepository defines the session-scoped wardrobe list. Entries are
// keyed implicitly by clothing id: adding a try-on for an already-present
// clothing id replaces the old entry.
type WardrobeRepository interface {
	Upsert(ctx context.Context, sessionID string, item domain.WardrobeItem) error
	RemoveByTryOnID(ctx context.Context, sessionID, tryOnID string) error
	GetByTryOnID(ctx context.Context, sessionID, tryOnID string) (*domain.WardrobeItem, error)
	List(ctx context.Context, sessionID string) ([]domain.WardrobeItem, error)
	Count(ctx context.Context, sessionID string) (int, error)
	HasOriginalPhoto(ctx context.Context, sessionID string) (bool, error)
	Clear(ctx context.Context, sessionID string) error
}

// StoreRepository defines registered-store data access methods
type StoreRepository interface {
	GetByEmbedKey(ctx context.Context, embedKey string) (*domain.Store, error)
	GetByID(ctx context.Context, id string) (*domain.Store, error)
	Create(ctx context.Context, store *domain.Store) error
	List(ctx context.Context) ([]*domain.Store, error)
}

// ConversionEventRepository journals analytics events. Optional: a nil
// repository disables the journal and analytics stay webhook-only.
type ConversionEventRepository interface {
	Create(ctx context.Context, event *domain.ConversionEvent) error
}

// Repositories aggregates all repositories
type Repositories struct {
	Session         SessionRepository
	Wardrobe        WardrobeRepository
	Store           StoreRepository
	ConversionEvent ConversionEventRepository
}
