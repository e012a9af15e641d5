package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Nollerx/virtual-tryon-widget/internal/domain"
	"github.com/Nollerx/virtual-tryon-widget/internal/repository"
	"github.com/Nollerx/virtual-tryon-widget/pkg/errors"
)

// StoreRepository is an in-memory registry of storefronts allowed to embed
// the widget. An empty registry runs the deployment open (demo mode).
type StoreRepository struct {
	mu     sync.RWMutex
	stores map[string]*domain.Store
}

func NewStoreRepository() *StoreRepository {
	return &StoreRepository{
		stores: make(map[string]*domain.Store),
	}
}

// storeRecord is one entry of the stores file. Embed keys appear only as
// bcrypt hashes; cmd/create-store emits records in this shape.
type storeRecord struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	EmbedKeyHash    string       `json:"embedKeyHash"`
	ShopDomain      string       `json:"shopDomain"`
	StorefrontToken string       `json:"storefrontToken"`
	Theme           domain.Theme `json:"theme"`
	IsActive        *bool        `json:"isActive"`
}

// NewStoreRepositoryFromFile builds a registry from a JSON stores file.
// Records default to active unless the file says otherwise.
func NewStoreRepositoryFromFile(path string) (*StoreRepository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read stores file: %w", err)
	}

	var records []storeRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse stores file %s: %w", path, err)
	}

	repo := NewStoreRepository()
	for _, rec := range records {
		if rec.ID == "" || rec.EmbedKeyHash == "" {
			return nil, fmt.Errorf("stores file %s: every record needs an id and embedKeyHash", path)
		}
		active := true
		if rec.IsActive != nil {
			active = *rec.IsActive
		}
		if err := repo.Create(context.Background(), &domain.Store{
			ID:              rec.ID,
			Name:            rec.Name,
			EmbedKeyHash:    rec.EmbedKeyHash,
			ShopDomain:      rec.ShopDomain,
			StorefrontToken: rec.StorefrontToken,
			Theme:           rec.Theme,
			IsActive:        active,
		}); err != nil {
			return nil, err
		}
	}
	return repo, nil
}

func (r *StoreRepository) Create(ctx context.Context, store *domain.Store) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.stores[store.ID]; exists {
		return &errors.ErrValidation{Message: "store already exists"}
	}
	if store.CreatedAt.IsZero() {
		store.CreatedAt = time.Now().UTC()
	}

	clone := *store
	r.stores[store.ID] = &clone
	return nil
}

func (r *StoreRepository) GetByID(ctx context.Context, id string) (*domain.Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	store, ok := r.stores[id]
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "store", ID: id}
	}
	clone := *store
	return &clone, nil
}

// GetByEmbedKey resolves a plaintext embed key to the active store it was
// issued for. Keys are only ever stored hashed, so this walks the registry
// and compares; registries are small (one store per deployment, typically).
func (r *StoreRepository) GetByEmbedKey(ctx context.Context, embedKey string) (*domain.Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, store := range r.stores {
		if !store.IsActive {
			continue
		}
		if err := bcrypt.CompareHashAndPassword([]byte(store.EmbedKeyHash), []byte(embedKey)); err == nil {
			clone := *store
			return &clone, nil
		}
	}
	return nil, &errors.ErrUnauthorized{Message: "invalid embed key"}
}

func (r *StoreRepository) List(ctx context.Context) ([]*domain.Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Store, 0, len(r.stores))
	for _, store := range r.stores {
		clone := *store
		out = append(out, &clone)
	}
	return out, nil
}

var _ repository.StoreRepository = (*StoreRepository)(nil)
