package memory

import (
	"context"
	"sync"

	"github.com/Nollerx/virtual-tryon-widget/internal/domain"
	"github.com/Nollerx/virtual-tryon-widget/internal/repository"
	"github.com/Nollerx/virtual-tryon-widget/pkg/errors"
)

// WardrobeRepository keeps per-session wardrobes in memory. Each wardrobe
// holds at most one entry per clothing id plus at most one original-photo
// entry, in insertion order.
type WardrobeRepository struct {
	mu        sync.RWMutex
	wardrobes map[string][]domain.WardrobeItem
}

func NewWardrobeRepository() *WardrobeRepository {
	return &WardrobeRepository{
		wardrobes: make(map[string][]domain.WardrobeItem),
	}
}

// Upsert adds the item to the session's wardrobe. A later try-on of the same
// clothing id replaces the earlier entry in place; the original-photo entry
// is only ever added once per session.
func (r *WardrobeRepository) Upsert(ctx context.Context, sessionID string, item domain.WardrobeItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := r.wardrobes[sessionID]

	if item.IsOriginalPhoto {
		for _, existing := range items {
			if existing.IsOriginalPhoto {
				return nil
			}
		}
		r.wardrobes[sessionID] = append(items, item)
		return nil
	}

	for i, existing := range items {
		if !existing.IsOriginalPhoto && existing.ClothingID == item.ClothingID {
			items[i] = item
			return nil
		}
	}
	r.wardrobes[sessionID] = append(items, item)
	return nil
}

func (r *WardrobeRepository) RemoveByTryOnID(ctx context.Context, sessionID, tryOnID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := r.wardrobes[sessionID]
	for i, existing := range items {
		if existing.ID == tryOnID {
			r.wardrobes[sessionID] = append(items[:i], items[i+1:]...)
			return nil
		}
	}
	return &errors.ErrNotFound{Resource: "wardrobe item", ID: tryOnID}
}

func (r *WardrobeRepository) GetByTryOnID(ctx context.Context, sessionID, tryOnID string) (*domain.WardrobeItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, existing := range r.wardrobes[sessionID] {
		if existing.ID == tryOnID {
			clone := existing
			return &clone, nil
		}
	}
	return nil, &errors.ErrNotFound{Resource: "wardrobe item", ID: tryOnID}
}

func (r *WardrobeRepository) List(ctx context.Context, sessionID string) ([]domain.WardrobeItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.wardrobes[sessionID]
	out := make([]domain.WardrobeItem, len(items))
	copy(out, items)
	return out, nil
}

func (r *WardrobeRepository) Count(ctx context.Context, sessionID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.wardrobes[sessionID]), nil
}

func (r *WardrobeRepository) HasOriginalPhoto(ctx context.Context, sessionID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, existing := range r.wardrobes[sessionID] {
		if existing.IsOriginalPhoto {
			return true, nil
		}
	}
	return false, nil
}

func (r *WardrobeRepository) Clear(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.wardrobes, sessionID)
	return nil
}

var _ repository.WardrobeRepository = (*WardrobeRepository)(nil)
