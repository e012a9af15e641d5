package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Nollerx/virtual-tryon-widget/internal/domain"
	"github.com/Nollerx/virtual-tryon-widget/internal/repository"
	"github.com/Nollerx/virtual-tryon-widget/pkg/errors"
)

// WardrobeService exposes the saved try-on list and the re-select flow
type WardrobeService struct {
	repos    *repository.Repositories
	sessions *SessionService
	logger   *zap.Logger
}

// NewWardrobeService creates a new wardrobe service
func NewWardrobeService(repos *repository.Repositories, sessions *SessionService, logger *zap.Logger) *WardrobeService {
	return &WardrobeService{
		repos:    repos,
		sessions: sessions,
		logger:   logger,
	}
}

// List returns the session's wardrobe in insertion order
func (s *WardrobeService) List(ctx context.Context, sessionID string) ([]domain.WardrobeItem, error) {
	return s.repos.Wardrobe.List(ctx, sessionID)
}

// Count returns the number of saved entries, for the badge on the
// wardrobe button
func (s *WardrobeService) Count(ctx context.Context, sessionID string) (int, error) {
	return s.repos.Wardrobe.Count(ctx, sessionID)
}

// Remove deletes one saved try-on
func (s *WardrobeService) Remove(ctx context.Context, sessionID, tryOnID string) error {
	return s.repos.Wardrobe.RemoveByTryOnID(ctx, sessionID, tryOnID)
}

// Reselect puts a saved try-on's clothing back into the try-on slot, so
// the shopper can regenerate or buy it. The clothing must still be in the
// session catalog.
func (s *WardrobeService) Reselect(ctx context.Context, sessionID, tryOnID string) (*domain.Session, error) {
	entry, err := s.repos.Wardrobe.GetByTryOnID(ctx, sessionID, tryOnID)
	if err != nil {
		return nil, err
	}
	if entry.IsOriginalPhoto {
		return nil, &errors.ErrValidation{Message: "original photo cannot be selected for try-on"}
	}
	return s.sessions.withSession(ctx, sessionID, func(session *domain.Session) error {
		if session.FindCatalogItem(entry.ClothingID) == nil {
			return &errors.ErrNotFound{Resource: "clothing item", ID: entry.ClothingID}
		}
		session.SelectedClothing = entry.ClothingID
		return nil
	})
}

// AddToOutfit promotes a saved try-on result to the session's base photo,
// so the next try-on layers another garment on top of it.
func (s *WardrobeService) AddToOutfit(ctx context.Context, sessionID, tryOnID string) (*domain.Session, error) {
	entry, err := s.repos.Wardrobe.GetByTryOnID(ctx, sessionID, tryOnID)
	if err != nil {
		return nil, err
	}
	if entry.IsOriginalPhoto || entry.ResultImageURL == "" {
		return nil, &errors.ErrValidation{Message: "entry has no try-on result to build on"}
	}
	return s.sessions.withSession(ctx, sessionID, func(session *domain.Session) error {
		session.UserPhoto = entry.ResultImageURL
		session.UserPhotoFileID = "outfit_" + uuid.NewString()
		return nil
	})
}

// UseOriginalPhoto restores the shopper's saved original photo as the
// try-on base, discarding any composed outfit.
func (s *WardrobeService) UseOriginalPhoto(ctx context.Context, sessionID, tryOnID string) (*domain.Session, error) {
	entry, err := s.repos.Wardrobe.GetByTryOnID(ctx, sessionID, tryOnID)
	if err != nil {
		return nil, err
	}
	if entry.OriginalPhotoURL == "" {
		return nil, &errors.ErrValidation{Message: "entry has no original photo"}
	}
	return s.sessions.withSession(ctx, sessionID, func(session *domain.Session) error {
		session.UserPhoto = entry.OriginalPhotoURL
		session.UserPhotoFileID = "original_" + uuid.NewString()
		return nil
	})
}
