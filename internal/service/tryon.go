package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Nollerx/virtual-tryon-widget/internal/domain"
	"github.com/Nollerx/virtual-tryon-widget/internal/repository"
	"github.com/Nollerx/virtual-tryon-widget/internal/webhook"
	"github.com/Nollerx/virtual-tryon-widget/pkg/errors"
)

const (
	// PlaceholderResultURL is shown whenever generation cannot produce a
	// real result image
	PlaceholderResultURL = "https://via.placeholder.com/300x400?text=Try-On+Result"

	// NetworkIssueLabel accompanies placeholder results caused by network
	// failures or the hard timeout
	NetworkIssueLabel = "Network issue - showing demo result"

	tryOnCooldown = 2 * time.Second
)

// TryOnGenerator produces a try-on result image for a request
type TryOnGenerator interface {
	GenerateTryOn(ctx context.Context, req webhook.TryOnRequest) (*webhook.TryOnResponse, error)
}

// TryOnResult is the outcome of one try-on attempt. Every attempt yields a
// renderable result: real image, or placeholder with an optional label.
type TryOnResult struct {
	TryOnID         string            `json:"tryOnId"`
	State           domain.TryOnState `json:"state"`
	ResultImageURL  string            `json:"resultImageUrl"`
	Label           string            `json:"label,omitempty"`
	SavedToWardrobe bool              `json:"savedToWardrobe"`
}

// TryOnService orchestrates try-on generation: the in-flight guard, the
// webhook call, terminal-state classification, wardrobe auto-save, and the
// cooldown back to idle.
type TryOnService struct {
	repos     *repository.Repositories
	sessions  *SessionService
	generator TryOnGenerator
	logger    *zap.Logger

	cooldown time.Duration
	now      func() time.Time
}

// NewTryOnService creates a new try-on service
func NewTryOnService(repos *repository.Repositories, sessions *SessionService, generator TryOnGenerator, logger *zap.Logger) *TryOnService {
	return &TryOnService{
		repos:     repos,
		sessions:  sessions,
		generator: generator,
		logger:    logger,
		cooldown:  tryOnCooldown,
		now:       time.Now,
	}
}

// Submit runs one try-on attempt. Only one attempt per session may be in
// flight: a second submit while the first is running is rejected without
// any network activity. Terminal states cool down for a fixed period
// before the action re-enables, regardless of outcome.
func (s *TryOnService) Submit(ctx context.Context, sessionID string) (*TryOnResult, error) {
	req, err := s.begin(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	resp, genErr := s.generator.GenerateTryOn(ctx, *req)

	return s.finish(ctx, sessionID, req, resp, genErr)
}

// begin validates preconditions and flips the in-flight flag under the
// session lock, snapshotting the webhook payload before any I/O.
func (s *TryOnService) begin(ctx context.Context, sessionID string) (*webhook.TryOnRequest, error) {
	var req *webhook.TryOnRequest
	_, err := s.sessions.withSession(ctx, sessionID, func(session *domain.Session) error {
		if session.TryOnInProgress {
			return &errors.ErrPrecondition{Message: "try-on already in progress"}
		}
		if session.TryOnState.Terminal() {
			if s.now().Before(session.CooldownUntil) {
				return &errors.ErrPrecondition{Message: "try-on cooling down"}
			}
			session.TryOnState = domain.TryOnIdle
		}
		if !session.CanTryOn() {
			return &errors.ErrPrecondition{Message: "please upload a photo and select clothing first"}
		}

		clothing := session.FindCatalogItem(session.SelectedClothing)
		if clothing == nil {
			return &errors.ErrNotFound{Resource: "clothing item", ID: session.SelectedClothing}
		}

		session.TryOnInProgress = true
		session.TryOnState = domain.TryOnSubmitting
		session.CurrentTryOnID = generateTryOnID()

		storeID := "default_store"
		if session.Config != nil && session.Config.StoreID != "" {
			storeID = session.Config.StoreID
		}

		req = &webhook.TryOnRequest{
			Mode:      "tryon",
			TryOnID:   session.CurrentTryOnID,
			SessionID: session.ID,
			StoreID:   storeID,
			UserPhoto: session.UserPhoto,
			FileID:    session.UserPhotoFileID,
			SelectedClothing: webhook.SelectedClothing{
				ID:       clothing.ID,
				Name:     clothing.Name,
				Price:    fmt.Sprintf("%.2f", clothing.Price),
				Category: clothing.Category,
				Color:    clothing.Color,
				ImageURL: clothing.ImageURL,
			},
			DeviceInfo: session.Device,
			Timestamp:  s.now().UTC(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// finish classifies the webhook outcome, persists the terminal state, and
// auto-saves real results to the wardrobe.
func (s *TryOnService) finish(ctx context.Context, sessionID string, req *webhook.TryOnRequest, resp *webhook.TryOnResponse, genErr error) (*TryOnResult, error) {
	result := &TryOnResult{TryOnID: req.TryOnID}

	switch {
	case genErr != nil:
		result.State = domain.TryOnError
		result.ResultImageURL = PlaceholderResultURL
		result.Label = NetworkIssueLabel
		s.logger.Warn("Try-on generation failed",
			zap.String("tryon_id", req.TryOnID),
			zap.Error(genErr))
	case resp.Success && resp.ResultImageURL != "":
		result.State = domain.TryOnSuccess
		result.ResultImageURL = resp.ResultImageURL
	default:
		result.State = domain.TryOnFallback
		result.ResultImageURL = PlaceholderResultURL
	}

	var clothing *domain.ClothingItem
	var userPhoto string
	session, err := s.sessions.withSession(ctx, sessionID, func(session *domain.Session) error {
		session.TryOnInProgress = false
		session.TryOnState = result.State
		session.CooldownUntil = s.now().Add(s.cooldown)
		clothing = session.FindCatalogItem(req.SelectedClothing.ID)
		userPhoto = session.UserPhoto
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.State == domain.TryOnSuccess && clothing != nil {
		s.autoSaveToWardrobe(ctx, session.ID, clothing, result, userPhoto)
	}
	return result, nil
}

// autoSaveToWardrobe persists a real result image, plus the shopper's
// original photo the first time one lands. Placeholder results are never
// saved. Persistence failures are logged, not surfaced.
func (s *TryOnService) autoSaveToWardrobe(ctx context.Context, sessionID string, clothing *domain.ClothingItem, result *TryOnResult, userPhoto string) {
	if strings.Contains(result.ResultImageURL, "placeholder") {
		return
	}

	entry := domain.WardrobeItem{
		ID:               result.TryOnID,
		ClothingID:       clothing.ID,
		ClothingName:     clothing.Name,
		ClothingPrice:    clothing.Price,
		ClothingCategory: clothing.Category,
		ClothingColor:    clothing.Color,
		ClothingImageURL: clothing.ImageURL,
		ResultImageURL:   result.ResultImageURL,
		Timestamp:        s.now().UTC(),
		SessionID:        sessionID,
	}
	if err := s.repos.Wardrobe.Upsert(ctx, sessionID, entry); err != nil {
		s.logger.Warn("Wardrobe auto-save failed", zap.Error(err))
		return
	}
	result.SavedToWardrobe = true

	if userPhoto != "" {
		original := domain.WardrobeItem{
			ID:               "original_photo_" + result.TryOnID,
			ClothingID:       "original_photo",
			ClothingName:     "My Original Photo",
			OriginalPhotoURL: userPhoto,
			Timestamp:        s.now().UTC(),
			SessionID:        sessionID,
			IsOriginalPhoto:  true,
		}
		if err := s.repos.Wardrobe.Upsert(ctx, sessionID, original); err != nil {
			s.logger.Warn("Original photo save failed", zap.Error(err))
		}
	}
}

func generateTryOnID() string {
	return "tryon_" + uuid.New().String()
}
