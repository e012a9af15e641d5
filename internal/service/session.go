package service

import (
	"context"
	"encoding/base64"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Nollerx/virtual-tryon-widget/internal/domain"
	"github.com/Nollerx/virtual-tryon-widget/internal/repository"
	"github.com/Nollerx/virtual-tryon-widget/pkg/errors"
)

const maxPhotoBytes = 10 * 1024 * 1024

var allowedPhotoTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// SessionService owns the widget session lifecycle: the configuration
// handshake, catalog bootstrap, selection and photo state, and the
// open/close reset. All session mutation is serialized per session.
type SessionService struct {
	repos   *repository.Repositories
	catalog *CatalogService
	logger  *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewSessionService creates a new session service
func NewSessionService(repos *repository.Repositories, catalog *CatalogService, logger *zap.Logger) *SessionService {
	return &SessionService{
		repos:   repos,
		catalog: catalog,
		logger:  logger,
		locks:   make(map[string]*sync.Mutex),
	}
}

// sessionLock returns the mutex serializing one session's handlers.
// Mirrors the single-UI-thread model: handlers for a session never overlap.
func (s *SessionService) sessionLock(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[sessionID] = lock
	}
	return lock
}

// withSession runs fn with the session loaded and locked, persisting the
// session afterwards unless fn returned an error.
func (s *SessionService) withSession(ctx context.Context, sessionID string, fn func(*domain.Session) error) (*domain.Session, error) {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	session, err := s.repos.Session.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(session); err != nil {
		return nil, err
	}
	if err := s.repos.Session.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Create starts a new widget session awaiting its configuration handshake
func (s *SessionService) Create(ctx context.Context, device domain.DeviceInfo) (*domain.Session, error) {
	session := &domain.Session{
		ID:         uuid.New().String(),
		Phase:      domain.PhaseAwaitingConfig,
		Mode:       domain.ModeTryOn,
		Device:     device,
		TryOnState: domain.TryOnIdle,
	}
	if err := s.repos.Session.Create(ctx, session); err != nil {
		return nil, err
	}
	s.logger.Info("Session created",
		zap.String("session_id", session.ID),
		zap.Bool("mobile", device.IsMobile))
	return session, nil
}

// Get returns the session by id
func (s *SessionService) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	return s.repos.Session.GetByID(ctx, sessionID)
}

// ApplyConfig completes the configuration handshake. Re-delivery of the
// same configuration is a no-op so a resent config message (or the
// fail-open race) converges instead of erroring.
func (s *SessionService) ApplyConfig(ctx context.Context, sessionID string, cfg domain.StoreConfig) (*domain.Session, error) {
	return s.withSession(ctx, sessionID, func(session *domain.Session) error {
		if session.Phase != domain.PhaseAwaitingConfig {
			if session.Config != nil && session.Config.StoreID == cfg.StoreID {
				return nil
			}
			return &errors.ErrInvalidStateTransition{From: session.Phase, To: domain.PhaseConfigured}
		}
		session.Config = &cfg
		session.Phase = domain.PhaseConfigured
		return nil
	})
}

// LoadCatalog fetches and stores the session catalog, then computes the
// featured/quick-pick layout. A detected current-page product is
// auto-selected. Never fails on network errors; the demo dataset keeps
// the widget usable.
func (s *SessionService) LoadCatalog(ctx context.Context, sessionID string) (*FeaturedSelection, error) {
	var selection FeaturedSelection
	_, err := s.withSession(ctx, sessionID, func(session *domain.Session) error {
		if session.Config == nil {
			return &errors.ErrPrecondition{Message: "session not configured"}
		}
		if !session.Phase.CanTransitionTo(domain.PhaseCatalogLoading) {
			return &errors.ErrInvalidStateTransition{From: session.Phase, To: domain.PhaseCatalogLoading}
		}
		session.Phase = domain.PhaseCatalogLoading

		session.Catalog = s.catalog.Load(ctx, session.Config)
		session.Phase = domain.PhaseReady

		selection = SelectFeatured(session.Catalog, session.Config.CurrentProduct)
		if selection.AutoSelected != "" {
			session.SelectedClothing = selection.AutoSelected
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &selection, nil
}

// UploadPhoto validates and stores the shopper's photo as a data URL.
// Rejections leave the session untouched.
func (s *SessionService) UploadPhoto(ctx context.Context, sessionID, photoDataURL string) (*domain.Session, error) {
	if err := validatePhotoDataURL(photoDataURL); err != nil {
		return nil, err
	}
	return s.withSession(ctx, sessionID, func(session *domain.Session) error {
		session.UserPhoto = photoDataURL
		session.UserPhotoFileID = "photo_" + uuid.New().String()
		return nil
	})
}

// SelectClothing marks a catalog item as the try-on candidate
func (s *SessionService) SelectClothing(ctx context.Context, sessionID, clothingID string) (*domain.Session, error) {
	return s.withSession(ctx, sessionID, func(session *domain.Session) error {
		if session.FindCatalogItem(clothingID) == nil {
			return &errors.ErrNotFound{Resource: "clothing item", ID: clothingID}
		}
		session.SelectedClothing = clothingID
		return nil
	})
}

// ClearSelection drops the current selection and photo
func (s *SessionService) ClearSelection(ctx context.Context, sessionID string) (*domain.Session, error) {
	return s.withSession(ctx, sessionID, func(session *domain.Session) error {
		session.SelectedClothing = ""
		session.UserPhoto = ""
		session.UserPhotoFileID = ""
		return nil
	})
}

// Open marks the panel as expanded. In try-on mode the featured selection
// is recomputed so the rail reflects the page the widget opened on; an
// existing selection is kept.
func (s *SessionService) Open(ctx context.Context, sessionID string) (*domain.Session, *FeaturedSelection, error) {
	var selection *FeaturedSelection
	session, err := s.withSession(ctx, sessionID, func(session *domain.Session) error {
		session.WidgetOpen = true
		if session.Mode == domain.ModeTryOn && len(session.Catalog) > 0 {
			sel := SelectFeatured(session.Catalog, session.Config.CurrentProduct)
			if session.SelectedClothing == "" && sel.AutoSelected != "" {
				session.SelectedClothing = sel.AutoSelected
			}
			selection = &sel
		}
		return nil
	})
	return session, selection, err
}

// Close collapses the panel and resets transient user state: selection,
// photo, and mode all return to their defaults. The catalog is kept.
func (s *SessionService) Close(ctx context.Context, sessionID string) (*domain.Session, error) {
	return s.withSession(ctx, sessionID, func(session *domain.Session) error {
		session.WidgetOpen = false
		session.Mode = domain.ModeTryOn
		session.SelectedClothing = ""
		session.UserPhoto = ""
		session.UserPhotoFileID = ""
		return nil
	})
}

// SetMode switches between the try-on panel and the chat panel
func (s *SessionService) SetMode(ctx context.Context, sessionID string, mode domain.WidgetMode) (*domain.Session, error) {
	if mode != domain.ModeTryOn && mode != domain.ModeChat {
		return nil, &errors.ErrValidation{Message: "unknown widget mode"}
	}
	return s.withSession(ctx, sessionID, func(session *domain.Session) error {
		session.Mode = mode
		return nil
	})
}

// End tears down a session: the record, its wardrobe, and its lock are
// dropped.
func (s *SessionService) End(ctx context.Context, sessionID string) error {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.repos.Session.Delete(ctx, sessionID); err != nil {
		return err
	}
	if err := s.repos.Wardrobe.Clear(ctx, sessionID); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.locks, sessionID)
	s.mu.Unlock()
	return nil
}

// Search filters the session catalog by name, category, or color.
// An empty term returns the full catalog.
func (s *SessionService) Search(ctx context.Context, sessionID, term string) ([]domain.ClothingItem, error) {
	session, err := s.repos.Session.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return session.Catalog, nil
	}

	var matches []domain.ClothingItem
	for _, item := range session.Catalog {
		if strings.Contains(strings.ToLower(item.Name), term) ||
			strings.Contains(strings.ToLower(item.Category), term) ||
			strings.Contains(strings.ToLower(item.Color), term) {
			matches = append(matches, item)
		}
	}
	return matches, nil
}

// validatePhotoDataURL checks the photo's media type and decoded size
func validatePhotoDataURL(dataURL string) error {
	if dataURL == "" {
		return &errors.ErrValidation{Message: "no file selected"}
	}
	if !strings.HasPrefix(dataURL, "data:") {
		return &errors.ErrValidation{Message: "photo must be a data URL"}
	}

	rest := dataURL[len("data:"):]
	sep := strings.Index(rest, ",")
	if sep < 0 {
		return &errors.ErrValidation{Message: "photo must be a data URL"}
	}
	meta, payload := rest[:sep], rest[sep+1:]

	mediaType := meta
	if i := strings.Index(meta, ";"); i >= 0 {
		mediaType = meta[:i]
	}
	if !allowedPhotoTypes[mediaType] {
		return &errors.ErrValidation{
			Message: "please select a valid image file (JPEG, PNG, WebP, or GIF)",
			Fields:  map[string]string{"type": mediaType},
		}
	}

	if !strings.Contains(meta, "base64") {
		return &errors.ErrValidation{Message: "photo data URL must be base64 encoded"}
	}
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return &errors.ErrValidation{Message: "photo data is not valid base64"}
	}
	if len(decoded) > maxPhotoBytes {
		return &errors.ErrValidation{
			Message: "image file is too large, choose a file smaller than 10MB",
		}
	}
	return nil
}
