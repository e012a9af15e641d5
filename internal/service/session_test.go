package service

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Nollerx/virtual-tryon-widget/internal/domain"
	"github.com/Nollerx/virtual-tryon-widget/internal/repository"
	"github.com/Nollerx/virtual-tryon-widget/internal/repository/memory"
	"github.com/Nollerx/virtual-tryon-widget/internal/shopify"
	"github.com/Nollerx/virtual-tryon-widget/pkg/errors"
)

func newTestRepos() *repository.Repositories {
	return &repository.Repositories{
		Session:  memory.NewSessionRepository(),
		Wardrobe: memory.NewWardrobeRepository(),
		Store:    memory.NewStoreRepository(),
	}
}

func newTestSessionService(fetcher *mockFetcher) (*SessionService, *repository.Repositories) {
	repos := newTestRepos()
	catalog := NewCatalogService(factoryFor(fetcher), zap.NewNop())
	return NewSessionService(repos, catalog, zap.NewNop()), repos
}

func photoDataURL(mediaType string, size int) string {
	payload := base64.StdEncoding.EncodeToString(make([]byte, size))
	return "data:" + mediaType + ";base64," + payload
}

func configuredSession(t *testing.T, svc *SessionService) *domain.Session {
	t.Helper()
	ctx := context.Background()
	session, err := svc.Create(ctx, domain.DeviceInfo{})
	require.NoError(t, err)
	_, err = svc.ApplyConfig(ctx, session.ID, domain.StoreConfig{
		StoreID:         "store-1",
		ShopDomain:      "test.myshopify.com",
		StorefrontToken: "token",
	})
	require.NoError(t, err)
	return session
}

func TestSessionHandshake(t *testing.T) {
	svc, _ := newTestSessionService(&mockFetcher{})
	ctx := context.Background()

	session, err := svc.Create(ctx, domain.DeviceInfo{IsMobile: true})
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseAwaitingConfig, session.Phase)
	assert.Equal(t, domain.ModeTryOn, session.Mode)

	updated, err := svc.ApplyConfig(ctx, session.ID, domain.StoreConfig{StoreID: "store-1"})
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseConfigured, updated.Phase)

	// a resent config for the same store converges silently
	again, err := svc.ApplyConfig(ctx, session.ID, domain.StoreConfig{StoreID: "store-1"})
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseConfigured, again.Phase)

	// a different store's config after configuration is an error
	_, err = svc.ApplyConfig(ctx, session.ID, domain.StoreConfig{StoreID: "store-2"})
	var transition *errors.ErrInvalidStateTransition
	assert.ErrorAs(t, err, &transition)
}

func TestLoadCatalogTransitionsAndAutoSelect(t *testing.T) {
	dress := storefrontProduct("midi-dress", "Midi Dress", "Dresses",
		sizedVariant("gid://shopify/ProductVariant/11", "M", "20.00"))
	fetcher := &mockFetcher{pages: []*shopify.ProductPage{
		{Products: []shopify.ProductNode{dress}},
	}}
	svc, _ := newTestSessionService(fetcher)
	ctx := context.Background()

	session, err := svc.Create(ctx, domain.DeviceInfo{})
	require.NoError(t, err)

	// configure with a detected current product
	_, err = svc.ApplyConfig(ctx, session.ID, domain.StoreConfig{
		StoreID:         "store-1",
		ShopDomain:      "test.myshopify.com",
		StorefrontToken: "token",
		CurrentProduct:  &domain.CurrentProduct{Handle: "midi-dress"},
	})
	require.NoError(t, err)

	selection, err := svc.LoadCatalog(ctx, session.ID)
	require.NoError(t, err)
	require.NotNil(t, selection.Featured)
	assert.Equal(t, BadgeCurrentPage, selection.Badge)

	loaded, err := svc.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseReady, loaded.Phase)
	assert.Equal(t, "midi-dress", loaded.SelectedClothing, "current-page product is pre-selected")
	assert.Len(t, loaded.Catalog, 1)
}

func TestLoadCatalogBeforeConfigFails(t *testing.T) {
	svc, _ := newTestSessionService(&mockFetcher{})
	ctx := context.Background()

	session, err := svc.Create(ctx, domain.DeviceInfo{})
	require.NoError(t, err)

	_, err = svc.LoadCatalog(ctx, session.ID)
	var precondition *errors.ErrPrecondition
	assert.ErrorAs(t, err, &precondition)
}

func TestLoadCatalogCanReloadWhenReady(t *testing.T) {
	fetcher := &mockFetcher{pages: []*shopify.ProductPage{
		{Products: []shopify.ProductNode{storefrontProduct("midi-dress", "Midi Dress", "Dresses",
			sizedVariant("gid://shopify/ProductVariant/11", "M", "20.00"))}},
	}}
	svc, _ := newTestSessionService(fetcher)
	ctx := context.Background()
	session := configuredSession(t, svc)

	_, err := svc.LoadCatalog(ctx, session.ID)
	require.NoError(t, err)
	_, err = svc.LoadCatalog(ctx, session.ID)
	assert.NoError(t, err, "READY re-enters catalog loading for refresh")
}

func TestUploadPhotoValidation(t *testing.T) {
	svc, _ := newTestSessionService(&mockFetcher{})
	ctx := context.Background()
	session := configuredSession(t, svc)

	tests := []struct {
		name    string
		dataURL string
		wantErr string
	}{
		{"valid jpeg", photoDataURL("image/jpeg", 1024), ""},
		{"valid webp", photoDataURL("image/webp", 1024), ""},
		{"empty", "", "no file selected"},
		{"not a data url", "https://example.com/photo.jpg", "data URL"},
		{"pdf rejected", photoDataURL("application/pdf", 1024), "valid image file"},
		{"svg rejected", photoDataURL("image/svg+xml", 1024), "valid image file"},
		{"oversized", photoDataURL("image/png", maxPhotoBytes+1), "too large"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before, err := svc.Get(ctx, session.ID)
			require.NoError(t, err)

			_, err = svc.UploadPhoto(ctx, session.ID, tt.dataURL)
			if tt.wantErr == "" {
				require.NoError(t, err)
				after, _ := svc.Get(ctx, session.ID)
				assert.NotEmpty(t, after.UserPhotoFileID)
				return
			}
			require.Error(t, err)
			assert.Contains(t, strings.ToLower(err.Error()), strings.ToLower(tt.wantErr))

			after, _ := svc.Get(ctx, session.ID)
			assert.Equal(t, before.UserPhoto, after.UserPhoto, "rejected upload leaves state untouched")
			assert.Equal(t, before.UserPhotoFileID, after.UserPhotoFileID)
		})
	}
}

func TestUploadPhotoRotatesFileID(t *testing.T) {
	svc, _ := newTestSessionService(&mockFetcher{})
	ctx := context.Background()
	session := configuredSession(t, svc)

	first, err := svc.UploadPhoto(ctx, session.ID, photoDataURL("image/jpeg", 10))
	require.NoError(t, err)
	second, err := svc.UploadPhoto(ctx, session.ID, photoDataURL("image/jpeg", 10))
	require.NoError(t, err)
	assert.NotEqual(t, first.UserPhotoFileID, second.UserPhotoFileID)
}

func TestCloseResetsTransientState(t *testing.T) {
	fetcher := &mockFetcher{pages: []*shopify.ProductPage{
		{Products: []shopify.ProductNode{storefrontProduct("midi-dress", "Midi Dress", "Dresses",
			sizedVariant("gid://shopify/ProductVariant/11", "M", "20.00"))}},
	}}
	svc, _ := newTestSessionService(fetcher)
	ctx := context.Background()
	session := configuredSession(t, svc)

	_, err := svc.LoadCatalog(ctx, session.ID)
	require.NoError(t, err)
	_, _, err = svc.Open(ctx, session.ID)
	require.NoError(t, err)
	_, err = svc.SelectClothing(ctx, session.ID, "midi-dress")
	require.NoError(t, err)
	_, err = svc.UploadPhoto(ctx, session.ID, photoDataURL("image/jpeg", 10))
	require.NoError(t, err)
	_, err = svc.SetMode(ctx, session.ID, domain.ModeChat)
	require.NoError(t, err)

	closed, err := svc.Close(ctx, session.ID)
	require.NoError(t, err)
	assert.False(t, closed.WidgetOpen)
	assert.Equal(t, domain.ModeTryOn, closed.Mode)
	assert.Empty(t, closed.SelectedClothing)
	assert.Empty(t, closed.UserPhoto)
	assert.Empty(t, closed.UserPhotoFileID)
	assert.NotEmpty(t, closed.Catalog, "catalog survives a close")
}

func TestSelectClothingUnknownID(t *testing.T) {
	svc, _ := newTestSessionService(&mockFetcher{})
	ctx := context.Background()
	session := configuredSession(t, svc)

	_, err := svc.SelectClothing(ctx, session.ID, "no-such-item")
	var notFound *errors.ErrNotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestSearchCatalog(t *testing.T) {
	fetcher := &mockFetcher{err: assert.AnError} // demo dataset
	svc, _ := newTestSessionService(fetcher)
	ctx := context.Background()
	session := configuredSession(t, svc)
	_, err := svc.LoadCatalog(ctx, session.ID)
	require.NoError(t, err)

	byName, err := svc.Search(ctx, session.ID, "denim")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "demo-jacket-1", byName[0].ID)

	byColor, err := svc.Search(ctx, session.ID, "white")
	require.NoError(t, err)
	assert.Len(t, byColor, 1)

	byCategory, err := svc.Search(ctx, session.ID, "dress")
	require.NoError(t, err)
	assert.Len(t, byCategory, 1)

	all, err := svc.Search(ctx, session.ID, "  ")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	none, err := svc.Search(ctx, session.ID, "snowboard")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestEndSessionDropsStateAndWardrobe(t *testing.T) {
	sessions, repos := newTestSessionService(&mockFetcher{err: assert.AnError})
	ctx := context.Background()

	session := configuredSession(t, sessions)
	_, err := sessions.LoadCatalog(ctx, session.ID)
	require.NoError(t, err)
	require.NoError(t, repos.Wardrobe.Upsert(ctx, session.ID, domain.WardrobeItem{
		ID:         "tryon-1",
		ClothingID: "demo-shirt-1",
		SessionID:  session.ID,
	}))

	require.NoError(t, sessions.End(ctx, session.ID))

	_, err = sessions.Get(ctx, session.ID)
	var notFound *errors.ErrNotFound
	assert.ErrorAs(t, err, &notFound)

	count, err := repos.Wardrobe.Count(ctx, session.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	err = sessions.End(ctx, session.ID)
	assert.ErrorAs(t, err, &notFound, "ending twice reports the missing session")
}

func TestOpenRecomputesFeaturedSelection(t *testing.T) {
	sessions, _ := newTestSessionService(&mockFetcher{err: assert.AnError}) // demo catalog
	ctx := context.Background()
	session := configuredSession(t, sessions)

	loaded, err := sessions.LoadCatalog(ctx, session.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Featured)

	_, opened, err := sessions.Open(ctx, session.ID)
	require.NoError(t, err)
	require.NotNil(t, opened)
	require.NotNil(t, opened.Featured)
	assert.Equal(t, loaded.Featured.ID, opened.Featured.ID)
	assert.Equal(t, loaded.Badge, opened.Badge)

	_, err = sessions.SelectClothing(ctx, session.ID, "demo-jacket-1")
	require.NoError(t, err)

	reopened, sel, err := sessions.Open(ctx, session.ID)
	require.NoError(t, err)
	require.NotNil(t, sel)
	assert.Equal(t, "demo-jacket-1", reopened.SelectedClothing, "reopening keeps the shopper's selection")
}
