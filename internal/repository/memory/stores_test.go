package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Nollerx/virtual-tryon-widget/pkg/errors"
)

func writeStoresFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stores.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func hashKey(t *testing.T, key string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestStoreRepositoryFromFile(t *testing.T) {
	path := writeStoresFile(t, `[
		{"id":"acme-fashion","name":"Acme Fashion","embedKeyHash":`+jsonString(hashKey(t, "embed_live_key"))+`,"shopDomain":"acme.myshopify.com","storefrontToken":"shpsf_abc"},
		{"id":"dormant","name":"Dormant","embedKeyHash":`+jsonString(hashKey(t, "embed_old_key"))+`,"isActive":false}
	]`)

	repo, err := NewStoreRepositoryFromFile(path)
	require.NoError(t, err)

	ctx := context.Background()

	store, err := repo.GetByEmbedKey(ctx, "embed_live_key")
	require.NoError(t, err)
	assert.Equal(t, "acme-fashion", store.ID)
	assert.Equal(t, "acme.myshopify.com", store.ShopDomain)
	assert.True(t, store.IsActive, "records default to active")

	_, err = repo.GetByEmbedKey(ctx, "embed_wrong_key")
	var unauthorized *errors.ErrUnauthorized
	assert.ErrorAs(t, err, &unauthorized)

	_, err = repo.GetByEmbedKey(ctx, "embed_old_key")
	assert.ErrorAs(t, err, &unauthorized, "inactive stores cannot authenticate")

	stores, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, stores, 2)
}

func TestStoreRepositoryFromFile_Invalid(t *testing.T) {
	_, err := NewStoreRepositoryFromFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = NewStoreRepositoryFromFile(writeStoresFile(t, `{"not":"an array"}`))
	assert.Error(t, err)

	_, err = NewStoreRepositoryFromFile(writeStoresFile(t, `[{"id":"no-hash"}]`))
	assert.Error(t, err, "records without an embed key hash are rejected")
}

func jsonString(s string) string {
	return `"` + s + `"`
}
