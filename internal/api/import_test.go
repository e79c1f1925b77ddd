package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atable/backend/internal/models"
	"github.com/atable/backend/internal/service"
)

// mockImporterService keeps drafts in memory and returns a canned
// extraction.
type mockImporterService struct {
	imported *service.ImportedRecipe
	err      error
	drafts   map[string]*service.ImportDraft
}

func newMockImporter(imported *service.ImportedRecipe, err error) *mockImporterService {
	return &mockImporterService{
		imported: imported,
		err:      err,
		drafts:   make(map[string]*service.ImportDraft),
	}
}

func (m *mockImporterService) ImportFromURL(ctx context.Context, url string) (*service.ImportedRecipe, error) {
	return m.imported, m.err
}

func (m *mockImporterService) ImportFromPhoto(ctx context.Context, photo string) (*service.ImportedRecipe, error) {
	return m.imported, m.err
}

func (m *mockImporterService) SaveDraft(ctx context.Context, draft *service.ImportDraft) error {
	draft.ID = uuid.New().String()
	draft.CreatedAt = time.Now()
	m.drafts[draft.ID] = draft
	return nil
}

func (m *mockImporterService) GetDraft(ctx context.Context, id string) (*service.ImportDraft, error) {
	draft, ok := m.drafts[id]
	if !ok {
		return nil, errors.New("draft not found")
	}
	return draft, nil
}

func (m *mockImporterService) UpdateDraft(ctx context.Context, draft *service.ImportDraft) error {
	m.drafts[draft.ID] = draft
	return nil
}

func (m *mockImporterService) DeleteDraft(ctx context.Context, id string) error {
	delete(m.drafts, id)
	return nil
}

func sampleImport() *service.ImportedRecipe {
	return &service.ImportedRecipe{
		Title: &service.ConfidenceString{Value: "Blanquette de veau", Confidence: 0.92, Justification: "titre de la page"},
		Ingredients: &service.ConfidenceIngredientList{
			Value:      []service.GeneratedIngredient{{Name: "Veau", Quantity: "800g"}},
			Confidence: 0.85,
		},
	}
}

// Without Redis no importer service is wired; every import route must
// report the feature unavailable instead of failing deeper in.
func TestImportUnavailableWithoutRedis(t *testing.T) {
	env := SetupTestEnv(t, nil, nil)
	_, token := CreateTestUserAndToken(t, env)

	w := PerformRequest(env.Router, "POST", "/api/v1/import/url", token, map[string]string{
		"url": "https://example.com/blanquette",
	})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code, w.Body.String())

	w = PerformRequest(env.Router, "POST", "/api/v1/import/photo", token, map[string]string{
		"photo": "data:image/jpeg;base64,AAAA",
	})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = PerformRequest(env.Router, "GET", "/api/v1/import/drafts/some-id", token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestImportFromURLEndpoint(t *testing.T) {
	importer := newMockImporter(sampleImport(), nil)
	env := SetupTestEnv(t, nil, importer)
	_, token := CreateTestUserAndToken(t, env)

	w := PerformRequest(env.Router, "POST", "/api/v1/import/url", token, map[string]string{
		"url": "https://example.com/blanquette",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var draft service.ImportDraft
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &draft))
	assert.NotEmpty(t, draft.ID)
	require.NotNil(t, draft.Recipe.Title)
	assert.Equal(t, "Blanquette de veau", draft.Recipe.Title.Value)

	// Fields the source did not contain stay absent in the payload.
	assert.NotContains(t, w.Body.String(), "servings")
}

func TestImportFromURLNothingFoundEndpoint(t *testing.T) {
	importer := newMockImporter(nil, service.ErrEmptyGeneration)
	env := SetupTestEnv(t, nil, importer)
	_, token := CreateTestUserAndToken(t, env)

	w := PerformRequest(env.Router, "POST", "/api/v1/import/url", token, map[string]string{
		"url": "https://example.com/rien",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestDraftReviewAndConfirm(t *testing.T) {
	importer := newMockImporter(sampleImport(), nil)
	env := SetupTestEnv(t, nil, importer)
	_, token := CreateTestUserAndToken(t, env)

	w := PerformRequest(env.Router, "POST", "/api/v1/import/url", token, map[string]string{
		"url": "https://example.com/blanquette",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var draft service.ImportDraft
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &draft))

	// Fix a field during review.
	edited := draft.Recipe
	edited.Servings = &service.ConfidenceNumber{Value: 4, Confidence: 1, Justification: "corrigé à la main"}
	w = PerformRequest(env.Router, "PUT", "/api/v1/import/drafts/"+draft.ID, token, edited)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = PerformRequest(env.Router, "POST", "/api/v1/import/drafts/"+draft.ID+"/confirm", token, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var recipe models.Recipe
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &recipe))
	assert.Equal(t, "Blanquette de veau", recipe.Title)
	assert.Equal(t, 4, recipe.Servings)
	assert.Equal(t, models.CategoryPlat, recipe.Category, "missing category falls back to the main course")

	// The draft is gone after confirmation.
	w = PerformRequest(env.Router, "GET", "/api/v1/import/drafts/"+draft.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDraftIsScopedToOwner(t *testing.T) {
	importer := newMockImporter(sampleImport(), nil)
	env := SetupTestEnv(t, nil, importer)
	_, ownerToken := CreateTestUserAndToken(t, env)
	_, otherToken := CreateTestUserAndToken(t, env)

	w := PerformRequest(env.Router, "POST", "/api/v1/import/url", ownerToken, map[string]string{
		"url": "https://example.com/blanquette",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var draft service.ImportDraft
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &draft))

	w = PerformRequest(env.Router, "GET", "/api/v1/import/drafts/"+draft.ID, otherToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDiscardDraft(t *testing.T) {
	importer := newMockImporter(sampleImport(), nil)
	env := SetupTestEnv(t, nil, importer)
	_, token := CreateTestUserAndToken(t, env)

	w := PerformRequest(env.Router, "POST", "/api/v1/import/photo", token, map[string]string{
		"photo": "data:image/jpeg;base64,AAAA",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var draft service.ImportDraft
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &draft))

	w = PerformRequest(env.Router, "DELETE", "/api/v1/import/drafts/"+draft.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	var count int64
	env.DB.Model(&models.Recipe{}).Count(&count)
	assert.Zero(t, count, "a discarded draft never becomes a recipe")
}
