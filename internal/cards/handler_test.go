package cards

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardhub/internal/liga"
)

func fetchFailure() *liga.FetchError {
	return &liga.FetchError{URL: "http://example", Err: errors.New("status 503")}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func newTestRouter(t *testing.T, db *sql.DB, f *fakeFetcher) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(newTestService(db, f)).RegisterRoutes(r.Group("/pokemon"))
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Metadata *struct {
		Total    int `json:"total"`
		Page     int `json:"page"`
		PageSize int `json:"page_size"`
	} `json:"metadata"`
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestCreateEndpointThenIdempotentReplay(t *testing.T) {
	db := testDB(t)
	f := pikachuFetcher()
	r := newTestRouter(t, db, f)

	body := gin.H{"card_id": "025", "set_id": "4", "edition_slug": "base1"}

	w := doJSON(t, r, http.MethodPost, "/pokemon/cards", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	env := decodeEnvelope(t, w)
	require.Nil(t, env.Error)

	var first map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &first))
	assert.Equal(t, "Pikachu", first["name"])
	assert.Equal(t, "base1", first["edition_code"])

	// replay resolves the same row without a second scrape
	w = doJSON(t, r, http.MethodPost, "/pokemon/cards", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var second map[string]any
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &second))
	assert.Equal(t, first["id"], second["id"])
	assert.Equal(t, 1, f.cardCalls)
	assert.Equal(t, 1, f.editionCalls)
}

func TestCreateEndpointValidation(t *testing.T) {
	db := testDB(t)
	r := newTestRouter(t, db, pikachuFetcher())

	w := doJSON(t, r, http.MethodPost, "/pokemon/cards", gin.H{"card_id": "  ", "set_id": "4", "edition_slug": "base1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Message, "required")
}

func TestCreateEndpointUpstreamFailure(t *testing.T) {
	db := testDB(t)
	f := pikachuFetcher()
	f.cardErrs = []error{fetchFailure()}
	r := newTestRouter(t, db, f)

	w := doJSON(t, r, http.MethodPost, "/pokemon/cards", gin.H{"card_id": "025", "set_id": "4", "edition_slug": "base1"})
	assert.Equal(t, http.StatusBadGateway, w.Code)

	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "external source failure", env.Error.Message)
}

func TestListEndpointEnvelopeAndPagination(t *testing.T) {
	db := testDB(t)
	r := newTestRouter(t, db, pikachuFetcher())

	for i, name := range []string{"Pikachu", "Raichu", "Bulbasaur"} {
		f := pikachuFetcher()
		f.card.CardID = string(rune('1' + i))
		f.card.Name = name
		w := doJSON(t, newTestRouter(t, db, f), http.MethodPost, "/pokemon/cards",
			gin.H{"card_id": f.card.CardID, "set_id": "4", "edition_slug": "base1"})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, r, http.MethodGet, "/pokemon/cards?page=2&page_size=2", nil)
	require.Equal(t, http.StatusOK, w.Code)

	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Metadata)
	assert.Equal(t, 3, env.Metadata.Total)
	assert.Equal(t, 2, env.Metadata.Page)
	assert.Equal(t, 2, env.Metadata.PageSize)

	var items []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &items))
	assert.Len(t, items, 1)
}

func TestGetEndpointMissingCard(t *testing.T) {
	db := testDB(t)
	r := newTestRouter(t, db, pikachuFetcher())

	w := doJSON(t, r, http.MethodGet, "/pokemon/cards/777", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "not found", env.Error.Message)
}

func TestGetEndpointRejectsBadID(t *testing.T) {
	db := testDB(t)
	r := newTestRouter(t, db, pikachuFetcher())

	for _, path := range []string{"/pokemon/cards/abc", "/pokemon/cards/0", "/pokemon/cards/-3"} {
		w := doJSON(t, r, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}

func TestUpdateEndpointPatchesRarity(t *testing.T) {
	db := testDB(t)
	r := newTestRouter(t, db, pikachuFetcher())

	w := doJSON(t, r, http.MethodPost, "/pokemon/cards", gin.H{"card_id": "025", "set_id": "4", "edition_slug": "base1"})
	require.Equal(t, http.StatusCreated, w.Code)

	var created map[string]any
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &created))
	id := int64(created["id"].(float64))

	w = doJSON(t, r, http.MethodPut, "/pokemon/cards/"+itoa(id), gin.H{"rarity": "Rare Holo"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated map[string]any
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &updated))
	assert.Equal(t, "Rare Holo", updated["rarity"])
	assert.Equal(t, "Pikachu", updated["name"])
}

func TestDeleteEndpoint(t *testing.T) {
	db := testDB(t)
	r := newTestRouter(t, db, pikachuFetcher())

	w := doJSON(t, r, http.MethodPost, "/pokemon/cards", gin.H{"card_id": "025", "set_id": "4", "edition_slug": "base1"})
	require.Equal(t, http.StatusCreated, w.Code)

	var created map[string]any
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &created))
	id := int64(created["id"].(float64))

	w = doJSON(t, r, http.MethodDelete, "/pokemon/cards/"+itoa(id), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/pokemon/cards/"+itoa(id), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
