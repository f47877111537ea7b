package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigco3111/core-quant/internal/storage/document"
	"github.com/sigco3111/core-quant/internal/strategy"
)

const strategyBody = `{
	"name": "rsi-reversal",
	"isPublic": false,
	"tags": ["momentum"],
	"buy": {
		"side": "buy",
		"logic": "and",
		"groups": [{
			"logic": "and",
			"conditions": [{
				"left": {"kind": "RSI", "params": {"period": 14}},
				"op": "<",
				"right": {"type": "value", "value": 30}
			}]
		}]
	},
	"sell": {
		"side": "sell",
		"logic": "and",
		"groups": [{
			"logic": "and",
			"conditions": [{
				"left": {"kind": "RSI", "params": {"period": 14}},
				"op": ">",
				"right": {"type": "value", "value": 70}
			}]
		}]
	},
	"moneyManagement": {
		"initialCapital": 10000,
		"positionSizePct": 100,
		"maxPositions": 1
	}
}`

func strategyMux(h *StrategyHandler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/strategies", h.Create)
	mux.HandleFunc("GET /api/strategies", h.List)
	mux.HandleFunc("GET /api/strategies/{id}", h.Get)
	mux.HandleFunc("PUT /api/strategies/{id}", h.Update)
	mux.HandleFunc("DELETE /api/strategies/{id}", h.Delete)
	return mux
}

func newStrategyHandler() *StrategyHandler {
	svc := strategy.NewService(document.NewMemoryStore(), nil)
	return NewStrategyHandler(svc, nil)
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path, user, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if user != "" {
		req.Header.Set("X-User-ID", user)
	}

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, into any) {
	t.Helper()

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, into))
}

func TestStrategyHandler_CreateAndGet(t *testing.T) {
	mux := strategyMux(newStrategyHandler())

	w := doJSON(t, mux, http.MethodPost, "/api/strategies", "user-1", strategyBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created strategy.Strategy
	decodeData(t, w, &created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "user-1", created.Owner, "owner comes from the identity header")
	assert.Equal(t, "rsi-reversal", created.Name)

	w = doJSON(t, mux, http.MethodGet, "/api/strategies/"+created.ID, "user-1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var got strategy.Strategy
	decodeData(t, w, &got)
	assert.Equal(t, created.ID, got.ID)
}

func TestStrategyHandler_RequiresIdentity(t *testing.T) {
	mux := strategyMux(newStrategyHandler())

	w := doJSON(t, mux, http.MethodPost, "/api/strategies", "", strategyBody)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, mux, http.MethodGet, "/api/strategies", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStrategyHandler_CreateRejectsBadBody(t *testing.T) {
	mux := strategyMux(newStrategyHandler())

	w := doJSON(t, mux, http.MethodPost, "/api/strategies", "user-1", `{"name": `)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Structurally valid JSON, semantically invalid strategy.
	w = doJSON(t, mux, http.MethodPost, "/api/strategies", "user-1", `{"name":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStrategyHandler_VisibilityAndOwnership(t *testing.T) {
	mux := strategyMux(newStrategyHandler())

	w := doJSON(t, mux, http.MethodPost, "/api/strategies", "user-1", strategyBody)
	require.Equal(t, http.StatusCreated, w.Code)
	var created strategy.Strategy
	decodeData(t, w, &created)

	// Private strategy: strangers get 403.
	w = doJSON(t, mux, http.MethodGet, "/api/strategies/"+created.ID, "user-2", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Strangers cannot delete either.
	w = doJSON(t, mux, http.MethodDelete, "/api/strategies/"+created.ID, "user-2", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Unknown id maps to 404.
	w = doJSON(t, mux, http.MethodGet, "/api/strategies/nope", "user-1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStrategyHandler_Update(t *testing.T) {
	mux := strategyMux(newStrategyHandler())

	w := doJSON(t, mux, http.MethodPost, "/api/strategies", "user-1", strategyBody)
	require.Equal(t, http.StatusCreated, w.Code)
	var created strategy.Strategy
	decodeData(t, w, &created)

	edited, err := json.Marshal(func() strategy.Strategy {
		s := created
		s.Name = "renamed"
		return s
	}())
	require.NoError(t, err)

	w = doJSON(t, mux, http.MethodPut, "/api/strategies/"+created.ID, "user-1", string(edited))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated strategy.Strategy
	decodeData(t, w, &updated)
	assert.Equal(t, "renamed", updated.Name)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
}

func TestStrategyHandler_Delete(t *testing.T) {
	mux := strategyMux(newStrategyHandler())

	w := doJSON(t, mux, http.MethodPost, "/api/strategies", "user-1", strategyBody)
	require.Equal(t, http.StatusCreated, w.Code)
	var created strategy.Strategy
	decodeData(t, w, &created)

	w = doJSON(t, mux, http.MethodDelete, "/api/strategies/"+created.ID, "user-1", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, mux, http.MethodGet, "/api/strategies/"+created.ID, "user-1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStrategyHandler_List(t *testing.T) {
	mux := strategyMux(newStrategyHandler())

	for i := 0; i < 3; i++ {
		w := doJSON(t, mux, http.MethodPost, "/api/strategies", "user-1", strategyBody)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, mux, http.MethodGet, "/api/strategies?limit=2", "user-1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data ListResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Data.Items, 2)
	assert.NotEmpty(t, body.Data.NextCursor)

	// Follow the cursor to the last page.
	w = doJSON(t, mux, http.MethodGet, "/api/strategies?limit=2&cursor="+body.Data.NextCursor, "user-1", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Data.Items, 1)
	assert.Empty(t, body.Data.NextCursor)
}

func TestStrategyHandler_ListRejectsBadParams(t *testing.T) {
	mux := strategyMux(newStrategyHandler())

	for _, query := range []string{"?limit=0", "?limit=900", "?limit=abc", "?sort=score", "?visibility=secret"} {
		w := doJSON(t, mux, http.MethodGet, "/api/strategies"+query, "user-1", "")
		assert.Equal(t, http.StatusBadRequest, w.Code, "query %s", query)
	}
}
