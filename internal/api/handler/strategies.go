// Package handler implements the JSON API endpoints.
package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/sigco3111/core-quant/internal/api/response"
	"github.com/sigco3111/core-quant/internal/core"
	"github.com/sigco3111/core-quant/internal/metrics"
	"github.com/sigco3111/core-quant/internal/strategy"
)

// userID pulls the caller identity set by the auth layer upstream.
func userID(r *http.Request) (string, bool) {
	id := r.Header.Get("X-User-ID")
	return id, id != ""
}

// StrategyHandler exposes strategy CRUD over the strategy service.
type StrategyHandler struct {
	service *strategy.Service
	metrics *metrics.Registry
}

// NewStrategyHandler creates a strategy handler.
func NewStrategyHandler(service *strategy.Service, reg *metrics.Registry) *StrategyHandler {
	return &StrategyHandler{service: service, metrics: reg}
}

// Create handles POST /api/strategies.
func (h *StrategyHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner, ok := userID(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, core.WrapError(core.ErrUnauthorized, nil))
		return
	}

	var strat strategy.Strategy
	if err := json.NewDecoder(r.Body).Decode(&strat); err != nil {
		response.Error(w, http.StatusBadRequest, core.WrapError(core.ErrConfigInvalid, err))
		return
	}
	strat.Owner = owner

	created, err := h.service.Create(r.Context(), strat)
	if err != nil {
		response.Error(w, response.StatusFor(err), err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordStrategySaved()
	}
	response.JSON(w, http.StatusCreated, created)
}

// Get handles GET /api/strategies/{id}.
func (h *StrategyHandler) Get(w http.ResponseWriter, r *http.Request) {
	requester, ok := userID(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, core.WrapError(core.ErrUnauthorized, nil))
		return
	}

	strat, err := h.service.Get(r.Context(), requester, r.PathValue("id"))
	if err != nil {
		response.Error(w, response.StatusFor(err), err)
		return
	}
	response.JSON(w, http.StatusOK, strat)
}

// Update handles PUT /api/strategies/{id}.
func (h *StrategyHandler) Update(w http.ResponseWriter, r *http.Request) {
	requester, ok := userID(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, core.WrapError(core.ErrUnauthorized, nil))
		return
	}

	var strat strategy.Strategy
	if err := json.NewDecoder(r.Body).Decode(&strat); err != nil {
		response.Error(w, http.StatusBadRequest, core.WrapError(core.ErrConfigInvalid, err))
		return
	}
	strat.ID = r.PathValue("id")

	updated, err := h.service.Update(r.Context(), requester, strat)
	if err != nil {
		response.Error(w, response.StatusFor(err), err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordStrategySaved()
	}
	response.JSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/strategies/{id}.
func (h *StrategyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requester, ok := userID(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, core.WrapError(core.ErrUnauthorized, nil))
		return
	}

	if err := h.service.Delete(r.Context(), requester, r.PathValue("id")); err != nil {
		response.Error(w, response.StatusFor(err), err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ListResponse is the page envelope for strategy listings.
type ListResponse struct {
	Items      []strategy.Strategy `json:"items"`
	NextCursor string              `json:"nextCursor,omitempty"`
}

// List handles GET /api/strategies.
func (h *StrategyHandler) List(w http.ResponseWriter, r *http.Request) {
	requester, ok := userID(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, core.WrapError(core.ErrUnauthorized, nil))
		return
	}

	filter, err := listFilter(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, core.WrapError(core.ErrConfigInvalid, err))
		return
	}

	page, err := h.service.List(r.Context(), requester, filter)
	if err != nil {
		response.Error(w, response.StatusFor(err), err)
		return
	}
	response.JSON(w, http.StatusOK, ListResponse{Items: page.Items, NextCursor: page.NextCursor})
}

func listFilter(r *http.Request) (strategy.ListFilter, error) {
	q := r.URL.Query()

	filter := strategy.ListFilter{
		Owner:  q.Get("owner"),
		Tag:    q.Get("tag"),
		Cursor: q.Get("cursor"),
		Limit:  50,
	}
	if filter.Owner == "" {
		filter.Owner = r.Header.Get("X-User-ID")
	}

	switch v := q.Get("visibility"); v {
	case "":
	case "public":
		filter.Visibility = strategy.VisibilityPublic
	case "private":
		filter.Visibility = strategy.VisibilityPrivate
	default:
		return filter, fmt.Errorf("unknown visibility %q", v)
	}

	switch s := q.Get("sort"); s {
	case "", "name":
		filter.SortBy = strategy.SortByName
	case "created_at":
		filter.SortBy = strategy.SortByCreatedAt
	case "updated_at":
		filter.SortBy = strategy.SortByUpdatedAt
	default:
		return filter, fmt.Errorf("unknown sort field %q", s)
	}
	filter.Descending = q.Get("order") == "desc"

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > 200 {
			return filter, fmt.Errorf("limit must be an integer in [1, 200]")
		}
		filter.Limit = limit
	}

	return filter, nil
}
