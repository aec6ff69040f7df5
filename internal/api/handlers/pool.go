package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ramonehamilton/draftpool/internal/api/response"
	"github.com/ramonehamilton/draftpool/internal/booster"
	"github.com/ramonehamilton/draftpool/internal/catalog"
	"github.com/ramonehamilton/draftpool/internal/cubelist"
	"github.com/ramonehamilton/draftpool/internal/metrics"
	"github.com/ramonehamilton/draftpool/internal/pool"
	"github.com/ramonehamilton/draftpool/internal/random"
)

// maxPoolRequestBytes bounds request bodies; cube lists are the largest input.
const maxPoolRequestBytes = 1 << 20

// PoolRequest is the body of POST /pools. CubeText, when set, is parsed as
// a cube list and replaces CubeList.
type PoolRequest struct {
	pool.Request
	CubeText string `json:"cubeText,omitempty"`
}

// PoolHandler generates pools from the current catalog.
type PoolHandler struct {
	catalogs CatalogSource
	defaults pool.Defaults
	src      random.Source
	metrics  *metrics.PoolMetrics
	logger   *slog.Logger
}

// NewPoolHandler creates a new PoolHandler. src is shared by concurrent
// requests and must be safe for concurrent use; nil means random.Default().
// A nil logger uses slog.Default().
func NewPoolHandler(catalogs CatalogSource, defaults pool.Defaults, src random.Source, m *metrics.PoolMetrics, logger *slog.Logger) *PoolHandler {
	if src == nil {
		src = random.Default()
	}
	if m == nil {
		m = metrics.NewPoolMetrics()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PoolHandler{catalogs: catalogs, defaults: defaults, src: src, metrics: m, logger: logger}
}

// GeneratePool builds the packs or sealed pools for a new event.
func (h *PoolHandler) GeneratePool(w http.ResponseWriter, r *http.Request) {
	var req PoolRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPoolRequestBytes)).Decode(&req); err != nil {
		response.BadRequest(w, r, fmt.Errorf("invalid request body: %w", err))
		return
	}

	if req.CubeText != "" {
		list, err := cubelist.ParseLimit(req.CubeText, h.defaults.MaxCubeSize)
		if err != nil {
			response.BadRequest(w, r, err)
			return
		}
		for _, warning := range list.Warnings {
			h.logger.Debug("Cube list warning", "warning", warning)
		}
		req.CubeList = list.Names()
	}

	cat, ok := snapshot(h.catalogs, w, r)
	if !ok {
		return
	}

	// The engine and booster generator hold one snapshot for the whole call.
	engine := pool.New(cat, booster.New(cat, h.src),
		pool.WithSource(h.src),
		pool.WithDefaults(h.defaults),
		pool.WithLogger(h.logger),
	)

	start := time.Now()
	generated, err := engine.Generate(req.Request)
	if err != nil {
		h.metrics.RecordFailed()
		status := poolErrorStatus(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("Pool generation failed", "type", req.Type, "mode", req.Mode, "error", err)
		}
		response.Error(w, r, status, err)
		return
	}

	h.metrics.RecordGenerated(string(req.Type)+"/"+string(req.Mode), generated.CardCount(), time.Since(start))
	response.Created(w, generated)
}

// Metrics reports pool generation counters.
func (h *PoolHandler) Metrics(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, h.metrics.Stats())
}

func poolErrorStatus(err error) int {
	switch {
	case errors.Is(err, pool.ErrInvalidRequest),
		errors.Is(err, pool.ErrUnknownCard),
		errors.Is(err, pool.ErrUnknownSet),
		errors.Is(err, pool.ErrInsufficientCubeSize):
		return http.StatusBadRequest
	case errors.Is(err, pool.ErrEmptyCategory),
		errors.Is(err, pool.ErrNoEligibleSet),
		errors.Is(err, booster.ErrEmptySet),
		errors.Is(err, catalog.ErrNoSets):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
