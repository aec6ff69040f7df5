package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/draftpool/internal/api/response"
	"github.com/ramonehamilton/draftpool/internal/catalog"
)

// SetSummary describes a set without its card list.
type SetSummary struct {
	Code        string                 `json:"code"`
	Name        string                 `json:"name"`
	Type        string                 `json:"type"`
	ReleaseDate string                 `json:"releaseDate,omitempty"`
	Cards       int                    `json:"cards"`
	Rarities    map[catalog.Rarity]int `json:"rarities"`
}

func summarize(set *catalog.Set) SetSummary {
	s := SetSummary{
		Code:     set.Code,
		Name:     set.Name,
		Type:     set.Type,
		Cards:    len(set.Cards),
		Rarities: set.RarityCounts(),
	}
	if !set.ReleaseDate.IsZero() {
		s.ReleaseDate = set.ReleaseDate.Format(catalog.ReleaseDateLayout)
	}
	return s
}

// SetHandler handles set-related API requests.
type SetHandler struct {
	catalogs CatalogSource
}

// NewSetHandler creates a new SetHandler.
func NewSetHandler(catalogs CatalogSource) *SetHandler {
	return &SetHandler{catalogs: catalogs}
}

// ListSets returns the expansion and core sets. modern=true narrows the list
// to modern sets, all=true lists every set including promos.
func (h *SetHandler) ListSets(w http.ResponseWriter, r *http.Request) {
	cat, ok := snapshot(h.catalogs, w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	modern, err := parseBool(query.Get("modern"))
	if err != nil {
		response.BadRequest(w, r, errors.New("modern must be true or false"))
		return
	}
	all, err := parseBool(query.Get("all"))
	if err != nil {
		response.BadRequest(w, r, errors.New("all must be true or false"))
		return
	}

	var sets []*catalog.Set
	switch {
	case all:
		sets = cat.Sets()
	case modern:
		sets = cat.ModernOrCoreSets()
	default:
		sets = cat.ExpansionOrCoreSets()
	}

	summaries := make([]SetSummary, 0, len(sets))
	for _, set := range sets {
		summaries = append(summaries, summarize(set))
	}
	response.Success(w, summaries)
}

// GetSet returns one set summary.
func (h *SetHandler) GetSet(w http.ResponseWriter, r *http.Request) {
	cat, ok := snapshot(h.catalogs, w, r)
	if !ok {
		return
	}

	set, err := cat.SetByCode(chi.URLParam(r, "code"))
	if err != nil {
		if errors.Is(err, catalog.ErrUnknownSet) {
			response.NotFound(w, r, err)
			return
		}
		response.InternalError(w, r, err)
		return
	}

	response.Success(w, summarize(set))
}

func parseBool(s string) (bool, error) {
	if s == "" {
		return false, nil
	}
	return strconv.ParseBool(s)
}
