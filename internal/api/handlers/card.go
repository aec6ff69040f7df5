package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/draftpool/internal/api/response"
	"github.com/ramonehamilton/draftpool/internal/catalog"
)

// CardHandler handles card lookups.
type CardHandler struct {
	catalogs CatalogSource
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(catalogs CatalogSource) *CardHandler {
	return &CardHandler{catalogs: catalogs}
}

// GetCard returns a card by catalog id.
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	cardID := chi.URLParam(r, "cardID")
	if cardID == "" {
		response.BadRequest(w, r, errors.New("card ID is required"))
		return
	}

	cat, ok := snapshot(h.catalogs, w, r)
	if !ok {
		return
	}
	writeCard(w, r, func() (*catalog.Card, error) { return cat.CardByID(cardID) })
}

// GetCardByName returns the oldest printing of a card, matched
// case-insensitively.
func (h *CardHandler) GetCardByName(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		response.BadRequest(w, r, errors.New("card name is required"))
		return
	}

	cat, ok := snapshot(h.catalogs, w, r)
	if !ok {
		return
	}
	writeCard(w, r, func() (*catalog.Card, error) { return cat.CardByName(name) })
}

func writeCard(w http.ResponseWriter, r *http.Request, lookup func() (*catalog.Card, error)) {
	card, err := lookup()
	if err != nil {
		if errors.Is(err, catalog.ErrUnknownCard) {
			response.NotFound(w, r, err)
			return
		}
		response.InternalError(w, r, err)
		return
	}
	response.Success(w, card)
}
