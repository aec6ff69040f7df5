// Package handlers implements the HTTP handlers of the pool API.
package handlers

import (
	"errors"
	"net/http"

	"github.com/ramonehamilton/draftpool/internal/api/response"
	"github.com/ramonehamilton/draftpool/internal/catalog"
)

// CatalogSource returns the current catalog snapshot, or nil before the
// first load.
type CatalogSource interface {
	Current() *catalog.Catalog
}

var errCatalogNotLoaded = errors.New("card catalog is not loaded")

// snapshot returns the current catalog or writes a 503.
func snapshot(src CatalogSource, w http.ResponseWriter, r *http.Request) (*catalog.Catalog, bool) {
	cat := src.Current()
	if cat == nil {
		response.ServiceUnavailable(w, r, errCatalogNotLoaded)
		return nil, false
	}
	return cat, true
}
