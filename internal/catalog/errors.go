package catalog

import "errors"

var (
	// ErrUnknownCard is returned when a card id or name is not in the catalog.
	ErrUnknownCard = errors.New("unknown card")

	// ErrUnknownSet is returned when a set code is not in the catalog.
	ErrUnknownSet = errors.New("unknown set")

	// ErrNoSets is returned by RandomSet when the catalog has no expansion or core set.
	ErrNoSets = errors.New("catalog has no expansion or core sets")
)
