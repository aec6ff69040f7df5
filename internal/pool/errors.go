package pool

import (
	"errors"

	"github.com/ramonehamilton/draftpool/internal/catalog"
	"github.com/ramonehamilton/draftpool/internal/dealer"
)

var (
	// ErrUnknownCard is returned when a cube list names a card missing from the catalog.
	ErrUnknownCard = catalog.ErrUnknownCard

	// ErrUnknownSet is returned when a configured set code is not in the catalog.
	ErrUnknownSet = catalog.ErrUnknownSet

	// ErrEmptyCategory is returned when a set lacks cards for a slot the mode requires.
	ErrEmptyCategory = dealer.ErrEmptyCategory

	// ErrNoEligibleSet is returned when chaos selection runs out of candidate sets.
	ErrNoEligibleSet = errors.New("no eligible set with both commons and uncommons")

	// ErrInsufficientCubeSize is returned when a cube list cannot fill every pack.
	ErrInsufficientCubeSize = errors.New("cube list too small")

	// ErrInvalidRequest is returned for malformed mode configurations.
	ErrInvalidRequest = errors.New("invalid pool request")
)
