package pool

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ramonehamilton/draftpool/internal/random"
)

// Defaults are the pack counts and sizes used when a configuration leaves
// them at zero.
type Defaults struct {
	DraftPacks         int
	DraftPackSize      int
	SealedCubePoolSize int
	DecadentPacks      int
	ChaosDraftPacks    int
	ChaosSealedPacks   int
	SlotDraftPacks     int
	SlotSealedPacks    int

	// Request bounds. Zero falls back to the stock limit; the engine never
	// runs unbounded.
	MaxPlayers  int
	MaxPacks    int // packs per player
	MaxPackSize int // cards per pack or sealed cube pool
	MaxCubeSize int // entries in a cube list
}

// Stock request bounds.
const (
	DefaultMaxPlayers  = 16
	DefaultMaxPacks    = 36
	DefaultMaxPackSize = 120
	DefaultMaxCubeSize = 2000

	// boosterSize is the nominal size of packs the engine does not size
	// itself (boosters, chaos and slot packs).
	boosterSize = 15
)

// DefaultDefaults returns the stock pack settings.
func DefaultDefaults() Defaults {
	return Defaults{
		DraftPacks:         3,
		DraftPackSize:      15,
		SealedCubePoolSize: 90,
		DecadentPacks:      18,
		ChaosDraftPacks:    3,
		ChaosSealedPacks:   6,
		SlotDraftPacks:     3,
		SlotSealedPacks:    6,
		MaxPlayers:         DefaultMaxPlayers,
		MaxPacks:           DefaultMaxPacks,
		MaxPackSize:        DefaultMaxPackSize,
		MaxCubeSize:        DefaultMaxCubeSize,
	}
}

func (d Defaults) limits() (players, packs, packSize int) {
	return orDefault(d.MaxPlayers, DefaultMaxPlayers),
		orDefault(d.MaxPacks, DefaultMaxPacks),
		orDefault(d.MaxPackSize, DefaultMaxPackSize)
}

// Engine generates pools from one catalog snapshot. An Engine holds no
// per-call state and may be shared, but it is cheap enough to build one per
// request.
type Engine struct {
	catalog  Catalog
	boosters BoosterGenerator
	src      random.Source
	newID    func() string
	logger   *slog.Logger
	defaults Defaults
}

// Option configures an Engine.
type Option func(*Engine)

// WithSource sets the random source. Default: random.Default().
func WithSource(src random.Source) Option {
	return func(e *Engine) { e.src = src }
}

// WithIDFunc sets the instance id generator. Default: uuid.NewString.
func WithIDFunc(fn func() string) Option {
	return func(e *Engine) { e.newID = fn }
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithDefaults overrides the pack defaults.
func WithDefaults(d Defaults) Option {
	return func(e *Engine) { e.defaults = d }
}

// New creates an engine.
func New(cat Catalog, boosters BoosterGenerator, opts ...Option) *Engine {
	e := &Engine{
		catalog:  cat,
		boosters: boosters,
		src:      random.Default(),
		newID:    uuid.NewString,
		logger:   slog.Default(),
		defaults: DefaultDefaults(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// checkShape bounds a players × packs × packSize request. Every factor is
// checked against its limit before anything is multiplied or allocated.
func (e *Engine) checkShape(players, packs, packSize int) error {
	maxPlayers, maxPacks, maxPackSize := e.defaults.limits()
	switch {
	case players < 1:
		return fmt.Errorf("%w: players must be at least 1, got %d", ErrInvalidRequest, players)
	case players > maxPlayers:
		return fmt.Errorf("%w: at most %d players, got %d", ErrInvalidRequest, maxPlayers, players)
	case packs < 1:
		return fmt.Errorf("%w: packs must be positive, got %d", ErrInvalidRequest, packs)
	case packs > maxPacks:
		return fmt.Errorf("%w: at most %d packs per player, got %d", ErrInvalidRequest, maxPacks, packs)
	case packSize < 1:
		return fmt.Errorf("%w: pack size must be positive, got %d", ErrInvalidRequest, packSize)
	case packSize > maxPackSize:
		return fmt.Errorf("%w: at most %d cards per pack, got %d", ErrInvalidRequest, maxPackSize, packSize)
	}
	return nil
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func (e *Engine) logGenerated(kind string, pool Pool) {
	packs := 0
	if len(pool) > 0 {
		packs = len(pool[0])
	}
	e.logger.Debug("Pool generated",
		"mode", kind,
		"players", pool.Players(),
		"packsPerPlayer", packs,
		"cards", pool.CardCount())
}
