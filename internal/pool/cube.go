package pool

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/ramonehamilton/draftpool/internal/catalog"
	"github.com/ramonehamilton/draftpool/internal/cubelist"
	"github.com/ramonehamilton/draftpool/internal/random"
)

// CubeConfig configures the cube modes.
type CubeConfig struct {
	CubeList    []string
	Players     int
	PacksNumber int // draft only; default 3
	PackSize    int // cards per pack (draft, default 15) or per pool (sealed, default 90)
}

// DraftCube deals Players × PacksNumber packs of PackSize cards from a single
// shuffle of the cube list.
func (e *Engine) DraftCube(cfg CubeConfig) (Pool, error) {
	cfg.PacksNumber = orDefault(cfg.PacksNumber, e.defaults.DraftPacks)
	cfg.PackSize = orDefault(cfg.PackSize, e.defaults.DraftPackSize)

	raw, err := e.assembleCube(cfg)
	if err != nil {
		return nil, err
	}
	pool := e.finalize(raw, cfg.Players)
	e.logGenerated("cube draft", pool)
	return pool, nil
}

// SealedCube deals one pool of PackSize cards per player.
func (e *Engine) SealedCube(cfg CubeConfig) (Pool, error) {
	cfg.PacksNumber = 1
	cfg.PackSize = orDefault(cfg.PackSize, e.defaults.SealedCubePoolSize)

	raw, err := e.assembleCube(cfg)
	if err != nil {
		return nil, err
	}
	pool := e.finalize(raw, cfg.Players)
	e.logGenerated("cube sealed", pool)
	return pool, nil
}

// assembleCube consumes the shuffled list exactly once, without
// replenishment. A list that cannot fill every pack is rejected.
func (e *Engine) assembleCube(cfg CubeConfig) ([][]*catalog.Card, error) {
	if err := e.checkShape(cfg.Players, cfg.PacksNumber, cfg.PackSize); err != nil {
		return nil, err
	}
	if maxCube := orDefault(e.defaults.MaxCubeSize, DefaultMaxCubeSize); len(cfg.CubeList) > maxCube {
		return nil, fmt.Errorf("%w: cube list has %d entries, at most %d allowed",
			ErrInvalidRequest, len(cfg.CubeList), maxCube)
	}

	need := cfg.Players * cfg.PacksNumber * cfg.PackSize
	if len(cfg.CubeList) < need {
		return nil, fmt.Errorf("%w: %d players × %d packs × %d cards needs %d cards, list has %d",
			ErrInsufficientCubeSize, cfg.Players, cfg.PacksNumber, cfg.PackSize, need, len(cfg.CubeList))
	}

	names := random.Shuffled(e.src, cfg.CubeList)[:need]
	raw := make([][]*catalog.Card, 0, cfg.Players*cfg.PacksNumber)
	for _, chunk := range lo.Chunk(names, cfg.PackSize) {
		pack := make([]*catalog.Card, 0, len(chunk))
		for _, name := range chunk {
			card, err := e.resolveCubeCard(name)
			if err != nil {
				return nil, fmt.Errorf("resolve cube card: %w", err)
			}
			pack = append(pack, card)
		}
		raw = append(raw, pack)
	}
	return raw, nil
}

// resolveCubeCard looks up "Name" by its oldest printing and "Name (SET)"
// in that set.
func (e *Engine) resolveCubeCard(ref string) (*catalog.Card, error) {
	name, setCode := cubelist.SplitPrinting(ref)
	if setCode == "" {
		return e.catalog.CardByName(name)
	}
	return e.catalog.CardInSet(setCode, name)
}
