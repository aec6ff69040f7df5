package pool

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/ramonehamilton/draftpool/internal/catalog"
)

// RandomSetCode is the set-list placeholder replaced by a random set.
const RandomSetCode = "RNG"

// NormalConfig configures the regular booster modes.
type NormalConfig struct {
	Sets    []string
	Players int
}

// DecadentConfig configures a decadent draft: every pack is the same set.
type DecadentConfig struct {
	Set         string
	Players     int
	PacksNumber int // default 18
}

// SealedNormal opens one booster per set code for every player and
// concatenates them into that player's pool. Random set placeholders are
// resolved independently for each player.
func (e *Engine) SealedNormal(cfg NormalConfig) (Pool, error) {
	if err := e.checkNormal(cfg); err != nil {
		return nil, err
	}

	raw := make([][]*catalog.Card, 0, cfg.Players)
	for p := 0; p < cfg.Players; p++ {
		var cards []*catalog.Card
		for _, code := range cfg.Sets {
			pack, err := e.openBooster(code)
			if err != nil {
				return nil, err
			}
			cards = append(cards, pack...)
		}
		raw = append(raw, cards)
	}

	pool := e.finalize(raw, cfg.Players)
	e.logGenerated("normal sealed", pool)
	return pool, nil
}

// DraftNormal runs one round per set code; in each round every player opens
// a booster of the same set. A random placeholder is resolved once per round.
func (e *Engine) DraftNormal(cfg NormalConfig) (Pool, error) {
	if err := e.checkNormal(cfg); err != nil {
		return nil, err
	}

	raw := make([][]*catalog.Card, 0, len(cfg.Sets)*cfg.Players)
	for _, code := range cfg.Sets {
		resolved, err := e.resolveSetCode(code)
		if err != nil {
			return nil, err
		}
		for p := 0; p < cfg.Players; p++ {
			pack, err := e.openBooster(resolved)
			if err != nil {
				return nil, err
			}
			raw = append(raw, pack)
		}
	}

	pool := e.finalize(raw, cfg.Players)
	e.logGenerated("normal draft", pool)
	return pool, nil
}

// DecadentDraft is a normal draft of PacksNumber rounds of one set.
func (e *Engine) DecadentDraft(cfg DecadentConfig) (Pool, error) {
	if cfg.Set == "" {
		return nil, fmt.Errorf("%w: decadent draft needs a set", ErrInvalidRequest)
	}
	packs := orDefault(cfg.PacksNumber, e.defaults.DecadentPacks)
	if err := e.checkShape(cfg.Players, packs, boosterSize); err != nil {
		return nil, err
	}
	return e.DraftNormal(NormalConfig{
		Sets:    lo.Times(packs, func(int) string { return cfg.Set }),
		Players: cfg.Players,
	})
}

func (e *Engine) checkNormal(cfg NormalConfig) error {
	if len(cfg.Sets) == 0 {
		return fmt.Errorf("%w: at least one set is required", ErrInvalidRequest)
	}
	return e.checkShape(cfg.Players, len(cfg.Sets), boosterSize)
}

func (e *Engine) resolveSetCode(code string) (string, error) {
	if code != RandomSetCode {
		return code, nil
	}
	set, err := e.catalog.RandomSet(e.src)
	if err != nil {
		return "", fmt.Errorf("resolve random set: %w", err)
	}
	return set.Code, nil
}

func (e *Engine) openBooster(code string) ([]*catalog.Card, error) {
	resolved, err := e.resolveSetCode(code)
	if err != nil {
		return nil, err
	}
	pack, err := e.boosters.Generate(resolved)
	if err != nil {
		return nil, fmt.Errorf("generate booster for %s: %w", resolved, err)
	}
	return pack, nil
}
