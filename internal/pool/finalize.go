package pool

import "github.com/ramonehamilton/draftpool/internal/catalog"

// finalize mints instance ids and assigns raw pack i to player i % players,
// so consecutive packs in a round go to consecutive players.
func (e *Engine) finalize(raw [][]*catalog.Card, players int) Pool {
	pool := make(Pool, players)
	for i, cards := range raw {
		pack := make(Pack, len(cards))
		for j, card := range cards {
			pack[j] = DraftedCard{Card: card, InstanceID: e.newID()}
		}
		player := i % players
		pool[player] = append(pool[player], pack)
	}
	return pool
}
