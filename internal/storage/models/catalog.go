package models

import "time"

// Set is a row of the sets table.
type Set struct {
	Code        string    `db:"code"`
	Name        string    `db:"name"`
	SetType     string    `db:"set_type"`
	ReleaseDate string    `db:"release_date"` // YYYY-MM-DD, empty when unknown
	ImportedAt  time.Time `db:"imported_at"`
}

// Card is a row of the cards table. List-valued columns hold JSON arrays.
type Card struct {
	ID        string  `db:"id"`
	SetCode   string  `db:"set_code"`
	Position  int     `db:"position"` // order within the set as imported
	Name      string  `db:"name"`
	Names     string  `db:"names"`
	Number    int     `db:"number"`
	ManaCost  string  `db:"mana_cost"`
	CMC       float64 `db:"cmc"`
	Type      string  `db:"type"`
	Types     string  `db:"types"`
	Rarity    string  `db:"rarity"`
	Power     *int    `db:"power"`
	Toughness *int    `db:"toughness"`
	Loyalty   string  `db:"loyalty"`
	Colors    string  `db:"colors"`
	Layout    string  `db:"layout"`
	Side      string  `db:"side"`
	Text      string  `db:"text"`
	ImageURL  string  `db:"image_url"`
}

// CatalogCounts summarizes a stored catalog.
type CatalogCounts struct {
	Sets  int `db:"sets"`
	Cards int `db:"cards"`
}
