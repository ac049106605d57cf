package models

// Pokedex is a user-defined grouping of cards (many-to-many via
// pokedex_cards).
type Pokedex struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
