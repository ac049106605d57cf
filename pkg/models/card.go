package models

import "fmt"

// Card is a single catalog item. (CardID, SetID, EditionID) is the
// natural key: creation is idempotent over that triple.
type Card struct {
	ID        int64  `json:"id"`
	CardID    string `json:"card_id"`
	SetID     string `json:"set_id"`
	Name      string `json:"name"`
	Rarity    string `json:"rarity,omitempty"`
	EditionID int64  `json:"edition_id"`
}

// CardUpdate patches descriptive fields only. Identity fields
// (card_id, set_id, edition_id) are immutable after creation.
type CardUpdate struct {
	Name   *string `json:"name"`
	Rarity *string `json:"rarity"`
}

// CardDetail is a Card with its edition denormalized for responses.
type CardDetail struct {
	Card
	EditionCode string `json:"edition_code"`
	EditionName string `json:"edition_name"`
}

// ImageName returns the canonical filename for the card's image.
func (c CardDetail) ImageName() string {
	return fmt.Sprintf("%s_%s_%s.jpg", c.EditionCode, c.CardID, c.SetID)
}
