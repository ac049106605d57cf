package models

// Edition is a named release of cards. Code is the Liga slug and the
// unique business key; ID is assigned by the database on first save.
type Edition struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
	Year string `json:"year,omitempty"`
}

// EditionUpdate carries an explicit partial update. Only non-nil fields
// are applied; there is deliberately no way to patch the id.
type EditionUpdate struct {
	Name *string `json:"name"`
	Code *string `json:"code"`
	Year *string `json:"year"`
}
