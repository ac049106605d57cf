package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cardhub/pkg/models"
)

func cardTable() Table[models.Card] {
	return Table[models.Card]{
		Name:    "cards",
		Columns: []string{"card_id", "set_id", "name", "rarity", "edition_id"},
		Values: func(c *models.Card) []any {
			return []any{c.CardID, c.SetID, c.Name, c.Rarity, c.EditionID}
		},
		Scan: func(scan func(dest ...any) error) (*models.Card, error) {
			var c models.Card
			if err := scan(&c.ID, &c.CardID, &c.SetID, &c.Name, &c.Rarity, &c.EditionID); err != nil {
				return nil, err
			}
			return &c, nil
		},
		ID:    func(c *models.Card) int64 { return c.ID },
		SetID: func(c *models.Card, id int64) { c.ID = id },
	}
}

type CardRepo struct {
	*Repo[models.Card]
	q Querier
}

func NewCards(q Querier) *CardRepo {
	return &CardRepo{Repo: NewRepo(q, cardTable()), q: q}
}

const cardDetailSelect = `
	SELECT c.id, c.card_id, c.set_id, c.name, c.rarity, c.edition_id,
	       e.code, e.name
	FROM cards c
	JOIN editions e ON e.id = c.edition_id
`

func scanCardDetail(scan func(dest ...any) error) (*models.CardDetail, error) {
	var d models.CardDetail
	if err := scan(&d.ID, &d.CardID, &d.SetID, &d.Name, &d.Rarity, &d.EditionID,
		&d.EditionCode, &d.EditionName); err != nil {
		return nil, err
	}
	return &d, nil
}

// GetByIdentifiers resolves a card by its natural key
// (card_id, set_id, edition code). Absence is not an error.
func (r *CardRepo) GetByIdentifiers(ctx context.Context, cardID, setID, editionSlug string) (*models.Card, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT c.id, c.card_id, c.set_id, c.name, c.rarity, c.edition_id
		FROM cards c
		JOIN editions e ON e.id = c.edition_id
		WHERE c.card_id = ? AND c.set_id = ? AND e.code = ?
	`, cardID, setID, editionSlug)

	var c models.Card
	if err := row.Scan(&c.ID, &c.CardID, &c.SetID, &c.Name, &c.Rarity, &c.EditionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get card by identifiers: %w", err)
	}
	return &c, nil
}

// GetDetailed returns the card with its edition denormalized, or
// (nil, nil) when no row matches.
func (r *CardRepo) GetDetailed(ctx context.Context, id int64) (*models.CardDetail, error) {
	row := r.q.QueryRowContext(ctx, cardDetailSelect+`WHERE c.id = ?`, id)

	d, err := scanCardDetail(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get card detail: %w", err)
	}
	return d, nil
}

// ListDetailed pages through the catalog joined with editions.
func (r *CardRepo) ListDetailed(ctx context.Context, skip, limit int) ([]*models.CardDetail, int, error) {
	var total int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM cards`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count cards: %w", err)
	}

	if limit <= 0 {
		limit = -1
	}
	rows, err := r.q.QueryContext(ctx, cardDetailSelect+`ORDER BY c.id LIMIT ? OFFSET ?`, limit, skip)
	if err != nil {
		return nil, 0, fmt.Errorf("list card details: %w", err)
	}
	defer rows.Close()

	out := make([]*models.CardDetail, 0, 16)
	for rows.Next() {
		d, err := scanCardDetail(rows.Scan)
		if err != nil {
			return nil, 0, fmt.Errorf("scan card detail: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows err: %w", err)
	}
	return out, total, nil
}
