package repository

import (
	"context"
	"fmt"

	"cardhub/pkg/models"
)

func pokedexTable() Table[models.Pokedex] {
	return Table[models.Pokedex]{
		Name:    "pokedexes",
		Columns: []string{"name"},
		Values: func(p *models.Pokedex) []any {
			return []any{p.Name}
		},
		Scan: func(scan func(dest ...any) error) (*models.Pokedex, error) {
			var p models.Pokedex
			if err := scan(&p.ID, &p.Name); err != nil {
				return nil, err
			}
			return &p, nil
		},
		ID:    func(p *models.Pokedex) int64 { return p.ID },
		SetID: func(p *models.Pokedex, id int64) { p.ID = id },
	}
}

type PokedexRepo struct {
	*Repo[models.Pokedex]
	q Querier
}

func NewPokedexes(q Querier) *PokedexRepo {
	return &PokedexRepo{Repo: NewRepo(q, pokedexTable()), q: q}
}

// AddCard records membership. Adding the same pair twice is a no-op;
// a missing pokedex or card surfaces as an FK violation.
func (r *PokedexRepo) AddCard(ctx context.Context, pokedexID, cardID int64) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO pokedex_cards (pokedex_id, card_id)
		VALUES (?, ?)
		ON CONFLICT(pokedex_id, card_id) DO NOTHING
	`, pokedexID, cardID)
	if err != nil {
		return fmt.Errorf("add pokedex card: %w", err)
	}
	return nil
}

// RemoveCard deletes a membership pair; ErrNotFound when it never existed.
func (r *PokedexRepo) RemoveCard(ctx context.Context, pokedexID, cardID int64) error {
	res, err := r.q.ExecContext(ctx, `
		DELETE FROM pokedex_cards
		WHERE pokedex_id = ? AND card_id = ?
	`, pokedexID, cardID)
	if err != nil {
		return fmt.Errorf("remove pokedex card: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListCards pages through a pokedex's member cards with edition info.
func (r *PokedexRepo) ListCards(ctx context.Context, pokedexID int64, skip, limit int) ([]*models.CardDetail, int, error) {
	var total int
	if err := r.q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM pokedex_cards WHERE pokedex_id = ?
	`, pokedexID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count pokedex cards: %w", err)
	}

	if limit <= 0 {
		limit = -1
	}
	rows, err := r.q.QueryContext(ctx, `
		SELECT c.id, c.card_id, c.set_id, c.name, c.rarity, c.edition_id,
		       e.code, e.name
		FROM pokedex_cards pc
		JOIN cards c ON c.id = pc.card_id
		JOIN editions e ON e.id = c.edition_id
		WHERE pc.pokedex_id = ?
		ORDER BY c.id
		LIMIT ? OFFSET ?
	`, pokedexID, limit, skip)
	if err != nil {
		return nil, 0, fmt.Errorf("list pokedex cards: %w", err)
	}
	defer rows.Close()

	out := make([]*models.CardDetail, 0, 16)
	for rows.Next() {
		d, err := scanCardDetail(rows.Scan)
		if err != nil {
			return nil, 0, fmt.Errorf("scan pokedex card: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows err: %w", err)
	}
	return out, total, nil
}
