package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cardhub/pkg/models"
)

func editionTable() Table[models.Edition] {
	return Table[models.Edition]{
		Name:    "editions",
		Columns: []string{"name", "code", "year"},
		Values: func(e *models.Edition) []any {
			return []any{e.Name, e.Code, e.Year}
		},
		Scan: func(scan func(dest ...any) error) (*models.Edition, error) {
			var e models.Edition
			if err := scan(&e.ID, &e.Name, &e.Code, &e.Year); err != nil {
				return nil, err
			}
			return &e, nil
		},
		ID:    func(e *models.Edition) int64 { return e.ID },
		SetID: func(e *models.Edition, id int64) { e.ID = id },
	}
}

type EditionRepo struct {
	*Repo[models.Edition]
	q Querier
}

func NewEditions(q Querier) *EditionRepo {
	return &EditionRepo{Repo: NewRepo(q, editionTable()), q: q}
}

// GetByCode looks an edition up by its business key. Absence is not an
// error.
func (r *EditionRepo) GetByCode(ctx context.Context, code string) (*models.Edition, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT id, name, code, year
		FROM editions
		WHERE code = ?
	`, code)

	var e models.Edition
	if err := row.Scan(&e.ID, &e.Name, &e.Code, &e.Year); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get edition by code: %w", err)
	}
	return &e, nil
}
