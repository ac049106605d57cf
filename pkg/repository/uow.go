package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// UnitOfWork groups one repository per entity type over a single
// transaction, so a card creation and its dependent edition creation
// become durable together or not at all. One field per repository keeps
// repository resolution a compile-time property.
type UnitOfWork struct {
	tx   *sql.Tx
	done bool

	Editions  *EditionRepo
	Cards     *CardRepo
	Pokedexes *PokedexRepo
}

func Begin(ctx context.Context, db *sql.DB) (*UnitOfWork, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	return &UnitOfWork{
		tx:        tx,
		Editions:  NewEditions(tx),
		Cards:     NewCards(tx),
		Pokedexes: NewPokedexes(tx),
	}, nil
}

func (u *UnitOfWork) Commit() error {
	if u.done {
		return nil
	}
	u.done = true
	if err := u.tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Rollback discards pending writes. Safe to defer: it is a no-op after
// Commit.
func (u *UnitOfWork) Rollback() error {
	if u.done {
		return nil
	}
	u.done = true
	if err := u.tx.Rollback(); err != nil {
		return fmt.Errorf("rollback: %w", err)
	}
	return nil
}
