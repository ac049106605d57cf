// Package pokedex manages user-defined card collections and their
// membership rows.
package pokedex

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"cardhub/pkg/models"
	"cardhub/pkg/repository"
)

type Service struct {
	db  *sql.DB
	log *zap.Logger
}

func NewService(db *sql.DB, log *zap.Logger) *Service {
	return &Service{db: db, log: log}
}

func (s *Service) Create(ctx context.Context, name string) (*models.Pokedex, error) {
	uow, err := repository.Begin(ctx, s.db)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	pokedex := &models.Pokedex{Name: name}
	if _, err := uow.Pokedexes.Save(ctx, pokedex); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.log.Info("pokedex created", zap.Int64("id", pokedex.ID), zap.String("name", pokedex.Name))
	return pokedex, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*models.Pokedex, error) {
	pokedex, err := repository.NewPokedexes(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pokedex == nil {
		return nil, fmt.Errorf("pokedex %d: %w", id, repository.ErrNotFound)
	}
	return pokedex, nil
}

func (s *Service) List(ctx context.Context, page, pageSize int) ([]*models.Pokedex, int, error) {
	return repository.NewPokedexes(s.db).List(ctx, nil, (page-1)*pageSize, pageSize)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	uow, err := repository.Begin(ctx, s.db)
	if err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.Pokedexes.Remove(ctx, id); err != nil {
		return err
	}
	return uow.Commit()
}

// AddCard records membership. Both sides must exist; re-adding an
// existing member is a no-op.
func (s *Service) AddCard(ctx context.Context, pokedexID, cardID int64) error {
	uow, err := repository.Begin(ctx, s.db)
	if err != nil {
		return err
	}
	defer uow.Rollback()

	pokedex, err := uow.Pokedexes.GetByID(ctx, pokedexID)
	if err != nil {
		return err
	}
	if pokedex == nil {
		return fmt.Errorf("pokedex %d: %w", pokedexID, repository.ErrNotFound)
	}
	card, err := uow.Cards.GetByID(ctx, cardID)
	if err != nil {
		return err
	}
	if card == nil {
		return fmt.Errorf("card %d: %w", cardID, repository.ErrNotFound)
	}

	if err := uow.Pokedexes.AddCard(ctx, pokedexID, cardID); err != nil {
		return err
	}
	return uow.Commit()
}

func (s *Service) RemoveCard(ctx context.Context, pokedexID, cardID int64) error {
	uow, err := repository.Begin(ctx, s.db)
	if err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.Pokedexes.RemoveCard(ctx, pokedexID, cardID); err != nil {
		return err
	}
	return uow.Commit()
}

// ListCards pages through a pokedex's member cards. The pokedex itself
// must exist so an empty result is distinguishable from a bad id.
func (s *Service) ListCards(ctx context.Context, pokedexID int64, page, pageSize int) ([]*models.CardDetail, int, error) {
	repo := repository.NewPokedexes(s.db)

	pokedex, err := repo.GetByID(ctx, pokedexID)
	if err != nil {
		return nil, 0, err
	}
	if pokedex == nil {
		return nil, 0, fmt.Errorf("pokedex %d: %w", pokedexID, repository.ErrNotFound)
	}

	return repo.ListCards(ctx, pokedexID, (page-1)*pageSize, pageSize)
}
