// Package editions manages edition records directly (create, correct,
// list, delete); lazily-scraped editions are created by the cards
// package instead.
package editions

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

type Input struct {
	Code string
	Name string
	Year string
}

// Create persists an edition from direct input, normalized the same way
// scraped edition data is.
func (s *Service) Create(ctx context.Context, in Input) (*models.Edition, error) {
	uow, err := repository.Begin(ctx, s.db)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	edition := &models.Edition{
		Code: in.Code,
		Name: models.NormalizeName(in.Name),
		Year: models.NormalizeYear(in.Year),
	}
	if _, err := uow.Editions.Save(ctx, edition); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.log.Info("edition created", zap.Int64("id", edition.ID), zap.String("code", edition.Code))
	return edition, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*models.Edition, error) {
	edition, err := repository.NewEditions(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if edition == nil {
		return nil, fmt.Errorf("edition %d: %w", id, repository.ErrNotFound)
	}
	return edition, nil
}

func (s *Service) List(ctx context.Context, page, pageSize int) ([]*models.Edition, int, error) {
	return repository.NewEditions(s.db).List(ctx, nil, (page-1)*pageSize, pageSize)
}

// Update applies the non-nil fields of upd. The id is never touched.
func (s *Service) Update(ctx context.Context, id int64, upd models.EditionUpdate) (*models.Edition, error) {
	uow, err := repository.Begin(ctx, s.db)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	edition, err := uow.Editions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if edition == nil {
		return nil, fmt.Errorf("edition %d: %w", id, repository.ErrNotFound)
	}

	if upd.Name != nil {
		edition.Name = models.NormalizeName(*upd.Name)
	}
	if upd.Code != nil {
		edition.Code = *upd.Code
	}
	if upd.Year != nil {
		edition.Year = models.NormalizeYear(*upd.Year)
	}

	if _, err := uow.Editions.Save(ctx, edition); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return edition, nil
}

// Delete removes an edition. When cards still reference it the FK
// constraint fails and surfaces as a conflict; the cards are never
// orphaned.
func (s *Service) Delete(ctx context.Context, id int64) error {
	uow, err := repository.Begin(ctx, s.db)
	if err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.Editions.Remove(ctx, id); err != nil {
		return err
	}
	return uow.Commit()
}
