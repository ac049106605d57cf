// Package cards holds the reconciliation core: resolving a requested
// card identifier to an existing local row, or creating one from
// scraped data together with its edition in a single transaction.
package cards

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"cardhub/internal/liga"
	"cardhub/pkg/models"
	"cardhub/pkg/repository"
)

// Fetcher is the narrow contract the core needs from the external
// source. Both methods for one ref must cost at most one page load.
type Fetcher interface {
	FetchCard(ctx context.Context, ref liga.CardRef) (liga.CardData, error)
	FetchEdition(ctx context.Context, ref liga.CardRef) (liga.EditionData, error)
}

// FetcherFactory builds a fresh Fetcher per logical operation, so
// scraped pages are never reused across requests.
type FetcherFactory func() Fetcher

type Service struct {
	db         *sql.DB
	newFetcher FetcherFactory
	log        *zap.Logger
}

func NewService(db *sql.DB, newFetcher FetcherFactory, log *zap.Logger) *Service {
	return &Service{db: db, newFetcher: newFetcher, log: log}
}

type CreateInput struct {
	CardID      string
	SetID       string
	EditionSlug string
}

// Create resolves the identifier triple to a persisted card. When the
// card already exists it is returned as-is (created=false) without
// touching the external source. Otherwise the edition is resolved
// (created from scraped data if unseen), the card fetched, and both
// committed together.
//
// A UNIQUE constraint failure means a logically concurrent request won
// the insert race; the whole attempt is retried once so the read path
// picks up the now-existing rows. The fetcher's page cache makes the
// retry free of extra HTTP loads.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.CardDetail, bool, error) {
	f := s.newFetcher()

	detail, created, err := s.createOnce(ctx, in, f)
	if err != nil && repository.IsUniqueViolation(err) {
		s.log.Warn("create card lost insert race, retrying read path",
			zap.String("card_id", in.CardID),
			zap.String("set_id", in.SetID),
			zap.String("edition_slug", in.EditionSlug))
		return s.createOnce(ctx, in, f)
	}
	return detail, created, err
}

func (s *Service) createOnce(ctx context.Context, in CreateInput, f Fetcher) (*models.CardDetail, bool, error) {
	uow, err := repository.Begin(ctx, s.db)
	if err != nil {
		return nil, false, err
	}
	defer uow.Rollback()

	existing, err := uow.Cards.GetByIdentifiers(ctx, in.CardID, in.SetID, in.EditionSlug)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		detail, err := uow.Cards.GetDetailed(ctx, existing.ID)
		if err != nil {
			return nil, false, err
		}
		return detail, false, nil
	}

	ref := liga.CardRef{CardID: in.CardID, SetID: in.SetID, EditionSlug: in.EditionSlug}

	edition, err := s.getOrCreateEdition(ctx, uow, f, ref)
	if err != nil {
		return nil, false, err
	}

	data, err := f.FetchCard(ctx, ref)
	if err != nil {
		return nil, false, err
	}

	card := &models.Card{
		CardID:    data.CardID,
		SetID:     data.SetID,
		Name:      data.Name,
		Rarity:    data.Rarity,
		EditionID: edition.ID,
	}
	if _, err := uow.Cards.Save(ctx, card); err != nil {
		return nil, false, err
	}

	if err := uow.Commit(); err != nil {
		return nil, false, err
	}

	s.log.Info("card created",
		zap.Int64("id", card.ID),
		zap.String("name", card.Name),
		zap.String("edition_code", edition.Code))

	return &models.CardDetail{
		Card:        *card,
		EditionCode: edition.Code,
		EditionName: edition.Name,
	}, true, nil
}

// getOrCreateEdition resolves the edition by its slug, scraping and
// saving it (uncommitted) when absent. The edition save always
// happens-before the card save within the same unit of work.
func (s *Service) getOrCreateEdition(ctx context.Context, uow *repository.UnitOfWork, f Fetcher, ref liga.CardRef) (*models.Edition, error) {
	edition, err := uow.Editions.GetByCode(ctx, ref.EditionSlug)
	if err != nil {
		return nil, err
	}
	if edition != nil {
		return edition, nil
	}

	data, err := f.FetchEdition(ctx, ref)
	if err != nil {
		return nil, err
	}

	edition = &models.Edition{
		Name: data.Name,
		Code: data.Code,
		Year: data.Year,
	}
	if _, err := uow.Editions.Save(ctx, edition); err != nil {
		return nil, err
	}
	return edition, nil
}

// Get returns the card with its edition denormalized.
func (s *Service) Get(ctx context.Context, id int64) (*models.CardDetail, error) {
	detail, err := repository.NewCards(s.db).GetDetailed(ctx, id)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, fmt.Errorf("card %d: %w", id, repository.ErrNotFound)
	}
	return detail, nil
}

// List pages through the catalog.
func (s *Service) List(ctx context.Context, page, pageSize int) ([]*models.CardDetail, int, error) {
	return repository.NewCards(s.db).ListDetailed(ctx, (page-1)*pageSize, pageSize)
}

// Update patches descriptive fields only; identity fields have no
// corresponding update input at all.
func (s *Service) Update(ctx context.Context, id int64, upd models.CardUpdate) (*models.CardDetail, error) {
	uow, err := repository.Begin(ctx, s.db)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	card, err := uow.Cards.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, fmt.Errorf("card %d: %w", id, repository.ErrNotFound)
	}

	if upd.Name != nil {
		card.Name = *upd.Name
	}
	if upd.Rarity != nil {
		card.Rarity = *upd.Rarity
	}
	if _, err := uow.Cards.Save(ctx, card); err != nil {
		return nil, err
	}

	detail, err := uow.Cards.GetDetailed(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return detail, nil
}

// Delete removes the card; membership rows cascade.
func (s *Service) Delete(ctx context.Context, id int64) error {
	uow, err := repository.Begin(ctx, s.db)
	if err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.Cards.Remove(ctx, id); err != nil {
		return err
	}
	return uow.Commit()
}
