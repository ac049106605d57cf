// One-shot fetch tool: resolves a single card identifier through the
// same reconciliation path as the API and optionally downloads its
// image.
package main

import (
	"context"
	"flag"
	"log"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"cardhub/internal/cards"
	"cardhub/internal/liga"
	"cardhub/pkg/database"
	"cardhub/pkg/utils"
)

func main() {
	var (
		cardID   = flag.String("card", "", "card number within its set (e.g. 025)")
		setID    = flag.String("set", "", "set number (e.g. 4)")
		slug     = flag.String("edition", "", "edition slug (e.g. base1)")
		imageURL = flag.String("image-url", "", "optional card image URL to download")
	)
	flag.Parse()

	if *cardID == "" || *setID == "" || *slug == "" {
		log.Fatal("usage: scraper -card 025 -set 4 -edition base1 [-image-url URL]")
	}

	cfg := utils.Load()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	db := database.MustOpen(database.Config{Path: cfg.DBPath})
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		logger.Fatal("db migrate failed", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client := liga.NewClient(cfg.LigaBaseURL)
	service := cards.NewService(db, func() cards.Fetcher { return client }, logger)

	detail, created, err := service.Create(ctx, cards.CreateInput{
		CardID:      *cardID,
		SetID:       *setID,
		EditionSlug: *slug,
	})
	if err != nil {
		logger.Fatal("fetch failed", zap.Error(err))
	}

	logger.Info("card resolved",
		zap.Int64("id", detail.ID),
		zap.String("name", detail.Name),
		zap.String("rarity", detail.Rarity),
		zap.String("edition", detail.EditionName),
		zap.Bool("created", created))

	if *imageURL != "" {
		dest := filepath.Join(cfg.ImageDir, detail.ImageName())
		if err := client.DownloadImage(ctx, *imageURL, dest); err != nil {
			logger.Fatal("image download failed", zap.Error(err))
		}
		logger.Info("image saved", zap.String("path", dest))
	}
}
