// Bulk-loads editions and cards from CSV files, upserting on the same
// keys the API enforces, so an export can be re-imported cleanly.
package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"cardhub/pkg/database"
	"cardhub/pkg/models"
	"cardhub/pkg/utils"
)

func main() {
	var (
		editionsIn = flag.String("editions", "data/editions.csv", "input CSV path for editions")
		cardsIn    = flag.String("cards", "data/cards.csv", "input CSV path for cards")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := utils.Load()
	db := database.MustOpen(database.Config{Path: cfg.DBPath})
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	if err := importEditions(ctx, db, *editionsIn); err != nil {
		log.Fatalf("import editions failed: %v", err)
	}
	if err := importCards(ctx, db, *cardsIn); err != nil {
		log.Fatalf("import cards failed: %v", err)
	}

	log.Printf("imported editions from %s and cards from %s", *editionsIn, *cardsIn)
}

func importEditions(ctx context.Context, db *sql.DB, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := readHeader(r)
	if err != nil {
		return err
	}

	stmt, err := db.PrepareContext(ctx, `
		INSERT INTO editions (code, name, year)
		VALUES (?, ?, ?)
		ON CONFLICT(code) DO UPDATE SET
		  name = excluded.name,
		  year = excluded.year
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if len(row) == 0 {
			continue
		}

		code := valueAt(header, row, "edition_code")
		if code == "" {
			code = valueAt(header, row, "code")
		}
		name := valueAt(header, row, "edition_name")
		if name == "" {
			name = valueAt(header, row, "name")
		}
		if code == "" || name == "" {
			continue
		}

		if _, err := stmt.ExecContext(
			ctx,
			code,
			models.NormalizeName(name),
			models.NormalizeYear(valueAt(header, row, "year")),
		); err != nil {
			return fmt.Errorf("upsert edition %s: %w", code, err)
		}
	}

	return nil
}

func importCards(ctx context.Context, db *sql.DB, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := readHeader(r)
	if err != nil {
		return err
	}

	stmt, err := db.PrepareContext(ctx, `
		INSERT INTO cards (card_id, set_id, name, rarity, edition_id)
		SELECT ?, ?, ?, ?, e.id FROM editions e WHERE e.code = ?
		ON CONFLICT(card_id, set_id, edition_id) DO UPDATE SET
		  name = excluded.name,
		  rarity = excluded.rarity
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if len(row) == 0 {
			continue
		}

		cardID := valueAt(header, row, "card_id")
		setID := valueAt(header, row, "set_id")
		code := valueAt(header, row, "edition_code")
		if cardID == "" || setID == "" || code == "" {
			continue
		}

		res, err := stmt.ExecContext(
			ctx,
			cardID,
			setID,
			models.NormalizeName(valueAt(header, row, "name")),
			models.NormalizeRarity(valueAt(header, row, "rarity")),
			code,
		)
		if err != nil {
			return fmt.Errorf("upsert card %s/%s: %w", cardID, setID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("card %s/%s references unknown edition %q", cardID, setID, code)
		}
	}

	return nil
}

func readHeader(r *csv.Reader) (map[string]int, error) {
	row, err := r.Read()
	if err != nil {
		return nil, err
	}
	header := make(map[string]int, len(row))
	for idx, name := range row {
		header[strings.TrimSpace(strings.ToLower(name))] = idx
	}
	return header, nil
}

func valueAt(header map[string]int, row []string, key string) string {
	idx, ok := header[key]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
