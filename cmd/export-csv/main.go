// Dumps the card catalog, with edition columns denormalized, to a CSV
// file or stdout.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"cardhub/pkg/database"
	"cardhub/pkg/repository"
	"cardhub/pkg/utils"
)

func main() {
	out := flag.String("out", "", "output file (default stdout)")
	flag.Parse()

	cfg := utils.Load()
	db := database.MustOpen(database.Config{Path: cfg.DBPath})
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	details, total, err := repository.NewCards(db).ListDetailed(ctx, 0, -1)
	if err != nil {
		log.Fatalf("list cards: %v", err)
	}

	f := os.Stdout
	if *out != "" {
		f, err = os.Create(*out)
		if err != nil {
			log.Fatalf("create %s: %v", *out, err)
		}
		defer f.Close()
	}

	w := csv.NewWriter(f)
	_ = w.Write([]string{"id", "card_id", "set_id", "name", "rarity", "edition_code", "edition_name"})

	for _, d := range details {
		record := []string{
			strconv.FormatInt(d.ID, 10),
			d.CardID,
			d.SetID,
			d.Name,
			d.Rarity,
			d.EditionCode,
			d.EditionName,
		}
		if err := w.Write(record); err != nil {
			log.Fatalf("write record: %v", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		log.Fatalf("flush csv: %v", err)
	}

	fmt.Fprintf(os.Stderr, "exported %d cards\n", total)
}
