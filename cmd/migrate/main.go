// Command migrate copies posts from the flat-file JSON store into the
// SQLite database file, preserving ids and timestamps.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"

	"inkwell/internal/config"
	"inkwell/internal/store"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	var (
		source = flag.String("source", "", "path to the JSON data file (defaults to DATA_FILE)")
		dest   = flag.String("dest", "", "path to the SQLite database file (defaults to DB_FILE)")
	)
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	jsonPath := cfg.DataFile
	if *source != "" {
		jsonPath = *source
	}
	dbPath := cfg.DBFile
	if *dest != "" {
		dbPath = *dest
	}

	log.Printf("Migrating posts from %s to %s", jsonPath, dbPath)

	count, err := store.MigrateJSONToSQLite(context.Background(), jsonPath, dbPath)
	if errors.Is(err, store.ErrDestinationNotEmpty) {
		return fmt.Errorf("database already contains posts, aborting to avoid duplicates: %w", err)
	}
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		log.Println("No posts found in source file, nothing to migrate")
		return nil
	}
	log.Printf("Successfully migrated %d posts", count)
	return nil
}
