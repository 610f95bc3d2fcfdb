// Package main is the entry point for the notedb-import CLI tool.
//
// notedb-import bulk-loads existing text and markdown files into a notedb
// data directory as notes or documents. Files may carry a YAML front matter
// block overriding the title and category.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/maruel/notedb/internal/importer"
	"github.com/maruel/notedb/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "notedb-import: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	dataDir := flag.String("data-dir", "./data", "Target data directory")
	src := flag.String("src", ".", "Source directory to import from")
	kindFlag := flag.String("kind", "note", "Entity kind to create (note or doc)")
	pattern := flag.String("glob", "**/*.{txt,md}", "Glob pattern selecting files under the source directory")
	category := flag.String("category", "general", "Category for files without front matter")
	user := flag.String("user", "", "Owner user ID to record (default: none)")
	dryRun := flag.Bool("dry-run", false, "Show what would be imported without importing")
	flag.Parse()
	if len(flag.Args()) > 0 {
		return fmt.Errorf("unknown arguments: %v", flag.Args())
	}

	var kind storage.Kind
	switch *kindFlag {
	case "note":
		kind = storage.KindNote
	case "doc":
		kind = storage.KindDoc
	default:
		return fmt.Errorf("unknown kind %q, want note or doc", *kindFlag)
	}

	var userID *string
	if *user != "" {
		userID = user
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	serverCfg, err := storage.LoadServerConfig(*dataDir)
	if err != nil {
		return fmt.Errorf("failed to load config.json: %w", err)
	}
	files, err := storage.NewFileStore(*dataDir, serverCfg.Quotas.MaxTotalStorageBytes)
	if err != nil {
		return fmt.Errorf("failed to initialize file store: %w", err)
	}
	meta, err := storage.NewStore(files.MetadataPath())
	if err != nil {
		return fmt.Errorf("failed to initialize metadata store: %w", err)
	}

	imp := &importer.Importer{
		Notes: storage.NewNoteService(meta, files),
		Docs:  storage.NewDocumentService(meta, files),
		Out:   os.Stdout,
	}
	stats, err := imp.Run(ctx, *src, importer.Options{
		Kind:     kind,
		Pattern:  *pattern,
		Category: *category,
		UserID:   userID,
		DryRun:   *dryRun,
	})
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Printf("\n%d imported, %d failed\n", stats.Imported, stats.Failed)
	if stats.Failed > 0 {
		return errors.New("some files failed to import")
	}
	return nil
}
