package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"library-lending/config"
	"library-lending/library"

	"github.com/spf13/cobra"
)

func main() {
	if err := newImportCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newImportCmd(out io.Writer) *cobra.Command {
	var (
		file    string
		backend string
	)
	cmd := &cobra.Command{
		Use:           "import_books <catalog.csv>",
		Short:         "Import books from a CSV file of title,author,copies rows",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("file") {
				cfg.File = file
			}
			if cmd.Flags().Changed("backend") {
				cfg.Backend = backend
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return importFile(cfg, args[0], out)
		},
	}
	cmd.SetOut(out)
	cmd.Flags().StringVar(&file, "file", "", "library store to import into")
	cmd.Flags().StringVar(&backend, "backend", config.BackendJSON, "store backend: json or sqlite")
	return cmd
}

// row is one parsed CSV line.
type row struct {
	line   int
	title  string
	author string
	copies int
}

func importFile(cfg *config.Config, csvPath string, out io.Writer) error {
	f, err := os.Open(filepath.Clean(csvPath))
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	rows, err := readRows(f)
	if err != nil {
		return err
	}

	store, err := cfg.OpenStore()
	if err != nil {
		return err
	}

	logger := cfg.NewLogger()
	manager, err := library.NewLibraryManager(store, library.WithLogger(logger))
	if err != nil {
		store.Close()
		return err
	}
	defer manager.Close()

	fmt.Fprintf(out, "Importing %d rows into %s...\n", len(rows), cfg.StorePath())
	var created, merged int
	for _, r := range rows {
		book, wasMerged, err := manager.AddBook(r.title, r.author, r.copies)
		if err != nil {
			return fmt.Errorf("line %d: %w", r.line, err)
		}
		if wasMerged {
			merged++
			fmt.Fprintf(out, "  + %d copies of '%s' (now %d)\n", r.copies, book.Title, book.AvailableCopies)
		} else {
			created++
			fmt.Fprintf(out, "  new '%s' by %s (%d copies)\n", book.Title, book.Author, book.AvailableCopies)
		}
	}
	logger.Info("import finished", slog.Int("created", created), slog.Int("merged", merged))
	fmt.Fprintf(out, "Import complete: %d new books, %d merged.\n", created, merged)
	return nil
}

// readRows parses title,author[,copies] records. A header row whose first
// field is "title" is skipped, and a missing copies column means one copy.
func readRows(r io.Reader) ([]row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var rows []row
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "title") {
			continue
		}
		if len(rec) < 2 {
			return nil, fmt.Errorf("line %d: want title,author[,copies], got %d fields", line, len(rec))
		}

		r := row{line: line, title: strings.TrimSpace(rec[0]), author: strings.TrimSpace(rec[1]), copies: 1}
		if r.title == "" || r.author == "" {
			return nil, fmt.Errorf("line %d: title and author are required", line)
		}
		if len(rec) > 2 && strings.TrimSpace(rec[2]) != "" {
			n, err := strconv.Atoi(strings.TrimSpace(rec[2]))
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("line %d: copies must be a positive integer, got %q", line, rec[2])
			}
			r.copies = n
		}
		rows = append(rows, r)
	}
	return rows, nil
}
