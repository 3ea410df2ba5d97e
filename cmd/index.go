package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/agentic-research/rankcore/internal/docmeta"
	"github.com/agentic-research/rankcore/internal/store"
	"github.com/spf13/cobra"
)

var indexDistinctPath string

var indexCmd = &cobra.Command{
	Use:   "index <db-path> <documents.ndjson>",
	Short: "Build a toy SQLite-backed posting index from newline-delimited JSON documents",
	Long: `index reads one JSON document per line ({"id": N, "text": "...", ...}),
splits "text" on whitespace into lowercase words, and writes exact-match
posting lists for each word into a SQLite database. It is a fixture
builder for exercising the ranking core, not a tokenizer or a general
indexing pipeline.`,
	Args: cobra.ExactArgs(2),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringVar(&indexDistinctPath, "distinct", "", "JSONPath of the field to configure as the distinct field (e.g. $.sku)")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	dbPath, docsPath := args[0], args[1]
	ctx := context.Background()

	db, err := store.OpenSQLiteStore(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	f, err := os.Open(docsPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", docsPath, err)
	}
	defer f.Close()

	postings := make(map[string]map[uint32]struct{})
	count := 0

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		doc, err := docmeta.ParseLine([]byte(line))
		if err != nil {
			return fmt.Errorf("line %d: %w", count+1, err)
		}
		if err := db.PutDocument(ctx, doc.ID); err != nil {
			return err
		}
		for _, word := range strings.Fields(strings.ToLower(doc.Text)) {
			ids, ok := postings[word]
			if !ok {
				ids = make(map[uint32]struct{})
				postings[word] = ids
			}
			ids[doc.ID] = struct{}{}
		}
		if indexDistinctPath != "" {
			value, ok, err := docmeta.FieldValue(doc, indexDistinctPath)
			if err != nil {
				return err
			}
			if ok {
				if err := db.PutFieldValue(ctx, indexDistinctPath, doc.ID, value); err != nil {
					return err
				}
			}
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", docsPath, err)
	}

	for word, ids := range postings {
		bm := bitmapOf(ids)
		encoded, err := store.EncodePostings(bm)
		if err != nil {
			return err
		}
		if err := db.PutPostings(ctx, word, false, encoded); err != nil {
			return err
		}
	}

	if indexDistinctPath != "" {
		if err := db.SetDistinctField(ctx, indexDistinctPath); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "indexed %d document(s), %d distinct word(s)\n", count, len(postings))
	return nil
}
