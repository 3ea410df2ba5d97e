package cmd

import (
	"context"
	"fmt"

	"github.com/agentic-research/rankcore/api"
	"github.com/agentic-research/rankcore/internal/config"
	"github.com/agentic-research/rankcore/internal/search"
	"github.com/agentic-research/rankcore/internal/store"
	"github.com/spf13/cobra"
)

var (
	searchFrom       int
	searchLength     int
	searchConfigPath string
)

var searchCmd = &cobra.Command{
	Use:   "search <db-path> <word>...",
	Short: "Resolve a query graph and run it through the ranking pipeline",
	Long: `search builds an exact-match query graph from the given words
(one term node per word, chained Start -> w1 -> w2 -> ... -> End), resolves
it against the full document universe, and ranks the result through the
configured rule pipeline.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVar(&searchFrom, "from", 0, "pagination offset")
	searchCmd.Flags().IntVar(&searchLength, "length", 0, "page size (0 uses the pipeline's default_length)")
	searchCmd.Flags().StringVar(&searchConfigPath, "config", "", "path to an HCL ranking pipeline config (default: built-in words+sort pipeline)")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	dbPath, words := args[0], args[1:]
	ctx := context.Background()

	db, err := store.OpenSQLiteStore(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	pipeline := config.DefaultPipeline()
	if searchConfigPath != "" {
		pipeline, err = config.Load(searchConfigPath)
		if err != nil {
			return err
		}
	}
	length := searchLength
	if length <= 0 {
		length = pipeline.DefaultLength
	}
	ruleNames := make([]string, len(pipeline.Rules))
	for i, r := range pipeline.Rules {
		ruleNames[i] = r.Name
	}

	graph, terms := buildExactMatchGraph(words)

	universe, err := db.DocumentsIDs(ctx)
	if err != nil {
		return err
	}

	engine := search.New(db, api.NewStdLogger(nil))
	req := search.Request{
		QueryGraph: graph,
		Terms:      terms,
		RuleNames:  ruleNames,
		Universe:   universe,
		From:       searchFrom,
		Length:     length,
	}
	ids, err := engine.Search(ctx, req)
	if err != nil {
		return err
	}

	for _, id := range ids {
		fmt.Fprintln(cmd.OutOrStdout(), id)
	}
	return nil
}

// buildExactMatchGraph chains one term node per word, Start -> w1 -> ... ->
// End, with zero_typo = {word} and no prefix matching. Typo/prefix query
// expansion would live in a separate term-derivation pass; this CLI only
// ever asks for exact words.
func buildExactMatchGraph(words []string) (*api.QueryGraph, []api.QueryTerm) {
	g := api.NewQueryGraph()
	terms := make([]api.QueryTerm, 0, len(words))
	prev := g.RootNode
	for _, w := range words {
		term := api.QueryTerm{
			Kind: api.Word,
			Word: api.WordDerivations{Original: w, ZeroTypo: []string{w}},
		}
		n := g.AddTermNode(term)
		_ = g.AddEdge(prev, n)
		prev = n
		terms = append(terms, term)
	}
	_ = g.AddEdge(prev, g.EndNode)
	return g, terms
}
