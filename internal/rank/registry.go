package rank

import (
	"fmt"

	"github.com/agentic-research/rankcore/internal/cache"
)

// BuildRules constructs a rule pipeline from a list of names, in order.
// "words" and "sort" are the only concrete rules this core ships; the
// registry exists so internal/config's HCL pipeline document can name
// rules declaratively instead of the caller wiring up Go values.
func BuildRules(names []string, db *cache.DatabaseCache) ([]Rule, error) {
	rules := make([]Rule, 0, len(names))
	for _, name := range names {
		switch name {
		case "words":
			rules = append(rules, NewWordsRule(db))
		case "sort":
			rules = append(rules, NewSortRule())
		default:
			return nil, fmt.Errorf("rankcore/rank: unknown ranking rule %q", name)
		}
	}
	return rules, nil
}
