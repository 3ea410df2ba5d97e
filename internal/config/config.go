// Package config loads the declarative ranking pipeline configuration: an
// ordered list of rule names, a default page size, and an optional
// distinct field. It exists so operators can reshuffle a pipeline without
// recompiling, the same role HCL plays elsewhere in the pack for
// structured, human-editable config.
package config

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/hclsimple"
)

// RuleConfig names one ranking rule in the pipeline. Only "words" and
// "sort" are recognized by rank.BuildRules; Load does not check names, and
// an unknown name is an error when a search builds its rules, not a silent
// no-op.
type RuleConfig struct {
	Name string `hcl:"name,label"`
}

// Pipeline is the root of an HCL ranking-pipeline document, e.g.:
//
//	distinct_field   = "sku"
//	default_length   = 20
//
//	rule "words" {}
//	rule "sort" {}
type Pipeline struct {
	DistinctField string       `hcl:"distinct_field,optional"`
	DefaultLength int          `hcl:"default_length,optional"`
	Rules         []RuleConfig `hcl:"rule,block"`
}

// DefaultPipeline is used when no config file is supplied: the two
// built-in rules, no distinct field, a 20-row default page.
func DefaultPipeline() Pipeline {
	return Pipeline{
		DefaultLength: 20,
		Rules: []RuleConfig{
			{Name: "words"},
			{Name: "sort"},
		},
	}
}

// Load parses an HCL pipeline document from path.
func Load(path string) (Pipeline, error) {
	var p Pipeline
	if err := hclsimple.DecodeFile(path, nil, &p); err != nil {
		return Pipeline{}, fmt.Errorf("load pipeline config %s: %w", path, err)
	}
	if p.DefaultLength <= 0 {
		p.DefaultLength = 20
	}
	if len(p.Rules) == 0 {
		return Pipeline{}, fmt.Errorf("load pipeline config %s: no rules configured", path)
	}
	return p, nil
}
