package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultPipeline(t *testing.T) {
	p := DefaultPipeline()
	require.Equal(t, 20, p.DefaultLength)
	require.Len(t, p.Rules, 2)
	require.Equal(t, "words", p.Rules[0].Name)
	require.Equal(t, "sort", p.Rules[1].Name)
}

func TestLoad_ParsesHCLPipeline(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pipeline.hcl")
	doc := `
distinct_field = "sku"
default_length = 10

rule "words" {}
rule "sort" {}
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "sku", p.DistinctField)
	require.Equal(t, 10, p.DefaultLength)
	require.Len(t, p.Rules, 2)
}

func TestLoad_DefaultsLengthWhenUnset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pipeline.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`rule "sort" {}`), 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 20, p.DefaultLength)
}

func TestLoad_RejectsEmptyPipeline(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`default_length = 5`), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}
