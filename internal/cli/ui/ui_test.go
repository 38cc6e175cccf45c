package ui

import (
	"bytes"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/resolverkit/resolverkit/internal/compiler/ast"
	"github.com/resolverkit/resolverkit/internal/compiler/errors"
)

func TestFormatErrorNoColor(t *testing.T) {
	out := FormatError(ErrorOptions{
		Level:        ErrorLevelError,
		Context:      "build failed",
		Problem:      "output directory is not writable",
		Suggestions:  []string{"generated"},
		HelpCommands: []string{"Get help: resolverkit build --help"},
		NoColor:      true,
	})

	assert.Equal(t, "❌ BUILD FAILED\n"+
		"   output directory is not writable\n"+
		"\n"+
		"   Did you mean: generated?\n"+
		"\n"+
		"   → Get help: resolverkit build --help\n", out)
}

func TestWarningAndInfo(t *testing.T) {
	assert.Equal(t, "⚠️ careful\n", Warning("careful", true))
	assert.Equal(t, "ℹ️ note\n", Info("note", true))
	assert.Equal(t, "✓ done", FormatSuccess("done", true))

	var buf bytes.Buffer
	WriteSuccess(&buf, "written", true)
	assert.Equal(t, "✓ written\n", buf.String())
}

func TestCompileError(t *testing.T) {
	compilerErr := errors.NewMissingHandler(ast.SourceLocation{Line: 1, Column: 1}).WithFile("Query.get.ts")
	out := CompileError(compilerErr, true)
	assert.Contains(t, out, "Compilation failed with 1 error(s)")
	assert.Contains(t, out, "Query.get.ts")
	assert.Contains(t, out, "resolverkit check")

	plain := CompileError(stderrors.New("disk full"), true)
	assert.Contains(t, plain, "BUILD FAILED")
	assert.Contains(t, plain, "disk full")
}

func TestResolverNotFoundError(t *testing.T) {
	out := ResolverNotFoundError("Query.getUsr", []string{"Mutation.addUser", "Query.getUser"}, true)
	assert.Contains(t, out, "RESOLVER NOT FOUND")
	assert.Contains(t, out, "Did you mean: Query.getUser?")
}

func TestFindSimilar(t *testing.T) {
	candidates := []string{"Query.getUser", "Query.getUsers", "Mutation.addUser"}

	assert.Equal(t, []string{"Query.getUser", "Query.getUsers"}, FindSimilar("query.getuser", candidates, nil))
	assert.Empty(t, FindSimilar("Subscription.onEvent", candidates, nil))
	assert.Equal(t, []string{"Query.getUser"}, FindSimilar("Query.getUser", candidates, &FuzzyMatchOptions{MaxSuggestions: 1}))
	assert.Empty(t, FindSimilar("query.getuser", candidates, &FuzzyMatchOptions{CaseSensitive: true, MaxDistance: 1}))
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
		{"getUser", "getUser", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevenshteinDistance(tt.a, tt.b), "%q -> %q", tt.a, tt.b)
	}
}

func TestTableRender(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, []string{"RESOLVER", "STAGES"}, &TableOptions{NoColor: true})
	table.AddRow("Mutation.addUser", "2")
	table.AddRow("Query.get", "1")
	table.Render()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, []string{
		"RESOLVER          STAGES",
		"────────────────  ──────",
		"Mutation.addUser  2",
		"Query.get         1",
	}, lines)
}

func TestKeyValueTableRender(t *testing.T) {
	var buf bytes.Buffer
	table := NewKeyValueTable(&buf, true)
	table.AddRow("Files", "3")
	table.AddRow("Artifacts", "9")
	table.Render()

	assert.Equal(t, "Files:     3\nArtifacts: 9\n", buf.String())
}
