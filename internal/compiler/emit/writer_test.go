package emit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriterBlocks(t *testing.T) {
	w := NewWriter()
	w.Line("import { util } from '@aws-appsync/utils';").BlankLine()
	w.Block("export function request(ctx)", "", func() {
		w.Line("const id = %s;", "ctx.args.input.id")
		w.Block("if (id)", "", func() {
			w.Line("return id;")
		})
	})

	want := `import { util } from '@aws-appsync/utils';

export function request(ctx) {
  const id = ctx.args.input.id;
  if (id) {
    return id;
  }
}
`
	assert.Equal(t, want, w.String())
}

func TestWriterLines(t *testing.T) {
	w := NewWriter()
	w.Block("const fn = new Thing(this, 'fn',", ");", func() {
		w.Lines("if (a) {\n  run();\n}", "", "done();")
	})

	want := "const fn = new Thing(this, 'fn', {\n" +
		"  if (a) {\n" +
		"    run();\n" +
		"  }\n" +
		"\n" +
		"  done();\n" +
		"});\n"
	assert.Equal(t, want, w.String())
}

func TestWriterVerbatimPercent(t *testing.T) {
	w := NewWriter()
	w.Lines("const ratio = a % b;")
	w.Line("const %s = `${n}%%`;", "pct")
	assert.Equal(t, "const ratio = a % b;\nconst pct = `${n}%`;\n", w.String())
}
