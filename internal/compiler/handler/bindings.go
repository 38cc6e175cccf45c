package handler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/resolverkit/resolverkit/internal/compiler/ast"
	"github.com/resolverkit/resolverkit/internal/compiler/ir"
)

// Context expressions a stage reads its inputs from
const (
	argsInput  = "ctx.args.input"
	prevResult = "ctx.prev.result"
	stashRoot  = "ctx.stash"

	// stashLocals holds variables shared between stages, apart from stage results
	stashLocals = "ctx.stash.locals"
)

// references returns the names a stage reads that it does not declare itself
func (st *stage) references() map[string]bool {
	var code strings.Builder
	declared := make(map[string]bool)
	for _, stmt := range st.source {
		code.WriteString(stmt.text)
		code.WriteByte('\n')
		for _, name := range stmt.declared {
			declared[name] = true
		}
	}
	for _, field := range st.def.Operation.Fields {
		code.WriteString(field.Value)
		code.WriteByte('\n')
	}

	used := identifiers(code.String())
	for name := range declared {
		delete(used, name)
	}
	return used
}

// bindStages prepends the context bindings each stage needs and returns the finished stages.
// The handler parameter is rebound from ctx.args.input. A result bound by the immediately
// preceding stage is read from ctx.prev.result; older results travel through ctx.stash,
// written by the stage right after the one that produced them. Variables declared in one
// stage and read by a later one are written to ctx.stash.locals before the producing
// stage returns its operation.
func bindStages(stages []*stage, param *ast.Param, src sourceText) []ir.PipelineFunctionDef {
	paramNames := bindingNames(param.Target)
	paramBinding := fmt.Sprintf("const %s = %s;", src.text(param.Target), argsInput)

	producer := make(map[string]int)
	locals := make(map[string]int)
	stashed := make([]bool, len(stages))
	exported := make([]map[string]bool, len(stages))
	reads := make([][]ir.Statement, len(stages))
	needsParam := make([]bool, len(stages))

	for i, st := range stages {
		used := st.references()

		producers := make(map[int]bool)
		var carried []string
		for name := range used {
			if j, ok := producer[name]; ok {
				producers[j] = true
			}
			if j, ok := locals[name]; ok {
				if exported[j] == nil {
					exported[j] = make(map[string]bool)
				}
				exported[j][name] = true
				carried = append(carried, name)
			}
		}
		for _, j := range sortedKeys(producers) {
			binding := stages[j].def.ResultBinding
			if j == i-1 {
				reads[i] = append(reads[i], bindingStatement(fmt.Sprintf("const %s = %s;", binding, prevResult)))
				continue
			}
			stashed[j] = true
			reads[i] = append(reads[i], bindingStatement(fmt.Sprintf("const %s = %s.%s;", binding, stashRoot, stages[j].def.Name)))
		}
		sort.Strings(carried)
		for _, name := range carried {
			reads[i] = append(reads[i], bindingStatement(fmt.Sprintf("const %s = %s.%s;", name, stashLocals, name)))
		}

		for _, name := range paramNames {
			_, result := producer[name]
			_, local := locals[name]
			if used[name] && !result && !local {
				needsParam[i] = true
				break
			}
		}

		for _, stmt := range st.source {
			for _, name := range stmt.declared {
				delete(producer, name)
				if stmt.variable {
					locals[name] = i
				} else {
					delete(locals, name)
				}
			}
		}
		for _, name := range st.resultNames {
			delete(locals, name)
			producer[name] = i
		}
	}

	defs := make([]ir.PipelineFunctionDef, 0, len(stages))
	for i, st := range stages {
		def := st.def
		statements := make([]ir.Statement, 0, len(st.source)+len(reads[i])+len(exported[i])+4)

		if i > 0 && stashed[i-1] {
			stash := fmt.Sprintf("%s.%s = %s;", stashRoot, stages[i-1].def.Name, prevResult)
			statements = append(statements, bindingStatement(stash))
		}
		if needsParam[i] {
			statements = append(statements, bindingStatement(paramBinding))
		}
		statements = append(statements, reads[i]...)
		for _, stmt := range st.source {
			statements = append(statements, ir.Statement{Text: stmt.text, Origin: ir.OriginSource})
		}
		if len(exported[i]) > 0 {
			statements = append(statements, bindingStatement(fmt.Sprintf("%s = %s || {};", stashLocals, stashLocals)))
			for _, name := range sortedNames(exported[i]) {
				statements = append(statements, bindingStatement(fmt.Sprintf("%s.%s = %s;", stashLocals, name, name)))
			}
		}
		statements = append(statements, ir.Statement{
			Text:   strings.Join(def.Operation.Lines(), "\n"),
			Origin: ir.OriginOperation,
		})

		def.Statements = statements
		defs = append(defs, def)
	}
	return defs
}

func bindingStatement(text string) ir.Statement {
	return ir.Statement{Text: text, Origin: ir.OriginBinding}
}

func sortedKeys(set map[int]bool) []int {
	keys := make([]int, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Ints(keys)
	return keys
}

func sortedNames(set map[string]bool) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
