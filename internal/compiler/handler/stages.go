package handler

import (
	"strconv"

	"github.com/resolverkit/resolverkit/internal/compiler/ast"
	"github.com/resolverkit/resolverkit/internal/compiler/errors"
	"github.com/resolverkit/resolverkit/internal/compiler/ir"
)

// pendingStatement is a body statement waiting for the next stage boundary
type pendingStatement struct {
	text     string
	declared []string
	// variable reports a const/let/var statement, whose values can travel through the stash
	variable bool
}

// stage is a closed pipeline stage before context bindings are synthesized
type stage struct {
	def         ir.PipelineFunctionDef
	source      []pendingStatement
	resultNames []string
}

// stageWalker splits a handler body into pipeline stages.
// Acquisitions record data sources, invocations on them close a stage,
// everything else accumulates in the pending buffer.
type stageWalker struct {
	helper  string
	src     sourceText
	refs    []ir.DataSourceRef
	bound   map[string]int
	pending []pendingStatement
	stages  []*stage
	counts  map[string]int
	names   map[string]bool
}

func newStageWalker(helper, source string) *stageWalker {
	return &stageWalker{
		helper: helper,
		src:    sourceText(source),
		bound:  make(map[string]int),
		counts: make(map[string]int),
		names:  make(map[string]bool),
	}
}

// walk visits the handler body in source order
func (w *stageWalker) walk(body []ast.StmtNode) error {
	for _, stmt := range body {
		acquired, err := w.acquisition(stmt)
		if err != nil {
			return err
		}
		if acquired {
			continue
		}

		if call, target, ok := w.invocation(stmt); ok {
			if err := w.closeStage(call, target); err != nil {
				return err
			}
			continue
		}

		w.pending = append(w.pending, pendingStatement{
			text:     w.src.statement(stmt),
			declared: declaredNames(stmt),
			variable: isVarStmt(stmt),
		})
	}
	return nil
}

// acquisition records `const x = <helper>.getXDataSource('name')`.
// It reports true for any statement that calls the helper, whether or not it is valid.
func (w *stageWalker) acquisition(stmt ast.StmtNode) (bool, error) {
	var target ast.BindingNode
	var init ast.ExprNode

	switch s := stmt.(type) {
	case *ast.VarStmt:
		if len(s.Decls) != 1 {
			for _, decl := range s.Decls {
				if method, _, ok := w.helperCall(decl.Init); ok {
					return true, errors.NewMalformedArguments(decl.Loc, w.helper+"."+method,
						"declare each data source in its own statement")
				}
			}
			return false, nil
		}
		target, init = s.Decls[0].Target, s.Decls[0].Init
	case *ast.ExprStmt:
		init = s.Expr
	default:
		return false, nil
	}

	method, call, ok := w.helperCall(init)
	if !ok {
		return false, nil
	}

	kind, known := ir.AcquisitionMethods[method]
	if !known {
		return true, errors.NewUnsupportedAcquisition(call.Loc, w.helper, method)
	}

	callName := w.helper + "." + method
	ident, isIdent := target.(*ast.BindingIdent)
	if !isIdent {
		return true, errors.NewMalformedArguments(stmt.Location(), callName,
			"the data source must be bound to a single variable")
	}

	name, ok := stringArgument(call.Args)
	if !ok {
		return true, errors.NewMalformedArguments(call.Loc, callName,
			"expected a single string literal data source name").
			WithExamples("const " + ident.Name + " = " + callName + "('" + ident.Name + "');")
	}

	if i, exists := w.bound[ident.Name]; exists {
		prev := w.refs[i]
		if prev.DataSourceName != name || prev.Kind != kind {
			return true, errors.NewAmbiguousDataSource(stmt.Location(), ident.Name, prev.DataSourceName, name)
		}
		return true, nil
	}

	w.bound[ident.Name] = len(w.refs)
	w.refs = append(w.refs, ir.DataSourceRef{
		VariableName:   ident.Name,
		DataSourceName: name,
		Kind:           kind,
	})
	return true, nil
}

// helperCall matches `<helper>.<method>(...)`, optionally awaited
func (w *stageWalker) helperCall(expr ast.ExprNode) (string, *ast.CallExpr, bool) {
	call, ok := unwrapAwait(expr).(*ast.CallExpr)
	if !ok {
		return "", nil, false
	}
	member, ok := ast.Unwrap(call.Callee).(*ast.MemberExpr)
	if !ok {
		return "", nil, false
	}
	object, ok := ast.Unwrap(member.Object).(*ast.Identifier)
	if !ok || object.Name != w.helper {
		return "", nil, false
	}
	return member.Property, call, true
}

// invocation matches an expression statement or single declaration whose
// (optionally awaited) value is `<variable>.<method>(args)` on a bound data source
func (w *stageWalker) invocation(stmt ast.StmtNode) (*invocation, ast.BindingNode, bool) {
	var expr ast.ExprNode
	var target ast.BindingNode

	switch s := stmt.(type) {
	case *ast.ExprStmt:
		expr = s.Expr
	case *ast.VarStmt:
		if len(s.Decls) != 1 {
			return nil, nil, false
		}
		expr, target = s.Decls[0].Init, s.Decls[0].Target
	default:
		return nil, nil, false
	}

	call, ok := unwrapAwait(expr).(*ast.CallExpr)
	if !ok {
		return nil, nil, false
	}
	member, ok := ast.Unwrap(call.Callee).(*ast.MemberExpr)
	if !ok {
		return nil, nil, false
	}
	object, ok := ast.Unwrap(member.Object).(*ast.Identifier)
	if !ok {
		return nil, nil, false
	}
	i, ok := w.bound[object.Name]
	if !ok {
		return nil, nil, false
	}

	return &invocation{
		ref:    w.refs[i],
		method: member.Property,
		call:   call,
		src:    w.src,
	}, target, true
}

// closeStage turns the pending buffer and the invocation into a stage
func (w *stageWalker) closeStage(call *invocation, target ast.BindingNode) error {
	op, err := synthesizeOperation(call)
	if err != nil {
		return err
	}

	args := make([]string, 0, len(call.call.Args))
	for _, arg := range call.call.Args {
		args = append(args, w.src.text(arg))
	}

	st := &stage{
		def: ir.PipelineFunctionDef{
			Name:       w.stageName(call.ref.VariableName),
			MethodName: call.method,
			DataSource: call.ref,
			Args:       args,
			Operation:  op,
		},
		source: w.pending,
	}
	if target != nil {
		st.def.ResultBinding = w.src.text(target)
		st.resultNames = bindingNames(target)
	}

	w.stages = append(w.stages, st)
	w.pending = nil
	return nil
}

// stageName is the variable name, with an ordinal suffix from the second
// invocation on. The ordinal is bumped past names already taken by other
// stages, so userStore2 called after userStore twice becomes userStore22.
func (w *stageWalker) stageName(variable string) string {
	n := w.counts[variable] + 1
	name := variable
	if n > 1 {
		name = variable + strconv.Itoa(n)
	}
	for w.names[name] {
		n++
		name = variable + strconv.Itoa(n)
	}
	w.counts[variable] = n
	w.names[name] = true
	return name
}

// trailing returns the statements left after the last stage boundary
func (w *stageWalker) trailing() []string {
	if len(w.pending) == 0 {
		return nil
	}
	out := make([]string, 0, len(w.pending))
	for _, stmt := range w.pending {
		out = append(out, stmt.text)
	}
	return out
}

// unwrapAwait strips await, parentheses and non-null assertions
func unwrapAwait(expr ast.ExprNode) ast.ExprNode {
	for {
		expr = ast.Unwrap(expr)
		awaited, ok := expr.(*ast.AwaitExpr)
		if !ok {
			return expr
		}
		expr = awaited.Value
	}
}

// stringArgument returns the value of a sole string literal argument
func stringArgument(args []ast.ExprNode) (string, bool) {
	if len(args) != 1 {
		return "", false
	}
	lit, ok := ast.Unwrap(args[0]).(*ast.LiteralExpr)
	if !ok || lit.Kind != ast.LiteralString {
		return "", false
	}
	value, ok := lit.Value.(string)
	return value, ok
}

// bindingNames returns the local names a declaration target binds
func bindingNames(target ast.BindingNode) []string {
	switch t := target.(type) {
	case *ast.BindingIdent:
		return []string{t.Name}
	case *ast.ObjectPattern:
		return t.Names()
	default:
		return nil
	}
}

func isVarStmt(stmt ast.StmtNode) bool {
	_, ok := stmt.(*ast.VarStmt)
	return ok
}

// declaredNames returns the names a top-level body statement declares
func declaredNames(stmt ast.StmtNode) []string {
	switch s := stmt.(type) {
	case *ast.VarStmt:
		var names []string
		for _, decl := range s.Decls {
			names = append(names, bindingNames(decl.Target)...)
		}
		return names
	case *ast.FunctionDecl:
		return []string{s.Name}
	default:
		return nil
	}
}
