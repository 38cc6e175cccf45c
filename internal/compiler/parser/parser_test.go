package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resolverkit/resolverkit/internal/compiler/ast"
	"github.com/resolverkit/resolverkit/internal/compiler/lexer"
)

// Helper function to create a parser from source code
func parseSource(t *testing.T, source string) (*ast.SourceFile, []ParseError) {
	t.Helper()

	lex := lexer.New(source)
	tokens, lexErrors := lex.ScanTokens()

	if len(lexErrors) > 0 {
		t.Fatalf("Lexer errors: %v", lexErrors)
	}

	parser := New(tokens)
	return parser.Parse()
}

func mustParse(t *testing.T, source string) *ast.SourceFile {
	t.Helper()
	file, errors := parseSource(t, source)
	if len(errors) > 0 {
		t.Fatalf("Parse errors: %v", errors)
	}
	return file
}

const addUserSource = `import resolver from 'als-resolver-tools';

type HandlerInput = {
  username: string;
};

type HandlerOutput = {
  userId: string;
};

export const handler = ({ username }: HandlerInput): HandlerOutput => {
  const getUserId = resolver.getLambdaDataSource('getUserId');
  const userStore = resolver.getDynamoDbDataSource('userStore');

  const userId = getUserId.invoke<string>({ username });

  const processedId = ` + "`${userId}${userId}`" + `;

  userStore.put(
    { partitionKey: userId },
    { username, processedId },
  );

  return { userId };
};
`

func TestParseHandlerFile(t *testing.T) {
	file := mustParse(t, addUserSource)
	require.Len(t, file.Statements, 4)

	imp, ok := file.Statements[0].(*ast.ImportDecl)
	require.True(t, ok, "expected import, got %T", file.Statements[0])
	assert.Equal(t, "resolver", imp.DefaultName)
	assert.Equal(t, "als-resolver-tools", imp.Module)

	alias, ok := file.Statements[1].(*ast.TypeAliasDecl)
	require.True(t, ok)
	assert.Equal(t, "HandlerInput", alias.Name)
	literal, ok := alias.Type.(*ast.TypeLiteral)
	require.True(t, ok)
	require.Len(t, literal.Members, 1)
	assert.Equal(t, "username", literal.Members[0].Name)

	handler, ok := file.Statements[3].(*ast.VarStmt)
	require.True(t, ok)
	assert.True(t, handler.Exported)
	assert.Equal(t, "const", handler.Kind)
	require.Len(t, handler.Decls, 1)

	fn, ok := handler.Decls[0].Init.(*ast.FunctionExpr)
	require.True(t, ok, "expected arrow function, got %T", handler.Decls[0].Init)
	assert.True(t, fn.Arrow)
	require.Len(t, fn.Params, 1)
	pattern, ok := fn.Params[0].Target.(*ast.ObjectPattern)
	require.True(t, ok)
	assert.Equal(t, []string{"username"}, pattern.Names())
	assert.Equal(t, "HandlerInput", fn.Params[0].Type.(*ast.TypeReference).Name)
	assert.Equal(t, "HandlerOutput", fn.ReturnType.(*ast.TypeReference).Name)
	require.NotNil(t, fn.Body)
	assert.Len(t, fn.Body.Statements, 6)
}

func TestParseGenericCall(t *testing.T) {
	file := mustParse(t, `const userId = getUserId.invoke<string>({ username });`)
	stmt := file.Statements[0].(*ast.VarStmt)
	call, ok := stmt.Decls[0].Init.(*ast.CallExpr)
	require.True(t, ok, "expected call, got %T", stmt.Decls[0].Init)
	require.Len(t, call.TypeArgs, 1)
	assert.Equal(t, "string", call.TypeArgs[0].(*ast.TypeReference).Name)

	member := call.Callee.(*ast.MemberExpr)
	assert.Equal(t, "invoke", member.Property)
	assert.Equal(t, "getUserId", member.Object.(*ast.Identifier).Name)

	obj := call.Args[0].(*ast.ObjectLit)
	require.Len(t, obj.Properties, 1)
	assert.True(t, obj.Properties[0].Shorthand)
	assert.Equal(t, "username", obj.Properties[0].Key)
}

func TestParseLessThanIsNotTypeArguments(t *testing.T) {
	file := mustParse(t, `const small = a < b && c > d;`)
	stmt := file.Statements[0].(*ast.VarStmt)
	logical, ok := stmt.Decls[0].Init.(*ast.BinaryExpr)
	require.True(t, ok, "got %T", stmt.Decls[0].Init)
	assert.Equal(t, "&&", logical.Operator)
	assert.Equal(t, "<", logical.Left.(*ast.BinaryExpr).Operator)
	assert.Equal(t, ">", logical.Right.(*ast.BinaryExpr).Operator)
}

func TestParseAwaitedCall(t *testing.T) {
	file := mustParse(t, `export const handler = async (input: Req): Promise<Res> => {
  const id = await lookup.invoke({ name: input.name });
  await store.put({ id }, { name: input.name });
  return { id };
};`)
	stmt := file.Statements[0].(*ast.VarStmt)
	fn := stmt.Decls[0].Init.(*ast.FunctionExpr)
	assert.True(t, fn.Async)
	ret := fn.ReturnType.(*ast.TypeReference)
	assert.Equal(t, "Promise", ret.Name)
	require.Len(t, ret.TypeArgs, 1)

	first := fn.Body.Statements[0].(*ast.VarStmt)
	_, ok := first.Decls[0].Init.(*ast.AwaitExpr)
	assert.True(t, ok)

	second := fn.Body.Statements[1].(*ast.ExprStmt)
	await, ok := second.Expr.(*ast.AwaitExpr)
	require.True(t, ok)
	call := await.Value.(*ast.CallExpr)
	assert.Len(t, call.Args, 2)
}

func TestParseFunctionForms(t *testing.T) {
	tests := []struct {
		name   string
		source string
		check  func(t *testing.T, stmt ast.StmtNode)
	}{
		{
			name:   "function declaration",
			source: `export function handler(input: Req): Res { return input; }`,
			check: func(t *testing.T, stmt ast.StmtNode) {
				decl := stmt.(*ast.FunctionDecl)
				assert.Equal(t, "handler", decl.Name)
				assert.True(t, decl.Exported)
				assert.False(t, decl.Async)
			},
		},
		{
			name:   "async function declaration",
			source: `export async function handler(input: Req): Promise<Res> { return input; }`,
			check: func(t *testing.T, stmt ast.StmtNode) {
				decl := stmt.(*ast.FunctionDecl)
				assert.True(t, decl.Async)
			},
		},
		{
			name:   "function expression",
			source: `export const handler = function (input: Req): Res { return input; };`,
			check: func(t *testing.T, stmt ast.StmtNode) {
				fn := stmt.(*ast.VarStmt).Decls[0].Init.(*ast.FunctionExpr)
				assert.False(t, fn.Arrow)
				assert.Len(t, fn.Params, 1)
			},
		},
		{
			name:   "arrow with expression body",
			source: `const double = (n: number) => n * 2;`,
			check: func(t *testing.T, stmt ast.StmtNode) {
				fn := stmt.(*ast.VarStmt).Decls[0].Init.(*ast.FunctionExpr)
				assert.True(t, fn.Arrow)
				assert.Nil(t, fn.Body)
				assert.IsType(t, &ast.BinaryExpr{}, fn.ExprBody)
			},
		},
		{
			name:   "single parameter arrow",
			source: `const id = x => x;`,
			check: func(t *testing.T, stmt ast.StmtNode) {
				fn := stmt.(*ast.VarStmt).Decls[0].Init.(*ast.FunctionExpr)
				require.Len(t, fn.Params, 1)
				assert.Equal(t, "x", fn.Params[0].Target.(*ast.BindingIdent).Name)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := mustParse(t, tt.source)
			require.Len(t, file.Statements, 1)
			tt.check(t, file.Statements[0])
		})
	}
}

func TestParseConditionalWithParenthesizedBranch(t *testing.T) {
	file := mustParse(t, `const v = ok ? (a) : b;`)
	cond, ok := file.Statements[0].(*ast.VarStmt).Decls[0].Init.(*ast.ConditionalExpr)
	require.True(t, ok)
	assert.IsType(t, &ast.ParenExpr{}, cond.Then)
	assert.IsType(t, &ast.Identifier{}, cond.Else)
}

func TestParseTypes(t *testing.T) {
	file := mustParse(t, `
type Shape = {
  tags: string[];
  scores?: Array<number>;
  kind: 'a' | 'b';
  nested: { inner: boolean }
}

export interface Output {
  id: string,
  count?: number
}
`)
	require.Len(t, file.Statements, 2)

	shape := file.Statements[0].(*ast.TypeAliasDecl).Type.(*ast.TypeLiteral)
	require.Len(t, shape.Members, 4)
	assert.IsType(t, &ast.ArrayType{}, shape.Members[0].Type)
	assert.True(t, shape.Members[1].Optional)
	generic := shape.Members[1].Type.(*ast.TypeReference)
	assert.Equal(t, "Array", generic.Name)
	union := shape.Members[2].Type.(*ast.UnionType)
	assert.Len(t, union.Types, 2)
	assert.IsType(t, &ast.TypeLiteral{}, shape.Members[3].Type)

	iface := file.Statements[1].(*ast.InterfaceDecl)
	assert.True(t, iface.Exported)
	assert.Equal(t, "Output", iface.Name)
	require.Len(t, iface.Members, 2)
	assert.True(t, iface.Members[1].Optional)
}

func TestParseImportForms(t *testing.T) {
	file := mustParse(t, `
import resolver from 'als-resolver-tools';
import { a, b as c } from "./local";
import * as ns from 'ns';
import type { T } from 'types';
import 'side-effect';
`)
	require.Len(t, file.Statements, 5)

	named := file.Statements[1].(*ast.ImportDecl)
	assert.Equal(t, []string{"a", "c"}, named.Named)
	assert.Equal(t, "./local", named.Module)

	ns := file.Statements[2].(*ast.ImportDecl)
	assert.Equal(t, "ns", ns.Namespace)

	typeOnly := file.Statements[3].(*ast.ImportDecl)
	assert.True(t, typeOnly.TypeOnly)

	sideEffect := file.Statements[4].(*ast.ImportDecl)
	assert.Equal(t, "side-effect", sideEffect.Module)
	assert.Empty(t, sideEffect.DefaultName)
}

func TestParseExportForms(t *testing.T) {
	file := mustParse(t, `
export default handler;
export { a, b as c };
`)
	require.Len(t, file.Statements, 2)
	assert.IsType(t, &ast.ExportDefaultDecl{}, file.Statements[0])
	list := file.Statements[1].(*ast.ExportListDecl)
	assert.Equal(t, []string{"a", "c"}, list.Names)
}

func TestParseControlFlow(t *testing.T) {
	file := mustParse(t, `
function check(x: number) {
  if (!x) {
    throw new Error('missing');
  } else if (x > 10) {
    return 'big';
  } else return x?.toString() ?? '';
}
`)
	decl := file.Statements[0].(*ast.FunctionDecl)
	ifStmt := decl.Body.Statements[0].(*ast.IfStmt)
	assert.IsType(t, &ast.UnaryExpr{}, ifStmt.Condition)
	block := ifStmt.Then.(*ast.BlockStmt)
	throwStmt := block.Statements[0].(*ast.ThrowStmt)
	newExpr := throwStmt.Value.(*ast.NewExpr)
	assert.Equal(t, "Error", newExpr.Callee.(*ast.Identifier).Name)
	assert.Len(t, newExpr.Args, 1)

	elseIf := ifStmt.Else.(*ast.IfStmt)
	finalReturn := elseIf.Else.(*ast.ReturnStmt)
	nullish := finalReturn.Value.(*ast.BinaryExpr)
	assert.Equal(t, "??", nullish.Operator)
}

func TestParseStatementSpans(t *testing.T) {
	source := "const a = 1;\nuserStore.put(\n  { id: a },\n  { a },\n);\n"
	file := mustParse(t, source)
	require.Len(t, file.Statements, 2)

	first := file.Statements[0].Range()
	assert.Equal(t, "const a = 1;", source[first.Start:first.End])

	second := file.Statements[1].Range()
	assert.Equal(t, "userStore.put(\n  { id: a },\n  { a },\n);", source[second.Start:second.End])
	assert.Equal(t, 2, file.Statements[1].Location().Line)
}

func TestParseOptionalSemicolons(t *testing.T) {
	file := mustParse(t, "const a = 1\nconst b = a + 1\nlog(b)\n")
	assert.Len(t, file.Statements, 3)
}

func TestParseDestructuring(t *testing.T) {
	file := mustParse(t, `const { username, id: userId, role = 'user', ...rest } = ctx.args.input;`)
	pattern := file.Statements[0].(*ast.VarStmt).Decls[0].Target.(*ast.ObjectPattern)
	assert.Equal(t, []string{"username", "userId", "role", "rest"}, pattern.Names())
	assert.NotNil(t, pattern.Properties[2].Default)
	assert.True(t, pattern.Properties[3].Rest)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		message string
	}{
		{"missing from", `import resolver 'x';`, "Expected 'from' in import declaration"},
		{"const without initializer", `const a;`, "Missing initializer in const declaration"},
		{"nested destructuring", `const { a: { b } } = c;`, "Nested destructuring is not supported"},
		{"unclosed block", `function f() { return 1;`, "Expected '}' to close block"},
		{"bad expression", `const a = );`, "Unexpected token ')', expected expression"},
		{"method signature", `type T = { run(): void };`, "Method signatures are not supported in types"},
		{"invalid assignment", `1 = 2;`, "Invalid assignment target"},
		{"generic alias", `type Box<T> = { value: T };`, "Generic type aliases are not supported"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errors := parseSource(t, tt.source)
			require.NotEmpty(t, errors)
			assert.Equal(t, tt.message, errors[0].Message)
		})
	}
}

func TestParseRecoversAtTopLevel(t *testing.T) {
	file, errors := parseSource(t, "const a = );\nconst b = 2;\n")
	require.Len(t, errors, 1)
	require.Len(t, file.Statements, 1)
	assert.Equal(t, "b", file.Statements[0].(*ast.VarStmt).Decls[0].Target.(*ast.BindingIdent).Name)
}

func TestParseErrorMessage(t *testing.T) {
	_, errors := parseSource(t, `const a = );`)
	require.NotEmpty(t, errors)
	assert.Equal(t, "Parse error at 1:11: Unexpected token ')', expected expression (near ')')", errors[0].Error())
}
