package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resolverkit/resolverkit/internal/compiler/errors"
	"github.com/resolverkit/resolverkit/internal/compiler/ir"
	"github.com/resolverkit/resolverkit/internal/compiler/lexer"
	"github.com/resolverkit/resolverkit/internal/compiler/parser"
	"github.com/resolverkit/resolverkit/internal/compiler/validator"
)

const addUserSource = `import resolver from 'als-resolver-tools';

type AddUserRequest = {
  username: string;
};

type AddUserResponse = {
  userId: string;
};

export const handler = ({ username }: AddUserRequest): AddUserResponse => {
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

// compile runs the front end on one handler file
func compile(t *testing.T, path, source string) (*ir.ParsedResolver, error) {
	t.Helper()
	tokens, lexErrors := lexer.New(source).ScanTokens()
	require.Empty(t, lexErrors)
	file, parseErrors := parser.New(tokens).Parse()
	require.Empty(t, parseErrors)

	validated, err := validator.New("").Validate(file)
	if err != nil {
		return nil, err
	}
	return Parse(path, source, file, validated)
}

func mustCompile(t *testing.T, path, source string) *ir.ParsedResolver {
	t.Helper()
	resolver, err := compile(t, path, source)
	require.NoError(t, err)
	return resolver
}

func TestParseAddUser(t *testing.T) {
	resolver := mustCompile(t, "resolvers/Mutation.addUser.ts", addUserSource)

	assert.Equal(t, ir.ResolverAddress{TypeName: "Mutation", FieldName: "addUser"}, resolver.Address)
	assert.Equal(t, "resolvers/Mutation.addUser.ts", resolver.Source)

	assert.Equal(t, []ir.DataSourceRef{
		{VariableName: "getUserId", DataSourceName: "getUserId", Kind: ir.DataSourceLambda},
		{VariableName: "userStore", DataSourceName: "userStore", Kind: ir.DataSourceDynamoDB},
	}, resolver.ReferencedDataSources)

	assert.Equal(t, ir.TypeDefinition{
		Name:   "AddUserRequest",
		Fields: []ir.FieldDefinition{{Name: "username", Type: "string"}},
	}, resolver.RequestType)
	assert.Equal(t, ir.TypeDefinition{
		Name:   "AddUserResponse",
		Fields: []ir.FieldDefinition{{Name: "userId", Type: "string"}},
	}, resolver.ResponseType)

	require.Len(t, resolver.PipelineFunctions, 2)

	invoke := resolver.PipelineFunctions[0]
	assert.Equal(t, "getUserId", invoke.Name)
	assert.Equal(t, "invoke", invoke.MethodName)
	assert.Equal(t, "userId", invoke.ResultBinding)
	assert.Equal(t, []string{"{ username }"}, invoke.Args)
	assert.Equal(t, []ir.Statement{
		{Text: "const { username } = ctx.args.input;", Origin: ir.OriginBinding},
		{Text: "return {\n  operation: 'Invoke',\n  payload: { username },\n};", Origin: ir.OriginOperation},
	}, invoke.Statements)

	put := resolver.PipelineFunctions[1]
	assert.Equal(t, "userStore", put.Name)
	assert.Equal(t, "put", put.MethodName)
	assert.Empty(t, put.ResultBinding)
	assert.Equal(t, []string{"{ partitionKey: userId }", "{ username, processedId }"}, put.Args)
	assert.Equal(t, []string{
		"const { username } = ctx.args.input;",
		"const userId = ctx.prev.result;",
		"const processedId = `${userId}${userId}`;",
		"return {",
		"  operation: 'PutItem',",
		"  key: util.dynamodb.toMapValues({ partitionKey: userId }),",
		"  attributeValues: util.dynamodb.toMapValues({ username, processedId }),",
		"};",
	}, put.Lines())

	assert.Equal(t, []string{"return { userId };"}, resolver.TrailingStatements)
}

func TestParseTwoStageRoundTrip(t *testing.T) {
	source := `import resolver from 'als-resolver-tools';

type Req = { id: string };
type Res = { ok: boolean };

export const handler = (input: Req): Res => {
  const first = resolver.getLambdaDataSource('first');
  const a = input.id.trim();
  const b = a.toUpperCase();
  first.invoke({ b });
  const second = resolver.getDynamoDbDataSource('second');
  const c = b + '!';
  if (c.length > 3) {
    console.log(c);
  }
  second.get({ id: c });
  return { ok: true };
};
`
	resolver := mustCompile(t, "Query.check.ts", source)
	require.Len(t, resolver.PipelineFunctions, 2)

	first := resolver.PipelineFunctions[0].SourceStatements()
	second := resolver.PipelineFunctions[1].SourceStatements()

	assert.Equal(t, []string{"const a = input.id.trim();", "const b = a.toUpperCase();"}, first)
	assert.Equal(t, []string{"const c = b + '!';", "if (c.length > 3) {\n  console.log(c);\n}"}, second)

	for _, stmt := range first {
		assert.NotContains(t, second, stmt)
	}

	for _, fn := range resolver.PipelineFunctions {
		last := fn.Statements[len(fn.Statements)-1]
		assert.Equal(t, ir.OriginOperation, last.Origin)
	}
	assert.Equal(t, "  key: util.dynamodb.toMapValues({ id: c }),", resolver.PipelineFunctions[1].Lines()[len(resolver.PipelineFunctions[1].Lines())-2])
}

func TestParseCarriesLocalsBetweenStages(t *testing.T) {
	source := `import resolver from 'als-resolver-tools';

type Req = { id: string };
type Res = { ok: boolean };

export const handler = (input: Req): Res => {
  const first = resolver.getLambdaDataSource('first');
  const second = resolver.getDynamoDbDataSource('second');
  const a = input.id.trim();
  const b = a.toUpperCase();
  first.invoke({ b });
  const c = b + '!';
  second.get({ id: c });
  return { ok: true };
};
`
	resolver := mustCompile(t, "Query.check.ts", source)
	require.Len(t, resolver.PipelineFunctions, 2)

	texts := func(fn ir.PipelineFunctionDef) []string {
		out := make([]string, 0, len(fn.Statements))
		for _, stmt := range fn.Statements[:len(fn.Statements)-1] {
			out = append(out, stmt.Text)
		}
		return out
	}

	assert.Equal(t, []string{
		"const input = ctx.args.input;",
		"const a = input.id.trim();",
		"const b = a.toUpperCase();",
		"ctx.stash.locals = ctx.stash.locals || {};",
		"ctx.stash.locals.b = b;",
	}, texts(resolver.PipelineFunctions[0]))
	assert.Equal(t, []string{
		"const b = ctx.stash.locals.b;",
		"const c = b + '!';",
	}, texts(resolver.PipelineFunctions[1]))
}

func TestParseStageNamesNeverCollide(t *testing.T) {
	source := `import resolver from 'als-resolver-tools';

type Req = { id: string };
type Res = { id: string };

export const handler = (req: Req): Res => {
  const userStore = resolver.getDynamoDbDataSource('users');
  const userStore2 = resolver.getDynamoDbDataSource('archive');
  userStore.get({ id: req.id });
  userStore.delete({ id: req.id });
  userStore2.get({ id: req.id });
  userStore.get({ id: req.id });
  return req;
};
`
	resolver := mustCompile(t, "Query.x.ts", source)
	require.Len(t, resolver.PipelineFunctions, 4)

	names := make([]string, 0, 4)
	files := make(map[string]bool)
	for _, fn := range resolver.PipelineFunctions {
		names = append(names, fn.Name)
		files[FunctionFileName(resolver.Address, fn.Name)] = true
	}
	assert.Equal(t, []string{"userStore", "userStore2", "userStore22", "userStore3"}, names)
	assert.Len(t, files, 4)
}

func TestParseStageCountAndNaming(t *testing.T) {
	source := `import resolver from 'als-resolver-tools';

type Req = { id: string };
type Res = { id: string };

export const handler = async (req: Req): Promise<Res> => {
  const store = resolver.getDynamoDbDataSource('store');
  const audit = resolver.getLambdaDataSource('audit');
  const store = resolver.getDynamoDbDataSource('store');
  const before = await store.get({ id: req.id });
  await audit.invoke({ before });
  await store.delete({ id: req.id });
  return req;
};
`
	resolver := mustCompile(t, "Mutation.removeItem.ts", source)

	require.Len(t, resolver.ReferencedDataSources, 2)
	require.Len(t, resolver.PipelineFunctions, 3)

	names := make([]string, 0, 3)
	methods := make([]string, 0, 3)
	for _, fn := range resolver.PipelineFunctions {
		names = append(names, fn.Name)
		methods = append(methods, fn.MethodName)
	}
	assert.Equal(t, []string{"store", "audit", "store2"}, names)
	assert.Equal(t, []string{"get", "invoke", "delete"}, methods)

	assert.Equal(t, "GetItem", resolver.PipelineFunctions[0].Operation.Name)
	assert.Equal(t, "DeleteItem", resolver.PipelineFunctions[2].Operation.Name)
	assert.Equal(t, "Res", resolver.ResponseType.Name)
}

func TestParseStashesOlderResults(t *testing.T) {
	source := `import resolver from 'als-resolver-tools';

type Req = { name: string };
type Res = { id: string };

export const handler = ({ name }: Req): Res => {
  const ids = resolver.getLambdaDataSource('ids');
  const notify = resolver.getLambdaDataSource('notify');
  const users = resolver.getDynamoDbDataSource('users');
  const id = ids.invoke({ name });
  notify.invoke({ name });
  users.put({ id }, { name });
  return { id };
};
`
	resolver := mustCompile(t, "Mutation.createUser.ts", source)
	require.Len(t, resolver.PipelineFunctions, 3)

	notify := resolver.PipelineFunctions[1]
	assert.Equal(t, ir.Statement{Text: "ctx.stash.ids = ctx.prev.result;", Origin: ir.OriginBinding}, notify.Statements[0])
	assert.Equal(t, ir.Statement{Text: "const { name } = ctx.args.input;", Origin: ir.OriginBinding}, notify.Statements[1])

	users := resolver.PipelineFunctions[2]
	assert.Equal(t, []string{
		"const { name } = ctx.args.input;",
		"const id = ctx.stash.ids;",
	}, []string{users.Statements[0].Text, users.Statements[1].Text})
}

func TestParseInlineTypes(t *testing.T) {
	source := `import resolver from 'als-resolver-tools';

export function handler(input: { id: string; tags?: string[]; scores: Array<number> }): { found: boolean } {
  return { found: true };
}
`
	resolver := mustCompile(t, "Query.lookup.ts", source)

	assert.Equal(t, ir.TypeDefinition{
		Name: ir.AnonymousRequestType,
		Fields: []ir.FieldDefinition{
			{Name: "id", Type: "string"},
			{Name: "tags", Type: "string", IsOptional: true, IsArray: true},
			{Name: "scores", Type: "number", IsArray: true},
		},
	}, resolver.RequestType)
	assert.Equal(t, ir.AnonymousResponseType, resolver.ResponseType.Name)
	assert.Empty(t, resolver.PipelineFunctions)
	assert.Equal(t, []string{"return { found: true };"}, resolver.TrailingStatements)
}

func TestParseInterfaceTypes(t *testing.T) {
	source := `import resolver from 'als-resolver-tools';

interface Req { id: string }
interface Res { id: string; active: boolean }

export const handler = (req: Req): Res => {
  return { id: req.id, active: true };
};
`
	resolver := mustCompile(t, "Query.getItem.ts", source)
	assert.Equal(t, "Req", resolver.RequestType.Name)
	assert.Len(t, resolver.ResponseType.Fields, 2)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		body  string
		check func(error) bool
		code  errors.ErrorCode
	}{
		{
			name:  "unresolved request type",
			body:  `export const handler = (input: Missing): Res => { return input; };`,
			check: errors.IsUnresolvedType,
			code:  errors.ErrUnresolvedType,
		},
		{
			name: "unknown scalar",
			body: `type Bad = { when: Date };
export const handler = (input: Bad): Res => { return input; };`,
			check: errors.IsUnknownScalar,
			code:  errors.ErrUnknownScalar,
		},
		{
			name:  "zero parameters",
			body:  `export const handler = (): Res => { return {}; };`,
			check: errors.IsValidation,
			code:  errors.ErrHandlerParameters,
		},
		{
			name:  "two parameters",
			body:  `export const handler = (a: Req, b: Req): Res => { return a; };`,
			check: errors.IsValidation,
			code:  errors.ErrHandlerParameters,
		},
		{
			name:  "missing request annotation",
			body:  `export const handler = (input): Res => { return input; };`,
			check: errors.IsValidation,
			code:  errors.ErrMissingTypeAnnotation,
		},
		{
			name:  "missing response annotation",
			body:  `export const handler = (input: Req) => { return input; };`,
			check: errors.IsValidation,
			code:  errors.ErrMissingTypeAnnotation,
		},
		{
			name: "unsupported operation",
			body: `export const handler = (input: Req): Res => {
  const store = resolver.getDynamoDbDataSource('store');
  store.scan({});
  return input;
};`,
			check: errors.IsUnsupportedOperation,
			code:  errors.ErrUnsupportedOperation,
		},
		{
			name: "unsupported acquisition",
			body: `export const handler = (input: Req): Res => {
  const api = resolver.getHttpDataSource('api');
  return input;
};`,
			check: errors.IsUnsupportedOperation,
			code:  errors.ErrUnsupportedAcquisition,
		},
		{
			name: "put with one argument",
			body: `export const handler = (input: Req): Res => {
  const store = resolver.getDynamoDbDataSource('store');
  store.put({ id: input.id });
  return input;
};`,
			check: errors.IsMalformedArguments,
			code:  errors.ErrMalformedArguments,
		},
		{
			name: "put with a non-literal argument",
			body: `export const handler = (input: Req): Res => {
  const store = resolver.getDynamoDbDataSource('store');
  store.put({ id: input.id }, input);
  return input;
};`,
			check: errors.IsMalformedArguments,
			code:  errors.ErrMalformedArguments,
		},
		{
			name: "non-literal data source name",
			body: `export const handler = (input: Req): Res => {
  const store = resolver.getDynamoDbDataSource(input.id);
  return input;
};`,
			check: errors.IsMalformedArguments,
			code:  errors.ErrMalformedArguments,
		},
		{
			name: "ambiguous rebinding",
			body: `export const handler = (input: Req): Res => {
  const store = resolver.getDynamoDbDataSource('users');
  const store = resolver.getDynamoDbDataSource('orders');
  return input;
};`,
			check: errors.IsValidation,
			code:  errors.ErrAmbiguousDataSource,
		},
		{
			name:  "invalid address",
			path:  "addUser.ts",
			body:  `export const handler = (input: Req): Res => { return input; };`,
			check: errors.IsInvalidAddress,
			code:  errors.ErrInvalidAddress,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.path
			if path == "" {
				path = "Query.test.ts"
			}
			source := "import resolver from 'als-resolver-tools';\ntype Req = { id: string };\ntype Res = { id: string };\n" + tt.body

			_, err := compile(t, path, source)
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error kind: %v", err)

			compilerErr, ok := errors.As(err)
			require.True(t, ok)
			assert.Equal(t, tt.code, compilerErr.Code)
		})
	}
}
