package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/resolverkit/resolverkit/internal/cli/config"
	"github.com/resolverkit/resolverkit/internal/compiler/cache"
)

const addUserHandler = `import resolver from 'als-resolver-tools';

type AddUserRequest = { username: string };
type AddUserResponse = { userId: string };

export const handler = ({ username }: AddUserRequest): AddUserResponse => {
  const getUserId = resolver.getLambdaDataSource('getUserId');
  const userStore = resolver.getDynamoDbDataSource('userStore');
  const userId = getUserId.invoke({ username });
  userStore.put({ id: userId }, { username });
  return { userId };
};
`

// project creates a temporary project with one handler and makes it the working directory
func project(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "resolvers"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "resolvers", "Mutation.addUser.ts"), []byte(addUserHandler), 0o644))

	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(oldWd) })
	return dir
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, "--no-color"))
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "resolverkit", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	names := make([]string, 0)
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	for _, expected := range []string{"version", "init", "build", "check", "watch", "lsp"} {
		assert.Contains(t, names, expected)
	}
}

func TestVersionCommand(t *testing.T) {
	Version = "1.0.0-test"
	GitCommit = "abc123"

	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "resolverkit version: 1.0.0-test")
	assert.Contains(t, stdout, "Git commit: abc123")
}

func TestBuildCommand(t *testing.T) {
	dir := project(t)

	stdout, _, err := execute(t, "build")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Built 1 resolver(s) into generated")
	assert.Contains(t, stdout, "Stages:")

	for _, name := range []string{
		"Mutation.addUser.getUserId.js",
		"Mutation.addUser.userStore.js",
		"Mutation.addUser.js",
		"schema.graphql",
		"resolver-constructs.ts",
		cache.ManifestFileName,
	} {
		_, err := os.Stat(filepath.Join(dir, "generated", name))
		assert.NoError(t, err, name)
	}

	stdout, _, err = execute(t, "build")
	require.NoError(t, err)
	assert.Contains(t, stdout, "up to date")

	stdout, _, err = execute(t, "build", "--force", "--verbose", "-o", "out")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Mutation.addUser.userStore.js")
	_, err = os.Stat(filepath.Join(dir, "out", "schema.graphql"))
	assert.NoError(t, err)
}

func TestBuildCommandJSON(t *testing.T) {
	project(t)

	stdout, _, err := execute(t, "build", "--json")
	require.NoError(t, err)

	var result buildOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	assert.True(t, result.Success)
	assert.Len(t, result.Artifacts, 5)
	require.NotNil(t, result.Metrics)
	assert.Equal(t, 2, result.Metrics.Stages)
}

func TestBuildCommandReportsCompilerErrors(t *testing.T) {
	dir := project(t)
	broken := strings.Replace(addUserHandler, "als-resolver-tools", "elsewhere", 1)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "resolvers", "Mutation.addUser.ts"), []byte(broken), 0o644))

	_, stderr, err := execute(t, "build")
	require.Error(t, err)
	assert.Contains(t, stderr, "VAL100")
	assert.Contains(t, stderr, "Mutation.addUser.ts")

	stdout, _, err := execute(t, "build", "--json")
	require.Error(t, err)

	var result struct {
		Success bool `json:"success"`
		Errors  []struct {
			Code string `json:"code"`
			File string `json:"file"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	assert.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "VAL100", result.Errors[0].Code)

	_, err = os.Stat(filepath.Join(dir, "generated"))
	assert.True(t, os.IsNotExist(err))
}

func TestBuildCommandConfigError(t *testing.T) {
	dir := project(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "resolverkit.yml"), []byte("scaffold:\n  runtime: nodejs\n"), 0o644))

	_, stderr, err := execute(t, "build")
	require.Error(t, err)
	assert.Contains(t, stderr, "CONFIGURATION ERROR")
	assert.Contains(t, stderr, "scaffold.runtime")
}

func TestCheckCommand(t *testing.T) {
	dir := project(t)

	stdout, _, err := execute(t, "check")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Mutation.addUser")
	assert.Contains(t, stdout, "getUserId.invoke → userStore.put")
	assert.Contains(t, stdout, "userStore (dynamodb)")
	assert.Contains(t, stdout, "1 resolver(s) OK")

	_, err = os.Stat(filepath.Join(dir, "generated"))
	assert.True(t, os.IsNotExist(err), "check must not write artifacts")
}

func TestCheckCommandResolverDetail(t *testing.T) {
	project(t)

	stdout, _, err := execute(t, "check", "--resolver", "Mutation.addUser")
	require.NoError(t, err)
	assert.Contains(t, stdout, "AddUserRequest")
	assert.Contains(t, stdout, "String!")
	assert.Contains(t, stdout, "PutItem")

	_, stderr, err := execute(t, "check", "-r", "Mutation.addUsr")
	require.Error(t, err)
	assert.Contains(t, stderr, "Did you mean: Mutation.addUser?")
}

func TestCheckCommandJSON(t *testing.T) {
	project(t)

	stdout, _, err := execute(t, "check", "--json")
	require.NoError(t, err)

	var resolvers []struct {
		Address struct {
			TypeName  string `json:"typeName"`
			FieldName string `json:"fieldName"`
		} `json:"address"`
		PipelineFunctions []struct {
			Name string `json:"name"`
		} `json:"pipelineFunctions"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resolvers))
	require.Len(t, resolvers, 1)
	assert.Equal(t, "addUser", resolvers[0].Address.FieldName)
	assert.Len(t, resolvers[0].PipelineFunctions, 2)
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(oldWd) })

	stdout, _, err := execute(t, "init", "--yes")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Created resolverkit.yml")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
	info, err := os.Stat(filepath.Join(dir, "resolvers"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	_, _, err = execute(t, "init", "--yes")
	assert.Error(t, err)
}

func TestInitCommandPrompts(t *testing.T) {
	dir := t.TempDir()
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(oldWd) })

	original := askInit
	askInit = func(cfg *config.Config) error {
		cfg.Input.Dir = "src/handlers"
		cfg.Scaffold.ConstructName = "ApiResolvers"
		return nil
	}
	t.Cleanup(func() { askInit = original })

	_, _, err = execute(t, "init")
	require.NoError(t, err)

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "src/handlers", cfg.Input.Dir)
	assert.Equal(t, "ApiResolvers", cfg.Scaffold.ConstructName)
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRunWatchRebuildsOnChange(t *testing.T) {
	dir := project(t)
	cfg := config.Default()

	ctx, cancel := context.WithCancel(context.Background())
	out := &syncBuffer{}
	done := make(chan error, 1)
	go func() {
		done <- runWatch(ctx, out, cfg, 20*time.Millisecond, true, zap.NewNop())
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Watching resolvers")
	}, 2*time.Second, 10*time.Millisecond)
	assert.Contains(t, out.String(), "Built 1 resolver(s)")

	getUser := `import resolver from 'als-resolver-tools';

export const handler = (req: { id: string }): { name: string } => {
  const users = resolver.getDynamoDbDataSource('userStore');
  const user = users.get({ id: req.id });
  return user;
};
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "resolvers", "Query.getUser.ts"), []byte(getUser), 0o644))

	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(dir, "generated", "Query.getUser.users.js"))
		return err == nil
	}, 3*time.Second, 20*time.Millisecond)
	assert.Contains(t, out.String(), "rebuilding")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestNewFileLogger(t *testing.T) {
	logger, err := newFileLogger("")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.ErrorLevel))

	path := filepath.Join(t.TempDir(), "lsp.log")
	logger, err = newFileLogger(path)
	require.NoError(t, err)
	logger.Info("server started")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "server started")
}
