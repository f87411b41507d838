package lint

import (
	"context"
	"errors"
	"go/token"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gnolang/rangelint/internal/types"
)

type mockLintEngine struct {
	mock.Mock
}

func (m *mockLintEngine) Run(filePath string) ([]types.Issue, error) {
	args := m.Called(filePath)
	return args.Get(0).([]types.Issue), args.Error(1)
}

func (m *mockLintEngine) RunSource(filename string, source []byte) ([]types.Issue, error) {
	args := m.Called(filename, source)
	return args.Get(0).([]types.Issue), args.Error(1)
}

func (m *mockLintEngine) IgnoreRule(rule string) {
	m.Called(rule)
}

func (m *mockLintEngine) IgnorePaths(patterns ...string) {
	m.Called(patterns)
}

func issueAt(filename string, line int) types.Issue {
	return types.Issue{
		Rule:     "constant-condition",
		Filename: filename,
		Start:    token.Position{Filename: filename, Line: line, Column: 5},
		Message:  "condition `a == b` is always true",
	}
}

func TestProcessFile(t *testing.T) {
	t.Parallel()

	expected := []types.Issue{issueAt("test.go", 6)}
	mockEngine := new(mockLintEngine)
	mockEngine.On("Run", "test.go").Return(expected, nil)

	issues, err := ProcessFile(mockEngine, "test.go")
	require.NoError(t, err)
	assert.Equal(t, expected, issues)
	mockEngine.AssertExpectations(t)
}

func TestProcessSource(t *testing.T) {
	t.Parallel()

	expected := []types.Issue{issueAt("src.go", 1)}
	src := []byte("package main")
	mockEngine := new(mockLintEngine)
	mockEngine.On("RunSource", "src.go", src).Return(expected, nil)

	issues, err := ProcessSource(mockEngine, "src.go", src)
	require.NoError(t, err)
	assert.Equal(t, expected, issues)
	mockEngine.AssertExpectations(t)
}

func writeFiles(t *testing.T, dir string, names ...string) []string {
	t.Helper()
	var paths []string
	for _, name := range names {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("package main\n"), 0o644))
		paths = append(paths, p)
	}
	return paths
}

func TestProcessPath(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	paths := writeFiles(t, tempDir, "b.go", "a.go", "sub/c.go", "notes.txt")

	mockEngine := new(mockLintEngine)
	mockEngine.On("Run", paths[0]).Return([]types.Issue{issueAt(paths[0], 3)}, nil)
	mockEngine.On("Run", paths[1]).Return([]types.Issue{issueAt(paths[1], 4)}, nil)
	mockEngine.On("Run", paths[2]).Return([]types.Issue{}, nil)

	issues, err := ProcessPath(context.Background(), zap.NewNop(), mockEngine, tempDir, ProcessFile)
	require.NoError(t, err)

	// results follow file order regardless of completion order
	require.Len(t, issues, 2)
	assert.Equal(t, paths[1], issues[0].Filename)
	assert.Equal(t, paths[0], issues[1].Filename)
	mockEngine.AssertExpectations(t)
	mockEngine.AssertNotCalled(t, "Run", paths[3])
}

func TestProcessPathSingleFile(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	paths := writeFiles(t, tempDir, "main.go", "README.md")

	mockEngine := new(mockLintEngine)
	mockEngine.On("Run", paths[0]).Return([]types.Issue{issueAt(paths[0], 1)}, nil)

	issues, err := ProcessPath(context.Background(), nil, mockEngine, paths[0], ProcessFile)
	require.NoError(t, err)
	assert.Len(t, issues, 1)

	issues, err = ProcessPath(context.Background(), nil, mockEngine, paths[1], ProcessFile)
	require.NoError(t, err)
	assert.Empty(t, issues)
	mockEngine.AssertExpectations(t)
}

func TestProcessPathError(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	paths := writeFiles(t, tempDir, "bad.go")

	boom := errors.New("boom")
	mockEngine := new(mockLintEngine)
	mockEngine.On("Run", paths[0]).Return([]types.Issue(nil), boom)

	_, err := ProcessPath(context.Background(), nil, mockEngine, tempDir, ProcessFile)
	assert.ErrorIs(t, err, boom)
}

func TestProcessPathMissing(t *testing.T) {
	t.Parallel()

	_, err := ProcessPath(context.Background(), nil, new(mockLintEngine), filepath.Join(t.TempDir(), "nope"), ProcessFile)
	assert.Error(t, err)
}

func TestProcessFiles(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	paths := writeFiles(t, tempDir, "one.go", "two.go")

	mockEngine := new(mockLintEngine)
	mockEngine.On("Run", paths[0]).Return([]types.Issue{issueAt(paths[0], 1)}, nil)
	mockEngine.On("Run", paths[1]).Return([]types.Issue{issueAt(paths[1], 2)}, nil)

	issues, err := ProcessFiles(context.Background(), nil, mockEngine, paths, ProcessFile)
	require.NoError(t, err)
	assert.Len(t, issues, 2)
	mockEngine.AssertExpectations(t)
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		cfg, err := LoadConfig(filepath.Join(t.TempDir(), DefaultConfigPath))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("custom", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), DefaultConfigPath)
		require.NoError(t, os.WriteFile(path, []byte(`name: custom
rules:
  constant-condition:
    severity: error
    data:
      symmetric: false
`), 0o644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "custom", cfg.Name)
		rule := cfg.Rules["constant-condition"]
		assert.Equal(t, types.SeverityError, rule.Severity)
		assert.Equal(t, false, rule.Data["symmetric"])
	})

	t.Run("empty file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), DefaultConfigPath)
		require.NoError(t, os.WriteFile(path, nil, 0o644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.NotNil(t, cfg.Rules)
	})

	t.Run("bad severity", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), DefaultConfigPath)
		require.NoError(t, os.WriteFile(path, []byte("rules:\n  constant-condition:\n    severity: loud\n"), 0o644))

		_, err := LoadConfig(path)
		assert.Error(t, err)
	})
}

func TestConfigRoundTrip(t *testing.T) {
	t.Parallel()

	data, err := DefaultConfig().Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), "severity: WARNING")

	path := filepath.Join(t.TempDir(), DefaultConfigPath)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSetRuleOption(t *testing.T) {
	t.Parallel()

	cfg := Config{}
	cfg.SetRuleOption("constant-condition", "symmetric", false)

	rule := cfg.Rules["constant-condition"]
	assert.Equal(t, types.SeverityWarning, rule.Severity)
	assert.Equal(t, false, rule.Data["symmetric"])
	assert.Equal(t, "uint", rule.Data["unsigned-type"])

	// the defaults are not mutated
	assert.Equal(t, true, DefaultConfig().Rules["constant-condition"].Data["symmetric"])
}
