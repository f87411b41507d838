package lint

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/gnolang/rangelint/internal"
	"github.com/gnolang/rangelint/internal/lints"
	tt "github.com/gnolang/rangelint/internal/types"
	"github.com/gnolang/rangelint/scanner"
)

// DefaultConfigPath is the config file looked up in the working directory.
const DefaultConfigPath = ".rangelint.yaml"

type LintEngine interface {
	Run(filePath string) ([]tt.Issue, error)
	RunSource(filename string, source []byte) ([]tt.Issue, error)
	IgnoreRule(rule string)
	IgnorePaths(patterns ...string)
}

// Config represents the overall configuration with a name and a slice of rules.
type Config struct {
	Name  string                   `yaml:"name"`
	Rules map[string]tt.ConfigRule `yaml:"rules"`
}

// DefaultConfig is the configuration used when no file is present and the
// one written by `rangelint init`.
func DefaultConfig() Config {
	return Config{
		Name: "rangelint",
		Rules: map[string]tt.ConfigRule{
			lints.ConstantConditionRule: {
				Severity: tt.SeverityWarning,
				Data: map[string]any{
					"symmetric":     true,
					"unsigned-type": "uint",
				},
			},
		},
	}
}

// LoadConfig reads a YAML configuration. A missing file yields
// DefaultConfig.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("error opening config: %w", err)
	}
	defer f.Close()

	var config Config
	if err := yaml.NewDecoder(f).Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("error parsing config %s: %w", path, err)
	}
	if config.Rules == nil {
		config.Rules = make(map[string]tt.ConfigRule)
	}
	return config, nil
}

// SetRuleOption overrides a single data option of rule, keeping the rest of
// its configuration.
func (c *Config) SetRuleOption(rule, key string, value any) {
	if c.Rules == nil {
		c.Rules = make(map[string]tt.ConfigRule)
	}
	r, ok := c.Rules[rule]
	if !ok {
		r = DefaultConfig().Rules[rule]
	}
	data := make(map[string]any, len(r.Data)+1)
	for k, v := range r.Data {
		data[k] = v
	}
	data[key] = value
	r.Data = data
	c.Rules[rule] = r
}

// Marshal returns the YAML form of the configuration.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// New creates an engine configured by cfg.
func New(cfg Config, logger *zap.Logger) (*internal.Engine, error) {
	return internal.NewEngine(cfg.Rules, logger)
}

// NewCache opens the issue cache in dir. Entries written under a different
// configuration are discarded.
func NewCache(dir string, cfg Config) (*internal.Cache, error) {
	data, err := cfg.Marshal()
	if err != nil {
		return nil, fmt.Errorf("error hashing config: %w", err)
	}
	return internal.NewCache(dir, internal.HashConfig(data))
}

type Processor func(LintEngine, string) ([]tt.Issue, error)

func ProcessFile(engine LintEngine, filePath string) ([]tt.Issue, error) {
	return engine.Run(filePath)
}

func ProcessSource(engine LintEngine, filename string, source []byte) ([]tt.Issue, error) {
	return engine.RunSource(filename, source)
}

// ProcessFiles lints every path in order. The first failing path aborts
// the run.
func ProcessFiles(
	ctx context.Context,
	logger *zap.Logger,
	engine LintEngine,
	paths []string,
	processor Processor,
) ([]tt.Issue, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var allIssues []tt.Issue
	for _, path := range paths {
		issues, err := ProcessPath(ctx, logger, engine, path, processor)
		allIssues = append(allIssues, issues...)
		if err != nil {
			logger.Debug("error processing path", zap.String("path", path), zap.Error(err))
			return allIssues, err
		}
	}
	return allIssues, nil
}

// ProcessPath lints a single .go file or every .go file below a directory.
// Directory contents are processed concurrently; issues are returned in
// file order. On failure the issues of the files that completed are
// returned along with the error.
func ProcessPath(
	ctx context.Context,
	logger *zap.Logger,
	engine LintEngine,
	path string,
	processor Processor,
) ([]tt.Issue, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}

	if !info.IsDir() {
		if !hasDesiredExtension(path) {
			logger.Debug("skip non-Go file", zap.String("file", path))
			return nil, nil
		}
		return processor(engine, path)
	}

	files, err := scanner.New(path, ".go").Scan()
	if err != nil {
		return nil, fmt.Errorf("error scanning %s: %w", path, err)
	}

	bar := newProgressBar(len(files), path, os.Stderr)
	defer bar.Finish()

	results := make([][]tt.Issue, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, file := range files {
		i, file := i, file
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			issues, err := processor(engine, file.Path)
			_ = bar.Add(1)
			if err != nil {
				logger.Debug("error processing file", zap.String("file", file.Path), zap.Error(err))
				return err
			}
			results[i] = issues
			return nil
		})
	}
	err = g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	issues := []tt.Issue{}
	for _, r := range results {
		issues = append(issues, r...)
	}
	return issues, err
}

// newProgressBar reports directory progress on w, which is only drawn when
// w is a terminal.
func newProgressBar(total int, description string, w *os.File) *progressbar.ProgressBar {
	visible := isatty.IsTerminal(w.Fd()) || isatty.IsCygwinTerminal(w.Fd())
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetVisibility(visible),
		progressbar.OptionSetDescription(description),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}

func hasDesiredExtension(path string) bool {
	return filepath.Ext(path) == ".go"
}
