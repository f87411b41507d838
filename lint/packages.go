package lint

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"
)

// IsPackagePattern reports whether arg names a set of packages, such as
// "./..." or "example.com/m/...", rather than a file or directory.
func IsPackagePattern(arg string) bool {
	return strings.HasSuffix(arg, "...")
}

// ExpandPackagePatterns replaces each package pattern in args with the Go
// files of the packages it matches, test files included. Patterns are
// resolved by the go command relative to dir; other arguments are kept in
// place.
func ExpandPackagePatterns(ctx context.Context, dir string, args []string) ([]string, error) {
	out := make([]string, 0, len(args))
	for _, arg := range args {
		if !IsPackagePattern(arg) {
			out = append(out, arg)
			continue
		}
		files, err := loadPackageFiles(ctx, dir, arg)
		if err != nil {
			return nil, err
		}
		out = append(out, files...)
	}
	return out, nil
}

func loadPackageFiles(ctx context.Context, dir, pattern string) ([]string, error) {
	cfg := &packages.Config{
		Context: ctx,
		Dir:     dir,
		Mode:    packages.NeedName | packages.NeedFiles,
		Tests:   true,
	}
	pkgs, err := packages.Load(cfg, pattern)
	if err != nil {
		return nil, fmt.Errorf("error loading %s: %w", pattern, err)
	}

	seen := make(map[string]bool)
	var files []string
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			if e.Kind == packages.ListError {
				return nil, fmt.Errorf("error loading %s: %w", pattern, e)
			}
		}
		for _, f := range pkg.GoFiles {
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}
