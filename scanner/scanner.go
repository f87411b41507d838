// Package scanner finds the source files below a directory.
package scanner

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

type FileInfo struct {
	Path string
	Size int64
}

// DefaultSkipDirs are directory names the go tool ignores as well.
var DefaultSkipDirs = []string{"testdata", "vendor"}

type Scanner struct {
	rootDir    string
	extensions []string
	skipDirs   map[string]bool
}

// New returns a scanner for files with one of the given extensions. With
// no extensions every file matches. Hidden directories and DefaultSkipDirs
// are not entered.
func New(rootDir string, extensions ...string) *Scanner {
	s := &Scanner{
		rootDir:    rootDir,
		extensions: extensions,
		skipDirs:   make(map[string]bool),
	}
	for _, d := range DefaultSkipDirs {
		s.skipDirs[d] = true
	}
	return s
}

// SkipDirs replaces the set of directory names that are not entered.
func (s *Scanner) SkipDirs(names ...string) *Scanner {
	s.skipDirs = make(map[string]bool, len(names))
	for _, n := range names {
		s.skipDirs[n] = true
	}
	return s
}

// Scan returns the matching files sorted by path.
func (s *Scanner) Scan() ([]FileInfo, error) {
	var files []FileInfo
	err := filepath.WalkDir(s.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != s.rootDir && s.skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !s.isTargetFile(path) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, FileInfo{Path: path, Size: info.Size()})
		return nil
	})

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, err
}

func (s *Scanner) skipDir(name string) bool {
	return s.skipDirs[name] || (strings.HasPrefix(name, ".") && name != ".")
}

func (s *Scanner) isTargetFile(path string) bool {
	if len(s.extensions) == 0 {
		return true
	}

	ext := filepath.Ext(path)
	for _, targetExt := range s.extensions {
		if ext == targetExt {
			return true
		}
	}
	return false
}
