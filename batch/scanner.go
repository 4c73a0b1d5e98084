package batch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar"
)

// DefaultPattern selects every QML file below the root.
const DefaultPattern = "**/*.qml"

// ErrDirNotFound is returned when the directory to process does not exist.
var ErrDirNotFound = errors.New("directory not found")

// DefaultIgnoreDirs returns the default list of directories to ignore.
func DefaultIgnoreDirs() map[string]struct{} {
	return map[string]struct{}{
		".git":         {},
		".hg":          {},
		".svn":         {},
		".jj":          {},
		"node_modules": {},
		"vendor":       {},
		"dist":         {},
		"build":        {},
		"target":       {},
		".venv":        {},
		"__pycache__":  {},
		".cache":       {},
		"coverage":     {},
	}
}

// FileJob is a file selected for processing.
type FileJob struct {
	AbsPath     string `json:"-"`
	DisplayPath string `json:"path"`
}

// ScannerConfig holds scanner configuration.
type ScannerConfig struct {
	// Root is the directory to scan.
	Root string

	// Pattern is a doublestar glob matched against slash-separated paths
	// relative to Root. Defaults to DefaultPattern.
	Pattern string

	// IgnoreDirs are directory names never descended into.
	// If nil, DefaultIgnoreDirs is used.
	IgnoreDirs map[string]struct{}

	// MaxBytes skips files larger than this size.
	// If 0, no size limit is enforced.
	MaxBytes int64

	// Limit caps the number of files returned. 0 means no limit.
	Limit int
}

// Scanner discovers files for processing.
type Scanner struct {
	cfg ScannerConfig
}

// NewScanner creates a new scanner with the given configuration.
func NewScanner(cfg ScannerConfig) *Scanner {
	if cfg.IgnoreDirs == nil {
		cfg.IgnoreDirs = DefaultIgnoreDirs()
	}
	if cfg.Pattern == "" {
		cfg.Pattern = DefaultPattern
	}
	return &Scanner{cfg: cfg}
}

// ValidateRoot resolves root and checks that it is an existing directory.
func ValidateRoot(root string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve root: %w", err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrDirNotFound, root)
		}
		return "", fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrDirNotFound, root)
	}
	return absRoot, nil
}

// Collect finds all matching files, sorted by display path, and returns
// them as FileJobs.
func (s *Scanner) Collect() ([]FileJob, error) {
	absRoot, err := ValidateRoot(s.cfg.Root)
	if err != nil {
		return nil, err
	}

	var jobs []FileJob
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path == absRoot {
				return nil
			}
			if s.shouldIgnoreDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		ok, err := s.matches(rel)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		if s.cfg.MaxBytes > 0 {
			info, err := d.Info()
			if err != nil {
				// Skip files we can't stat
				return nil
			}
			if info.Size() > s.cfg.MaxBytes {
				return nil
			}
		}

		jobs = append(jobs, FileJob{
			AbsPath:     path,
			DisplayPath: rel,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].DisplayPath < jobs[j].DisplayPath
	})
	if s.cfg.Limit > 0 && len(jobs) > s.cfg.Limit {
		jobs = jobs[:s.cfg.Limit]
	}
	return jobs, nil
}

// matches reports whether rel is selected by the pattern. A leading "**/"
// also matches files directly in the root.
func (s *Scanner) matches(rel string) (bool, error) {
	ok, err := doublestar.Match(s.cfg.Pattern, rel)
	if err != nil {
		return false, fmt.Errorf("pattern %q: %w", s.cfg.Pattern, err)
	}
	if ok {
		return true, nil
	}
	if rest, found := strings.CutPrefix(s.cfg.Pattern, "**/"); found {
		return doublestar.Match(rest, rel)
	}
	return false, nil
}

func (s *Scanner) shouldIgnoreDir(name string) bool {
	_, ok := s.cfg.IgnoreDirs[name]
	return ok
}
