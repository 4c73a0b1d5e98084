package qmldir

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/viant/afs"
	"golang.org/x/sync/errgroup"
)

// keywords are directives that carry no file reference.
var keywords = map[string]struct{}{
	"module":            {},
	"plugin":            {},
	"typeinfo":          {},
	"designersupported": {},
	"depends":           {},
	"import":            {},
	"classname":         {},
	"optional":          {},
	"prefer":            {},
	"linktarget":        {},
}

// Finding is one problem in a manifest. Line is 1-based; 0 means the
// manifest as a whole.
type Finding struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

func (f Finding) String() string {
	return fmt.Sprintf("Line %d: %s", f.Line, f.Message)
}

// Report is the result of linting one manifest.
type Report struct {
	Path     string    `json:"path"`
	Module   string    `json:"module,omitempty"`
	Findings []Finding `json:"findings"`
}

// OK reports whether the manifest has no findings.
func (r Report) OK() bool {
	return len(r.Findings) == 0
}

// Check lints manifest content. exists reports whether a referenced file,
// relative to the manifest directory, is present.
func Check(content string, exists func(name string) bool) Report {
	var rep Report
	sc := bufio.NewScanner(strings.NewReader(content))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for no := 1; sc.Scan(); no++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Fields(line)
		if _, ok := keywords[parts[0]]; ok {
			if parts[0] == "module" && len(parts) > 1 {
				rep.Module = parts[1]
			}
			continue
		}
		rep.Findings = append(rep.Findings, checkEntry(no, line, parts, exists)...)
	}
	if err := sc.Err(); err != nil {
		rep.Findings = append(rep.Findings, Finding{Message: "read: " + err.Error()})
	}
	return rep
}

func checkEntry(no int, line string, parts []string, exists func(string) bool) []Finding {
	var version, file string
	switch {
	case parts[0] == "singleton" && len(parts) >= 4:
		version, file = parts[2], parts[len(parts)-1]
	case parts[0] == "internal" && len(parts) >= 3:
		file = parts[len(parts)-1]
	case len(parts) >= 3:
		version, file = parts[1], parts[len(parts)-1]
	case strings.ContainsAny(line, "{};"):
		return []Finding{{no, "Suspicious content (looks like QML code?): " + line}}
	default:
		return nil
	}

	var out []Finding
	if !exists(file) {
		out = append(out, Finding{no, "File not found: " + file})
	}
	if version != "" && !startsWithDigit(version) {
		out = append(out, Finding{no, "Invalid version format: " + version})
	}
	return out
}

func startsWithDigit(s string) bool {
	r, size := utf8.DecodeRuneInString(s)
	return size > 0 && unicode.IsDigit(r)
}

// Linter checks manifests and the files they reference.
type Linter struct {
	fs     afs.Service
	logger *slog.Logger
}

// NewLinter creates a Linter on the default afs service.
func NewLinter(logger *slog.Logger) *Linter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Linter{fs: afs.New(), logger: logger}
}

// Lint checks the manifest at path. A manifest that cannot be read yields a
// report with a single line 0 finding.
func (l *Linter) Lint(ctx context.Context, path string) Report {
	data, err := l.fs.DownloadWithURL(ctx, path)
	if err != nil {
		l.logger.Error("read manifest", slog.String("file", path), slog.Any("error", err))
		return Report{Path: path, Findings: []Finding{{0, "Cannot read manifest: " + err.Error()}}}
	}

	dir := filepath.Dir(path)
	rep := Check(string(data), func(name string) bool {
		ok, err := l.fs.Exists(ctx, filepath.Join(dir, filepath.FromSlash(name)))
		return err == nil && ok
	})
	rep.Path = path
	l.logger.Debug("linted manifest",
		slog.String("file", path),
		slog.String("module", rep.Module),
		slog.Int("findings", len(rep.Findings)),
	)
	return rep
}

// LintFiles lints paths with at most jobs manifests in flight and returns
// the reports in input order. If jobs <= 0, the number of CPUs is used.
func (l *Linter) LintFiles(ctx context.Context, paths []string, jobs int) ([]Report, error) {
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	reports := make([]Report, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			reports[i] = l.Lint(ctx, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}
