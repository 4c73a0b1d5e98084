package batch

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arjunmahishi/qmlfix/qmlfix"
	"github.com/stretchr/testify/require"
)

const needsFix = "Item {\n    property int foo: 1\n    width: foo\n}\n"

// memStore is an in-memory Store that can fail on selected paths.
type memStore struct {
	files     map[string]string
	failLoad  map[string]bool
	failSave  map[string]bool
	saveCalls []string
}

func (s *memStore) Load(_ context.Context, path string) ([]byte, error) {
	if s.failLoad[path] {
		return nil, errors.New("permission denied")
	}
	content, ok := s.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return []byte(content), nil
}

func (s *memStore) Save(_ context.Context, path string, data []byte) error {
	s.saveCalls = append(s.saveCalls, path)
	if s.failSave[path] {
		return errors.New("disk full")
	}
	s.files[path] = string(data)
	return nil
}

func newTestPipeline(t *testing.T, store Store, opts PipelineOptions) *Pipeline {
	t.Helper()
	q, err := qmlfix.New(qmlfix.DefaultOptions())
	require.NoError(t, err)
	return NewPipeline(q, store, opts)
}

func jobsFor(paths ...string) []FileJob {
	jobs := make([]FileJob, 0, len(paths))
	for _, p := range paths {
		jobs = append(jobs, FileJob{AbsPath: p, DisplayPath: p})
	}
	return jobs
}

type recorder struct {
	started []string
	done    []FileResult
}

func (r *recorder) FileStarted(job FileJob) { r.started = append(r.started, job.DisplayPath) }
func (r *recorder) FileDone(fr FileResult)  { r.done = append(r.done, fr) }

func TestPipelineErrorIsolation(t *testing.T) {
	store := &memStore{
		files: map[string]string{
			"a.qml": needsFix,
			"b.qml": needsFix,
			"c.qml": needsFix,
			"d.qml": "Item {\n    text: \"\xff\"\n}\n",
		},
		failLoad: map[string]bool{"b.qml": true},
	}
	rec := &recorder{}
	p := newTestPipeline(t, store, PipelineOptions{Observer: rec})

	stats, err := p.Run(context.Background(), jobsFor("a.qml", "b.qml", "c.qml", "d.qml"))
	require.NoError(t, err)

	require.Equal(t, 4, stats.FilesProcessed)
	require.Equal(t, 2, stats.FilesModified)
	require.Equal(t, 2, stats.IDsAdded)
	require.Equal(t, 2, stats.ReferencesQualified)
	require.Len(t, stats.Errors, 2)
	require.Equal(t, "b.qml", stats.Errors[0].Path)
	require.Equal(t, "d.qml", stats.Errors[1].Path)
	require.ErrorIs(t, stats.Errors[1], qmlfix.ErrInvalidEncoding)

	require.Equal(t, []string{"a.qml", "b.qml", "c.qml", "d.qml"}, rec.started)
	require.Len(t, rec.done, 4)
	require.Equal(t, []string{"a.qml", "c.qml"}, store.saveCalls)
	require.Contains(t, store.files["a.qml"], "    width: root.foo\n")
	require.Contains(t, store.files["c.qml"], "    id: root\n")
}

func TestPipelineSaveFailure(t *testing.T) {
	store := &memStore{
		files:    map[string]string{"a.qml": needsFix, "b.qml": needsFix},
		failSave: map[string]bool{"a.qml": true},
	}
	p := newTestPipeline(t, store, PipelineOptions{})

	stats, err := p.Run(context.Background(), jobsFor("a.qml", "b.qml"))
	require.NoError(t, err)
	require.Equal(t, 1, stats.FilesModified)
	require.Len(t, stats.Errors, 1)
	require.Contains(t, stats.Errors[0].Message, "disk full")
	require.Equal(t, needsFix, store.files["a.qml"])
}

func TestPipelineDryRun(t *testing.T) {
	store := &memStore{files: map[string]string{
		"a.qml": needsFix,
		"b.qml": "import QtQuick 2.15\n",
		"c.qml": "Item {\n    id: root\n    width: 10\n}\n",
	}}
	p := newTestPipeline(t, store, PipelineOptions{DryRun: true})

	stats, err := p.Run(context.Background(), jobsFor("a.qml", "b.qml", "c.qml"))
	require.NoError(t, err)
	require.Equal(t, Stats{
		FilesProcessed:      3,
		FilesModified:       1,
		FilesSkipped:        1,
		IDsAdded:            1,
		ReferencesQualified: 1,
	}, stats)
	require.Empty(t, store.saveCalls)
	require.Equal(t, needsFix, store.files["a.qml"])
}

func TestPipelineCancelled(t *testing.T) {
	store := &memStore{files: map[string]string{"a.qml": needsFix}}
	p := newTestPipeline(t, store, PipelineOptions{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	stats, err := p.Run(ctx, jobsFor("a.qml"))
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, stats.FilesProcessed)
	require.Empty(t, store.saveCalls)
}

func TestPipelineFileStore(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"Main.qml":       needsFix,
		"views/Page.qml": "Item {\n    id: page\n    property int n: 0\n    height: n * 2\n}\n",
	})
	path := filepath.Join(root, "Main.qml")
	require.NoError(t, os.Chmod(path, 0o600))

	jobs, err := NewScanner(ScannerConfig{Root: root}).Collect()
	require.NoError(t, err)

	var out bytes.Buffer
	rep := NewReporter(&out, ReportOptions{Verbose: true})
	p := newTestPipeline(t, NewFileStore(), PipelineOptions{Observer: rep})

	stats, err := p.Run(context.Background(), jobs)
	require.NoError(t, err)
	require.Equal(t, 2, stats.FilesModified)
	require.Empty(t, stats.Errors)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "Item {\n    id: root\n    property int foo: 1\n    width: root.foo\n}\n", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	data, err = os.ReadFile(filepath.Join(root, "views", "Page.qml"))
	require.NoError(t, err)
	require.True(t, strings.Contains(string(data), "height: page.n * 2"))
	require.Contains(t, out.String(), "Line 4: n → page.n")
}
