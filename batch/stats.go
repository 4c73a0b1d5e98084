package batch

import "github.com/arjunmahishi/qmlfix/qmlfix"

// FileError records a file that could not be processed.
type FileError struct {
	Path    string `json:"path"`
	Message string `json:"error"`
	Err     error  `json:"-"`
}

func (e FileError) Error() string {
	return "Error processing " + e.Path + ": " + e.Message
}

func (e FileError) Unwrap() error {
	return e.Err
}

// Stats aggregates the results of one run.
type Stats struct {
	FilesProcessed      int         `json:"files_processed"`
	FilesModified       int         `json:"files_modified"`
	FilesSkipped        int         `json:"files_skipped"`
	IDsAdded            int         `json:"ids_added"`
	ReferencesQualified int         `json:"references_qualified"`
	Errors              []FileError `json:"errors"`
}

// Add folds one file result into s and returns the new totals.
func (s Stats) Add(r FileResult) Stats {
	s.FilesProcessed++
	if r.Err != nil {
		s.Errors = append(s.Errors, FileError{
			Path:    r.Job.DisplayPath,
			Message: r.Err.Error(),
			Err:     r.Err,
		})
		return s
	}
	if r.Result.Skipped != qmlfix.SkipNone {
		s.FilesSkipped++
		return s
	}
	if r.Result.IDAdded {
		s.IDsAdded++
	}
	s.ReferencesQualified += len(r.Result.Rewrites)
	if r.Result.Changed {
		s.FilesModified++
	}
	return s
}
