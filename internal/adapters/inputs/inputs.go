// Package inputs snapshots the files that influenced the last successful
// configure and reports whether any of them changed since.
package inputs

import (
	"os"
	"time"
)

type trackedFile struct {
	path  string
	mtime time.Time
}

// FileSet is an immutable snapshot of configure inputs and their
// modification times. It is always rebuilt wholesale after a configure,
// never patched file by file, which rules out partial-staleness bugs.
type FileSet struct {
	files []trackedFile
}

// CreateEmpty returns the snapshot used before the first configure. An empty
// set always reports out of date.
func CreateEmpty() *FileSet {
	return &FileSet{}
}

// Create snapshots the current modification times of the given paths. Paths
// that cannot be statted are dropped from the snapshot; if they matter they
// will reappear in the next configure's input list.
func Create(paths []string) *FileSet {
	files := make([]trackedFile, 0, len(paths))
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		files = append(files, trackedFile{path: path, mtime: info.ModTime()})
	}
	return &FileSet{files: files}
}

// Empty reports whether the set tracks no files.
func (s *FileSet) Empty() bool {
	return len(s.files) == 0
}

// Paths returns the tracked file paths.
func (s *FileSet) Paths() []string {
	out := make([]string, len(s.files))
	for i, f := range s.files {
		out[i] = f.path
	}
	return out
}

// CheckOutOfDate re-stats every tracked file and reports true if any
// modification time increased, any file vanished, or the set is empty. It
// only stats, never reads content, because it runs on focus-change events.
func (s *FileSet) CheckOutOfDate() bool {
	if s.Empty() {
		return true
	}
	for _, f := range s.files {
		info, err := os.Stat(f.path)
		if err != nil {
			return true
		}
		if info.ModTime().After(f.mtime) {
			return true
		}
	}
	return false
}
