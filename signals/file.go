package signals

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Flag file names, created inside the source's directory by the companion
// tool. Presence is the signal; the file content is ignored.
const (
	processingFlag = "pill_processing"
	offlineFlag    = "pill_offline"
	closeFlag      = "pill_close"
)

var flagNames = map[Signal]string{
	Processing: processingFlag,
	Offline:    offlineFlag,
	Close:      closeFlag,
}

// FileSource watches a directory for flag files and removes each one as it
// is observed.
type FileSource struct {
	dir string
}

// NewFileSource returns a FileSource over dir; an empty dir means the OS
// temp directory.
func NewFileSource(dir string) *FileSource {
	if dir == "" {
		dir = os.TempDir()
	}
	return &FileSource{dir: dir}
}

// Dir returns the watched directory.
func (f *FileSource) Dir() string { return f.dir }

// FlagPath returns the path a sender must create to raise sig.
func (f *FileSource) FlagPath(sig Signal) string {
	return filepath.Join(f.dir, flagNames[sig])
}

// Raise creates the flag file for sig. Used by the doctor's round-trip
// check and by tests; the companion tool normally writes these itself.
func (f *FileSource) Raise(sig Signal) error {
	return os.WriteFile(f.FlagPath(sig), nil, 0644)
}

// Poll stats each flag file and removes any it finds. Stat or remove errors
// are reported but never block the other flags: a half-broken directory
// still delivers what it can.
func (f *FileSource) Poll() ([]Signal, error) {
	var out []Signal
	var errs []error
	for _, sig := range []Signal{Processing, Offline, Close} {
		path := f.FlagPath(sig)
		if _, err := os.Stat(path); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				errs = append(errs, fmt.Errorf("stat %s: %w", path, err))
			}
			continue
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			// Consume failed: skip rather than re-trigger every tick.
			errs = append(errs, fmt.Errorf("remove %s: %w", path, err))
			continue
		}
		out = append(out, sig)
	}
	return out, errors.Join(errs...)
}

func (f *FileSource) Close() error { return nil }
