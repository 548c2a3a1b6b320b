package signals

import (
	"net"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

func TestFileSourceObservesAndConsumes(t *testing.T) {
	src := NewFileSource(t.TempDir())

	if err := src.Raise(Processing); err != nil {
		t.Fatal(err)
	}
	if err := src.Raise(Close); err != nil {
		t.Fatal(err)
	}

	got, err := src.Poll()
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Contains(got, Processing) || !slices.Contains(got, Close) {
		t.Fatalf("poll=%v want processing+close", got)
	}
	if slices.Contains(got, Offline) {
		t.Fatalf("poll=%v observed a signal that was never raised", got)
	}

	// Flags were consumed: the files are gone and a second poll is empty.
	if _, err := os.Stat(src.FlagPath(Processing)); !os.IsNotExist(err) {
		t.Fatal("processing flag not removed after observation")
	}
	got, err = src.Poll()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("second poll=%v want empty", got)
	}
}

func TestFileSourceEmptyDirPolls(t *testing.T) {
	src := NewFileSource(t.TempDir())
	got, err := src.Poll()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("poll=%v want empty", got)
	}
}

func TestFileSourceDefaultsToTempDir(t *testing.T) {
	src := NewFileSource("")
	if src.Dir() != os.TempDir() {
		t.Fatalf("dir=%q want %q", src.Dir(), os.TempDir())
	}
}

// pollAll accumulates polled signals until every wanted one has shown up.
// One poll drains the whole buffer, so signals must be collected across
// polls rather than discarded while waiting for a specific one.
func pollAll(t *testing.T, src Source, want ...Signal) []Signal {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	var got []Signal
	for time.Now().Before(deadline) {
		batch, err := src.Poll()
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, batch...)
		missing := false
		for _, w := range want {
			if !slices.Contains(got, w) {
				missing = true
			}
		}
		if !missing {
			return got
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("signals %v never all observed, got %v", want, got)
	return nil
}

func TestSocketSourceDeliversLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pill.sock")
	src, err := NewSocketSource(path)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	conn, err := net.Dial("unix", path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := conn.Write([]byte("processing\ngarbage\nclose\n")); err != nil {
		t.Fatal(err)
	}
	conn.Close()

	got := pollAll(t, src, Processing, Close)
	if !slices.Equal(got, []Signal{Processing, Close}) {
		t.Fatalf("poll=%v want [processing close] with junk lines skipped", got)
	}
}

func TestSocketSourceReplacesStaleSocket(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pill.sock")
	first, err := NewSocketSource(path)
	if err != nil {
		t.Fatal(err)
	}
	first.Close()

	// A crashed previous run leaves the file behind; simulate that.
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
	second, err := NewSocketSource(path)
	if err != nil {
		t.Fatalf("stale socket not replaced: %v", err)
	}
	second.Close()
}

func TestSocketSourceCloseIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pill.sock")
	src, err := NewSocketSource(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := src.Close(); err != nil {
		t.Fatal(err)
	}
	if err := src.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("socket file not removed on close")
	}
}

func TestMultiMergesSources(t *testing.T) {
	dirA := NewFileSource(t.TempDir())
	dirB := NewFileSource(t.TempDir())
	src := Multi(dirA, dirB)

	if err := dirA.Raise(Offline); err != nil {
		t.Fatal(err)
	}
	if err := dirB.Raise(Close); err != nil {
		t.Fatal(err)
	}

	got, err := src.Poll()
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Contains(got, Offline) || !slices.Contains(got, Close) {
		t.Fatalf("poll=%v want offline+close", got)
	}
	if err := src.Close(); err != nil {
		t.Fatal(err)
	}
}
