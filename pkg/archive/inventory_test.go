package archive

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeSegment(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("segment "+name), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestListSegments_SortedMatches(t *testing.T) {
	dir := t.TempDir()

	// Written out of order on purpose.
	writeSegment(t, dir, "blk2.dat")
	writeSegment(t, dir, "blk0.dat")
	writeSegment(t, dir, "blk1.dat")
	writeSegment(t, dir, "rev0.dat")
	writeSegment(t, dir, "notes.txt")

	got, err := ListSegments(dir, "blk*.dat")
	if err != nil {
		t.Fatalf("ListSegments failed: %v", err)
	}

	want := []string{
		filepath.Join(dir, "blk0.dat"),
		filepath.Join(dir, "blk1.dat"),
		filepath.Join(dir, "blk2.dat"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestListSegments_ExcludesSymlinks(t *testing.T) {
	dir := t.TempDir()
	target := writeSegment(t, dir, "blk0.dat")
	writeSegment(t, dir, "blk1.dat")

	// A segment already archived shows up as a symlink and must be skipped.
	link := filepath.Join(dir, "blk2.dat")
	if err := os.Symlink(target, link); err != nil {
		t.Fatalf("failed to create symlink: %v", err)
	}

	got, err := ListSegments(dir, "blk*.dat")
	if err != nil {
		t.Fatalf("ListSegments failed: %v", err)
	}

	want := []string{
		filepath.Join(dir, "blk0.dat"),
		filepath.Join(dir, "blk1.dat"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestListSegments_ExcludesDirectories(t *testing.T) {
	dir := t.TempDir()
	writeSegment(t, dir, "blk0.dat")
	if err := os.Mkdir(filepath.Join(dir, "blk1.dat"), 0o755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}

	got, err := ListSegments(dir, "blk*.dat")
	if err != nil {
		t.Fatalf("ListSegments failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected 1 segment, got %v", got)
	}
}

func TestListSegments_EmptyDirectory(t *testing.T) {
	got, err := ListSegments(t.TempDir(), "blk*.dat")
	if err != nil {
		t.Fatalf("ListSegments failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no segments, got %v", got)
	}
}

func TestListSegments_UnreadableDirectory(t *testing.T) {
	if _, err := ListSegments(filepath.Join(t.TempDir(), "missing"), "blk*.dat"); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestListSegments_InvalidPattern(t *testing.T) {
	dir := t.TempDir()
	writeSegment(t, dir, "blk0.dat")

	if _, err := ListSegments(dir, "[invalid"); err == nil {
		t.Error("expected error for invalid pattern")
	}
}
