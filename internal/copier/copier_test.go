// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package copier

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, path string, data []byte, mode os.FileMode) {
	t.Helper()
	if err := os.WriteFile(path, data, mode); err != nil {
		t.Fatalf("WriteFile(%s): %v", path, err)
	}
}

func TestCopy_SingleFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")
	data := bytes.Repeat([]byte("abcdefgh"), 4096)
	writeFile(t, src, data, 0o640)

	if err := Copy(context.Background(), []string{src}, dst, Options{}); err != nil {
		t.Fatalf("Copy: %v", err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("destination content differs: %d bytes, want %d", len(got), len(data))
	}
	fi, err := os.Stat(dst)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if fi.Mode().Perm() != 0o640 {
		t.Errorf("destination mode = %o, want 640", fi.Mode().Perm())
	}
}

func TestCopy_MultipleToDirectory(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	if err := os.Mkdir(out, 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	srcs := []string{filepath.Join(dir, "a.txt"), filepath.Join(dir, "b.txt")}
	writeFile(t, srcs[0], []byte("first"), 0o644)
	writeFile(t, srcs[1], []byte("second"), 0o644)

	if err := Copy(context.Background(), srcs, out, Options{}); err != nil {
		t.Fatalf("Copy: %v", err)
	}
	for i, want := range []string{"first", "second"} {
		got, err := os.ReadFile(filepath.Join(out, filepath.Base(srcs[i])))
		if err != nil {
			t.Fatalf("ReadFile: %v", err)
		}
		if string(got) != want {
			t.Errorf("file %d = %q, want %q", i, got, want)
		}
	}
}

func TestCopy_MultipleSourcesNeedDirectory(t *testing.T) {
	dir := t.TempDir()
	srcs := []string{filepath.Join(dir, "a"), filepath.Join(dir, "b")}
	writeFile(t, srcs[0], []byte("x"), 0o644)
	writeFile(t, srcs[1], []byte("y"), 0o644)

	err := Copy(context.Background(), srcs, filepath.Join(dir, "not-a-dir"), Options{})
	if err == nil || !strings.Contains(err.Error(), "directory") {
		t.Errorf("Copy = %v, want directory error", err)
	}
}

func TestCopy_Stdin(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "out.bin")
	data := []byte("piped through stdin")

	opts := Options{Input: bytes.NewReader(data)}
	if err := Copy(context.Background(), []string{Stdin}, dst, opts); err != nil {
		t.Fatalf("Copy: %v", err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("destination = %q, want %q", got, data)
	}
}

func TestCopy_RejectsDirectorySource(t *testing.T) {
	dir := t.TempDir()
	err := Copy(context.Background(), []string{dir}, filepath.Join(dir, "x"), Options{})
	if err == nil || !strings.Contains(err.Error(), "directory") {
		t.Errorf("Copy = %v, want directory error", err)
	}
}

func TestCopy_Canceled(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	writeFile(t, src, bytes.Repeat([]byte("z"), 1<<16), 0o644)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Copy(ctx, []string{src}, filepath.Join(dir, "dst"), Options{})
	if err != context.Canceled {
		t.Errorf("Copy = %v, want context.Canceled", err)
	}
}

func TestCopy_RendersFinalState(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	writeFile(t, src, bytes.Repeat([]byte("q"), 4096), 0o644)

	var display bytes.Buffer
	opts := Options{
		Display:  &display,
		Width:    func() int { return 80 },
		Interval: time.Hour, // the ticker never fires; only the final render lands
	}
	if err := Copy(context.Background(), []string{src}, filepath.Join(dir, "dst"), opts); err != nil {
		t.Fatalf("Copy: %v", err)
	}
	out := display.String()
	if !strings.Contains(out, "src:") {
		t.Errorf("display %q missing file line", out)
	}
	if !strings.Contains(out, "\x1b[K") {
		t.Errorf("display %q missing clear-to-end-of-line", out)
	}
	if !strings.Contains(out, " 4.0K") {
		t.Errorf("display %q missing final byte count", out)
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"128KiB", 128 * 1024, false},
		{"1MB", 1000 * 1000, false},
		{"2GiB", 2 * 1024 * 1024 * 1024, false},
		{"64K", 64 * 1024, false},
		{"4096", 4096, false},
		{"0.5MiB", 512 * 1024, false},
		{"", 0, true},
		{"-5", 0, true},
		{"12XB", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseSize(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseSize(%q) = %d, want error", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseSize(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSize(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
