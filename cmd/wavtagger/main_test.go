package main

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cwbudde/wavmeta"
)

// writeTestWAV writes a 16 bit mono PCM file holding four bytes of audio.
func writeTestWAV(t *testing.T, path string) {
	t.Helper()

	var body bytes.Buffer

	body.WriteString("WAVE")
	body.WriteString("fmt ")
	binary.Write(&body, binary.LittleEndian, uint32(16))
	binary.Write(&body, binary.LittleEndian, []uint16{1, 1})
	binary.Write(&body, binary.LittleEndian, []uint32{8000, 16000})
	binary.Write(&body, binary.LittleEndian, []uint16{2, 16})
	body.WriteString("data")
	binary.Write(&body, binary.LittleEndian, uint32(4))
	body.Write([]byte{1, 2, 3, 4})

	var out bytes.Buffer

	out.WriteString("RIFF")
	binary.Write(&out, binary.LittleEndian, uint32(body.Len()))
	out.Write(body.Bytes())

	if err := os.WriteFile(path, out.Bytes(), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var out bytes.Buffer

	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--env", filepath.Join(t.TempDir(), "none.env")}, args...))

	err := cmd.Execute()

	return out.String(), err
}

func TestTagFileInPlace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "door.wav")
	writeTestWAV(t, path)

	out, err := execute(t, "tag", "--file", path,
		"--set", "CatID=SFX01",
		"--set", "Designer=Jane",
		"--set", "Description=door slam")
	if err != nil {
		t.Fatalf("tag: %v", err)
	}

	if !strings.Contains(out, path) {
		t.Fatalf("output %q doesn't mention %s", out, path)
	}

	report, err := wavmeta.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	if report.Metadata.BroadcastExtension == nil {
		t.Fatalf("expected a bext chunk")
	}

	if got := report.Metadata.BroadcastExtension.Description; got != "door slam" {
		t.Fatalf("bext description=%q", got)
	}

	if got := report.Metadata.IXML.UserField("CATID"); got != "SFX01" {
		t.Fatalf("iXML CATID=%q", got)
	}
}

func TestTagDirWithRecordAndOut(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "tagged")

	for _, name := range []string{"a.wav", "b.WAV", "c.txt"} {
		writeTestWAV(t, filepath.Join(dir, name))
	}

	record := filepath.Join(t.TempDir(), "record.json")
	if err := os.WriteFile(record, []byte(`{"Library":"Foley","Designer":"Jane"}`), 0o644); err != nil {
		t.Fatalf("write record: %v", err)
	}

	_, err := execute(t, "tag", "--dir", dir, "--record", record,
		"--set", "Designer=Joe", "--out", outDir, "--jobs", "2")
	if err != nil {
		t.Fatalf("tag: %v", err)
	}

	for _, name := range []string{"a.wav", "b.WAV"} {
		report, err := wavmeta.ReadFile(filepath.Join(outDir, name))
		if err != nil {
			t.Fatalf("ReadFile %s: %v", name, err)
		}

		if got := report.Metadata.Info.Artist; got != "Joe" {
			t.Fatalf("%s: INFO artist=%q, want the --set override", name, got)
		}

		if got := report.Metadata.Info.Product; got != "Foley" {
			t.Fatalf("%s: INFO product=%q", name, got)
		}
	}

	if _, err := os.Stat(filepath.Join(outDir, "c.txt")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("non wav file was processed: %v", err)
	}

	// sources stay untouched
	report, err := wavmeta.ReadFile(filepath.Join(dir, "a.wav"))
	if err != nil {
		t.Fatalf("ReadFile source: %v", err)
	}

	if report.Metadata.BroadcastExtension != nil {
		t.Fatalf("source file was modified")
	}
}

func TestTagRequiresInput(t *testing.T) {
	_, err := execute(t, "tag")
	if !errors.Is(err, errNoInput) {
		t.Fatalf("err=%v, want errNoInput", err)
	}
}

func TestTagJoinsErrors(t *testing.T) {
	dir := t.TempDir()
	writeTestWAV(t, filepath.Join(dir, "good.wav"))

	if err := os.WriteFile(filepath.Join(dir, "bad.wav"), []byte("not a wav file"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := execute(t, "tag", "--dir", dir, "--set", "CatID=X")
	if !errors.Is(err, wavmeta.ErrFormat) {
		t.Fatalf("err=%v, want ErrFormat", err)
	}

	report, err := wavmeta.ReadFile(filepath.Join(dir, "good.wav"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	if report.Metadata.BroadcastExtension == nil {
		t.Fatalf("good file wasn't tagged")
	}
}

func TestTagRejectsBadAssignment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.wav")
	writeTestWAV(t, path)

	if _, err := execute(t, "tag", "--file", path, "--set", "CatID"); err == nil {
		t.Fatalf("expected an error")
	}
}

func TestShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.wav")
	writeTestWAV(t, path)

	if _, err := execute(t, "tag", "--file", path, "--set", "FXName=Slam", "--set", "Designer=Jane"); err != nil {
		t.Fatalf("tag: %v", err)
	}

	out, err := execute(t, "show", path)
	if err != nil {
		t.Fatalf("show: %v", err)
	}

	for _, want := range []string{"PCM, 8000 Hz", `"bext"`, `"_PMX"`, `"data"`, "TPE1: Jane", "FXNAME: Slam", "title: Slam"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output is missing %q:\n%s", want, out)
		}
	}
}

func TestShowMissingFile(t *testing.T) {
	_, err := execute(t, "show", filepath.Join(t.TempDir(), "missing.wav"))
	if !errors.Is(err, wavmeta.ErrNotFound) {
		t.Fatalf("err=%v, want ErrNotFound", err)
	}
}

func TestRootInstallsDefaultLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	t.Setenv("WAVTAGGER_LOG_LEVEL", "debug")
	t.Setenv("WAVTAGGER_LOG_FORMAT", "json")

	var stderr bytes.Buffer

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{
		"--env", filepath.Join(t.TempDir(), "none.env"),
		"show", filepath.Join(t.TempDir(), "missing.wav"),
	})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected an error for a missing file")
	}

	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("default logger ignores WAVTAGGER_LOG_LEVEL")
	}

	slog.Error("wavtagger failed", "error", "boom")

	lines := strings.Split(strings.TrimSpace(stderr.String()), "\n")

	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &rec); err != nil {
		t.Fatalf("default logger doesn't write json: %v\n%s", err, stderr.String())
	}

	if rec["msg"] != "wavtagger failed" || rec["error"] != "boom" {
		t.Fatalf("unexpected record %v", rec)
	}
}
