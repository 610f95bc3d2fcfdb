package importer

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/maruel/notedb/internal/storage"
)

func setupImporter(t *testing.T) (*Importer, *storage.NoteService, *storage.DocumentService) {
	t.Helper()
	files, err := storage.NewFileStore(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	meta, err := storage.NewStore(files.MetadataPath())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	notes := storage.NewNoteService(meta, files)
	docs := storage.NewDocumentService(meta, files)
	return &Importer{Notes: notes, Docs: docs, Out: &bytes.Buffer{}}, notes, docs
}

func writeSource(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestRunImportsMatchingFiles(t *testing.T) {
	imp, notes, _ := setupImporter(t)
	src := t.TempDir()
	writeSource(t, src, "todo.txt", "buy milk\n")
	writeSource(t, src, "nested/plan.md", "quarterly plan\n")
	writeSource(t, src, "ignored.log", "nope\n")

	stats, err := imp.Run(context.Background(), src, Options{
		Kind:     storage.KindNote,
		Pattern:  "**/*.{txt,md}",
		Category: "imported",
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Imported != 2 || stats.Failed != 0 {
		t.Fatalf("stats = %+v, want 2 imported", stats)
	}

	got, err := notes.List("imported", "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("imported %d notes, want 2", len(got))
	}
	titles := map[string]bool{}
	for _, n := range got {
		titles[n.Title] = true
	}
	// Titles default to the file name stem.
	if !titles["todo"] || !titles["plan"] {
		t.Errorf("titles = %v", titles)
	}
}

func TestRunFrontMatterOverrides(t *testing.T) {
	imp, _, docs := setupImporter(t)
	src := t.TempDir()
	writeSource(t, src, "spec.md", "---\ntitle: Launch Plan\ncategory: work\n---\n\nship it\n")

	stats, err := imp.Run(context.Background(), src, Options{
		Kind:     storage.KindDoc,
		Pattern:  "*.md",
		Category: "imported",
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Imported != 1 {
		t.Fatalf("stats = %+v", stats)
	}

	doc, err := docs.Get(1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if doc.Title != "Launch Plan" || doc.Category != "work" {
		t.Errorf("doc = %q / %q, want front matter values", doc.Title, doc.Category)
	}
	if doc.Content != "ship it\n" {
		t.Errorf("content = %q, front matter should be stripped", doc.Content)
	}
}

func TestRunDryRunWritesNothing(t *testing.T) {
	imp, notes, _ := setupImporter(t)
	src := t.TempDir()
	writeSource(t, src, "a.txt", "hello\n")

	stats, err := imp.Run(context.Background(), src, Options{
		Kind:    storage.KindNote,
		Pattern: "*.txt",
		DryRun:  true,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Imported != 1 {
		t.Fatalf("stats = %+v", stats)
	}
	got, err := notes.List("all", "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("dry run created %d notes", len(got))
	}
}

func TestRunBadFrontMatterCounted(t *testing.T) {
	imp, _, _ := setupImporter(t)
	src := t.TempDir()
	writeSource(t, src, "bad.md", "---\ntitle: [unterminated\n---\nbody\n")
	writeSource(t, src, "good.md", "fine\n")

	stats, err := imp.Run(context.Background(), src, Options{
		Kind:    storage.KindNote,
		Pattern: "*.md",
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Failed != 1 || stats.Imported != 1 {
		t.Errorf("stats = %+v, want 1 failed and 1 imported", stats)
	}
}

func TestSplitFrontMatter(t *testing.T) {
	t.Run("NoBlock", func(t *testing.T) {
		fm, body, err := splitFrontMatter([]byte("plain text\n"))
		if err != nil {
			t.Fatalf("splitFrontMatter: %v", err)
		}
		if fm.Title != "" || string(body) != "plain text\n" {
			t.Errorf("fm = %+v, body = %q", fm, body)
		}
	})
	t.Run("Unterminated", func(t *testing.T) {
		in := "---\ntitle: x\nno closing delimiter\n"
		_, body, err := splitFrontMatter([]byte(in))
		if err != nil {
			t.Fatalf("splitFrontMatter: %v", err)
		}
		if string(body) != in {
			t.Errorf("body = %q, want whole input", body)
		}
	})
}
