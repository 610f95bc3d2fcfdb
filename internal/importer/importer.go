// Package importer bulk-loads existing text files into the store.
//
// Files are selected with a doublestar glob pattern relative to a source
// directory. Each file becomes one note or document; an optional YAML front
// matter block may override the title and category per file.
package importer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/maruel/notedb/internal/storage"
)

// Options selects what to import and where it lands.
type Options struct {
	// Kind is the target entity kind.
	Kind storage.Kind
	// Pattern is a doublestar glob evaluated relative to the source root.
	Pattern string
	// Category applies to files whose front matter does not name one.
	Category string
	// UserID is recorded as the owner, or nil for anonymous imports.
	UserID *string
	// DryRun lists what would be imported without writing anything.
	DryRun bool
}

// Stats summarizes one import run.
type Stats struct {
	Imported int
	Failed   int
}

// Importer loads files into the note and document services.
type Importer struct {
	Notes *storage.NoteService
	Docs  *storage.DocumentService
	// Out receives per-file progress lines. Defaults to os.Stdout.
	Out io.Writer
}

// frontMatter is the optional YAML block at the top of a source file,
// delimited by "---" lines.
type frontMatter struct {
	Title    string `yaml:"title"`
	Category string `yaml:"category"`
}

// Run imports every file under root matching opts.Pattern. Individual file
// failures are reported and counted but do not stop the run; the error is
// non-nil only when the run itself cannot proceed or was canceled.
func (imp *Importer) Run(ctx context.Context, root string, opts Options) (Stats, error) {
	out := imp.Out
	if out == nil {
		out = os.Stdout
	}
	stats := Stats{}
	matches, err := doublestar.Glob(os.DirFS(root), opts.Pattern)
	if err != nil {
		return stats, fmt.Errorf("bad glob pattern %q: %w", opts.Pattern, err)
	}
	for _, rel := range matches {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		path := filepath.Join(root, filepath.FromSlash(rel))
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			continue
		}
		title, category, content, err := readSource(path, opts)
		if err != nil {
			fmt.Fprintf(out, "FAIL %s: %v\n", rel, err)
			stats.Failed++
			continue
		}
		if opts.DryRun {
			fmt.Fprintf(out, "would import %s as %s %q (category %s)\n", rel, opts.Kind, title, category)
			stats.Imported++
			continue
		}
		id, err := imp.create(opts.Kind, title, content, category, opts.UserID)
		if err != nil {
			fmt.Fprintf(out, "FAIL %s: %v\n", rel, err)
			stats.Failed++
			continue
		}
		fmt.Fprintf(out, "imported %s as %s %d %q\n", rel, opts.Kind, id, title)
		stats.Imported++
	}
	return stats, nil
}

func (imp *Importer) create(kind storage.Kind, title, content, category string, userID *string) (int, error) {
	if kind == storage.KindDoc {
		doc, err := imp.Docs.Create(title, content, category, userID)
		if err != nil {
			return 0, err
		}
		return doc.ID, nil
	}
	note, err := imp.Notes.Create(title, content, category, userID)
	if err != nil {
		return 0, err
	}
	return note.ID, nil
}

// readSource loads one file and resolves its title, category and body. Front
// matter wins over the option defaults; the title falls back to the file name
// without its extension.
func readSource(path string, opts Options) (title, category, content string, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", "", err
	}
	fm, body, err := splitFrontMatter(data)
	if err != nil {
		return "", "", "", err
	}
	title = fm.Title
	if title == "" {
		base := filepath.Base(path)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}
	category = fm.Category
	if category == "" {
		category = opts.Category
	}
	return title, category, string(body), nil
}

// splitFrontMatter separates an optional leading YAML block from the body.
// The block starts with a "---" line at the very top and ends at the next
// "---" line; a file without one is all body.
func splitFrontMatter(data []byte) (frontMatter, []byte, error) {
	fm := frontMatter{}
	delim := []byte("---\n")
	if !bytes.HasPrefix(data, delim) {
		return fm, data, nil
	}
	rest := data[len(delim):]
	end := bytes.Index(rest, delim)
	if end < 0 {
		// No closing delimiter: not front matter, keep the file whole.
		return fm, data, nil
	}
	if err := yaml.Unmarshal(rest[:end], &fm); err != nil {
		return fm, nil, fmt.Errorf("invalid front matter: %w", err)
	}
	body := rest[end+len(delim):]
	return fm, bytes.TrimPrefix(body, []byte("\n")), nil
}
