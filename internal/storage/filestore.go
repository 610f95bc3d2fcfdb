package storage

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/maruel/notedb/internal/models"
)

// Kind selects one of the two entity namespaces.
type Kind string

const (
	KindNote Kind = "note"
	KindDoc  Kind = "doc"
)

// DefaultMaxStorageBytes caps total storage at 2 GiB unless configured.
const DefaultMaxStorageBytes = 2 << 30

// FileStore owns the on-disk layout under a single root directory:
//
//	metadata.json     index of all records
//	notes/<id>.txt    note bodies
//	docs/<id>.txt     document bodies
//	uploads/notes/    note attachments
//	uploads/docs/     document attachments
//
// Total usage is tracked in a cached counter so quota checks do not walk the
// tree on every upload. The counter is seeded from a full walk at startup and
// adjusted as files are written and removed; Recalculate re-measures it.
type FileStore struct {
	rootDir    string
	maxStorage int64

	usage atomic.Int64
}

// NewFileStore creates the directory layout under rootDir and seeds the usage
// counter. maxStorage <= 0 selects DefaultMaxStorageBytes.
func NewFileStore(rootDir string, maxStorage int64) (*FileStore, error) {
	rootDir, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root directory: %w", err)
	}
	if maxStorage <= 0 {
		maxStorage = DefaultMaxStorageBytes
	}
	f := &FileStore{rootDir: rootDir, maxStorage: maxStorage}
	for _, dir := range f.trackedDirs() {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if _, err := f.Recalculate(); err != nil {
		return nil, err
	}
	return f, nil
}

// RootDir returns the absolute root directory.
func (f *FileStore) RootDir() string {
	return f.rootDir
}

// MetadataPath returns the path of the metadata index file.
func (f *FileStore) MetadataPath() string {
	return filepath.Join(f.rootDir, "metadata.json")
}

// MaxStorage returns the configured storage limit in bytes.
func (f *FileStore) MaxStorage() int64 {
	return f.maxStorage
}

// Usage returns the cached total bytes across content and upload files.
func (f *FileStore) Usage() int64 {
	return f.usage.Load()
}

// ContentFileName returns the derived content file name for an entity ID.
func ContentFileName(id int) string {
	return strconv.Itoa(id) + ".txt"
}

// WriteContent writes an entity's whole content file, replacing any previous
// content, and adjusts the usage counter by the size delta.
func (f *FileStore) WriteContent(kind Kind, filename, content string) error {
	dir := f.contentDir(kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, filename)
	var previous int64
	if info, err := os.Stat(path); err == nil {
		previous = info.Size()
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write content file %s: %w", filename, err)
	}
	f.usage.Add(int64(len(content)) - previous)
	return nil
}

// ReadContent returns an entity's content. A missing file yields ErrNotFound
// even when a record referencing it still exists in the index.
func (f *FileStore) ReadContent(kind Kind, filename string) (string, error) {
	data, err := os.ReadFile(filepath.Join(f.contentDir(kind), filename))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to read content file %s: %w", filename, err)
	}
	return string(data), nil
}

// DeleteContent removes an entity's content file. Failures are logged and
// swallowed; the caller's metadata removal is what retires the entity.
func (f *FileStore) DeleteContent(kind Kind, filename string) {
	f.removeTracked(filepath.Join(f.contentDir(kind), filename))
}

// SaveAttachment writes attachment bytes under a unique stored name combining
// the owning entity ID, a random hex suffix and the original extension. The
// returned Attachment carries both names and the upload time.
func (f *FileStore) SaveAttachment(kind Kind, entityID int, originalName string, data []byte) (models.Attachment, error) {
	dir := f.uploadDir(kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return models.Attachment{}, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	stored := fmt.Sprintf("%d_%s%s", entityID, randomHex8(), filepath.Ext(originalName))
	if err := os.WriteFile(filepath.Join(dir, stored), data, 0o644); err != nil {
		return models.Attachment{}, fmt.Errorf("failed to write attachment %s: %w", stored, err)
	}
	f.usage.Add(int64(len(data)))
	return models.Attachment{
		StoredName:   stored,
		OriginalName: originalName,
		UploadedAt:   time.Now().UTC(),
	}, nil
}

// DeleteAttachmentFile removes a stored attachment. Like DeleteContent,
// failures are logged and swallowed.
func (f *FileStore) DeleteAttachmentFile(kind Kind, storedName string) {
	f.removeTracked(filepath.Join(f.uploadDir(kind), storedName))
}

// AttachmentPath returns the on-disk path for a stored attachment name. The
// name must be a bare file name without path separators.
func (f *FileStore) AttachmentPath(kind Kind, storedName string) (string, error) {
	if storedName == "" || filepath.Base(storedName) != storedName {
		return "", &ValidationError{Field: "filename", Reason: "must be a bare file name"}
	}
	return filepath.Join(f.uploadDir(kind), storedName), nil
}

// CheckQuota returns a QuotaError when adding n bytes would exceed the limit.
func (f *FileStore) CheckQuota(n int64) error {
	used := f.usage.Load()
	if used+n > f.maxStorage {
		return &QuotaError{Used: used, Limit: f.maxStorage}
	}
	return nil
}

// Recalculate walks the content and upload directories and replaces the
// cached usage total with the measured one. Returns the fresh total.
func (f *FileStore) Recalculate() (int64, error) {
	var total int64
	for _, dir := range f.trackedDirs() {
		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				if os.IsNotExist(err) {
					return nil
				}
				return err
			}
			if !info.IsDir() {
				total += info.Size()
			}
			return nil
		})
		if err != nil {
			return 0, fmt.Errorf("failed to measure %s: %w", dir, err)
		}
	}
	f.usage.Store(total)
	return total, nil
}

// trackedDirs lists the directories whose files count toward the quota. The
// metadata index itself does not count.
func (f *FileStore) trackedDirs() []string {
	return []string{
		filepath.Join(f.rootDir, "uploads"),
		f.contentDir(KindNote),
		f.contentDir(KindDoc),
	}
}

func (f *FileStore) contentDir(kind Kind) string {
	if kind == KindDoc {
		return filepath.Join(f.rootDir, "docs")
	}
	return filepath.Join(f.rootDir, "notes")
}

func (f *FileStore) uploadDir(kind Kind) string {
	if kind == KindDoc {
		return filepath.Join(f.rootDir, "uploads", "docs")
	}
	return filepath.Join(f.rootDir, "uploads", "notes")
}

// removeTracked deletes path and subtracts its size from the usage counter.
// A file that is already gone is fine.
func (f *FileStore) removeTracked(path string) {
	info, err := os.Stat(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("Failed to stat file before removal", "path", path, "err", err)
		}
		return
	}
	if err := os.Remove(path); err != nil {
		slog.Warn("Failed to remove file", "path", path, "err", err)
		return
	}
	f.usage.Add(-info.Size())
}

// SanitizeFilename reduces a client-supplied file name to a safe bare name.
// Path separators become word breaks, runs of whitespace collapse to a single
// underscore, and everything outside ASCII letters, digits, dot, dash and
// underscore is dropped. Returns "" when nothing safe remains.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "/", " ")
	name = strings.ReplaceAll(name, "\\", " ")
	name = strings.Join(strings.Fields(name), "_")
	b := strings.Builder{}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "._")
}

// randomHex8 returns eight hex characters of fresh randomness for building
// unique stored names.
func randomHex8() string {
	u := uuid.New()
	return hex.EncodeToString(u[:4])
}
