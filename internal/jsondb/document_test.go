package jsondb

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

type testIndex struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

func setupDocument(t *testing.T) (*Document[testIndex], string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index.json")
	doc, err := Open[testIndex](path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return doc, path
}

func TestDocumentLoad(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		doc, _ := setupDocument(t)
		got := doc.Load()
		if got.Name != "" || got.Items != nil {
			t.Errorf("Load() = %+v, want zero value", got)
		}
	})

	t.Run("corrupt file", func(t *testing.T) {
		doc, path := setupDocument(t)
		if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
			t.Fatal(err)
		}
		got := doc.Load()
		if got.Name != "" || got.Items != nil {
			t.Errorf("Load() = %+v, want zero value", got)
		}
	})

	t.Run("roundtrip", func(t *testing.T) {
		doc, _ := setupDocument(t)
		want := &testIndex{Name: "notes", Items: []string{"a", "b"}}
		if err := doc.Save(want); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		got := doc.Load()
		if got.Name != want.Name || len(got.Items) != 2 || got.Items[0] != "a" {
			t.Errorf("Load() = %+v, want %+v", got, want)
		}
	})
}

func TestDocumentSave(t *testing.T) {
	t.Run("no temp file left behind", func(t *testing.T) {
		doc, path := setupDocument(t)
		if err := doc.Save(&testIndex{Name: "x"}); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
			t.Errorf("temp file still exists after Save")
		}
	})

	t.Run("indented output without HTML escaping", func(t *testing.T) {
		doc, path := setupDocument(t)
		if err := doc.Save(&testIndex{Name: "a & <b>", Items: []string{"tiếng Việt"}}); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), "\n  \"name\": \"a & <b>\"") {
			t.Errorf("output not indented or escaped: %q", data)
		}
		if !strings.Contains(string(data), "tiếng Việt") {
			t.Errorf("non-ASCII text was escaped: %q", data)
		}
	})

	t.Run("valid JSON on disk", func(t *testing.T) {
		doc, path := setupDocument(t)
		if err := doc.Save(&testIndex{Items: []string{}}); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		var v testIndex
		if err := json.Unmarshal(data, &v); err != nil {
			t.Errorf("file is not valid JSON: %v", err)
		}
	})
}

func TestDocumentUpdate(t *testing.T) {
	t.Run("saves on change", func(t *testing.T) {
		doc, _ := setupDocument(t)
		changed, err := doc.Update(func(v *testIndex) (bool, error) {
			v.Name = "updated"
			return true, nil
		})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if !changed {
			t.Error("Update() = false, want true")
		}
		if got := doc.Load(); got.Name != "updated" {
			t.Errorf("Load().Name = %q, want %q", got.Name, "updated")
		}
	})

	t.Run("skips save when unchanged", func(t *testing.T) {
		doc, path := setupDocument(t)
		changed, err := doc.Update(func(v *testIndex) (bool, error) {
			return false, nil
		})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if changed {
			t.Error("Update() = true, want false")
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Error("file was created despite no change")
		}
	})

	t.Run("error aborts save", func(t *testing.T) {
		doc, path := setupDocument(t)
		wantErr := errors.New("boom")
		changed, err := doc.Update(func(v *testIndex) (bool, error) {
			v.Name = "partial"
			return true, wantErr
		})
		if !errors.Is(err, wantErr) {
			t.Errorf("Update() error = %v, want %v", err, wantErr)
		}
		if changed {
			t.Error("Update() = true, want false")
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Error("file was created despite error")
		}
	})

	t.Run("concurrent updates all land", func(t *testing.T) {
		doc, _ := setupDocument(t)
		const n = 20
		var wg sync.WaitGroup
		for range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := doc.Update(func(v *testIndex) (bool, error) {
					v.Items = append(v.Items, "x")
					return true, nil
				})
				if err != nil {
					t.Errorf("Update failed: %v", err)
				}
			}()
		}
		wg.Wait()
		if got := doc.Load(); len(got.Items) != n {
			t.Errorf("len(Items) = %d, want %d", len(got.Items), n)
		}
	})
}
