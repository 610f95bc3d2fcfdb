package storage

import (
	"testing"
)

func TestRecordSchema(t *testing.T) {
	schema, err := RecordSchema()
	if err != nil {
		t.Fatalf("RecordSchema failed: %v", err)
	}

	byName := func(cols []Column) map[string]Column {
		m := make(map[string]Column, len(cols))
		for _, c := range cols {
			m[c.Name] = c
		}
		return m
	}

	note := byName(schema.Note)
	// Embedded record fields are flattened into the note columns.
	for _, name := range []string{"id", "title", "filename", "category", "user_id", "attachments", "view_count", "created_at", "updated_at", "updated_by"} {
		if _, ok := note[name]; !ok {
			t.Errorf("note schema missing column %q: %+v", name, schema.Note)
		}
	}
	if note["id"].Type != ColumnTypeNumber {
		t.Errorf("id column type = %q, want number", note["id"].Type)
	}
	if note["title"].Type != ColumnTypeText {
		t.Errorf("title column type = %q, want text", note["title"].Type)
	}
	if note["created_at"].Type != ColumnTypeDate {
		t.Errorf("created_at column type = %q, want date", note["created_at"].Type)
	}
	if note["attachments"].Type != ColumnTypeJSONB {
		t.Errorf("attachments column type = %q, want jsonb", note["attachments"].Type)
	}
	if note["updated_by"].Required {
		t.Error("updated_by marked required despite omitempty")
	}
	if note["id"].Description == "" {
		t.Error("id column lost its description")
	}

	doc := byName(schema.Doc)
	if _, ok := doc["view_count"]; ok {
		t.Error("doc schema has view_count")
	}
	if _, ok := doc["updated_by"]; ok {
		t.Error("doc schema has updated_by")
	}
	for _, name := range []string{"id", "title", "created_at", "updated_at"} {
		if _, ok := doc[name]; !ok {
			t.Errorf("doc schema missing column %q", name)
		}
	}

	att := byName(schema.Attachment)
	for _, name := range []string{"filename", "original_filename", "uploaded_at"} {
		if _, ok := att[name]; !ok {
			t.Errorf("attachment schema missing column %q", name)
		}
	}
	if att["uploaded_at"].Type != ColumnTypeDate {
		t.Errorf("uploaded_at column type = %q, want date", att["uploaded_at"].Type)
	}
}
