package dataset

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labeled.jsonl")
	content := `{"id":"1","image_path":"q/one.jpg","expected":"a.png"}

{"id":"2","image_path":"q/two.png","expected":"b.png","message":"in blue please"}
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	records, err := NewLoader(path).Load()
	if err != nil {
		t.Fatal(err)
	}

	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0].ID != "1" || records[0].Expected != "a.png" {
		t.Errorf("Unexpected first record: %+v", records[0])
	}
	if records[1].Message != "in blue please" {
		t.Errorf("Expected message on second record, got %q", records[1].Message)
	}
}

func TestLoadJSONLBadLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labeled.jsonl")
	if err := os.WriteFile(path, []byte("{\"id\":\"1\"}\nnot json\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewLoader(path).Load(); err == nil {
		t.Error("Expected error for malformed line")
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labeled.csv")
	if err := os.WriteFile(path, []byte("id,expected\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewLoader(path).Load(); err == nil {
		t.Error("Expected error for unsupported format")
	}
}
