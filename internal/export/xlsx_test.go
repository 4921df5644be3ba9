package export

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"github.com/ziadkadry99/arcade/internal/catalog"
)

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.xlsx")
	games := []catalog.Game{
		{ID: "p1", Title: "Puzzle Quest", Category: catalog.CategoryMath, Rating: 4.5, URL: "/p1"},
		{ID: "r1", Title: "Read Along", Category: catalog.CategoryReading, Rating: 4, URL: "https://example.com/read"},
	}
	if err := WriteXLSX(path, games); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(Sheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header and 2 rows, got %d", len(rows))
	}
	if diff := cmp.Diff([]string{"id", "title", "category", "rating", "url", "image", "description"}, rows[0]); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
	if rows[1][1] != "Puzzle Quest" || rows[2][4] != "https://example.com/read" {
		t.Errorf("unexpected rows %v", rows[1:])
	}
}

func TestWriteXLSXEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	if err := WriteXLSX(path, nil); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()
	rows, _ := f.GetRows(Sheet)
	if len(rows) != 1 {
		t.Errorf("expected only the header, got %d rows", len(rows))
	}
}
