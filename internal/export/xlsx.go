// Package export writes the filtered game list to spreadsheet files.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ziadkadry99/arcade/internal/catalog"
)

// Sheet is the worksheet the games are written to.
const Sheet = "Games"

// Header is the first row of the sheet.
var Header = []any{"id", "title", "category", "rating", "url", "image", "description"}

// WriteXLSX writes games to an .xlsx file at path, one row per game in
// manifest order.
func WriteXLSX(path string, games []catalog.Game) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", Sheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	sw, err := f.NewStreamWriter(Sheet)
	if err != nil {
		return fmt.Errorf("creating stream writer: %w", err)
	}
	if err := sw.SetRow("A1", Header); err != nil {
		return err
	}
	for i, g := range games {
		row := []any{g.ID, g.Title, string(g.Category), g.Rating, g.URL, g.Image, g.Description}
		cell, _ := excelize.CoordinatesToCellName(1, i+2) // A2, A3, ...
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}
