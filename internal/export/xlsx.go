package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/Resanso/smart-office/internal/simulation"
)

// SheetName is the worksheet holding the readings.
const SheetName = "readings"

// WriteXLSX writes a single-sheet workbook with a bold, frozen header row
// and numeric valor cells.
func WriteXLSX(w io.Writer, ds *simulation.Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("open stream writer: %w", err)
	}
	if err := sw.SetColWidth(1, 1, 18); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	if err := sw.SetPanes(&excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	header := make([]interface{}, len(Header))
	for i, name := range Header {
		header[i] = excelize.Cell{StyleID: headerStyle, Value: name}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := 2
	for r := range ds.All() {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		var value interface{} = r.Value
		if r.Type == simulation.Occupancy {
			value = int(r.Value)
		}
		if err := sw.SetRow(cell, []interface{}{r.FormattedTimestamp(), r.SensorID, r.Type.String(), value}); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
		row++
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}
	return f.Write(w)
}
