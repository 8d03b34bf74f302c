package export

import (
	"encoding/csv"
	"io"

	"github.com/Resanso/smart-office/internal/simulation"
)

// WriteCSV writes the header followed by one row per reading.
func WriteCSV(w io.Writer, ds *simulation.Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for r := range ds.All() {
		row := []string{r.FormattedTimestamp(), r.SensorID, r.Type.String(), r.FormattedValue()}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
