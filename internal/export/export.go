package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Resanso/smart-office/internal/influxdb"
	"github.com/Resanso/smart-office/internal/simulation"
)

// ErrWrite wraps every failure to produce or store an output artifact.
var ErrWrite = errors.New("write dataset")

// Header is the stable column layout of the tabular outputs.
var Header = []string{"timestamp", "sensor_id", "tipo", "valor"}

// Format selects the encoding of an output artifact.
type Format string

const (
	FormatCSV          Format = "csv"
	FormatXLSX         Format = "xlsx"
	FormatLineProtocol Format = "lp"
)

// FormatForPath picks the format from the file extension, defaulting to CSV.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return FormatXLSX
	case ".lp", ".line":
		return FormatLineProtocol
	default:
		return FormatCSV
	}
}

// ContentType returns the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatLineProtocol:
		return "text/plain; charset=utf-8"
	default:
		return "text/csv; charset=utf-8"
	}
}

// Write encodes the dataset to w in the given format.
func Write(w io.Writer, format Format, ds *simulation.Dataset) error {
	var err error
	switch format {
	case FormatCSV:
		err = WriteCSV(w, ds)
	case FormatXLSX:
		err = WriteXLSX(w, ds)
	case FormatLineProtocol:
		err = influxdb.Encode(w, ds)
	default:
		return fmt.Errorf("%w: unsupported format %q", ErrWrite, format)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// WriteFile stores the dataset at path, creating the parent directory when
// needed. The format follows the file extension.
func WriteFile(path string, ds *simulation.Dataset) (err error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: create directory: %w", ErrWrite, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: close %s: %w", ErrWrite, path, cerr)
		}
	}()
	return Write(f, FormatForPath(path), ds)
}
