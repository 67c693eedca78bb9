package sheet

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFile is returned for files that are neither CSV nor XLSX
var ErrUnsupportedFile = errors.New("unsupported sheet file")

// FileSource reads a local export of the sheet (.csv or .xlsx)
type FileSource struct {
	Path string
	// Sheet selects the worksheet of an .xlsx file; empty means the first one
	Sheet string
}

// FetchRows reads the whole file on every call
func (s *FileSource) FetchRows(ctx context.Context) (Grid, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(s.Path)) {
	case ".csv":
		return s.readCSV()
	case ".xlsx", ".xlsm":
		return s.readXLSX()
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, s.Path)
	}
}

func (s *FileSource) readCSV() (Grid, error) {
	file, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sheet file: %w", err)
	}
	defer file.Close()

	return ParseCSV(file)
}

func (s *FileSource) readXLSX() (Grid, error) {
	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	name := s.Sheet
	if name == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook %s has no sheets", s.Path)
		}
		name = sheets[0]
	}

	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", name, err)
	}
	if rows == nil {
		rows = [][]string{}
	}
	return Grid(rows), nil
}

// Describe returns a human-readable origin for log lines
func Describe(src Source) string {
	switch s := src.(type) {
	case *HTTPSource:
		return s.ExportURL()
	case *FileSource:
		if s.Sheet != "" {
			return fmt.Sprintf("%s [%s]", s.Path, s.Sheet)
		}
		return s.Path
	case *CachedSource:
		return Describe(s.Source)
	default:
		return fmt.Sprintf("%T", src)
	}
}
