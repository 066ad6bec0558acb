package files

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "courieraudit/internal/errors"
	"courieraudit/pkg/contracts/domain"
)

// SupportedExtensions lists the file types the reader accepts.
var SupportedExtensions = []string{".csv", ".xlsx"}

// Reader extracts logical rows from spreadsheet files. The first non-empty
// row is taken as the header row; subsequent rows become RawRows keyed by
// the original header spellings. Rows with no non-empty cell are skipped.
type Reader struct {
	logger *slog.Logger
}

// NewReader creates a reader with the given logger.
func NewReader(logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{logger: logger.With(slog.String("component", "file_reader"))}
}

// Supported reports whether the filename's extension is a readable format.
func Supported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// Read extracts the logical rows of one file. The format is chosen by the
// filename's extension.
func (r *Reader) Read(src io.Reader, name string) (domain.FileRows, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return r.readCSV(src, name)
	case ".xlsx":
		return r.readExcel(src, name)
	default:
		return domain.FileRows{}, apperrors.NewParsingError(
			fmt.Sprintf("unsupported file type %q", filepath.Ext(name)), nil)
	}
}

func (r *Reader) readCSV(src io.Reader, name string) (domain.FileRows, error) {
	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return domain.FileRows{}, apperrors.NewParsingError(
			fmt.Sprintf("failed to parse CSV file %s", name), err)
	}
	return r.assemble(name, records)
}

func (r *Reader) readExcel(src io.Reader, name string) (domain.FileRows, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return domain.FileRows{}, apperrors.NewParsingError(
			fmt.Sprintf("failed to open Excel file %s", name), err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return domain.FileRows{}, apperrors.NewParsingError(
			fmt.Sprintf("no sheets in Excel file %s", name), nil)
	}

	// Data is read from the first sheet carrying any rows.
	var rows [][]string
	for _, sheet := range sheets {
		sheetRows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}
		if len(sheetRows) > 0 {
			rows = sheetRows
			break
		}
	}
	return r.assemble(name, rows)
}

// assemble converts a rectangular cell grid into FileRows: the first
// non-empty row becomes the header set, everything after it the data rows.
func (r *Reader) assemble(name string, grid [][]string) (domain.FileRows, error) {
	headerIdx := -1
	for i, row := range grid {
		if !rowEmpty(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx == -1 {
		return domain.FileRows{}, apperrors.NewParsingError(
			fmt.Sprintf("no header row found in %s", name), nil)
	}

	headers := make([]string, 0, len(grid[headerIdx]))
	for _, h := range grid[headerIdx] {
		headers = append(headers, strings.TrimSpace(h))
	}

	out := domain.FileRows{Name: name, Headers: headers}
	for _, row := range grid[headerIdx+1:] {
		if rowEmpty(row) {
			continue
		}
		raw := make(domain.RawRow, len(headers))
		for i, header := range headers {
			if header == "" {
				continue
			}
			if i < len(row) {
				raw[header] = row[i]
			} else {
				raw[header] = ""
			}
		}
		out.Rows = append(out.Rows, raw)
	}

	r.logger.Debug("file read",
		slog.String("source_file", name),
		slog.Int("header_count", len(headers)),
		slog.Int("row_count", len(out.Rows)))

	return out, nil
}

func rowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
