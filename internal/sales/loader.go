package sales

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"sales_insights/internal/checksum"
)

// ErrDataSourceNotFound is returned when the source file does not exist.
var ErrDataSourceNotFound = errors.New("data source not found")

// ErrUnsupportedFormat is returned for sources that are neither spreadsheets nor CSV.
var ErrUnsupportedFormat = errors.New("unsupported data source format")

// ErrNoHeader is returned when the source has no rows at all.
var ErrNoHeader = errors.New("data source has no header row")

const dateLayout = "2006-01-02"

// maxExcelSerial is the serial number of 9999-12-31, the last date Excel represents.
const maxExcelSerial = 2958465

// headerScanRows bounds how far down a sheet the header row is searched for.
const headerScanRows = 10

var dateLayouts = []string{
	dateLayout,
	"2006-01-02 15:04:05",
	"1/2/2006",
	"01/02/2006",
	"1/2/2006 15:04",
	time.RFC3339,
}

// Load reads every row of the source at path into a Dataset.
func Load(path string) (*Dataset, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDataSourceNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}

	ds, err := FromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	ds.Source = path
	ds.Identity = checksum.SourceIdentity(path, info.ModTime(), info.Size())
	return ds, nil
}

func readRows(path string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return readSpreadsheet(path)
	case ".csv":
		return readCSV(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

func readSpreadsheet(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: %s has no sheets", ErrNoHeader, path)
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q of %s: %w", sheets[0], path, err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	return parseCSV(file)
}

func parseCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return rows, nil
}

// FromRows normalises a raw table, header included, into a Dataset.
func FromRows(rows [][]string) (*Dataset, error) {
	headerAt := findHeader(rows)
	if headerAt < 0 {
		return nil, ErrNoHeader
	}

	schema := NewSchema(rows[headerAt])
	records := make([]Record, 0, len(rows)-headerAt-1)
	for _, row := range rows[headerAt+1:] {
		if blank(row) {
			continue
		}
		records = append(records, schema.parse(row))
	}

	return &Dataset{
		Schema:   schema,
		Records:  records,
		LoadedAt: time.Now(),
	}, nil
}

// findHeader returns the first row naming a known column, or the first
// non-blank row when none does.
func findHeader(rows [][]string) int {
	first := -1
	for i, row := range rows {
		if i >= headerScanRows {
			break
		}
		if blank(row) {
			continue
		}
		if first < 0 {
			first = i
		}
		if NewSchema(row).Recognized() > 0 {
			return i
		}
	}
	return first
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func (s Schema) parse(row []string) Record {
	r := Record{
		Region:      s.cell(row, FieldRegion),
		Retailer:    s.cell(row, FieldRetailer),
		State:       s.cell(row, FieldState),
		City:        s.cell(row, FieldCity),
		Product:     s.cell(row, FieldProduct),
		SalesMethod: s.cell(row, FieldSalesMethod),
		UnitsSold:   parseAmount(s.cell(row, FieldUnitsSold)).Round(0).IntPart(),
		TotalSales:  parseAmount(s.cell(row, FieldTotalSales)),
	}

	if d, ok := ParseDate(s.cell(row, FieldInvoiceDate)); ok {
		r.InvoiceDate = d
		r.HasDate = true
		r.Year = d.Year()
		r.Month = MonthOf(d)
	}

	if len(s.Extras) > 0 {
		r.Extras = make([]string, len(s.Extras))
		for i, x := range s.Extras {
			if x.Index < len(row) {
				r.Extras[i] = row[x.Index]
			}
		}
	}
	return r
}

// ParseDate parses an invoice date leniently. Excel serial numbers and common
// textual layouts are accepted; the time of day is dropped.
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	if isSerial(s) {
		serial, err := strconv.ParseFloat(s, 64)
		if err != nil || serial <= 0 || serial > maxExcelSerial {
			return time.Time{}, false
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, false
		}
		return truncateDay(t), true
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return truncateDay(t), true
		}
	}
	return time.Time{}, false
}

// isSerial reports whether s is written as a plain decimal number, the only
// form a raw spreadsheet date cell takes.
func isSerial(s string) bool {
	dot := false
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c == '.' && !dot:
			dot = true
		default:
			return false
		}
	}
	return true
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// parseAmount reads a currency or count cell. Unparseable values count as zero.
func parseAmount(s string) decimal.Decimal {
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	if cleaned == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}
