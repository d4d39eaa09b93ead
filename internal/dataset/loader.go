// Package dataset loads line-list files from a data directory into the
// records and columns the quality engine operates on. CSV and Excel
// workbooks are supported; column types are inferred from the values
// under each header.
package dataset

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"epiqc/internal/infrastructure"
	"epiqc/pkg/contracts/domain"
)

// Dataset is a loaded line list ready for checking.
type Dataset struct {
	Name    string              `json:"name"`
	Columns []domain.DataColumn `json:"columns"`
	Records []domain.CaseRecord `json:"records"`
}

// Info describes a dataset file without loading it.
type Info struct {
	Name     string `json:"name"`
	Filename string `json:"filename"`
	Format   string `json:"format"`
	SizeByte int64  `json:"size_bytes"`
}

// Loader reads datasets from a single data directory.
type Loader struct {
	dir    string
	logger *slog.Logger
}

// NewLoader creates a loader rooted at dir.
func NewLoader(dir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &Loader{
		dir:    dir,
		logger: logger.With(slog.String("component", "dataset.loader")),
	}
}

// List returns the datasets available in the data directory, sorted by
// name. Unsupported file types are skipped.
func (l *Loader) List() ([]Info, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("read data directory %s: %w", l.dir, err)
	}

	var infos []Info
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		format, ok := formatFor(entry.Name())
		if !ok {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		infos = append(infos, Info{
			Name:     strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())),
			Filename: entry.Name(),
			Format:   format,
			SizeByte: fi.Size(),
		})
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// Load reads the named dataset. The name is the filename without
// extension; when both a CSV and an Excel file share a name, CSV wins.
func (l *Loader) Load(name string) (*Dataset, error) {
	if strings.ContainsAny(name, `/\`) || name == ".." {
		return nil, fmt.Errorf("invalid dataset name %q", name)
	}

	for _, ext := range []string{".csv", ".xlsx", ".xls"} {
		path := filepath.Join(l.dir, name+ext)
		if _, err := os.Stat(path); err != nil {
			continue
		}

		var (
			rows [][]string
			err  error
		)
		if ext == ".csv" {
			rows, err = readCSV(path)
		} else {
			rows, err = readExcel(path)
		}
		if err != nil {
			return nil, fmt.Errorf("load dataset %s: %w", name, err)
		}

		ds, err := fromRows(name, rows)
		if err != nil {
			return nil, err
		}
		l.logger.Info("dataset loaded",
			slog.String("dataset", name),
			slog.Int("records", len(ds.Records)),
			slog.Int("columns", len(ds.Columns)))
		return ds, nil
	}

	return nil, os.ErrNotExist
}

func formatFor(filename string) (string, bool) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return "csv", true
	case ".xlsx", ".xls":
		return "excel", true
	}
	return "", false
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	return reader.ReadAll()
}

func readExcel(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return f.GetRows(sheets[0])
}

// fromRows converts header+data rows into a Dataset. The first row is
// the header; record IDs are the spreadsheet row numbers.
func fromRows(name string, rows [][]string) (*Dataset, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("dataset %s is empty", name)
	}

	header := rows[0]
	keys := make([]string, len(header))
	for i, h := range header {
		key := columnKey(h, i)
		keys[i] = key
	}

	columns := make([]domain.DataColumn, len(header))
	for i, h := range header {
		columns[i] = domain.DataColumn{
			Key:   keys[i],
			Label: strings.TrimSpace(h),
			Type:  inferType(rows[1:], i),
		}
	}

	records := make([]domain.CaseRecord, 0, len(rows)-1)
	for rowIdx, row := range rows[1:] {
		fields := make(map[string]domain.Value, len(keys))
		for i, key := range keys {
			if i >= len(row) {
				fields[key] = domain.NullValue()
				continue
			}
			fields[key] = parseCell(row[i], columns[i].Type)
		}
		records = append(records, domain.CaseRecord{
			ID:     "row-" + strconv.Itoa(rowIdx+2),
			Fields: fields,
		})
	}

	return &Dataset{Name: name, Columns: columns, Records: records}, nil
}

var nonKeyChars = regexp.MustCompile(`[^a-z0-9_]+`)

// columnKey normalizes a header cell into a stable field key.
func columnKey(header string, index int) string {
	key := strings.ToLower(strings.TrimSpace(header))
	key = nonKeyChars.ReplaceAllString(key, "_")
	key = strings.Trim(key, "_")
	if key == "" {
		key = "column_" + strconv.Itoa(index+1)
	}
	return key
}

// inferType samples the non-empty values in a column and picks the most
// specific type every sampled value satisfies. Ties fall back to text.
func inferType(rows [][]string, col int) domain.ColumnType {
	const sampleLimit = 200

	sampled := 0
	allNumber, allDate, allBool := true, true, true

	for _, row := range rows {
		if col >= len(row) {
			continue
		}
		cell := strings.TrimSpace(row[col])
		if cell == "" {
			continue
		}
		sampled++

		if allNumber {
			if _, err := strconv.ParseFloat(cell, 64); err != nil {
				allNumber = false
			}
		}
		if allDate && !looksLikeDate(cell) {
			allDate = false
		}
		if allBool && !looksLikeBool(cell) {
			allBool = false
		}

		if sampled >= sampleLimit || (!allNumber && !allDate && !allBool) {
			break
		}
	}

	if sampled == 0 {
		return domain.ColumnText
	}
	switch {
	case allBool:
		return domain.ColumnBoolean
	case allDate:
		return domain.ColumnDate
	case allNumber:
		return domain.ColumnNumber
	}
	return domain.ColumnText
}

func looksLikeDate(cell string) bool {
	v := domain.TextValue(cell)
	_, ok := v.Date()
	return ok
}

func looksLikeBool(cell string) bool {
	switch strings.ToLower(cell) {
	case "true", "false", "yes", "no":
		return true
	}
	return false
}

// parseCell converts a raw cell into a typed Value. Values that do not
// parse under the inferred column type stay as text so the range and
// order checks can surface them.
func parseCell(cell string, colType domain.ColumnType) domain.Value {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return domain.NullValue()
	}

	switch colType {
	case domain.ColumnNumber:
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return domain.NumberValue(f)
		}
	case domain.ColumnBoolean:
		switch strings.ToLower(trimmed) {
		case "true", "yes":
			return domain.BoolValue(true)
		case "false", "no":
			return domain.BoolValue(false)
		}
	}
	return domain.TextValue(trimmed)
}
