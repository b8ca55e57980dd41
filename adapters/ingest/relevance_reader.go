// Package ingest loads the external rule and relevance files into structured
// records. It is the file-facing collaborator surface: the scoring core only
// ever sees its parsed output, and every load failure degrades to built-in
// defaults rather than aborting.
package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"coarank/adapters/relevance"
	"coarank/domain/coa"
	"coarank/domain/core"
	"coarank/domain/situation"
	"coarank/internal"
)

// RelevanceReader handles reading relevance tables from Excel and CSV files.
// Expected columns: coaType, threatType, baseRelevance, description.
type RelevanceReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	logger   *internal.Logger
}

// NewRelevanceReader creates a reader for the given file path; the format is
// chosen by extension.
func NewRelevanceReader(filePath string) *RelevanceReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &RelevanceReader{filePath: filePath, fileType: fileType, logger: internal.DefaultLogger}
}

// Read loads the table rows. Individual bad rows are skipped with warnings;
// only an unreadable file returns an error.
func (r *RelevanceReader) Read() ([]relevance.Mapping, []string, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, nil, core.NewConfigError("relevance table", fmt.Errorf("file not found: %s", r.filePath))
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	default:
		rows, err = r.readExcelRows()
	}
	if err != nil {
		return nil, nil, err
	}
	return r.processRows(rows)
}

func (r *RelevanceReader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, core.NewConfigError("relevance table", fmt.Errorf("failed to open Excel file: %w", err))
	}
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	if err != nil {
		return nil, core.NewConfigError("relevance table", fmt.Errorf("failed to read Sheet1: %w", err))
	}
	return rows, nil
}

func (r *RelevanceReader) readCSVRows() ([][]string, error) {
	f, err := os.Open(r.filePath)
	if err != nil {
		return nil, core.NewConfigError("relevance table", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, core.NewConfigError("relevance table", err)
	}
	return rows, nil
}

// processRows converts raw rows into mappings, skipping the header row and
// any row that fails to parse.
func (r *RelevanceReader) processRows(rows [][]string) ([]relevance.Mapping, []string, error) {
	if len(rows) < 2 {
		return nil, nil, core.NewConfigError("relevance table",
			fmt.Errorf("need a header row and at least one data row, got %d rows", len(rows)))
	}

	var mappings []relevance.Mapping
	var warnings []string
	for i, row := range rows[1:] {
		mapping, err := parseRow(row)
		if err != nil {
			warning := fmt.Sprintf("relevance row %d skipped: %v", i+2, err)
			r.logger.Warn("%s", warning)
			warnings = append(warnings, warning)
			continue
		}
		mappings = append(mappings, mapping)
	}
	return mappings, warnings, nil
}

func parseRow(row []string) (relevance.Mapping, error) {
	if len(row) < 3 {
		return relevance.Mapping{}, fmt.Errorf("expected at least 3 columns, got %d", len(row))
	}
	coaType, err := coa.ParseType(strings.TrimSpace(row[0]))
	if err != nil {
		return relevance.Mapping{}, err
	}
	threat := strings.TrimSpace(row[1])
	if threat == "" {
		return relevance.Mapping{}, fmt.Errorf("empty threat type")
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
	if err != nil {
		return relevance.Mapping{}, fmt.Errorf("bad relevance value %q: %w", row[2], err)
	}
	if value < 0 || value > 1 {
		return relevance.Mapping{}, fmt.Errorf("relevance %.3f outside [0,1]", value)
	}

	mapping := relevance.Mapping{
		CoaType:    coaType,
		ThreatType: situation.ThreatType(threat),
		Relevance:  value,
	}
	if len(row) > 3 {
		mapping.Description = strings.TrimSpace(row[3])
	}
	return mapping, nil
}

// LoadMapper reads the table and builds a mapper from it, falling back to the
// built-in table when the file is unreadable. The second return lists every
// warning gathered on the way; the mapper is always usable.
func LoadMapper(filePath string) (*relevance.Mapper, []string) {
	if filePath == "" {
		return relevance.NewDefaultMapper(), nil
	}

	rows, warnings, err := NewRelevanceReader(filePath).Read()
	if err != nil {
		internal.DefaultLogger.Warn("relevance table load failed, using built-in table: %v", err)
		return relevance.NewDefaultMapper(), append(warnings, fmt.Sprintf("relevance table load failed: %v", err))
	}
	mapper, err := relevance.NewMapper(rows)
	if err != nil {
		internal.DefaultLogger.Warn("relevance table rejected, using built-in table: %v", err)
		return relevance.NewDefaultMapper(), append(warnings, fmt.Sprintf("relevance table rejected: %v", err))
	}
	return mapper, warnings
}
