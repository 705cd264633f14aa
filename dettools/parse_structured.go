package dettools

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
)

// ParseResult is the outcome of one structured parse: the extracted entries
// plus non-fatal warnings the model can act on.
type ParseResult struct {
	Parsed   []any    `json:"parsed"`
	Warnings []string `json:"warnings"`
}

// ParseStructured deterministically extracts records from raw text. Formats
// are json, csv, and lines. Required names entry fields that must be present
// and non-empty; missing ones produce warnings, not failures. No I/O.
func ParseStructured(
	data string,
	format string,
	delimiter string,
	columnNames []string,
	required []string,
) ParseResult {
	result := ParseResult{
		Parsed:   []any{},
		Warnings: []string{},
	}

	if strings.TrimSpace(data) == "" {
		result.Warnings = append(result.Warnings, "input text is empty")
		return result
	}
	if format == "" {
		format = "json"
	}

	switch format {

	case "json":
		var decoded any
		if err := json.Unmarshal([]byte(data), &decoded); err != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("JSON decode error: %s", err))
			return result
		}
		if list, ok := decoded.([]any); ok {
			result.Parsed = list
		} else {
			result.Parsed = []any{decoded}
		}

	case "csv":
		reader := csv.NewReader(strings.NewReader(data))
		if delimiter != "" {
			reader.Comma = []rune(delimiter)[0]
		}
		reader.FieldsPerRecord = -1
		records, err := reader.ReadAll()
		if err != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("CSV decode error: %s", err))
			return result
		}
		var rows [][]string
		for _, record := range records {
			if len(record) > 0 {
				rows = append(rows, record)
			}
		}
		if len(rows) == 0 {
			result.Warnings = append(result.Warnings, "CSV input contains no rows")
			return result
		}
		header := columnNames
		dataRows := rows
		if len(header) == 0 {
			header = rows[0]
			dataRows = rows[1:]
		}
		for _, row := range dataRows {
			entry := make(map[string]any, len(header))
			for i, column := range header {
				if i < len(row) {
					entry[column] = row[i]
				} else {
					entry[column] = ""
				}
			}
			result.Parsed = append(result.Parsed, entry)
		}

	case "lines":
		if delimiter == "" {
			delimiter = "\n"
		}
		var lines []string
		for _, line := range strings.Split(data, delimiter) {
			if strings.TrimSpace(line) != "" {
				lines = append(lines, line)
			}
		}
		if len(lines) == 0 {
			result.Warnings = append(result.Warnings, "no line entries found")
			return result
		}
		for _, line := range lines {
			entry := make(map[string]any)
			if len(columnNames) > 0 {
				entry[columnNames[0]] = line
				for _, extra := range columnNames[1:] {
					entry[extra] = ""
				}
			} else {
				entry["line"] = line
			}
			result.Parsed = append(result.Parsed, entry)
		}

	default:
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("unsupported format %q", format))
		return result
	}

	checkRequired(&result, required)
	return result
}

func checkRequired(result *ParseResult, required []string) {
	if len(required) == 0 {
		return
	}
	for i, entry := range result.Parsed {
		object, ok := entry.(map[string]any)
		if !ok {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("entry %d is not an object, skipping field check", i+1))
			continue
		}
		var missing []string
		for _, field := range required {
			value, ok := object[field]
			if !ok || value == "" {
				missing = append(missing, field)
			}
		}
		if len(missing) > 0 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("entry %d missing fields: %s", i+1, strings.Join(missing, ", ")))
		}
	}
}
