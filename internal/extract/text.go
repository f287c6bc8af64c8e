package extract

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

func extractText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// extractJSON re-renders the file with stable indentation so downstream
// keyword scans see one value per line.
func extractJSON(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return "", fmt.Errorf("parse json: %w", err)
	}
	pretty, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return "", err
	}
	return "=== JSON DATA ===\n\n" + string(pretty), nil
}

func extractCSV(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("parse csv: %w", err)
	}

	columns := 0
	if len(records) > 0 {
		columns = len(records[0])
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "=== CSV DATA (%d rows, %d columns) ===\n\n", len(records), columns)
	for _, record := range records {
		sb.WriteString(strings.Join(record, " | "))
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}
