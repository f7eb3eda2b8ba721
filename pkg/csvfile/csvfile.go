// Package csvfile parses the homeowner directory export format.
//
// The export is a simple comma-delimited file with a header row. Fields never
// contain embedded commas, so rows are split on every comma and literal double
// quote characters are stripped. This mirrors the producing system and is the
// parsing contract, not a shortcut: swapping in a quote-aware CSV reader would
// change how existing files are read.
package csvfile

import "strings"

// Record is one parsed data row keyed by normalized header name.
type Record struct {
	Number int
	Fields map[string]string
}

// Parse splits file content into records. The first non-empty line is the
// header; header names are trimmed and lowercased. Rows with fewer cells than
// headers get empty strings for the missing trailing columns, extra cells are
// dropped. Record numbers are 1-based over data rows.
func Parse(content string) []Record {
	lines := splitLines(content)
	if len(lines) == 0 {
		return nil
	}

	headers := splitRow(lines[0])
	for i, h := range headers {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	records := make([]Record, 0, len(lines)-1)
	for i, line := range lines[1:] {
		cells := splitRow(line)
		fields := make(map[string]string, len(headers))
		for j, header := range headers {
			if header == "" {
				continue
			}
			if j < len(cells) {
				fields[header] = cells[j]
			} else {
				fields[header] = ""
			}
		}
		records = append(records, Record{Number: i + 1, Fields: fields})
	}

	return records
}

// splitLines splits on newlines, tolerating CRLF and skipping blank lines.
func splitLines(content string) []string {
	raw := strings.Split(content, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func splitRow(line string) []string {
	cells := strings.Split(line, ",")
	for i, cell := range cells {
		cells[i] = strings.TrimSpace(strings.ReplaceAll(cell, `"`, ""))
	}
	return cells
}
