package shops

import "strings"

// Parsed is the result of one parse pass over a grid
type Parsed struct {
	HeaderRowIndex int      `json:"headerRowIndex"`
	Headers        []string `json:"headers"`
	Items          []Record `json:"items"`
}

// BuildRecords converts the rows below the header into records.
// Empty rows and rows without a store name are skipped; order is preserved.
func BuildRecords(rows [][]string, header HeaderResult) []Record {
	items := []Record{}

	for i := header.HeaderRowIndex + 1; i < len(rows); i++ {
		row := truncate(rows[i])
		if isAllEmpty(row) {
			continue
		}

		rec := make(Record, len(header.Headers))
		for idx, key := range header.Headers {
			if idx < len(row) {
				rec[key] = strings.TrimSpace(row[idx])
			} else {
				rec[key] = ""
			}
		}

		if Normalize(rec.Name()) == "" {
			continue
		}
		items = append(items, rec)
	}

	return items
}

// Parse detects the header and builds records in one pass
func Parse(rows [][]string) (Parsed, error) {
	header, err := DetectHeader(rows)
	if err != nil {
		return Parsed{}, err
	}
	return Parsed{
		HeaderRowIndex: header.HeaderRowIndex,
		Headers:        header.Headers,
		Items:          BuildRecords(rows, header),
	}, nil
}
