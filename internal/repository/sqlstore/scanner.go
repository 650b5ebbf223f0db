package sqlstore

import (
	"strings"
)

// Rows interface defines the behaviour of sqlx.Rows used to scan raw records
type Rows interface {
	Next() bool
	MapScan(dest map[string]interface{}) error
	Err() error
}

// ScanRecord scans the current row into a Record. Column names are lower-cased and []byte values
// (how some drivers hand back TEXT) become strings.
func ScanRecord(rows Rows) (Record, error) {
	raw := make(map[string]interface{})
	if err := rows.MapScan(raw); err != nil {
		return nil, err
	}

	record := make(Record, len(raw))
	for k, v := range raw {
		if b, ok := v.([]byte); ok {
			v = string(b)
		}
		record[strings.ToLower(k)] = v
	}
	return record, nil
}

// ScanRecords scans every remaining row. It never returns a nil slice on success.
func ScanRecords(rows Rows) ([]Record, error) {
	records := []Record{}
	for rows.Next() {
		record, err := ScanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
