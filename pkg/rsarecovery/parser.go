package rsarecovery

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// KeyParser defines the interface for reading key material from various sources.
type KeyParser interface {
	// ParseKeys parses key material from a source and returns it.
	ParseKeys(source string) ([]*KeyMaterial, error)
}

// JSONParser parses key material from JSON files.
type JSONParser struct {
	NField string // Field name for the modulus (default: "n")
	EField string // Field name for the public exponent (default: "e")
	DField string // Field name for the private exponent (default: "d")
}

// ParseKeys parses key material from a JSON file.
//
// Expected format:
// [
//
//	{"n": "3233", "e": "17", "d": "2753"},
//	{"n": "0xca1", "e": 17, "d": "0xac1"}
//
// ]
func (p *JSONParser) ParseKeys(jsonFile string) ([]*KeyMaterial, error) {
	file, err := os.Open(jsonFile)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read file")
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	decoder.UseNumber() // Preserve large numbers as json.Number instead of float64

	var items []map[string]interface{}
	if err := decoder.Decode(&items); err != nil {
		return nil, errors.Wrap(err, "failed to parse JSON")
	}

	nField := fieldOrDefault(p.NField, "n")
	eField := fieldOrDefault(p.EField, "e")
	dField := fieldOrDefault(p.DField, "d")

	keys := make([]*KeyMaterial, 0, len(items))

	for i, item := range items {
		key := &KeyMaterial{}
		fields := []struct {
			name string
			dst  **big.Int
		}{
			{nField, &key.N},
			{eField, &key.E},
			{dField, &key.D},
		}

		for _, f := range fields {
			val, ok := item[f.name]
			if !ok {
				return nil, errors.Errorf("key %d: missing %s field", i, f.name)
			}
			x, err := parseBigInt(val)
			if err != nil {
				return nil, errors.Wrapf(err, "key %d: failed to parse %s", i, f.name)
			}
			*f.dst = x
		}

		keys = append(keys, key)
	}

	return keys, nil
}

// CSVParser parses key material from CSV files with a header row.
type CSVParser struct {
	NCol string // Column name for the modulus (default: "n")
	ECol string // Column name for the public exponent (default: "e")
	DCol string // Column name for the private exponent (default: "d")
}

// ParseKeys parses key material from a CSV file.
func (p *CSVParser) ParseKeys(csvFile string) ([]*KeyMaterial, error) {
	file, err := os.Open(csvFile)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	// Read header
	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read header")
	}

	nCol := fieldOrDefault(p.NCol, "n")
	eCol := fieldOrDefault(p.ECol, "e")
	dCol := fieldOrDefault(p.DCol, "d")

	nIdx, eIdx, dIdx := -1, -1, -1
	for i, col := range header {
		switch strings.TrimSpace(col) {
		case nCol:
			nIdx = i
		case eCol:
			eIdx = i
		case dCol:
			dIdx = i
		}
	}

	if nIdx == -1 || eIdx == -1 || dIdx == -1 {
		return nil, errors.Errorf("missing required columns: %s, %s or %s", nCol, eCol, dCol)
	}

	keys := make([]*KeyMaterial, 0)

	for row := 1; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to read record")
		}

		key := &KeyMaterial{}
		cols := []struct {
			name string
			idx  int
			dst  **big.Int
		}{
			{nCol, nIdx, &key.N},
			{eCol, eIdx, &key.E},
			{dCol, dIdx, &key.D},
		}

		for _, c := range cols {
			if c.idx >= len(record) {
				return nil, errors.Errorf("row %d: %s column index out of range", row, c.name)
			}
			x, err := parseBigInt(record[c.idx])
			if err != nil {
				return nil, errors.Wrapf(err, "row %d: failed to parse %s", row, c.name)
			}
			*c.dst = x
		}

		keys = append(keys, key)
	}

	return keys, nil
}

// ParserForFormat returns the parser for "json" or "csv".
func ParserForFormat(format string) (KeyParser, error) {
	switch strings.ToLower(format) {
	case "json":
		return &JSONParser{}, nil
	case "csv":
		return &CSVParser{}, nil
	default:
		return nil, errors.Errorf("unsupported format: %s", format)
	}
}

func fieldOrDefault(name, def string) string {
	if name == "" {
		return def
	}
	return name
}

// parseBigInt parses a non-negative integer: decimal, or hex with a 0x prefix.
func parseBigInt(val interface{}) (*big.Int, error) {
	switch v := val.(type) {
	case string:
		s := strings.TrimSpace(v)
		base := 10
		if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
			s = s[2:]
			base = 16
		}

		z, ok := new(big.Int).SetString(s, base)
		if !ok || z.Sign() < 0 {
			return nil, errors.Errorf("invalid number format: %s", v)
		}
		return z, nil

	case json.Number:
		z, ok := new(big.Int).SetString(string(v), 10)
		if !ok || z.Sign() < 0 {
			return nil, errors.Errorf("invalid number format: %s", v)
		}
		return z, nil

	case float64:
		s := fmt.Sprintf("%.0f", v)
		z, ok := new(big.Int).SetString(s, 10)
		if !ok || z.Sign() < 0 {
			return nil, errors.Errorf("invalid number format: %v", v)
		}
		return z, nil

	case int64:
		return big.NewInt(v), nil

	case int:
		return big.NewInt(int64(v)), nil

	default:
		return nil, errors.Errorf("unsupported type: %T", val)
	}
}
