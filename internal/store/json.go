package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strconv"
)

// safeParseJSON decodes JSON while preserving numbers as json.Number.
// It mirrors json.Unmarshal by rejecting trailing non-whitespace data.
func safeParseJSON(data []byte, dest any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(dest); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("extra JSON input")
	}
	return nil
}

// parseCounter reads an MGET reply value; missing keys count as zero.
func parseCounter(value any) float64 {
	switch v := value.(type) {
	case nil:
		return 0
	case string:
		n, _ := strconv.ParseFloat(v, 64)
		return n
	case []byte:
		n, _ := strconv.ParseFloat(string(v), 64)
		return n
	case int64:
		return float64(v)
	default:
		return 0
	}
}
