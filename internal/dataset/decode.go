package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/wonny/autovault/internal/abs"
)

var (
	// ErrNotFound dataset file missing under the input dir
	ErrNotFound = errors.New("dataset not found")
	// ErrUnknownFormat JSON matched none of the supported shapes
	ErrUnknownFormat = errors.New("unknown dataset format")
	// ErrMalformedLoan a loan field has the wrong JSON type, e.g. a string principal.
	// Unlike the errors above it fails the whole run.
	ErrMalformedLoan = errors.New("malformed loan record")
)

// Shape identifies which input layout was detected
type Shape string

const (
	ShapeLoansObject Shape = "loans_object" // {"loans": [...]}
	ShapeLoanArray   Shape = "loan_array"   // [{"loan_id": ...}, ...]
	ShapePoolsObject Shape = "pools_object" // {"pools": [{"loans": [...]}, ...]}
	ShapePoolArray   Shape = "pool_array"   // [{"loans": [...]}, ...]
)

// DecodePools reads one JSON document and returns its pools in order.
// A pool entry without "loans" is dropped, so pool indexes refer to the
// remaining entries.
func DecodePools(r io.Reader) ([][]abs.Loan, error) {
	pools, _, err := decodeShape(r)
	return pools, err
}

func decodeShape(r io.Reader) ([][]abs.Loan, Shape, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("read dataset: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: empty document", ErrUnknownFormat)
	}

	switch data[0] {
	case '{':
		return decodeObject(data)
	case '[':
		return decodeArray(data)
	default:
		if !json.Valid(data) {
			return nil, "", fmt.Errorf("decode dataset: invalid JSON")
		}
		return nil, "", fmt.Errorf("%w: top-level %q", ErrUnknownFormat, data[0])
	}
}

func decodeObject(data []byte) ([][]abs.Loan, Shape, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, "", fmt.Errorf("decode dataset: %w", err)
	}

	if raw, ok := doc["loans"]; ok && isArray(raw) {
		loans, err := decodeLoans(raw)
		if err != nil {
			return nil, "", err
		}
		return [][]abs.Loan{loans}, ShapeLoansObject, nil
	}

	if raw, ok := doc["pools"]; ok && isArray(raw) {
		var entries []json.RawMessage
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil, "", fmt.Errorf("decode pools: %w", err)
		}
		pools, err := decodePoolEntries(entries)
		return pools, ShapePoolsObject, err
	}

	return nil, "", fmt.Errorf("%w: object without \"loans\" or \"pools\"", ErrUnknownFormat)
}

func decodeArray(data []byte) ([][]abs.Loan, Shape, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, "", fmt.Errorf("decode dataset: %w", err)
	}
	if len(entries) == 0 {
		return nil, "", fmt.Errorf("%w: empty array", ErrUnknownFormat)
	}

	// 첫 원소로 형태 판정
	first := objectKeys(entries[0])
	switch {
	case first["loan_id"]:
		loans, err := decodeLoans(data)
		if err != nil {
			return nil, "", err
		}
		return [][]abs.Loan{loans}, ShapeLoanArray, nil
	case first["loans"]:
		pools, err := decodePoolEntries(entries)
		return pools, ShapePoolArray, err
	default:
		return nil, "", fmt.Errorf("%w: array of neither loans nor pools", ErrUnknownFormat)
	}
}

func decodePoolEntries(entries []json.RawMessage) ([][]abs.Loan, error) {
	pools := make([][]abs.Loan, 0, len(entries))
	for i, entry := range entries {
		var p struct {
			Loans json.RawMessage `json:"loans"`
		}
		if err := json.Unmarshal(entry, &p); err != nil || p.Loans == nil {
			// "loans" 없는 항목은 건너뜀
			continue
		}
		loans, err := decodeLoans(p.Loans)
		if err != nil {
			return nil, fmt.Errorf("pool %d: %w", i, err)
		}
		pools = append(pools, loans)
	}
	return pools, nil
}

func decodeLoans(raw json.RawMessage) ([]abs.Loan, error) {
	var loans []abs.Loan
	if err := json.Unmarshal(raw, &loans); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, fmt.Errorf("%w: %w", ErrMalformedLoan, err)
		}
		return nil, fmt.Errorf("decode loans: %w", err)
	}
	return loans, nil
}

func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

func objectKeys(raw json.RawMessage) map[string]bool {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil
	}
	keys := make(map[string]bool, len(obj))
	for k := range obj {
		keys[k] = true
	}
	return keys
}
