package modelconfig

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wonny/autovault/internal/abs"
)

// Load reads a YAML assumptions file and returns the effective assumptions
// with the raw bytes. Omitted keys keep their default values.
// SSOT 핵심: KnownFields(true)로 오타/미사용 필드 즉시 실패
func Load(path string) (abs.Assumptions, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return abs.Assumptions{}, nil, err
	}

	a, err := Decode(bytes.NewReader(data))
	if err != nil {
		return abs.Assumptions{}, data, fmt.Errorf("%s: %w", path, err)
	}
	return a, data, nil
}

// Decode parses and validates YAML assumptions from r
func Decode(r io.Reader) (abs.Assumptions, error) {
	file := FromAssumptions(abs.DefaultAssumptions())

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true) // 알 수 없는 필드 발견 시 에러 반환
	if err := dec.Decode(&file); err != nil && err != io.EOF {
		return abs.Assumptions{}, err
	}

	a := file.Assumptions()
	if err := Validate(a); err != nil {
		return abs.Assumptions{}, err
	}
	return a, nil
}

// Resolve returns the defaults when path is empty, otherwise Load(path)
func Resolve(path string) (abs.Assumptions, error) {
	if path == "" {
		return abs.DefaultAssumptions(), nil
	}
	a, _, err := Load(path)
	return a, err
}

// Hash generates SHA256 hash from Assumptions (canonical JSON)
// 주의: map 대신 struct 사용으로 해시 재현성 보장
func Hash(a abs.Assumptions) (string, error) {
	jsonBytes, err := json.Marshal(a)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}

// ReportHash is the model_assumptions_hash stamped on reports and used in
// cache keys: the assumptions plus the validation mode, since strict and
// lenient runs over the same input produce different reports.
func ReportHash(a abs.Assumptions, mode abs.ValidationMode) (string, error) {
	jsonBytes, err := json.Marshal(struct {
		Assumptions    abs.Assumptions    `json:"assumptions"`
		ValidationMode abs.ValidationMode `json:"validation_mode"`
	}{a, mode})
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}

// NewSnapshot creates a snapshot for audit
func NewSnapshot(a abs.Assumptions, modelID string, yamlData []byte) (*Snapshot, error) {
	hash, err := Hash(a)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		AssumptionsHash: hash,
		AssumptionsYAML: string(yamlData),
		ModelID:         modelID,
		Assumptions:     a,
		CreatedAt:       time.Now(),
	}, nil
}
