package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"unicode/utf8"

	"github.com/wonny/autovault/internal/contracts"
)

// Output file names inside IEXEC_OUT
const (
	ResultFile   = "result.json"
	ComputedFile = "computed.json"
)

// Computed is the iExec computed.json document
type Computed struct {
	DeterministicOutputPath string `json:"deterministic-output-path"`
	ErrorMessage            string `json:"error-message,omitempty"`
}

// Writer writes task outputs to the iExec output directory
type Writer struct {
	outputDir string
}

// NewWriter creates a writer for dir
func NewWriter(dir string) *Writer {
	return &Writer{outputDir: dir}
}

// ResultPath is <output dir>/result.json
func (w *Writer) ResultPath() string {
	return filepath.Join(w.outputDir, ResultFile)
}

// Write stores result.json (2-space indent, sorted keys, ASCII only) and
// then computed.json pointing at it. Returns the result path.
func (w *Writer) Write(rep *contracts.Report) (string, error) {
	data, err := Encode(rep)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := w.ResultPath()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", ResultFile, err)
	}

	if err := w.writeComputed(Computed{DeterministicOutputPath: path}); err != nil {
		return "", err
	}
	return path, nil
}

// WriteFailure stores computed.json with the error message and the output dir
// as the deterministic path.
func (w *Writer) WriteFailure(cause error) error {
	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	msg := "unknown error"
	if cause != nil {
		msg = cause.Error()
	}
	return w.writeComputed(Computed{
		DeterministicOutputPath: w.outputDir,
		ErrorMessage:            msg,
	})
}

func (w *Writer) writeComputed(c Computed) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode %s: %w", ComputedFile, err)
	}
	if err := os.WriteFile(filepath.Join(w.outputDir, ComputedFile), escapeNonASCII(data), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", ComputedFile, err)
	}
	return nil
}

// Encode renders a report exactly as result.json holds it
func Encode(rep *contracts.Report) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	return escapeNonASCII(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// escapeNonASCII rewrites every non-ASCII rune as a \uXXXX escape
// (surrogate pairs above the BMP). Input must be valid JSON, where such
// runes can only appear inside strings.
func escapeNonASCII(data []byte) []byte {
	ascii := true
	for _, c := range data {
		if c >= utf8.RuneSelf {
			ascii = false
			break
		}
	}
	if ascii {
		return data
	}

	out := make([]byte, 0, len(data)+16)
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		data = data[size:]
		if r < utf8.RuneSelf {
			out = append(out, byte(r))
			continue
		}
		if r > 0xFFFF {
			r -= 0x10000
			out = appendU(out, 0xD800+(r>>10))
			out = appendU(out, 0xDC00+(r&0x3FF))
			continue
		}
		out = appendU(out, r)
	}
	return out
}

func appendU(out []byte, r rune) []byte {
	hex := strconv.FormatInt(int64(r), 16)
	out = append(out, '\\', 'u')
	for i := len(hex); i < 4; i++ {
		out = append(out, '0')
	}
	return append(out, hex...)
}
