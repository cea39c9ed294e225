package dataset

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/wonny/autovault/internal/abs"
	"github.com/wonny/autovault/pkg/logger"
)

// PreferredEntry is read first when the archive contains it
const PreferredEntry = "auto_loan_pool.json"

// maxEntryBytes bounds a single decompressed dataset entry
const maxEntryBytes = 512 << 20

// Loader reads protected datasets from the iExec input directory
// ⭐ SSOT: 데이터셋 파일 접근은 여기서만
type Loader struct {
	inputDir string
	log      *logger.Logger
}

// NewLoader creates a loader rooted at inputDir
func NewLoader(inputDir string, log *logger.Logger) *Loader {
	if log == nil {
		log = logger.Nop()
	}
	return &Loader{inputDir: inputDir, log: log}
}

// Load opens <inputDir>/<filename> and returns its pools.
// The file is read as a ZIP archive; a plain JSON file is accepted too.
func (l *Loader) Load(ctx context.Context, filename string) ([][]abs.Loan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(l.inputDir, filename)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("stat dataset: %w", err)
	}

	zr, err := zip.OpenReader(path)
	if errors.Is(err, zip.ErrFormat) {
		return l.loadPlain(path)
	}
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", filename, err)
	}
	defer zr.Close()

	entry, err := selectEntry(zr.File)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	rc, err := entry.Open()
	if err != nil {
		return nil, fmt.Errorf("open entry %s: %w", entry.Name, err)
	}
	defer rc.Close()

	pools, shape, err := decodeShape(io.LimitReader(rc, maxEntryBytes))
	if err != nil {
		return nil, fmt.Errorf("%s/%s: %w", filename, entry.Name, err)
	}

	l.log.WithFields(map[string]interface{}{
		"dataset": filename,
		"entry":   entry.Name,
		"shape":   string(shape),
		"pools":   len(pools),
	}).Debug("dataset decoded")

	return pools, nil
}

func (l *Loader) loadPlain(path string) ([][]abs.Loan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	pools, shape, err := decodeShape(io.LimitReader(f, maxEntryBytes))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	l.log.WithFields(map[string]interface{}{
		"dataset": filepath.Base(path),
		"shape":   string(shape),
		"pools":   len(pools),
	}).Debug("plain JSON dataset decoded")
	return pools, nil
}

// selectEntry: auto_loan_pool.json → 첫 .json → 첫 항목
func selectEntry(files []*zip.File) (*zip.File, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: empty archive", ErrUnknownFormat)
	}
	for _, f := range files {
		if f.Name == PreferredEntry {
			return f, nil
		}
	}
	for _, f := range files {
		if strings.HasSuffix(f.Name, ".json") {
			return f, nil
		}
	}
	return files[0], nil
}
