package dataset

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }
func str(v string) *string   { return &v }

type zipEntry struct {
	name string
	body string
}

// writeZip creates dir/name as a ZIP with the given entries in order
func writeZip(t *testing.T, dir, name string, entries ...zipEntry) {
	t.Helper()
	f, err := os.Create(filepath.Join(dir, name))
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, e := range entries {
		w, err := zw.Create(e.name)
		require.NoError(t, err)
		_, err = w.Write([]byte(e.body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
}

const singlePoolJSON = `{"loans": [
	{"loan_id": "L1", "principal_outstanding": 10000, "interest_rate_annual": 5, "remaining_term_months": 36, "payment_status": "current", "fico_bucket": 720},
	{"loan_id": "L2", "principal_outstanding": 5000, "interest_rate_annual": 8, "remaining_term_months": 24, "payment_status": "30dpd", "fico_bucket": 610}
]}`

const multiPoolJSON = `{"pools": [
	{"pool_id": "A", "loans": [{"loan_id": "A1", "principal_outstanding": 1000, "interest_rate_annual": 5, "remaining_term_months": 12, "payment_status": "current", "fico_bucket": 700}]},
	{"pool_id": "B", "loans": []},
	{"pool_id": "C", "loans": [{"loan_id": "C1", "principal_outstanding": 2000, "interest_rate_annual": 6, "remaining_term_months": 24, "payment_status": "current", "fico_bucket": 760}]}
]}`
