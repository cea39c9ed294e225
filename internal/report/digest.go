package report

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/wonny/autovault/internal/abs"
	"github.com/wonny/autovault/internal/contracts"
)

// Digest returns the SHA-256 of the canonical JSON of the pools' loans.
// Dataset names do not take part, so the same loans always hash the same.
func Digest(pools []contracts.Pool) (string, error) {
	loans := make([][]abs.Loan, len(pools))
	for i, p := range pools {
		loans[i] = p.Loans
		if loans[i] == nil {
			loans[i] = []abs.Loan{}
		}
	}

	data, err := json.Marshal(loans)
	if err != nil {
		return "", fmt.Errorf("canonical loans: %w", err)
	}

	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
