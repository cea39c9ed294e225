package contracts

import (
	"encoding/json"

	"github.com/wonny/autovault/internal/abs"
)

// NoValidLoanData single-file mode without any analysable pool
const NoValidLoanData = "No valid loan data found."

// ConfidenceMedium 현재 모델 신뢰 수준 (고정)
const ConfidenceMedium = "MEDIUM"

// PrivacyGuarantee static TEE attestation block
type PrivacyGuarantee struct {
	ExecutionEnvironment string `json:"execution_environment"`
	RawLoanDataExposed   bool   `json:"raw_loan_data_exposed"`
	VerifiableTask       bool   `json:"verifiable_task"`
}

// TEEPrivacyGuarantee returns the block attached to every report
func TEEPrivacyGuarantee() PrivacyGuarantee {
	return PrivacyGuarantee{
		ExecutionEnvironment: "iExec TEE",
		RawLoanDataExposed:   false,
		VerifiableTask:       true,
	}
}

// Report is the document written to result.json
// ⭐ SSOT: iApp 출력 스키마
// 필드 순서 = JSON 키 알파벳 순서
type Report struct {
	AggregatedPoolAnalysis *abs.AnalysisResult   `json:"aggregated_pool_analysis"`
	Confidence             string                `json:"confidence"`
	DatasetsProcessed      *int                  `json:"datasets_processed,omitempty"`
	Error                  string                `json:"error,omitempty"`
	ExecutionMode          string                `json:"execution_mode"`
	IndividualResults      []*abs.AnalysisResult `json:"individual_results"`
	ModelAssumptionsHash   string                `json:"model_assumptions_hash,omitempty"`
	PoolsFound             *int                  `json:"pools_found,omitempty"`
	PrivacyGuarantee       PrivacyGuarantee      `json:"privacy_guarantee"`
}

// reportError is the shape of a report that found nothing to analyse
type reportError struct {
	Confidence           string           `json:"confidence"`
	Error                string           `json:"error"`
	ModelAssumptionsHash string           `json:"model_assumptions_hash,omitempty"`
	PrivacyGuarantee     PrivacyGuarantee `json:"privacy_guarantee"`
}

// Failed reports whether the report only carries an error
func (r *Report) Failed() bool {
	return r != nil && r.Error != ""
}

// MarshalJSON drops the analysis fields when Error is set.
func (r Report) MarshalJSON() ([]byte, error) {
	if r.Error != "" {
		return json.Marshal(reportError{
			Confidence:           r.Confidence,
			Error:                r.Error,
			ModelAssumptionsHash: r.ModelAssumptionsHash,
			PrivacyGuarantee:     r.PrivacyGuarantee,
		})
	}

	type plain Report
	p := plain(r)
	if p.IndividualResults == nil {
		p.IndividualResults = []*abs.AnalysisResult{}
	}
	return json.Marshal(p)
}

// Count returns pools_found or datasets_processed, whichever the mode carries
func (r *Report) Count() int {
	switch {
	case r.PoolsFound != nil:
		return *r.PoolsFound
	case r.DatasetsProcessed != nil:
		return *r.DatasetsProcessed
	default:
		return len(r.IndividualResults)
	}
}
