package contracts

import "github.com/wonny/autovault/internal/abs"

// Execution mode tags carried by every report
const (
	ModeBulk       = "BULK_STANDARD"         // IEXEC_BULK_SLICE_SIZE > 0
	ModeSingleFile = "SINGLE_FILE_MULTIPOOL" // IEXEC_DATASET_FILENAME
	ModeAPIRequest = "API_REQUEST"           // POST /api/analyze
)

// Pool is one loan pool with the dataset it came from
// ⭐ SSOT: 데이터셋 → 리포트 빌더 전달 단위
type Pool struct {
	DatasetName  string     `json:"dataset_name"`
	DatasetIndex int        `json:"dataset_index"`       // bulk: 1..N, single: 0
	PoolIndex    int        `json:"internal_pool_index"` // 파일 내 풀 순번 (빈 풀 포함)
	Loans        []abs.Loan `json:"loans"`
}

// Empty reports whether the pool carries no loans
func (p Pool) Empty() bool {
	return len(p.Loans) == 0
}

// Batch is everything one analysis run reads
type Batch struct {
	Mode              string `json:"execution_mode"`
	DatasetsProcessed int    `json:"datasets_processed"` // bulk only
	Pools             []Pool `json:"pools"`
}

// NonEmptyPools returns pools in input order, skipping empty ones
func (b *Batch) NonEmptyPools() []Pool {
	pools := make([]Pool, 0, len(b.Pools))
	for _, p := range b.Pools {
		if !p.Empty() {
			pools = append(pools, p)
		}
	}
	return pools
}

// AllLoans concatenates the loans of every pool in order
func (b *Batch) AllLoans() []abs.Loan {
	n := 0
	for _, p := range b.Pools {
		n += len(p.Loans)
	}
	loans := make([]abs.Loan, 0, n)
	for _, p := range b.Pools {
		loans = append(loans, p.Loans...)
	}
	return loans
}
