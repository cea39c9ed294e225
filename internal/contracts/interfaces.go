package contracts

import "context"

// PoolSource collects the pools of one run (iExec input dir, HTTP body)
// ⭐ SSOT: 입력 수집 인터페이스
type PoolSource interface {
	Collect(ctx context.Context) (*Batch, error)
}

// ReportBuilder runs the analytics over a batch
// ⭐ SSOT: 분석 실행 인터페이스
type ReportBuilder interface {
	Build(ctx context.Context, batch *Batch) (*Report, error)
}

// ReportSink stores task outputs (result.json + computed.json)
type ReportSink interface {
	Write(report *Report) (string, error)
	WriteFailure(cause error) error
}
