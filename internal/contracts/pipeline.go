package contracts

// Pipeline stage definitions. Logs, run results and job history all use
// these constants.
//
// Flow:
//   S0 → S1 → S2 → S3 → S4 → S5 → S6
//   Ingest  Resolve  Aggregate  Align  Decide  Simulate  Report

// Stage represents a pipeline stage.
type Stage string

const (
	// StageIngest S0: raw record parsing, dedup and corpus merge.
	StageIngest Stage = "S0_INGEST"

	// StageResolve S1: organization mentions -> ticker sets.
	StageResolve Stage = "S1_RESOLVE"

	// StageAggregate S2: per-record sentiment -> daily per-ticker signal.
	StageAggregate Stage = "S2_AGGREGATE"

	// StageAlign S3: signal/price calendar reconciliation, ffill, lag.
	StageAlign Stage = "S3_ALIGN"

	// StageDecide S4: threshold rules -> entry/exit matrices.
	StageDecide Stage = "S4_DECIDE"

	// StageSimulate S5: portfolio replay with fees and slippage.
	StageSimulate Stage = "S5_SIMULATE"

	// StageReport S6: performance statistics and report artifact.
	StageReport Stage = "S6_REPORT"
)

// String returns the stage name.
func (s Stage) String() string {
	return string(s)
}

// AllStages returns the pipeline stages in execution order.
func AllStages() []Stage {
	return []Stage{
		StageIngest,
		StageResolve,
		StageAggregate,
		StageAlign,
		StageDecide,
		StageSimulate,
		StageReport,
	}
}

// StageResult reports what a stage did, so failures are diagnosable
// without inspecting internals. Every stage fills the counts that apply.
type StageResult struct {
	Stage      Stage  `json:"stage"`
	Success    bool   `json:"success"`
	Read       int    `json:"read"`
	Accepted   int    `json:"accepted"`
	Duplicates int    `json:"duplicates"`
	Excluded   int    `json:"excluded"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}
