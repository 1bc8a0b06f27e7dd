package constants

// RunStatus is the canonical status for rows in recon_run.
type RunStatus string

// Stable values (store these exact strings in DB).
const (
	RunStatusRunning    RunStatus = "RUNNING"    // pipeline in progress
	RunStatusAssembled  RunStatus = "ASSEMBLED"  // stage 1 completed (documents assembled)
	RunStatusReconciled RunStatus = "RECONCILED" // stage 2 completed (matching done)
	RunStatusFailed     RunStatus = "FAILED"     // terminal failure
)
