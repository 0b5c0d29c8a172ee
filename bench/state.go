package bench

// State is the lifecycle phase of a 'WorkloadExecutor'.
type State int32

const (
	// StateIdle indicates the executor has been created but not yet run.
	StateIdle State = iota

	// StateProvisioning indicates bucket existence/creation and metrics backend reachability are being verified.
	StateProvisioning

	// StateRunning indicates workers are performing operations.
	StateRunning

	// StateDraining indicates the workload is complete/cancelled and the run is waiting for in-flight operations.
	StateDraining

	// StateCleaningUp indicates objects written by this run are being deleted.
	StateCleaningUp

	// StateDone is the terminal state of a run which did not hit a fatal error.
	StateDone

	// StateFailed is the absorbing state entered on a fatal error; cleanup is still attempted.
	StateFailed
)

// String implements the 'Stringer' interface.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateProvisioning:
		return "provisioning"
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateCleaningUp:
		return "cleaning_up"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	}

	return "unknown"
}

// RunSummary is the aggregate outcome of a run.
//
// NOTE: A completed run does not imply every operation and cleanup succeeded; callers must check the failure/drop
// counters rather than treating completion as success.
type RunSummary struct {
	// State is the terminal state of the run, either 'StateDone' or 'StateFailed'.
	State State

	// Attempted is the number of operations started.
	Attempted uint64

	// Succeeded is the number of operations which completed without error.
	Succeeded uint64

	// Failed is the number of operations which returned an error; each is recorded as a failed measurement.
	Failed uint64

	// TelemetryDropped is the number of metrics documents dropped after exhausting emission retries.
	TelemetryDropped uint64

	// CleanupAttempted is the number of keys the cleanup phase attempted to delete.
	CleanupAttempted int

	// CleanupFailed is the number of keys which could not be deleted.
	CleanupFailed int

	// EmptyWorkload indicates a read workload terminated immediately because the prefix contained no objects.
	EmptyWorkload bool
}
