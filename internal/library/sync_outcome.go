package library

// SyncOutcome reports what happened to the remote mirror during a save.
// The tri-state keeps "no mirror configured" visibly distinct from
// "mirror attempted and failed" for callers and tests.
type SyncOutcome int

const (
	// SyncNotConfigured: no mirror base URL is set; sync is not applicable.
	SyncNotConfigured SyncOutcome = iota
	// SyncSucceeded: the mirror acknowledged the write.
	SyncSucceeded
	// SyncFailed: the mirror was unreachable, timed out, or rejected the
	// write. The save still succeeded locally.
	SyncFailed
)

func (o SyncOutcome) String() string {
	switch o {
	case SyncNotConfigured:
		return "not-configured"
	case SyncSucceeded:
		return "succeeded"
	case SyncFailed:
		return "failed-degraded-to-local"
	default:
		return "unknown"
	}
}

// MarshalJSON preserves the wire contract the front end expects:
// null = not applicable, true = synced, false = attempted and failed.
func (o SyncOutcome) MarshalJSON() ([]byte, error) {
	switch o {
	case SyncSucceeded:
		return []byte("true"), nil
	case SyncFailed:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

// SaveResult is the outcome of Repository.SaveAll. OK is false only when
// the durable local write failed; remote degradation never fails a save.
type SaveResult struct {
	OK     bool        `json:"ok"`
	Remote SyncOutcome `json:"remoteSynced"`
}
