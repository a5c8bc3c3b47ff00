package reminder

// PermissionState is the tri-state notification capability flag
type PermissionState int

const (
	// PermissionUnset means the user has never been asked
	PermissionUnset PermissionState = iota
	// PermissionGranted means reminders may be surfaced
	PermissionGranted
	// PermissionDenied means the user declined, or the host has no
	// notification capability at all
	PermissionDenied
)

// String returns a readable name for the permission state
func (s PermissionState) String() string {
	switch s {
	case PermissionGranted:
		return "granted"
	case PermissionDenied:
		return "denied"
	default:
		return "unset"
	}
}

// RequestOutcome is the result of an explicit permission request
type RequestOutcome int

const (
	// OutcomeGranted means the user allowed notifications
	OutcomeGranted RequestOutcome = iota
	// OutcomeDenied means the user refused notifications
	OutcomeDenied
	// OutcomeDismissed means the request could not be completed
	OutcomeDismissed
)

// PermissionSource is the host capability that owns the permission flag.
// The engine re-reads it on every operation and never caches the state,
// since the host may change it on its own.
type PermissionSource interface {
	Current() PermissionState
	Request() RequestOutcome
}

// deniedSource stands in when the host offers no notification capability
type deniedSource struct{}

func (deniedSource) Current() PermissionState { return PermissionDenied }
func (deniedSource) Request() RequestOutcome  { return OutcomeDenied }
