package fitting

// Phase is the tag of a Lifecycle value.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseRequesting Phase = "requesting"
	PhaseSucceeded  Phase = "succeeded"
	PhaseFailed     Phase = "failed"
)

// ErrorKind separates local validation failures from remote ones.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindRemote     ErrorKind = "remote"
)

// Lifecycle is the state of the generation request. It is one of Idle,
// Requesting, Succeeded or Failed; no other implementations exist.
type Lifecycle interface {
	Phase() Phase
	sealed()
}

// Idle means no request has been made yet.
type Idle struct{}

// Requesting means exactly one generation call is in flight.
type Requesting struct{}

// Succeeded carries the generated image reference, a data URL.
type Succeeded struct {
	Image string
}

// Failed carries a human-readable message.
type Failed struct {
	Message string
	Kind    ErrorKind
}

func (Idle) Phase() Phase       { return PhaseIdle }
func (Requesting) Phase() Phase { return PhaseRequesting }
func (Succeeded) Phase() Phase  { return PhaseSucceeded }
func (Failed) Phase() Phase     { return PhaseFailed }

func (Idle) sealed()       {}
func (Requesting) sealed() {}
func (Succeeded) sealed()  {}
func (Failed) sealed()     {}
