package lifecycle

// Phase is the orchestrator's position within one operation.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseIdentitySet
	PhaseStateSwapped
	PhaseProvisioning
	PhaseReverting
)

func (p Phase) String() string {
	switch p {
	case PhaseIdentitySet:
		return "IdentitySet"
	case PhaseStateSwapped:
		return "StateSwapped"
	case PhaseProvisioning:
		return "Provisioning"
	case PhaseReverting:
		return "Reverting"
	default:
		return "Idle"
	}
}

// Operation names a lifecycle call.
type Operation string

const (
	OpBringUp   Operation = "bringup"
	OpBringDown Operation = "bringdown"
)
