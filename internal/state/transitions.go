package state

// validTransitions contains the permitted forward transitions in the deposit flow.
var validTransitions = map[Phase][]Phase{
	PhaseIdle: {
		PhaseAwaitingAmount,
	},
	PhaseAwaitingAmount: {
		PhaseAwaitingAmount,
		PhaseAwaitingPhone,
	},
	PhaseAwaitingPhone: {
		PhaseAwaitingPhone,
		PhaseAwaitingConfirmation,
	},
	PhaseAwaitingConfirmation: {
		PhaseCompleted,
	},
}

// IsTransitionAllowed reports whether moving from one phase to another is valid.
// Cancellation is always allowed, and the entry command may restart the flow
// from any phase, so PhaseCancelled and PhaseAwaitingAmount are universal targets.
func IsTransitionAllowed(from, to Phase) bool {
	if to == PhaseCancelled || to == PhaseAwaitingAmount || to == PhaseIdle {
		return true
	}

	allowed, ok := validTransitions[from]
	if !ok {
		return false
	}

	for _, phase := range allowed {
		if phase == to {
			return true
		}
	}

	return false
}
