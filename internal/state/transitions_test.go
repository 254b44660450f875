package state

import "testing"

func TestIsTransitionAllowed(t *testing.T) {
	testCases := []struct {
		name    string
		from    Phase
		to      Phase
		allowed bool
	}{
		{"entry from idle", PhaseIdle, PhaseAwaitingAmount, true},
		{"amount accepted", PhaseAwaitingAmount, PhaseAwaitingPhone, true},
		{"amount retry", PhaseAwaitingAmount, PhaseAwaitingAmount, true},
		{"phone accepted", PhaseAwaitingPhone, PhaseAwaitingConfirmation, true},
		{"phone retry", PhaseAwaitingPhone, PhaseAwaitingPhone, true},
		{"confirmation completes", PhaseAwaitingConfirmation, PhaseCompleted, true},
		{"cancel is always allowed", PhaseAwaitingPhone, PhaseCancelled, true},
		{"restart is always allowed", PhaseAwaitingConfirmation, PhaseAwaitingAmount, true},
		{"cannot skip to confirmation", PhaseAwaitingAmount, PhaseAwaitingConfirmation, false},
		{"cannot skip to phone", PhaseIdle, PhaseAwaitingPhone, false},
		{"cannot complete early", PhaseAwaitingAmount, PhaseCompleted, false},
		{"cannot complete from idle", PhaseIdle, PhaseCompleted, false},
		{"cannot resume from completed", PhaseCompleted, PhaseAwaitingPhone, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsTransitionAllowed(tc.from, tc.to); got != tc.allowed {
				t.Fatalf("IsTransitionAllowed(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.allowed)
			}
		})
	}
}

func TestPhaseTerminal(t *testing.T) {
	for _, phase := range []Phase{PhaseIdle, PhaseAwaitingAmount, PhaseAwaitingPhone, PhaseAwaitingConfirmation} {
		if phase.Terminal() {
			t.Fatalf("phase %s should not be terminal", phase)
		}
	}

	for _, phase := range []Phase{PhaseCompleted, PhaseCancelled} {
		if !phase.Terminal() {
			t.Fatalf("phase %s should be terminal", phase)
		}
	}
}
