package status

import (
	"fmt"

	"github.com/jbweber/keyforge/api/v1alpha1"
)

// TransitionToDefined moves the phase to Defined after a successful
// definition. Defining is idempotent, so any phase is a valid source; a
// secret that is already Ready stays Ready because redefining metadata
// does not touch the stored value.
func TransitionToDefined(sec *v1alpha1.Secret) {
	if sec.GetPhase() == v1alpha1.SecretPhaseReady {
		return
	}
	sec.SetPhase(v1alpha1.SecretPhaseDefined)
}

// TransitionToReady moves the phase to Ready once a value upload has
// succeeded. Only a Defined (or already Ready) secret qualifies; an upload
// cannot have succeeded against an undefined one.
func TransitionToReady(sec *v1alpha1.Secret) error {
	phase := sec.GetPhase()
	if phase != v1alpha1.SecretPhaseDefined && phase != v1alpha1.SecretPhaseReady {
		return fmt.Errorf("cannot transition to Ready from phase %s", phase)
	}

	sec.SetPhase(v1alpha1.SecretPhaseReady)
	MarkValueSet(sec)
	sec.UpdateObservedGeneration()
	return nil
}

// TransitionToFailed moves the phase to Failed from anywhere, recording
// the failure on the Defined condition.
func TransitionToFailed(sec *v1alpha1.Secret, reason, message string) {
	sec.SetPhase(v1alpha1.SecretPhaseFailed)
	SetCondition(sec, v1alpha1.ConditionDefined, v1alpha1.ConditionFalse, reason, message)
}

// IsTerminal reports whether the phase needs intervention before the
// secret will transition again.
func IsTerminal(phase v1alpha1.SecretPhase) bool {
	return phase == v1alpha1.SecretPhaseFailed
}

// IsReady reports whether the secret is defined with its value set.
func IsReady(phase v1alpha1.SecretPhase) bool {
	return phase == v1alpha1.SecretPhaseReady
}

// IsDefined reports whether the secret exists on the hypervisor, with or
// without a value.
func IsDefined(phase v1alpha1.SecretPhase) bool {
	return phase == v1alpha1.SecretPhaseDefined || phase == v1alpha1.SecretPhaseReady
}
