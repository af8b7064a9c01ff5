// Package status maintains the status block of a Secret resource: the
// lifecycle phase and the Defined/ValueSet conditions that record what has
// reached the hypervisor.
package status

import (
	"slices"
	"time"

	"github.com/jbweber/keyforge/api/v1alpha1"
)

// SetCondition upserts a condition by type. LastTransitionTime moves only
// when the status actually flips, so repeated updates with the same status
// keep the original transition point.
func SetCondition(sec *v1alpha1.Secret, condType string, condStatus v1alpha1.ConditionStatus, reason, message string) {
	cond := GetCondition(sec, condType)
	if cond == nil {
		sec.Status.Conditions = append(sec.Status.Conditions, v1alpha1.Condition{
			Type:               condType,
			LastTransitionTime: v1alpha1.Time{Time: time.Now()},
		})
		cond = &sec.Status.Conditions[len(sec.Status.Conditions)-1]
	} else if cond.Status != condStatus {
		cond.LastTransitionTime = v1alpha1.Time{Time: time.Now()}
	}

	cond.Status = condStatus
	cond.Reason = reason
	cond.Message = message
	cond.ObservedGeneration = sec.Generation
}

// GetCondition returns the condition with the given type, or nil. The
// pointer aliases the status slice, so writes through it stick.
func GetCondition(sec *v1alpha1.Secret, condType string) *v1alpha1.Condition {
	i := slices.IndexFunc(sec.Status.Conditions, func(c v1alpha1.Condition) bool {
		return c.Type == condType
	})
	if i < 0 {
		return nil
	}
	return &sec.Status.Conditions[i]
}

// IsConditionTrue reports whether the condition exists with status True.
func IsConditionTrue(sec *v1alpha1.Secret, condType string) bool {
	cond := GetCondition(sec, condType)
	return cond != nil && cond.Status == v1alpha1.ConditionTrue
}

// IsConditionFalse reports whether the condition exists with status False.
func IsConditionFalse(sec *v1alpha1.Secret, condType string) bool {
	cond := GetCondition(sec, condType)
	return cond != nil && cond.Status == v1alpha1.ConditionFalse
}

// RemoveCondition drops the condition with the given type, if present.
func RemoveCondition(sec *v1alpha1.Secret, condType string) {
	sec.Status.Conditions = slices.DeleteFunc(sec.Status.Conditions, func(c v1alpha1.Condition) bool {
		return c.Type == condType
	})
}

// MarkDefined records that the secret object exists on the hypervisor.
func MarkDefined(sec *v1alpha1.Secret) {
	SetCondition(sec, v1alpha1.ConditionDefined, v1alpha1.ConditionTrue, "SecretDefined", "Secret is defined on the hypervisor")
}

// MarkDefineFailed records a failed define and moves the phase to Failed.
func MarkDefineFailed(sec *v1alpha1.Secret, err error) {
	SetCondition(sec, v1alpha1.ConditionDefined, v1alpha1.ConditionFalse, "DefineFailed", err.Error())
	sec.SetPhase(v1alpha1.SecretPhaseFailed)
}

// MarkValueSet records that the secret value has been uploaded.
func MarkValueSet(sec *v1alpha1.Secret) {
	SetCondition(sec, v1alpha1.ConditionValueSet, v1alpha1.ConditionTrue, "ValueUploaded", "Secret value has been set")
}

// MarkValueFailed records a failed value upload and moves the phase to
// Failed.
func MarkValueFailed(sec *v1alpha1.Secret, err error) {
	SetCondition(sec, v1alpha1.ConditionValueSet, v1alpha1.ConditionFalse, "ValueSetFailed", err.Error())
	sec.SetPhase(v1alpha1.SecretPhaseFailed)
}

// MarkReady records both conditions True and moves the phase to Ready, for
// flows that define a secret and upload its value in one step.
func MarkReady(sec *v1alpha1.Secret) {
	MarkDefined(sec)
	MarkValueSet(sec)
	sec.SetPhase(v1alpha1.SecretPhaseReady)
	sec.UpdateObservedGeneration()
}
