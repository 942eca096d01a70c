// Package flows defines the ordered step lists behind each flow variant and
// the conditional visibility rules step screens evaluate against accumulated
// answers.
package flows

import (
	"engage/internal/onboarding/models"
)

// StepKey names one wizard screen. The key doubles as the top-level form data
// key the step's sub-record is accumulated under.
type StepKey string

const (
	StepGettingReady       StepKey = "gettingReady"
	StepBasicInfo          StepKey = "basicInfo"
	StepEmailVerification  StepKey = "emailVerification"
	StepMobileVerification StepKey = "mobileVerification"
	StepAddress            StepKey = "address"
	StepEmployment         StepKey = "employment"
	StepIDDocuments        StepKey = "idInfo"
	StepPEP                StepKey = "pep"
	StepForeignNational    StepKey = "foreignNational"
	StepPowerOfAttorney    StepKey = "poa"
	StepBeneficiary        StepKey = "beneficiary"
	StepDeclaration        StepKey = "declaration"
	StepReview             StepKey = "review"
)

// Flow is one variant's fixed, ordered step list. Conditional visibility never
// changes this list; position arithmetic in the sequencer is always over the
// full list.
type Flow struct {
	Variant models.FlowVariant
	Steps   []StepKey
}

var flows = map[models.FlowVariant]Flow{
	models.FlowVariantNewCustomerFull: {
		Variant: models.FlowVariantNewCustomerFull,
		Steps: []StepKey{
			StepGettingReady,
			StepBasicInfo,
			StepEmailVerification,
			StepMobileVerification,
			StepAddress,
			StepEmployment,
			StepIDDocuments,
			StepPEP,
			StepForeignNational,
			StepPowerOfAttorney,
			StepBeneficiary,
			StepDeclaration,
			StepReview,
		},
	},
	models.FlowVariantNewCustomerShort: {
		Variant: models.FlowVariantNewCustomerShort,
		Steps: []StepKey{
			StepBasicInfo,
			StepAddress,
			StepIDDocuments,
			StepPEP,
			StepForeignNational,
			StepPowerOfAttorney,
			StepBeneficiary,
			StepDeclaration,
			StepReview,
		},
	},
}

// Get returns the flow for a variant.
func Get(variant models.FlowVariant) (Flow, bool) {
	f, ok := flows[variant]
	return f, ok
}

// ForCustomerType maps the customer-type choice to its variant. Only new
// customers enter the wizard; existing customers are redirected out.
func ForCustomerType(t models.CustomerType) (models.FlowVariant, bool) {
	if t == models.CustomerTypeNew {
		return models.FlowVariantNewCustomerFull, true
	}
	return models.FlowVariantNone, false
}

// TotalSteps returns the length of the fixed step list.
func (f Flow) TotalSteps() int { return len(f.Steps) }

// StepAt returns the step at a 1-indexed position.
func (f Flow) StepAt(position int) (StepKey, bool) {
	if position < 1 || position > len(f.Steps) {
		return "", false
	}
	return f.Steps[position-1], true
}

// Position returns the 1-indexed position of a step key, or 0 when the flow
// does not contain it.
func (f Flow) Position(key StepKey) int {
	for i, s := range f.Steps {
		if s == key {
			return i + 1
		}
	}
	return 0
}
