// Package models defines the wizard's application state aggregate and the
// fixed persistence field names it is stored under.
package models

import (
	"encoding/json"

	id "engage/pkg/domain"
)

// CustomerType is the pre-wizard choice that gates the whole flow.
type CustomerType string

const (
	CustomerTypeNew      CustomerType = "new"
	CustomerTypeExisting CustomerType = "existing"
)

// FlowVariant names the ordered step list a customer type maps to. The empty
// variant means the user has not chosen a customer type yet and the wizard is
// in the pre-wizard state.
type FlowVariant string

const (
	FlowVariantNone             FlowVariant = ""
	FlowVariantNewCustomerFull  FlowVariant = "new-customer-full"
	FlowVariantNewCustomerShort FlowVariant = "new-customer-short"
)

// Persistence field names. Each field is independently persisted; consumers
// tolerate missing fields and read them as defaults. The layout is append-only
// by convention, there is no version field.
const (
	FieldCustomerType = "customer_type"
	FieldStep         = "step"
	FieldFormData     = "form_data"
)

// Reserved top-level form data keys. Everything else is an opaque per-step
// sub-record the core stores and merges but never inspects.
const (
	KeySignupID = "signupId"
	KeyUserID   = "userId"
)

// FormData is the accumulated application record: step key to opaque
// sub-record, plus the reserved correlation keys.
type FormData map[string]json.RawMessage

// SignupID returns the correlation token stored in the record, or the zero
// value when absent.
func (f FormData) SignupID() id.SignupID {
	return id.SignupID(f.stringKey(KeySignupID))
}

// UserID returns the backend identity stored once authentication succeeded.
func (f FormData) UserID() string {
	return f.stringKey(KeyUserID)
}

// SetSignupID stores the correlation token.
func (f FormData) SetSignupID(signupID id.SignupID) {
	f[KeySignupID] = mustJSONString(signupID.String())
}

// SetUserID stores the authenticated backend identity.
func (f FormData) SetUserID(userID string) {
	f[KeyUserID] = mustJSONString(userID)
}

// Clone returns a shallow copy. Sub-records are immutable blobs, so sharing
// them between copies is safe.
func (f FormData) Clone() FormData {
	clone := make(FormData, len(f))
	for k, v := range f {
		clone[k] = v
	}
	return clone
}

// IsEmpty reports whether the record carries nothing at all.
func (f FormData) IsEmpty() bool { return len(f) == 0 }

func (f FormData) stringKey(key string) string {
	raw, ok := f[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func mustJSONString(s string) json.RawMessage {
	b, _ := json.Marshal(s)
	return b
}

// Application is the single persisted aggregate for one in-progress
// account-opening attempt.
type Application struct {
	FlowVariant FlowVariant `json:"flowVariant"`
	CurrentStep int         `json:"currentStep"`
	FormData    FormData    `json:"formData"`
}

// NewApplication returns the default state used on first load and after a
// reset: no variant chosen, first step, empty record.
func NewApplication() Application {
	return Application{
		FlowVariant: FlowVariantNone,
		CurrentStep: 1,
		FormData:    FormData{},
	}
}
