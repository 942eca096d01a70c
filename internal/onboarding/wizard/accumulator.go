package wizard

import (
	"context"
	"encoding/json"

	"engage/internal/onboarding/models"
	"engage/internal/onboarding/statestore"
)

// Accumulator merges per-step partial results into the single application
// record. Every merge immediately snapshots the full record through the
// persistent store, so no explicit save step exists anywhere in the wizard.
type Accumulator struct {
	state *statestore.Persistent
}

func NewAccumulator(state *statestore.Persistent) *Accumulator {
	return &Accumulator{state: state}
}

// Merge performs a shallow top-level merge: keys present in partial overwrite
// the accumulated record, keys absent stay untouched. Sub-records are never
// deep-merged; each step submits its complete sub-record. The returned record
// is a new value, the input is not mutated.
func (a *Accumulator) Merge(ctx context.Context, clientKey string, base models.FormData, partial map[string]json.RawMessage) models.FormData {
	merged := base.Clone()
	if merged == nil {
		merged = models.FormData{}
	}
	for key, value := range partial {
		merged[key] = value
	}
	a.state.SaveFormData(ctx, clientKey, merged)
	return merged
}
