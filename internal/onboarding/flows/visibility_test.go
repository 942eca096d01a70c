package flows

import (
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"engage/internal/onboarding/models"
)

func newEvaluator(t *testing.T) *Evaluator {
	t.Helper()
	e, err := NewEvaluator(slog.Default(), DefaultRules)
	require.NoError(t, err)
	e.now = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }
	return e
}

func formData(t *testing.T, pairs map[string]string) models.FormData {
	t.Helper()
	out := models.FormData{}
	for key, raw := range pairs {
		out[key] = json.RawMessage(raw)
	}
	return out
}

func TestEmployerDetailsVisibleWhenEmployed(t *testing.T) {
	e := newEvaluator(t)

	for status, want := range map[string]bool{
		"Employed":      true,
		"Self-Employed": true,
		"Unemployed":    false,
		"Retired":       false,
	} {
		sections := e.VisibleSections(StepEmployment, formData(t, map[string]string{
			"employment": `{"status":"` + status + `"}`,
		}))
		assert.Equal(t, want, sections["employerDetails"], "status %s", status)
	}
}

func TestEmployerDetailsHiddenWithoutAnswer(t *testing.T) {
	e := newEvaluator(t)
	sections := e.VisibleSections(StepEmployment, models.FormData{})
	assert.False(t, sections["employerDetails"])
}

func TestSchoolNameOnlyForMinors(t *testing.T) {
	e := newEvaluator(t)

	minor := e.VisibleSections(StepEmployment, formData(t, map[string]string{
		"basicInfo": `{"dateOfBirth":"2010-01-15"}`,
	}))
	assert.True(t, minor["schoolName"])

	adult := e.VisibleSections(StepEmployment, formData(t, map[string]string{
		"basicInfo": `{"dateOfBirth":"1990-01-15"}`,
	}))
	assert.False(t, adult["schoolName"])
}

func TestMalformedDateReadsAsAdult(t *testing.T) {
	e := newEvaluator(t)

	for name, raw := range map[string]string{
		"garbage date": `{"dateOfBirth":"not-a-date"}`,
		"empty date":   `{"dateOfBirth":""}`,
		"no date":      `{}`,
		"broken blob":  `{broken`,
	} {
		sections := e.VisibleSections(StepEmployment, formData(t, map[string]string{
			"basicInfo": raw,
		}))
		assert.False(t, sections["schoolName"], name)
	}
}

func TestRulesScopedToStep(t *testing.T) {
	e := newEvaluator(t)
	sections := e.VisibleSections(StepAddress, formData(t, map[string]string{
		"employment": `{"status":"Employed"}`,
	}))
	assert.Empty(t, sections)
}

func TestBadRuleFailsCompile(t *testing.T) {
	_, err := NewEvaluator(slog.Default(), []VisibilityRule{
		{Step: StepAddress, Section: "broken", Expression: `formData?.x ==`},
	})
	require.Error(t, err)
}
