package flows

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"engage/internal/onboarding/models"
)

func TestFullFlowStepOrder(t *testing.T) {
	flow, ok := Get(models.FlowVariantNewCustomerFull)
	require.True(t, ok)
	assert.Equal(t, 13, flow.TotalSteps())

	first, ok := flow.StepAt(1)
	require.True(t, ok)
	assert.Equal(t, StepGettingReady, first)

	last, ok := flow.StepAt(flow.TotalSteps())
	require.True(t, ok)
	assert.Equal(t, StepReview, last)
}

func TestShortFlowOmitsVerificationSteps(t *testing.T) {
	flow, ok := Get(models.FlowVariantNewCustomerShort)
	require.True(t, ok)
	assert.Equal(t, 9, flow.TotalSteps())
	assert.Equal(t, 0, flow.Position(StepGettingReady))
	assert.Equal(t, 0, flow.Position(StepEmailVerification))
	assert.Equal(t, 0, flow.Position(StepMobileVerification))
	assert.Equal(t, 1, flow.Position(StepBasicInfo))
}

func TestStepAtOutOfRange(t *testing.T) {
	flow, _ := Get(models.FlowVariantNewCustomerFull)
	_, ok := flow.StepAt(0)
	assert.False(t, ok)
	_, ok = flow.StepAt(14)
	assert.False(t, ok)
}

func TestGetUnknownVariant(t *testing.T) {
	_, ok := Get(models.FlowVariantNone)
	assert.False(t, ok)
	_, ok = Get(models.FlowVariant("no-such-flow"))
	assert.False(t, ok)
}

func TestForCustomerType(t *testing.T) {
	variant, ok := ForCustomerType(models.CustomerTypeNew)
	assert.True(t, ok)
	assert.Equal(t, models.FlowVariantNewCustomerFull, variant)

	_, ok = ForCustomerType(models.CustomerTypeExisting)
	assert.False(t, ok)
}
