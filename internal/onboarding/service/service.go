// Package service orchestrates the account-opening wizard: the resume check
// on load, flow variant selection, step submission with merge-and-advance,
// backward navigation, and final submission.
package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"engage/internal/backend"
	"engage/internal/onboarding/flows"
	"engage/internal/onboarding/metrics"
	"engage/internal/onboarding/models"
	"engage/internal/onboarding/resume"
	"engage/internal/onboarding/statestore"
	"engage/internal/onboarding/wizard"
	id "engage/pkg/domain"
	dErrors "engage/pkg/domain-errors"
	audit "engage/pkg/platform/audit"
)

// Auditor is the audit emission port.
type Auditor interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Service struct {
	state       *statestore.Persistent
	accumulator *wizard.Accumulator
	visibility  *flows.Evaluator
	sessions    resume.Sessions
	records     backend.RecordStore
	auditor     Auditor
	metrics     *metrics.Metrics
	logger      *slog.Logger
	now         func() time.Time
}

func NewService(
	state *statestore.Persistent,
	accumulator *wizard.Accumulator,
	visibility *flows.Evaluator,
	sessions resume.Sessions,
	records backend.RecordStore,
	auditor Auditor,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Service {
	return &Service{
		state:       state,
		accumulator: accumulator,
		visibility:  visibility,
		sessions:    sessions,
		records:     records,
		auditor:     auditor,
		metrics:     m,
		logger:      logger,
		now:         time.Now,
	}
}

// WithClock overrides the service clock. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CheckResult is the outcome of the on-load session check.
type CheckResult struct {
	State       resume.State
	Application models.Application
}

// CheckSession runs the one-shot resume check for a client. Stale state is
// silently replaced with a fresh application; a resumable application is
// reported without being touched, leaving the continue-or-discard choice to
// the client.
func (s *Service) CheckSession(ctx context.Context, clientKey, token string) CheckResult {
	app := s.state.Load(ctx, clientKey)
	outcome := resume.Evaluate(ctx, s.sessions, app, token)

	if outcome.Reset {
		fresh := s.reset(ctx, clientKey, app, outcome.Reason)
		return CheckResult{State: resume.StateActive, Application: fresh}
	}
	return CheckResult{State: outcome.State, Application: s.clamped(app)}
}

// Resume continues a previously abandoned application. It re-runs the
// eligibility check so the endpoint cannot revive state the check would have
// reset.
func (s *Service) Resume(ctx context.Context, clientKey, token string) (models.Application, error) {
	app := s.state.Load(ctx, clientKey)
	outcome := resume.Evaluate(ctx, s.sessions, app, token)
	if outcome.State != resume.StatePrompt {
		if outcome.Reset {
			s.reset(ctx, clientKey, app, outcome.Reason)
		}
		return models.Application{}, dErrors.New(dErrors.CodeConflict, "no resumable application")
	}

	s.metrics.ApplicationsResumed.Inc()
	_ = s.auditor.Emit(ctx, audit.Event{
		Action:    audit.ActionApplicationResumed,
		SignupID:  app.FormData.SignupID(),
		UserID:    app.FormData.UserID(),
		ClientKey: clientKey,
	})
	return s.clamped(app), nil
}

// Discard abandons the persisted application and starts over.
func (s *Service) Discard(ctx context.Context, clientKey string) models.Application {
	app := s.state.Load(ctx, clientKey)

	s.state.Clear(ctx, clientKey)
	s.metrics.ApplicationsDiscarded.Inc()
	_ = s.auditor.Emit(ctx, audit.Event{
		Action:    audit.ActionApplicationDiscarded,
		SignupID:  app.FormData.SignupID(),
		ClientKey: clientKey,
	})
	return models.NewApplication()
}

// SelectResult is the outcome of the customer-type choice.
type SelectResult struct {
	Application models.Application
	// Redirect is set when the choice routes the user out of the wizard
	// instead of into a flow.
	Redirect string
}

// SelectCustomerType maps the pre-wizard choice onto a flow variant. Existing
// customers are routed to login and the wizard state is left untouched. New
// customers get a flow, a freshly minted signup ID, and position one.
func (s *Service) SelectCustomerType(ctx context.Context, clientKey string, customerType models.CustomerType) (SelectResult, error) {
	switch customerType {
	case models.CustomerTypeNew, models.CustomerTypeExisting:
	default:
		return SelectResult{}, dErrors.New(dErrors.CodeInvalidInput, "unknown customer type")
	}

	variant, ok := flows.ForCustomerType(customerType)
	if !ok {
		return SelectResult{Redirect: "login"}, nil
	}

	app := s.state.Load(ctx, clientKey)
	app.FlowVariant = variant
	app.CurrentStep = 1
	if app.FormData.SignupID().IsZero() {
		app.FormData.SetSignupID(id.NewSignupID(s.now()))
	}
	s.state.SaveAll(ctx, clientKey, app)

	s.metrics.ApplicationsStarted.Inc()
	_ = s.auditor.Emit(ctx, audit.Event{
		Action:    audit.ActionApplicationStarted,
		SignupID:  app.FormData.SignupID(),
		ClientKey: clientKey,
	})
	return SelectResult{Application: app}, nil
}

// Application returns the current state with the position clamped into the
// active flow's valid range.
func (s *Service) Application(ctx context.Context, clientKey string) models.Application {
	return s.clamped(s.state.Load(ctx, clientKey))
}

// SubmitStep accepts one step's validated answers: the sub-record is merged
// into the accumulated form data and the position advances by one. The step
// key must match the active position; out-of-order submissions conflict.
// authenticatedUserID, when present, is stamped into the record so later
// loads can check session identity.
func (s *Service) SubmitStep(ctx context.Context, clientKey string, stepKey flows.StepKey, payload json.RawMessage, authenticatedUserID string) (models.Application, error) {
	app := s.state.Load(ctx, clientKey)
	flow, ok := flows.Get(app.FlowVariant)
	if !ok {
		return models.Application{}, dErrors.New(dErrors.CodeConflict, "no flow selected")
	}

	seq := wizard.NewSequencer(app.CurrentStep, flow.TotalSteps())
	if seq.Completed() {
		return models.Application{}, dErrors.New(dErrors.CodeConflict, "application is already complete")
	}
	active, _ := flow.StepAt(seq.Current())
	if active != stepKey {
		return models.Application{}, dErrors.New(dErrors.CodeConflict, "step is not the active step")
	}

	partial := map[string]json.RawMessage{string(stepKey): payload}
	app.FormData = s.accumulator.Merge(ctx, clientKey, app.FormData, partial)
	if authenticatedUserID != "" && app.FormData.UserID() == "" {
		app.FormData.SetUserID(authenticatedUserID)
		s.state.SaveFormData(ctx, clientKey, app.FormData)
	}

	seq = seq.Advance()
	app.CurrentStep = seq.Current()
	s.state.SaveStep(ctx, clientKey, app.CurrentStep)

	s.metrics.StepsSubmitted.WithLabelValues(string(stepKey)).Inc()
	_ = s.auditor.Emit(ctx, audit.Event{
		Action:    audit.ActionStepSubmitted,
		SignupID:  app.FormData.SignupID(),
		UserID:    app.FormData.UserID(),
		ClientKey: clientKey,
		Step:      string(stepKey),
	})
	return app, nil
}

// Retreat moves back one step. Accumulated data is untouched, so returning
// forward re-renders prior answers.
func (s *Service) Retreat(ctx context.Context, clientKey string) (models.Application, error) {
	app := s.state.Load(ctx, clientKey)
	flow, ok := flows.Get(app.FlowVariant)
	if !ok {
		return models.Application{}, dErrors.New(dErrors.CodeConflict, "no flow selected")
	}

	seq := wizard.NewSequencer(app.CurrentStep, flow.TotalSteps()).Retreat()
	app.CurrentStep = seq.Current()
	s.state.SaveStep(ctx, clientKey, app.CurrentStep)
	return app, nil
}

// JumpTo moves directly to a previously visited position. Forward jumps are
// ignored and report the unchanged state.
func (s *Service) JumpTo(ctx context.Context, clientKey string, position int) (models.Application, error) {
	app := s.state.Load(ctx, clientKey)
	flow, ok := flows.Get(app.FlowVariant)
	if !ok {
		return models.Application{}, dErrors.New(dErrors.CodeConflict, "no flow selected")
	}

	seq := wizard.NewSequencer(app.CurrentStep, flow.TotalSteps()).JumpTo(position)
	app.CurrentStep = seq.Current()
	s.state.SaveStep(ctx, clientKey, app.CurrentStep)
	return app, nil
}

// Visibility evaluates the conditional sections of a step against the
// accumulated answers.
func (s *Service) Visibility(ctx context.Context, clientKey string, stepKey flows.StepKey) map[string]bool {
	app := s.state.Load(ctx, clientKey)
	return s.visibility.VisibleSections(stepKey, app.FormData)
}

// Submit performs the final submission from the review step: the durable
// backend records are written, the position moves to the terminal marker,
// and the wizard renders the success screen. Requires an authenticated user.
func (s *Service) Submit(ctx context.Context, clientKey, authenticatedUserID string) (models.Application, error) {
	userID, err := id.ParseUserID(authenticatedUserID)
	if err != nil {
		return models.Application{}, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}

	app := s.state.Load(ctx, clientKey)
	flow, ok := flows.Get(app.FlowVariant)
	if !ok {
		return models.Application{}, dErrors.New(dErrors.CodeConflict, "no flow selected")
	}
	seq := wizard.NewSequencer(app.CurrentStep, flow.TotalSteps())
	if seq.Completed() {
		return models.Application{}, dErrors.New(dErrors.CodeConflict, "application is already complete")
	}
	if active, _ := flow.StepAt(seq.Current()); active != flows.StepReview {
		return models.Application{}, dErrors.New(dErrors.CodeConflict, "submission is only allowed from the review step")
	}
	signupID := app.FormData.SignupID()
	if signupID.IsZero() {
		return models.Application{}, dErrors.New(dErrors.CodeConflict, "application has no signup id")
	}

	if err := s.writeRecords(ctx, userID, signupID, app.FormData); err != nil {
		return models.Application{}, dErrors.Wrap(dErrors.CodeUnavailable, "writing application records", err)
	}

	seq = seq.Advance()
	app.CurrentStep = seq.Current()
	s.state.SaveStep(ctx, clientKey, app.CurrentStep)

	s.metrics.ApplicationsSubmitted.Inc()
	_ = s.auditor.Emit(ctx, audit.Event{
		Action:    audit.ActionApplicationSubmitted,
		SignupID:  signupID,
		UserID:    userID.String(),
		ClientKey: clientKey,
	})
	return app, nil
}

// recordSteps maps step sub-records worth their own backend record onto
// record types. Everything else rides along in the application snapshot.
var recordSteps = map[flows.StepKey]backend.RecordType{
	flows.StepBasicInfo:  backend.RecordProfile,
	flows.StepAddress:    backend.RecordAddress,
	flows.StepEmployment: backend.RecordEmployment,
}

// writeRecords fans the final snapshot out into backend records. Upserts are
// independent and idempotent, so a partial failure is safely retried by
// re-submitting.
func (s *Service) writeRecords(ctx context.Context, userID id.UserID, signupID id.SignupID, formData models.FormData) error {
	now := s.now()
	group, groupCtx := errgroup.WithContext(ctx)

	snapshot, err := json.Marshal(formData)
	if err != nil {
		return err
	}
	group.Go(func() error {
		return s.records.Upsert(groupCtx, backend.Record{
			UserID:    userID,
			SignupID:  signupID,
			Type:      backend.RecordApplication,
			Payload:   snapshot,
			UpdatedAt: now,
		})
	})

	for stepKey, recordType := range recordSteps {
		payload, ok := formData[string(stepKey)]
		if !ok {
			continue
		}
		group.Go(func() error {
			return s.records.Upsert(groupCtx, backend.Record{
				UserID:    userID,
				SignupID:  signupID,
				Type:      recordType,
				Payload:   payload,
				UpdatedAt: now,
			})
		})
	}
	return group.Wait()
}

// reset silently replaces stale state with a fresh application.
func (s *Service) reset(ctx context.Context, clientKey string, stale models.Application, reason string) models.Application {
	s.state.Clear(ctx, clientKey)
	fresh := models.NewApplication()
	s.state.SaveAll(ctx, clientKey, fresh)

	s.metrics.StaleStateResets.Inc()
	_ = s.auditor.Emit(ctx, audit.Event{
		Action:    audit.ActionStaleStateReset,
		SignupID:  stale.FormData.SignupID(),
		ClientKey: clientKey,
		Reason:    reason,
	})
	s.logger.InfoContext(ctx, "stale wizard state reset",
		"client_key", clientKey, "reason", reason)
	return fresh
}

// clamped normalizes a loaded position into the active flow's range. Without
// a flow there is nothing to clamp against.
func (s *Service) clamped(app models.Application) models.Application {
	flow, ok := flows.Get(app.FlowVariant)
	if !ok {
		app.CurrentStep = 1
		return app
	}
	app.CurrentStep = wizard.NewSequencer(app.CurrentStep, flow.TotalSteps()).Current()
	return app
}
