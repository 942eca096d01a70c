package statestore

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"

	"engage/internal/onboarding/models"
)

// Persistent applies the wizard's fail-soft persistence policy on top of a raw
// Store: reads that fail for any reason (missing backend, corrupt value) fall
// back to defaults with a logged diagnostic, and failed writes are logged and
// swallowed so the in-memory state stays authoritative for the session.
// Storage glitches never block the wizard.
type Persistent struct {
	store  Store
	logger *slog.Logger
}

func NewPersistent(store Store, logger *slog.Logger) *Persistent {
	return &Persistent{store: store, logger: logger}
}

// Load reconstructs the application state for a client key. Each field is
// read independently; a failure in one leaves the others intact.
func (p *Persistent) Load(ctx context.Context, clientKey string) models.Application {
	app := models.NewApplication()

	if raw, ok := p.read(ctx, clientKey, models.FieldCustomerType); ok {
		app.FlowVariant = models.FlowVariant(string(raw))
	}
	if raw, ok := p.read(ctx, clientKey, models.FieldStep); ok {
		step, err := strconv.Atoi(string(raw))
		if err != nil {
			p.logger.WarnContext(ctx, "corrupt persisted step, falling back to default",
				"client_key", clientKey, "error", err)
		} else {
			app.CurrentStep = step
		}
	}
	if raw, ok := p.read(ctx, clientKey, models.FieldFormData); ok {
		var formData models.FormData
		if err := json.Unmarshal(raw, &formData); err != nil {
			p.logger.WarnContext(ctx, "corrupt persisted form data, falling back to default",
				"client_key", clientKey, "error", err)
		} else if formData != nil {
			app.FormData = formData
		}
	}
	return app
}

// SaveFlowVariant persists the flow-variant flag.
func (p *Persistent) SaveFlowVariant(ctx context.Context, clientKey string, variant models.FlowVariant) {
	p.write(ctx, clientKey, models.FieldCustomerType, []byte(variant))
}

// SaveStep persists the current step position.
func (p *Persistent) SaveStep(ctx context.Context, clientKey string, step int) {
	p.write(ctx, clientKey, models.FieldStep, []byte(strconv.Itoa(step)))
}

// SaveFormData snapshots the full accumulated record.
func (p *Persistent) SaveFormData(ctx context.Context, clientKey string, formData models.FormData) {
	raw, err := json.Marshal(formData)
	if err != nil {
		p.logger.WarnContext(ctx, "dropping form data write, marshal failed",
			"client_key", clientKey, "error", err)
		return
	}
	p.write(ctx, clientKey, models.FieldFormData, raw)
}

// SaveAll snapshots the whole aggregate as three independent writes. There is
// no atomicity across them.
func (p *Persistent) SaveAll(ctx context.Context, clientKey string, app models.Application) {
	p.SaveFlowVariant(ctx, clientKey, app.FlowVariant)
	p.SaveStep(ctx, clientKey, app.CurrentStep)
	p.SaveFormData(ctx, clientKey, app.FormData)
}

// Clear drops every persisted field for the client key.
func (p *Persistent) Clear(ctx context.Context, clientKey string) {
	if err := p.store.Clear(ctx, clientKey); err != nil {
		p.logger.WarnContext(ctx, "dropping state clear, store failed",
			"client_key", clientKey, "error", err)
	}
}

func (p *Persistent) read(ctx context.Context, clientKey, field string) ([]byte, bool) {
	raw, ok, err := p.store.Read(ctx, clientKey, field)
	if err != nil {
		p.logger.WarnContext(ctx, "state read failed, falling back to default",
			"client_key", clientKey, "field", field, "error", err)
		return nil, false
	}
	return raw, ok
}

func (p *Persistent) write(ctx context.Context, clientKey, field string, value []byte) {
	if err := p.store.Write(ctx, clientKey, field, value); err != nil {
		p.logger.WarnContext(ctx, "dropping state write, store failed",
			"client_key", clientKey, "field", field, "error", err)
	}
}
