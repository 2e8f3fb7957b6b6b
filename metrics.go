package lessonstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Metrics owns the anonymous analytics identifier.
type Metrics struct {
	store Store
}

// NewMetrics creates the metrics identity accessor.
func NewMetrics(store Store) *Metrics {
	return &Metrics{store: store}
}

// Token returns the persisted metrics token, generating and storing a fresh
// UUID on first use. Two concurrent first calls can both generate; the last
// write wins and the tokens converge on the next read.
func (m *Metrics) Token(ctx context.Context) (string, error) {
	token, found, err := m.store.Get(ctx, metricsTokenKey)
	if err != nil {
		return "", fmt.Errorf("reading metrics token: %w", err)
	}
	if found {
		return token, nil
	}

	token = uuid.NewString()
	if err := m.store.Set(ctx, metricsTokenKey, token); err != nil {
		return "", fmt.Errorf("storing metrics token: %w", err)
	}
	return token, nil
}

// DeleteToken removes the identifier, e.g. on data-collection opt-out. The
// next Token call mints a new one.
func (m *Metrics) DeleteToken(ctx context.Context) error {
	if err := m.store.Delete(ctx, metricsTokenKey); err != nil {
		return fmt.Errorf("deleting metrics token: %w", err)
	}
	return nil
}
