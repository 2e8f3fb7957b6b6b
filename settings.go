package lessonstore

import (
	"context"
	"encoding/json"
	"fmt"
)

// AutopauseMode selects how playback pauses itself.
type AutopauseMode string

const (
	AutopauseOff    AutopauseMode = "off"
	AutopauseTimed  AutopauseMode = "timed"
	AutopauseManual AutopauseMode = "manual"
)

// Autopause is the app-wide autopause setting stored under
// @global-setting/autopause. TimedDelay is meaningful only for the timed mode
// and is omitted from the stored JSON otherwise.
type Autopause struct {
	Type       AutopauseMode `json:"type"`
	TimedDelay float64       `json:"timedDelay,omitempty"`
}

// Autopause returns the stored setting; found is false when the user never
// configured it.
func (p *Preferences) Autopause(ctx context.Context) (Autopause, bool, error) {
	raw, found, err := p.store.Get(ctx, autopauseKey)
	if err != nil {
		return Autopause{}, false, fmt.Errorf("reading autopause setting: %w", err)
	}
	if !found {
		return Autopause{}, false, nil
	}
	var a Autopause
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return Autopause{}, false, &DecodeError{Key: autopauseKey, Err: err}
	}
	return a, true, nil
}

// SetAutopause persists the setting. It is a global setting, not a
// preference, so no preference-change event is emitted.
func (p *Preferences) SetAutopause(ctx context.Context, a Autopause) error {
	buf, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encoding autopause setting: %w", err)
	}
	if err := p.store.Set(ctx, autopauseKey, string(buf)); err != nil {
		return fmt.Errorf("writing autopause setting: %w", err)
	}
	return nil
}
