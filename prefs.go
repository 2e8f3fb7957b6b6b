package lessonstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
)

// Preferences binds the preference descriptors to a store and a telemetry
// sink. events may be nil, in which case preference changes are not reported.
type Preferences struct {
	store  Store
	events EventLogger
}

// NewPreferences creates the preference accessor.
func NewPreferences(store Store, events EventLogger) *Preferences {
	return &Preferences{store: store, events: events}
}

// Pref is a typed preference descriptor: a name, a default returned while the
// key is unset, and the encode/decode pair for the stored string form. The
// known preferences are package-level descriptors built at init; nothing
// creates descriptors at request time.
type Pref[T any] struct {
	name   string
	def    T
	encode func(T) string
	decode func(string) (T, error)
}

// Name returns the preference's storage name (the part after @preferences/).
func (p Pref[T]) Name() string { return p.name }

// Default returns the value reported while no value is stored.
func (p Pref[T]) Default() T { return p.def }

// Get reads the preference. An unset key yields the default without
// persisting it; a stored value is decoded, and a value that does not decode
// surfaces as a *DecodeError.
func (p Pref[T]) Get(ctx context.Context, prefs *Preferences) (T, error) {
	var zero T
	raw, found, err := prefs.store.Get(ctx, preferenceKey(p.name))
	if err != nil {
		return zero, fmt.Errorf("reading preference %q: %w", p.name, err)
	}
	if !found {
		return p.def, nil
	}
	v, err := p.decode(raw)
	if err != nil {
		return zero, &DecodeError{Key: preferenceKey(p.name), Err: err}
	}
	return v, nil
}

// Set encodes and persists the value, then reports the change. The event is
// emitted only after the write completes so that a sink consulting
// allow-data-collection sees the value that was just stored, including when
// that preference is itself the one being changed.
func (p Pref[T]) Set(ctx context.Context, prefs *Preferences, value T) error {
	encoded := p.encode(value)
	if err := prefs.store.Set(ctx, preferenceKey(p.name), encoded); err != nil {
		return fmt.Errorf("writing preference %q: %w", p.name, err)
	}
	if prefs.events != nil {
		prefs.events.Log(Event{Name: "preference_changed", Preference: p.name, Value: encoded})
	}
	return nil
}

// GetString returns the preference in its stored string form (the default is
// encoded on the fly when nothing is stored).
func (p Pref[T]) GetString(ctx context.Context, prefs *Preferences) (string, error) {
	v, err := p.Get(ctx, prefs)
	if err != nil {
		return "", err
	}
	return p.encode(v), nil
}

// SetString decodes raw through the preference's codec and stores it via Set,
// so invalid input is rejected before anything is written.
func (p Pref[T]) SetString(ctx context.Context, prefs *Preferences, raw string) error {
	v, err := p.decode(raw)
	if err != nil {
		return &DecodeError{Key: preferenceKey(p.name), Err: err}
	}
	return p.Set(ctx, prefs, v)
}

// RegisteredPref is the untyped view of a descriptor, used by callers that
// only have a preference name (the daemon's HTTP surface).
type RegisteredPref interface {
	Name() string
	GetString(ctx context.Context, prefs *Preferences) (string, error)
	SetString(ctx context.Context, prefs *Preferences, raw string) error
}

var registry = make(map[string]RegisteredPref)

// LookupPreference resolves a known preference by name.
func LookupPreference(name string) (RegisteredPref, bool) {
	p, ok := registry[name]
	return p, ok
}

// PreferenceNames lists the registered preference names.
func PreferenceNames() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

func register[T any](p Pref[T]) Pref[T] {
	registry[p.name] = p
	return p
}

func boolPref(name string, def bool) Pref[bool] {
	return register(Pref[bool]{
		name:   name,
		def:    def,
		encode: strconv.FormatBool,
		decode: strconv.ParseBool,
	})
}

func stringPref(name, def string) Pref[string] {
	return register(Pref[string]{
		name:   name,
		def:    def,
		encode: func(s string) string { return s },
		decode: func(s string) (string, error) { return s, nil },
	})
}

func jsonPref[T any](name string, def T) Pref[T] {
	return register(Pref[T]{
		name: name,
		def:  def,
		encode: func(v T) string {
			b, _ := json.Marshal(v)
			return string(b)
		},
		decode: func(s string) (T, error) {
			var v T
			err := json.Unmarshal([]byte(s), &v)
			return v, err
		},
	})
}

// RatingDismissal records whether and when the user dismissed the in-app
// rating prompt.
type RatingDismissal struct {
	Dismissed   bool   `json:"dismissed"`
	DismissedAt string `json:"dismissedAt,omitempty"`
}

// The fixed preference set. Descriptors are the only write path for these
// names; ReadPreference exists for ad hoc reads but never writes.
var (
	AutoDeleteFinished        = boolPref("auto-delete-finished", false)
	StreamQuality             = stringPref("stream-quality", "high")
	DownloadQuality           = stringPref("download-quality", "high")
	DownloadOnlyOnWifi        = boolPref("download-only-on-wifi", true)
	AllowDataCollection       = boolPref("allow-data-collection", true)
	IsFirstLoad               = boolPref("is-first-load", true)
	RatingButtonDismissed     = jsonPref("rating-button-dismissed", RatingDismissal{})
	KillswitchCourseVersionV1 = boolPref("killswitch-course-version-v1", false)
)

// ReadPreference reads @preferences/{name} with a caller-supplied codec. It
// is the read-only convenience behind reactive bindings; writes always go
// through a descriptor.
func ReadPreference[T any](ctx context.Context, store Store, name string, def T, decode func(string) (T, error)) (T, error) {
	var zero T
	raw, found, err := store.Get(ctx, preferenceKey(name))
	if err != nil {
		return zero, fmt.Errorf("reading preference %q: %w", name, err)
	}
	if !found {
		return def, nil
	}
	v, err := decode(raw)
	if err != nil {
		return zero, &DecodeError{Key: preferenceKey(name), Err: err}
	}
	return v, nil
}
