package core

import "log/slog"

// Secret holds an API key or token. It never renders its value through fmt,
// JSON, YAML or TOML encoding, so adapter configs can be logged safely.
//
//	key := NewSecret("sk-abc123")
//	fmt.Println(key)   // [REDACTED]
//	key.Expose()       // "sk-abc123"
type Secret struct {
	value string
}

const redacted = "[REDACTED]"

// NewSecret wraps value.
func NewSecret(value string) Secret {
	return Secret{value: value}
}

// String implements fmt.Stringer with a placeholder.
func (s Secret) String() string {
	return redacted
}

// GoString implements fmt.GoStringer with a placeholder.
func (s Secret) GoString() string {
	return "core.Secret{" + redacted + "}"
}

// MarshalJSON encodes the placeholder.
func (s Secret) MarshalJSON() ([]byte, error) {
	return []byte(`"` + redacted + `"`), nil
}

// MarshalText encodes the placeholder (used by YAML and TOML encoders).
func (s Secret) MarshalText() ([]byte, error) {
	return []byte(redacted), nil
}

// LogValue implements slog.LogValuer with a placeholder.
func (s Secret) LogValue() slog.Value {
	return slog.StringValue(redacted)
}

// Expose returns the actual value, for use in authentication headers only.
func (s Secret) Expose() string {
	return s.value
}

// IsEmpty reports whether no value is set.
func (s Secret) IsEmpty() bool {
	return s.value == ""
}
