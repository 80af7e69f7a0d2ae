package cienv

import (
	"os"
	"strings"
)

// Env is an immutable snapshot of process environment variables. Stages take
// a snapshot instead of reading the live environment so resolution is
// reproducible and tests do not leak state into each other.
type Env map[string]string

// Snapshot captures the current process environment.
func Snapshot() Env {
	env := make(Env)
	for _, kv := range os.Environ() {
		if i := strings.IndexByte(kv, '='); i > 0 {
			env[kv[:i]] = kv[i+1:]
		}
	}
	return env
}

// Get returns the value of key, or "" when unset.
func (e Env) Get(key string) string { return e[key] }

// Has reports whether key is set to a non-empty value.
func (e Env) Has(key string) bool { return e[key] != "" }

// First returns the first non-empty value among keys.
func (e Env) First(keys ...string) string {
	for _, k := range keys {
		if v := e[k]; v != "" {
			return v
		}
	}
	return ""
}

// A Detector recognizes one CI provider's environment signature. Match is a
// predicate over the snapshot; Apply writes the provider's fields into the
// record. Detectors are folded in a fixed order and more than one may match:
// each matching detector's assignments are applied in sequence, so a later
// detector overwrites an earlier one. Last writer wins; this is observable
// behavior, not first-match-wins.
type Detector struct {
	Name  string
	Match func(env Env) bool
	Apply func(env Env, m *Metadata)
}

// Detect returns the names of all matching detectors in evaluation order.
func Detect(env Env) []string {
	var names []string
	for _, d := range detectors {
		if d.Match(env) {
			names = append(names, d.Name)
		}
	}
	return names
}

// set assigns v to *dst unless v is empty. Detectors use it so a provider
// that exposes only part of the record does not blank fields a previous fold
// step already filled.
func set(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
