package config

import "fmt"

// LoadPolicy decides how a bot load failure affects the match
type LoadPolicy string

const (
	// LoadAbort fails the whole simulation start
	LoadAbort LoadPolicy = "abort"

	// LoadExclude drops the failing bot and continues with fewer combatants
	LoadExclude LoadPolicy = "exclude"
)

// Valid reports whether p is a known policy
func (p LoadPolicy) Valid() bool {
	return p == LoadAbort || p == LoadExclude
}

// UnmarshalText parses a policy name, used by both YAML and env decoding
func (p *LoadPolicy) UnmarshalText(text []byte) error {
	v := LoadPolicy(text)
	if !v.Valid() {
		return fmt.Errorf("unknown load policy %q", text)
	}
	*p = v
	return nil
}

// MarshalText renders the policy name
func (p LoadPolicy) MarshalText() ([]byte, error) {
	return []byte(p), nil
}
