// Package config loads the dispatcher's runtime profile: the set of
// algorithms an operator wants disabled by policy, applied at startup via
// Dispatcher.ApplyProfile.
package config

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Profile is the YAML-loadable policy document applied after built-in
// backends are registered. It is intentionally small: the dispatcher core
// has no other externally configurable behavior (spec.md keeps
// configuration of individual backends out of scope).
type Profile struct {
	// DisabledAlgorithms lists canonical algorithm names (e.g. "rsa",
	// "openpgp-elg") to mark disabled at startup.
	DisabledAlgorithms []string `yaml:"disabled_algorithms" description:"Algorithm names disabled at startup"`

	// ContractVersion, when non-empty, is checked against the dispatcher's
	// own contract version before any profile settings are applied.
	ContractVersion string `yaml:"contract_version" description:"Required dispatcher contract version (semver)"`
}

// DefaultProfile returns a profile with nothing disabled.
func DefaultProfile() Profile {
	return Profile{}
}

// LoadProfile reads and parses a YAML profile document from r.
func LoadProfile(r io.Reader) (Profile, error) {
	var p Profile
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&p); err != nil {
		if err == io.EOF {
			return DefaultProfile(), nil
		}
		return Profile{}, fmt.Errorf("config: parsing profile: %w", err)
	}
	return p, nil
}
