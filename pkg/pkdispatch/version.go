package pkdispatch

import "golang.org/x/mod/semver"

// ContractVersion is the semantic version of the Backend interface
// contract (spec.md §4.2). It bumps only when a method is added, removed,
// or given new required semantics.
const ContractVersion = "v1.0.0"

// Version returns the dispatcher's own semantic version.
func Version() string {
	return "v1.0.0"
}

// CompatibleContract reports whether a backend declaring requiredVersion
// can be registered against this build's ContractVersion. An empty
// requiredVersion is treated as compatible (the backend did not opt in to
// version gating). A malformed requiredVersion is treated as incompatible.
//
// This lets a third-party backend plugin declare the contract version it
// was built against; Dispatcher.RegisterBackend (and ApplyProfile, for a
// profile's contract_version) uses it to fail fast with ErrInternal at
// registration time instead of letting an incompatible
// backend misbehave the first time it is dispatched to.
func CompatibleContract(requiredVersion string) bool {
	if requiredVersion == "" {
		return true
	}
	if !semver.IsValid(requiredVersion) {
		return false
	}
	return semver.Major(requiredVersion) == semver.Major(ContractVersion)
}
