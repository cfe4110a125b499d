// Package core holds cross-cutting primitives shared by the planner's
// packages.
package core

// Environment represents the deployment environment the planner runs in.
// It mainly drives logger verbosity and output format.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

// String returns the string representation of the environment.
func (e Environment) String() string {
	return string(e)
}

// IsProduction reports whether the environment corresponds to production.
func (e Environment) IsProduction() bool {
	return e == Production
}

// ParseEnvironment normalises the ENVIRONMENT variable into one of the
// known environments. Unknown values fall back to Development so a local
// planner run still starts with verbose logging.
func ParseEnvironment(v string) Environment {
	switch Environment(v) {
	case Production:
		return Production
	case Staging:
		return Staging
	case Testing:
		return Testing
	default:
		return Development
	}
}
