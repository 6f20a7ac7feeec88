package script

import "time"

// DefaultSecurityLimits keeps bot scripts short-lived: they run once per
// offered card on the simulation goroutine.
var DefaultSecurityLimits = SecurityLimits{
	MaxExecutionTime: 200 * time.Millisecond,
	MaxAllocs:        100_000,
	AllowedPackages: []string{
		"fmt",
		"math",
		"text",
	},
}

// GetDefaultSecurityLimits returns a copy of the default security limits
func GetDefaultSecurityLimits() SecurityLimits {
	limits := DefaultSecurityLimits
	limits.AllowedPackages = append([]string(nil), DefaultSecurityLimits.AllowedPackages...)
	return limits
}
