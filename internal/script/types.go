// Package script runs sandboxed Tengo scripts. Scripts receive their inputs
// as global variables and report back through a "result" variable.
package script

import (
	"time"
)

// ErrorType categorizes different types of script errors
type ErrorType string

const (
	ErrorTypeCompilation ErrorType = "compilation"
	ErrorTypeExecution   ErrorType = "execution"
	ErrorTypeTimeout     ErrorType = "timeout"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeResult      ErrorType = "result"
)

// Script is a named piece of Tengo source.
type Script struct {
	Name    string
	Path    string
	Content string
}

// ScriptInput provides data to the executing script. Every entry of
// Context becomes a global variable.
type ScriptInput struct {
	Context map[string]interface{}
}

// ScriptOutput contains the results of script execution
type ScriptOutput struct {
	Result  interface{}
	Metrics ExecutionMetrics
}

// ExecutionMetrics tracks performance and execution data
type ExecutionMetrics struct {
	CompilationTime time.Duration
	ExecutionTime   time.Duration
}

// SecurityLimits defines resource constraints for script execution
type SecurityLimits struct {
	MaxExecutionTime time.Duration
	// MaxAllocs caps the objects a single run may allocate. Negative disables it.
	MaxAllocs       int64
	AllowedPackages []string
}

// ScriptError represents script-related errors with context
type ScriptError struct {
	Type       ErrorType
	ScriptName string
	Message    string
	Cause      error
	Timestamp  time.Time
}

func (e *ScriptError) Error() string {
	if e.Cause != nil {
		return e.ScriptName + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.ScriptName + ": " + e.Message
}

func (e *ScriptError) Unwrap() error {
	return e.Cause
}

// NewScriptError creates a new ScriptError with the given parameters
func NewScriptError(errorType ErrorType, scriptName, message string, cause error) *ScriptError {
	return &ScriptError{
		Type:       errorType,
		ScriptName: scriptName,
		Message:    message,
		Cause:      cause,
		Timestamp:  time.Now(),
	}
}
