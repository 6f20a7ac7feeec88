package script

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/spf13/afero"
)

// TengoEngine compiles and runs Tengo scripts under security limits.
type TengoEngine struct {
	securityLimits SecurityLimits
}

// NewTengoEngine creates a new Tengo engine with default security limits
func NewTengoEngine() *TengoEngine {
	return &TengoEngine{
		securityLimits: GetDefaultSecurityLimits(),
	}
}

// SetSecurityLimits configures resource and security constraints
func (e *TengoEngine) SetSecurityLimits(limits SecurityLimits) {
	e.securityLimits = limits
}

// Load reads a script file from fs.
func Load(fs afero.Fs, path string) (*Script, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, NewScriptError(ErrorTypeNotFound, path, "failed to read script", err)
	}
	return &Script{Name: path, Path: path, Content: string(data)}, nil
}

// Check compiles the script with the given input variables declared, to
// surface syntax errors before the first real run.
func (e *TengoEngine) Check(s *Script, inputs ...string) error {
	ts := e.prepare(s)
	for _, name := range inputs {
		if err := ts.Add(name, nil); err != nil {
			return NewScriptError(ErrorTypeCompilation, s.Name, "failed to declare input "+name, err)
		}
	}
	if _, err := ts.Compile(); err != nil {
		return NewScriptError(ErrorTypeCompilation, s.Name, "failed to compile script", err)
	}
	return nil
}

// Execute runs the script with the input variables set and returns the
// value of its "result" variable.
func (e *TengoEngine) Execute(ctx context.Context, s *Script, input *ScriptInput) (*ScriptOutput, error) {
	startTime := time.Now()

	ts := e.prepare(s)
	if err := e.setInputVariables(ts, input); err != nil {
		return nil, NewScriptError(ErrorTypeExecution, s.Name, "failed to set input variables", err)
	}

	compiled, err := ts.Compile()
	if err != nil {
		return nil, NewScriptError(ErrorTypeCompilation, s.Name, "failed to compile script", err)
	}
	compilationTime := time.Since(startTime)

	execCtx, cancel := context.WithTimeout(ctx, e.securityLimits.MaxExecutionTime)
	defer cancel()

	if err := compiled.RunContext(execCtx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, NewScriptError(ErrorTypeTimeout, s.Name, "script execution timed out", err)
		}
		return nil, NewScriptError(ErrorTypeExecution, s.Name, "script execution failed", err)
	}

	output := &ScriptOutput{
		Result: e.extractResult(compiled),
		Metrics: ExecutionMetrics{
			CompilationTime: compilationTime,
			ExecutionTime:   time.Since(startTime),
		},
	}
	slog.Debug("Script executed",
		"script", s.Name,
		"execution_time", output.Metrics.ExecutionTime)
	return output, nil
}

func (e *TengoEngine) prepare(s *Script) *tengo.Script {
	ts := tengo.NewScript([]byte(s.Content))
	ts.SetImports(e.buildModuleMap())
	if e.securityLimits.MaxAllocs != 0 {
		ts.SetMaxAllocs(e.securityLimits.MaxAllocs)
	}
	_ = ts.Add("log", logFunction(s.Name))
	return ts
}

// buildModuleMap exposes only the allowed standard library modules.
func (e *TengoEngine) buildModuleMap() *tengo.ModuleMap {
	modules := tengo.NewModuleMap()
	for _, pkg := range e.securityLimits.AllowedPackages {
		if module, exists := stdlib.BuiltinModules[pkg]; exists {
			modules.AddBuiltinModule(pkg, module)
		}
	}
	return modules
}

func (e *TengoEngine) setInputVariables(ts *tengo.Script, input *ScriptInput) error {
	if input == nil {
		return nil
	}
	for key, value := range input.Context {
		if err := ts.Add(key, value); err != nil {
			return fmt.Errorf("failed to set context variable %s: %w", key, err)
		}
	}
	return nil
}

func (e *TengoEngine) extractResult(compiled *tengo.Compiled) interface{} {
	if result := compiled.Get("result"); result != nil {
		return result.Value()
	}
	return nil
}

// logFunction lets scripts write to the structured log.
func logFunction(scriptName string) *tengo.UserFunction {
	return &tengo.UserFunction{
		Name: "log",
		Value: func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) != 1 {
				return nil, tengo.ErrWrongNumArguments
			}
			message, ok := tengo.ToString(args[0])
			if !ok {
				message = args[0].String()
			}
			slog.Info("Script log", "message", message, "script", scriptName)
			return tengo.UndefinedValue, nil
		},
	}
}

// Number converts a script result to float64.
func Number(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}
