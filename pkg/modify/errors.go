package modify

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is
var (
	ErrTargetNotFound        = errors.New("modification target not found")
	ErrAttributeTypeMismatch = errors.New("vertex attribute type mismatch")
	ErrConfiguration         = errors.New("invalid modification configuration")
)

// TargetNotFoundError reports a function edit whose target function does
// not exist. Params is AnyParams when the edit accepts any parameter count.
type TargetNotFoundError struct {
	Function string
	Params   int
}

func (e *TargetNotFoundError) Error() string {
	if e.Params == AnyParams {
		return fmt.Sprintf("unknown function: %s", e.Function)
	}
	return fmt.Sprintf("unknown function with %d parameters: %s", e.Params, e.Function)
}

func (e *TargetNotFoundError) Is(target error) bool { return target == ErrTargetNotFound }

// AttributeTypeMismatchError reports an existing vertex input whose type
// differs from the one a Vertex modification expects at the same slot
type AttributeTypeMismatchError struct {
	Index    int
	Expected string
	Found    string
}

func (e *AttributeTypeMismatchError) Error() string {
	return fmt.Sprintf("expected attribute %d to be %s but was %s", e.Index, e.Expected, e.Found)
}

func (e *AttributeTypeMismatchError) Is(target error) bool { return target == ErrAttributeTypeMismatch }

// ConfigurationError reports an invalid combination of registered modifications
type ConfigurationError struct {
	ShaderID string
	Msg      string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("shader %s: %s", e.ShaderID, e.Msg)
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// Error wraps a pipeline failure with the shader and modification that
// caused it. ModificationID is empty when the shader itself failed to parse.
type Error struct {
	ShaderID       string
	ModificationID string
	Err            error
}

func (e *Error) Error() string {
	if e.ModificationID == "" {
		return fmt.Sprintf("shader %s: %v", e.ShaderID, e.Err)
	}
	return fmt.Sprintf("shader %s: modification %s: %v", e.ShaderID, e.ModificationID, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
