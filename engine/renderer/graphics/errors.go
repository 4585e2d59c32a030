package graphics

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/common"
)

// GL error codes as reported by GetError.
const (
	ErrorNone                        uint32 = 0
	ErrorInvalidEnum                 uint32 = 0x0500
	ErrorInvalidValue                uint32 = 0x0501
	ErrorInvalidOperation            uint32 = 0x0502
	ErrorOutOfMemory                 uint32 = 0x0505
	ErrorInvalidFramebufferOperation uint32 = 0x0506
)

// maxDrainedErrors bounds CheckError so a lost context (which may report errors forever) cannot hang the caller.
const maxDrainedErrors = 16

// ErrorString returns the symbolic name of a GL error code.
//
// Parameters:
//   - code: the error code returned by GetError
//
// Returns:
//   - string: the GL_* name, or a hex rendering for unknown codes
func ErrorString(code uint32) string {
	switch code {
	case ErrorNone:
		return "GL_NO_ERROR"
	case ErrorInvalidEnum:
		return "GL_INVALID_ENUM"
	case ErrorInvalidValue:
		return "GL_INVALID_VALUE"
	case ErrorInvalidOperation:
		return "GL_INVALID_OPERATION"
	case ErrorOutOfMemory:
		return "GL_OUT_OF_MEMORY"
	case ErrorInvalidFramebufferOperation:
		return "GL_INVALID_FRAMEBUFFER_OPERATION"
	default:
		return fmt.Sprintf("GL_ERROR_0x%04X", code)
	}
}

// CheckError drains the sticky error flags of the context and logs each one at warn level.
// Driver errors are recoverable misuse and never abort the caller.
//
// Parameters:
//   - ctx: the context to query
//   - op: a short description of the operation that preceded the check
//
// Returns:
//   - bool: true if at least one error was pending
func CheckError(ctx Context, op string) bool {
	found := false
	for i := 0; i < maxDrainedErrors; i++ {
		code := ctx.GetError()
		if code == ErrorNone {
			break
		}
		found = true
		common.Logger().Warn("gl error", "op", op, "code", ErrorString(code))
	}
	return found
}
