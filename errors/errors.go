package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseResolve Phase = "resolve" // entropy source detection
	PhaseFill    Phase = "fill"    // provider invocation
	PhaseLoad    Phase = "load"    // server-side module loading
	PhaseHost    Phase = "host"    // host module registration and guest calls
)

// Kind categorizes the error
type Kind string

const (
	KindCryptoUndefined          Kind = "crypto_undefined"
	KindGetRandomValuesUndefined Kind = "get_random_values_undefined"
	KindModuleUnavailable        Kind = "module_unavailable"
	KindOutOfBounds              Kind = "out_of_bounds"
	KindInvalidInput             Kind = "invalid_input"
	KindRegistration             Kind = "registration"
)

// Codes start at the top of the u32 range so they never collide with OS errno values.
const (
	codeInternalStart uint32 = 1 << 31

	CodeUnknown                  = codeInternalStart
	CodeOutOfBounds              = codeInternalStart + 1
	CodeInvalidInput             = codeInternalStart + 2
	CodeCryptoUndefined          = codeInternalStart + 7
	CodeGetRandomValuesUndefined = codeInternalStart + 8
	CodeModuleUnavailable        = codeInternalStart + 9
)

var kindCodes = map[Kind]uint32{
	KindCryptoUndefined:          CodeCryptoUndefined,
	KindGetRandomValuesUndefined: CodeGetRandomValuesUndefined,
	KindModuleUnavailable:        CodeModuleUnavailable,
	KindOutOfBounds:              CodeOutOfBounds,
	KindInvalidInput:             CodeInvalidInput,
}

// Sentinels for errors.Is matching.
var (
	ErrCryptoUndefined          = &Error{Phase: PhaseResolve, Kind: KindCryptoUndefined}
	ErrGetRandomValuesUndefined = &Error{Phase: PhaseResolve, Kind: KindGetRandomValuesUndefined}
	ErrModuleUnavailable        = &Error{Phase: PhaseLoad, Kind: KindModuleUnavailable}
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Source string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Source != "" {
		b.WriteString(" at ")
		b.WriteString(e.Source)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Code returns the stable numeric code for the error's kind.
func (e *Error) Code() uint32 {
	if c, ok := kindCodes[e.Kind]; ok {
		return c
	}
	return CodeUnknown
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Source sets the name of the host object or module involved
func (b *Builder) Source(name string) *Builder {
	b.err.Source = name
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// CryptoUndefined reports a browser-style global with neither crypto nor msCrypto.
func CryptoUndefined() *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindCryptoUndefined,
		Source: "self",
		Detail: "neither crypto nor msCrypto is defined",
	}
}

// GetRandomValuesUndefined reports a crypto object whose getRandomValues is missing.
func GetRandomValuesUndefined(object string) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindGetRandomValuesUndefined,
		Source: object,
		Detail: "getRandomValues is not defined",
	}
}

// ModuleUnavailable wraps a module loader failure
func ModuleUnavailable(module string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindModuleUnavailable,
		Source: module,
		Detail: fmt.Sprintf("require(%q) failed", module),
		Cause:  cause,
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, offset, length, size uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("range [%d, %d) exceeds memory size %d", offset, uint64(offset)+uint64(length), size),
		Value:  offset,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Registration creates a registration error
func Registration(phase Phase, module string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindRegistration,
		Source: module,
		Detail: fmt.Sprintf("register host module %s", module),
		Cause:  cause,
	}
}

// Code extracts the numeric code from any error in the chain.
// Errors outside this package map to CodeUnknown.
func Code(err error) uint32 {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code()
	}
	return CodeUnknown
}

// IsKind reports whether any *Error in the chain has the given kind, regardless of phase.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
