package errs

import (
	"errors"
	"fmt"
	"syscall"
)

// Kind categorizes a socket setup failure.
type Kind string

const (
	// KindInvalidFamily indicates a family other than IPv4 or IPv6 was requested.
	KindInvalidFamily Kind = "invalid_family"
	// KindUnknownFamily indicates the platform reported an address family this package does not handle.
	KindUnknownFamily Kind = "unknown_family"
	// KindInvalidTransport indicates a transport other than stream or datagram was requested.
	KindInvalidTransport Kind = "invalid_transport"
	// KindInvalidAddress indicates a literal address that does not parse for the requested family.
	KindInvalidAddress Kind = "invalid_address"
	// KindInvalidPort indicates a port outside [0, 65535].
	KindInvalidPort Kind = "invalid_port"
	// KindOS indicates a socket, bind or connect call failed in the provider.
	KindOS Kind = "os_error"
	// KindResolution indicates hostname resolution failed.
	KindResolution Kind = "resolution_failed"
)

// Legacy integer codes returned by the C-compatible API.
const (
	LegacyInvalidFamily    = -202
	LegacyUnknownFamily    = -207
	LegacyInvalidTransport = -250

	// LegacyResolutionBase offsets resolver codes so they never collide with
	// negated errno values.
	LegacyResolutionBase = 300
)

// Resolution codes carried by KindResolution errors. They follow the
// magnitude of the glibc EAI_* constants.
const (
	CodeBadFlags = 1
	CodeNoName   = 2
	CodeAgain    = 3
	CodeFail     = 4
	CodeFamily   = 6
	CodeSockType = 7
	CodeService  = 8
	CodeSystem   = 11
)

// Sentinel errors for errors.Is checks against an *Error of the same kind.
var (
	ErrInvalidFamily    = errors.New("invalid address family")
	ErrUnknownFamily    = errors.New("unrecognized platform address family")
	ErrInvalidTransport = errors.New("invalid transport")
	ErrInvalidAddress   = errors.New("invalid literal address")
	ErrInvalidPort      = errors.New("port out of range")
	ErrResolution       = errors.New("name resolution failed")
)

var kindSentinels = map[Kind]error{
	KindInvalidFamily:    ErrInvalidFamily,
	KindUnknownFamily:    ErrUnknownFamily,
	KindInvalidTransport: ErrInvalidTransport,
	KindInvalidAddress:   ErrInvalidAddress,
	KindInvalidPort:      ErrInvalidPort,
	KindResolution:       ErrResolution,
}

// Error is the single failure value returned by every socket setup operation.
type Error struct {
	Op   string // socket, bind, connect, resolve, build
	Kind Kind
	Addr string // address if relevant
	Code int    // errno for KindOS, resolver code for KindResolution
	Err  error  // underlying error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Addr != "" {
		return fmt.Sprintf("easysock %s %s: %s", e.Op, e.Addr, msg)
	}
	return fmt.Sprintf("easysock %s: %s", e.Op, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel matching e's kind.
func (e *Error) Is(target error) bool {
	if sentinel, ok := kindSentinels[e.Kind]; ok && sentinel == target {
		return true
	}
	if t, ok := target.(*Error); ok {
		return t.Kind == e.Kind && (t.Code == 0 || t.Code == e.Code)
	}
	return false
}

// LegacyCode returns the negative integer the original C API used for this
// failure.
func (e *Error) LegacyCode() int {
	switch e.Kind {
	case KindInvalidFamily:
		return LegacyInvalidFamily
	case KindUnknownFamily:
		return LegacyUnknownFamily
	case KindInvalidTransport:
		return LegacyInvalidTransport
	case KindInvalidAddress, KindInvalidPort:
		return -int(syscall.EINVAL)
	case KindOS:
		if e.Code > 0 {
			return -e.Code
		}
		return -int(syscall.EIO)
	case KindResolution:
		return -(LegacyResolutionBase + e.Code)
	default:
		return -int(syscall.EIO)
	}
}

// InvalidFamily creates an invalid family error.
func InvalidFamily(op string, family int) *Error {
	return &Error{
		Op:   op,
		Kind: KindInvalidFamily,
		Err:  fmt.Errorf("%w: %d", ErrInvalidFamily, family),
	}
}

// UnknownFamily creates an error for a platform family value that is neither AF_INET nor AF_INET6.
func UnknownFamily(op string, af int) *Error {
	return &Error{
		Op:   op,
		Kind: KindUnknownFamily,
		Err:  fmt.Errorf("%w: %d", ErrUnknownFamily, af),
	}
}

// InvalidTransport creates an invalid transport error.
func InvalidTransport(op string, token string) *Error {
	return &Error{
		Op:   op,
		Kind: KindInvalidTransport,
		Err:  fmt.Errorf("%w: %q", ErrInvalidTransport, token),
	}
}

// InvalidAddress creates an error for a literal that does not parse for the family.
func InvalidAddress(op, addr, family string) *Error {
	return &Error{
		Op:   op,
		Kind: KindInvalidAddress,
		Addr: addr,
		Err:  fmt.Errorf("%w for %s", ErrInvalidAddress, family),
	}
}

// InvalidPort creates a port range error.
func InvalidPort(op string, port int) *Error {
	return &Error{
		Op:   op,
		Kind: KindInvalidPort,
		Err:  fmt.Errorf("%w: %d", ErrInvalidPort, port),
	}
}

// OS wraps a provider failure. The errno is kept verbatim when err carries one.
func OS(op, addr string, err error) *Error {
	e := &Error{
		Op:   op,
		Kind: KindOS,
		Addr: addr,
		Err:  err,
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		e.Code = int(errno)
	}
	return e
}

// Resolution wraps a resolver failure with its resolver code.
func Resolution(host string, code int, err error) *Error {
	if err == nil {
		err = ErrResolution
	}
	return &Error{
		Op:   "resolve",
		Kind: KindResolution,
		Addr: host,
		Code: code,
		Err:  err,
	}
}

// KindOf returns the kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Legacy converts any error to the legacy negative code. Errors that are not
// *Error report -EIO.
func Legacy(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.LegacyCode()
	}
	return -int(syscall.EIO)
}

// IsAddressInUse reports whether err is an OS failure caused by EADDRINUSE.
func IsAddressInUse(err error) bool {
	return errors.Is(err, syscall.EADDRINUSE)
}

// IsConnectionRefused reports whether err is an OS failure caused by
// ECONNREFUSED or an unreachable destination.
func IsConnectionRefused(err error) bool {
	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ENETUNREACH) ||
		errors.Is(err, syscall.EHOSTUNREACH)
}
