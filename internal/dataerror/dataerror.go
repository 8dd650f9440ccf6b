// Package dataerror defines the two error taxonomies that cross the repository
// boundary: failures of the remote catalog and failures of the local store.
//
// Callers branch on the kind with errors.As:
//
//	var remote *dataerror.Remote
//	if errors.As(err, &remote) && remote.Kind == dataerror.RemoteNoInternet {
//		...
//	}
package dataerror

import "fmt"

// RemoteKind classifies failures talking to the remote catalog.
type RemoteKind string

const (
	RemoteRequestTimeout  RemoteKind = "request_timeout"
	RemoteTooManyRequests RemoteKind = "too_many_requests"
	RemoteNoInternet      RemoteKind = "no_internet"
	RemoteServer          RemoteKind = "server"
	RemoteSerialization   RemoteKind = "serialization"
	RemoteUnknown         RemoteKind = "unknown"
)

// LocalKind classifies failures of the local favorites store.
type LocalKind string

const (
	LocalDiskFull LocalKind = "disk_full"
	LocalUnknown  LocalKind = "unknown"
)

// Remote is returned by every operation that reaches the remote catalog.
type Remote struct {
	Kind RemoteKind
	Err  error
}

// NewRemote wraps cause with the given kind. cause may be nil.
func NewRemote(kind RemoteKind, cause error) *Remote {
	return &Remote{Kind: kind, Err: cause}
}

func (e *Remote) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("remote error (%s): %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("remote error (%s)", e.Kind)
}

func (e *Remote) Unwrap() error { return e.Err }

// Is matches any *Remote of the same kind, so errors.Is(err, &Remote{Kind: RemoteServer})
// works without comparing causes.
func (e *Remote) Is(target error) bool {
	t, ok := target.(*Remote)
	return ok && t.Kind == e.Kind
}

// Local is returned when the favorites store fails.
type Local struct {
	Kind LocalKind
	Err  error
}

// NewLocal wraps cause with the given kind. cause may be nil.
func NewLocal(kind LocalKind, cause error) *Local {
	return &Local{Kind: kind, Err: cause}
}

func (e *Local) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("local error (%s): %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("local error (%s)", e.Kind)
}

func (e *Local) Unwrap() error { return e.Err }

func (e *Local) Is(target error) bool {
	t, ok := target.(*Local)
	return ok && t.Kind == e.Kind
}
