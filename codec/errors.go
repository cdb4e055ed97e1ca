package codec

import "github.com/pkg/errors"

var (
	// ErrUnavailable is returned when a persistence source cannot be opened.
	ErrUnavailable = errors.New("resource unavailable")

	// ErrShortRead is returned when the input ends before all tokens were read.
	ErrShortRead = errors.New("short read")

	// ErrBadToken is returned for a token that is not a valid bit or integer.
	ErrBadToken = errors.New("bad token")

	// ErrSnapshot is returned for a malformed snapshot.
	ErrSnapshot = errors.New("malformed snapshot")
)
