package chat

import (
	"errors"
	"io"
	"net"
	"syscall"
)

// ErrorKind narrows a transport error to what the session loop needs to know.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	// KindClosed: the peer went away (EOF, reset, broken pipe, closed conn).
	KindClosed
	// KindTransient: a deadline fired; the stream itself may still be usable.
	KindTransient
	// KindFatal: anything else.
	KindFatal
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindClosed:
		return "closed"
	case KindTransient:
		return "transient"
	default:
		return "fatal"
	}
}

func Classify(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	switch {
	case errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, io.ErrClosedPipe),
		errors.Is(err, net.ErrClosed),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.ECONNABORTED),
		errors.Is(err, syscall.EPIPE):
		return KindClosed
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return KindTransient
	}
	return KindFatal
}
