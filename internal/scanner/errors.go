package scanner

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why the camera could not be used.
type ErrorKind int

const (
	Unknown ErrorKind = iota
	PermissionDenied
	NoDevice
	Unsupported
	DeviceBusy
	Overconstrained
)

func (k ErrorKind) String() string {
	switch k {
	case PermissionDenied:
		return "permission_denied"
	case NoDevice:
		return "no_device"
	case Unsupported:
		return "unsupported"
	case DeviceBusy:
		return "device_busy"
	case Overconstrained:
		return "overconstrained"
	}
	return "unknown"
}

// Error is a classified camera failure.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return fmt.Sprintf("camera %s: %s: %v", e.Kind, e.Msg, e.Err)
	case e.Msg != "":
		return fmt.Sprintf("camera %s: %s", e.Kind, e.Msg)
	case e.Err != nil:
		return fmt.Sprintf("camera %s: %v", e.Kind, e.Err)
	}
	return "camera " + e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// ErrStreamEnded is returned when the camera stops delivering frames before
// anything was decoded.
var ErrStreamEnded = errors.New("camera stream ended")

// Classify maps a device error name, as reported by media capture APIs,
// onto a kind. msg is kept for the Unknown message.
func Classify(name, msg string) *Error {
	kind := Unknown
	switch name {
	case "NotAllowedError", "SecurityError":
		kind = PermissionDenied
	case "NotFoundError":
		kind = NoDevice
	case "NotSupportedError":
		kind = Unsupported
	case "NotReadableError":
		kind = DeviceBusy
	case "OverconstrainedError":
		kind = Overconstrained
	}
	return &Error{Kind: kind, Msg: msg}
}

// Message returns the text shown to the user for err.
func Message(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		if err == nil {
			return ""
		}
		return "Camera error: " + err.Error()
	}
	switch e.Kind {
	case PermissionDenied:
		return "Camera access denied. Please allow camera permissions."
	case NoDevice:
		return "No camera found on this device."
	case Unsupported:
		return "Camera not supported in this browser."
	case DeviceBusy:
		return "Camera is already in use by another application."
	case Overconstrained:
		return "Camera constraints could not be satisfied."
	}
	msg := e.Msg
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return "Camera error: " + msg
}
