package control

import "errors"

// Code is a control-plane status code. Zero is success, negative values
// are errors. The string forms are protocol-visible: every IPC reply
// carries one in its "error" field.
type Code int

const (
	Success                Code = 0
	ErrEventQueueFull      Code = -1
	ErrUninitialized       Code = -3
	ErrInvalidParameter    Code = -4
	ErrOptionNotFound      Code = -5
	ErrOptionFormat        Code = -6
	ErrOptionError         Code = -7
	ErrPropertyNotFound    Code = -8
	ErrPropertyFormat      Code = -9
	ErrPropertyUnavailable Code = -10
	ErrPropertyError       Code = -11
	ErrCommand             Code = -12
)

// String returns the protocol status text for the code.
func (c Code) String() string {
	switch c {
	case Success:
		return "success"
	case ErrEventQueueFull:
		return "event queue full"
	case ErrUninitialized:
		return "core not initialized"
	case ErrInvalidParameter:
		return "invalid parameter"
	case ErrOptionNotFound:
		return "option not found"
	case ErrOptionFormat:
		return "unsupported format for accessing option"
	case ErrOptionError:
		return "error setting option"
	case ErrPropertyNotFound:
		return "property not found"
	case ErrPropertyFormat:
		return "unsupported format for accessing property"
	case ErrPropertyUnavailable:
		return "property unavailable"
	case ErrPropertyError:
		return "error accessing property"
	case ErrCommand:
		return "error running command"
	default:
		return "unknown error"
	}
}

// Error makes negative codes usable as plain Go errors.
func (c Code) Error() string {
	return c.String()
}

// StatusText returns the reply status string for an operation outcome:
// "success" for nil, the code's text for control-plane errors, and the
// error message otherwise.
func StatusText(err error) string {
	if err == nil {
		return Success.String()
	}
	var c Code
	if errors.As(err, &c) {
		return c.String()
	}
	return err.Error()
}
