package domain

import "errors"

// Transport errors
var (
	// ErrServerDown covers network failures and responses the client
	// cannot decode. Both surface to the user the same way.
	ErrServerDown = errors.New("server down")
)

// RejectionError is a domain rejection: the server answered with
// status:false and a message meant for the user.
type RejectionError struct {
	Message string
}

func (e *RejectionError) Error() string {
	if e.Message == "" {
		return "request rejected"
	}
	return e.Message
}

// RejectionMessage extracts the server message from a domain rejection.
// The second return is false for transport and malformed-response errors.
func RejectionMessage(err error) (string, bool) {
	var rej *RejectionError
	if errors.As(err, &rej) {
		return rej.Message, true
	}
	return "", false
}
