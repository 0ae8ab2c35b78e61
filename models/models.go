package models

import (
	"fmt"
	"time"
)

// An Envelope holds the threading relevant headers of a single message.
type Envelope struct {
	// MessageId is the Message-ID without angle brackets. Required.
	MessageId string

	// References lists ancestor message ids, oldest first.
	References []string

	// InReplyTo lists the immediate parent message id(s).
	InReplyTo []string

	// Date is the zero time when the message has no usable date.
	Date time.Time

	Subject    string
	HasSubject bool
}

// HasDate reports whether a date could be determined for the message.
func (e *Envelope) HasDate() bool {
	return !e.Date.IsZero()
}

func (e *Envelope) String() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("<%s> %q", e.MessageId, e.Subject)
}
