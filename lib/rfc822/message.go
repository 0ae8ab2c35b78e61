package rfc822

import (
	"fmt"
	"io"
	"regexp"
	"time"

	"git.sr.ht/~rjarry/mthreads/lib/log"
	"git.sr.ht/~rjarry/mthreads/lib/parse"
	"git.sr.ht/~rjarry/mthreads/models"
	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
	"github.com/pkg/errors"
)

var (
	// ErrMissingIdentifier is returned for messages without a Message-ID.
	// They cannot be threaded.
	ErrMissingIdentifier = errors.New("missing message identifier")

	// ErrMalformed wraps any failure to decode a message entry.
	ErrMalformed = errors.New("malformed message")
)

// RFC 1123Z regexp
var dateRe = regexp.MustCompile(`(((Mon|Tue|Wed|Thu|Fri|Sat|Sun))[,]?\s[0-9]{1,2})\s` +
	`(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s` +
	`([0-9]{4})\s([0-9]{2}):([0-9]{2})(:([0-9]{2}))?\s([\+|\-][0-9]{4})`)

// RawMessage is an interface that describes a raw message
type RawMessage interface {
	NewReader() (io.ReadCloser, error)
	// Key names the message inside its mailbox, for diagnostics.
	Key() string
}

type malformedError struct {
	key string
	err error
}

func (e *malformedError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.key, ErrMalformed, e.err)
}

func (e *malformedError) Unwrap() error { return e.err }

func (e *malformedError) Is(target error) bool { return target == ErrMalformed }

// Malformed marks err as a decoding failure of the entry named key.
func Malformed(key string, err error) error {
	return &malformedError{key: key, err: err}
}

// MessageEnvelope reads the headers of raw and returns the threading
// envelope. Failures to read or decode the message are reported as
// ErrMalformed, a missing Message-ID as ErrMissingIdentifier.
func MessageEnvelope(raw RawMessage) (*models.Envelope, error) {
	r, err := raw.NewReader()
	if err != nil {
		return nil, Malformed(raw.Key(), err)
	}
	defer r.Close()
	msg, err := ReadMessage(r)
	if err != nil {
		return nil, Malformed(raw.Key(), err)
	}
	env := parseEnvelope(&mail.Header{Header: msg.Header})
	if env.MessageId == "" {
		return nil, errors.Wrap(ErrMissingIdentifier, raw.Key())
	}
	return env, nil
}

func parseEnvelope(h *mail.Header) *models.Envelope {
	env := &models.Envelope{
		MessageId:  parse.MsgID(h),
		References: parse.MsgIDList(h, "references"),
		InReplyTo:  parse.MsgIDList(h, "in-reply-to"),
	}
	if h.Has("subject") {
		subj, err := h.Subject()
		if err != nil {
			log.Errorf("could not decode subject: %v", err)
			subj = h.Get("Subject")
		}
		env.Subject = subj
		env.HasSubject = true
	}
	date, err := parseDate(h)
	if err != nil {
		// Date parsing errors are fairly common. The message is
		// still threaded, it only sorts before every dated one.
		log.Debugf("<%s>: invalid Date header: %v", env.MessageId, err)
	}
	env.Date = date
	return env
}

// If the date is formatted like ...... -0500 (EST), parser takes the EST part
// and ignores the numeric offset. Then it might easily fail to guess what EST
// means unless the proper locale is loaded. This function checks that, so such
// time values can be safely ignored
// https://stackoverflow.com/questions/49084316/why-doesnt-gos-time-parse-parse-the-timezone-identifier
func isDateOK(t time.Time) bool {
	name, offset := t.Zone()

	// non-zero offsets are fine
	if offset != 0 {
		return true
	}

	// zero offset is ok if that's UTC or GMT
	if name == "UTC" || name == "GMT" || name == "" {
		return true
	}

	// otherwise this date should not be trusted
	return false
}

// parseDate tries to parse the date from the Date header with non std formats
// if this fails it tries to parse the received header as well
func parseDate(h *mail.Header) (time.Time, error) {
	// here we store the best parsed time we have so far
	// if we find no "correct" time, we'll use that
	bestDate := time.Time{}

	t, err := h.Date()
	if err == nil && !t.IsZero() {
		if isDateOK(t) {
			return t, nil
		}
		bestDate = t
	}
	text := h.Get("date")

	// sometimes, no error occurs but the date is empty.
	// In this case, guess time from received header field
	if text == "" {
		t, err := parseReceivedHeader(h)
		if err == nil {
			return t, nil
		}
		return time.Time{}, errors.New("no date header")
	}
	layouts := []string{
		// X-Mailer: EarthLink Zoo Mail 1.0
		"Mon, _2 Jan 2006 15:04:05 -0700 (GMT-07:00)",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, text); err == nil {
			if isDateOK(t) {
				return t, nil
			}
			bestDate = t
		}
	}

	// still no success, try the received header
	t, err = parseReceivedHeader(h)
	if err == nil {
		if isDateOK(t) {
			return t, nil
		}
		bestDate = t
	}

	// do we have at least something?
	if !bestDate.IsZero() {
		return bestDate, nil
	}

	return time.Time{}, fmt.Errorf("unrecognized date format: %s", text)
}

func parseReceivedHeader(h *mail.Header) (time.Time, error) {
	guess, err := h.Text("received")
	if err != nil {
		return time.Time{}, errors.Wrap(err, "received header not parseable")
	}
	return time.Parse(time.RFC1123Z, dateRe.FindString(guess))
}

// ReadMessage is a wrapper for the message.Read function to read a message
// from r. The message's encoding and charset are automatically decoded to
// UTF-8. If an unknown charset is encountered, the error is logged but a nil
// error is returned since the entity object can still be read.
func ReadMessage(r io.Reader) (*message.Entity, error) {
	entity, err := message.Read(r)
	if message.IsUnknownCharset(err) {
		log.Warnf("unknown charset encountered")
	} else if err != nil {
		return nil, errors.Wrap(err, "could not read message")
	}
	return entity, nil
}
