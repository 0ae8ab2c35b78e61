package parse

import (
	"strings"

	"git.sr.ht/~rjarry/mthreads/lib/log"
	"github.com/emersion/go-message/mail"
)

// MsgIDList parses a list of message identifiers.  It returns message
// identifiers without angle brackets.  If the header field is missing,
// it returns nil.
//
// This can be used on In-Reply-To and References header fields.
// If the field does not conform to RFC 5322, fall back
// to greedily parsing a subsequence of the original field.
func MsgIDList(h *mail.Header, key string) []string {
	l, err := h.MsgIDList(key)
	if err == nil {
		return l
	}
	log.Debugf("%s: %s", err, h.Get(key))

	// Expensive, fix your peer's MUA instead!
	var list []string
	header := &mail.Header{Header: h.Header.Copy()}
	value := header.Get(key)
	if !strings.Contains(value, "<") {
		// bare identifiers, no brackets at all
		return bareIDs(value)
	}
	for err != nil && len(value) > 0 {
		// Skip parsed IDs
		if len(l) > 0 {
			last := "<" + l[len(l)-1] + ">"
			value = value[strings.Index(value, last)+len(last):]
			list = append(list, l...)
			if len(value) == 0 {
				return list
			}
		}

		// Skip a character until some IDs can be parsed
		value = value[1:]
		header.Set(key, value)
		l, err = header.MsgIDList(key)
	}
	return append(list, l...)
}

// MsgID returns the Message-ID of a message without angle brackets, or an
// empty string if there is none.
func MsgID(h *mail.Header) string {
	id, err := h.MessageID()
	if err == nil && id != "" {
		return id
	}
	if err != nil {
		log.Debugf("invalid Message-ID header: %v", err)
	}
	// proper parsing failed, so fall back to whatever is there
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(h.Get("message-id")), "<>"))
}

func bareIDs(value string) []string {
	var ids []string
	for _, f := range strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\r' || r == '\n'
	}) {
		if strings.Contains(f, "@") {
			ids = append(ids, f)
		}
	}
	return ids
}
