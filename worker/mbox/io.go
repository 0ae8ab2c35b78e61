package mboxer

import (
	"io"

	"github.com/emersion/go-mbox"
	"github.com/miolini/datacounter"
	"github.com/pkg/errors"

	"git.sr.ht/~rjarry/mthreads/lib/log"
	"git.sr.ht/~rjarry/mthreads/lib/rfc822"
)

// Read splits an mbox stream into messages. name prefixes the message keys.
// On a read error, the messages split so far are returned with the error,
// which carries the number of bytes consumed before the failure.
func Read(r io.Reader, name string) ([]rfc822.RawMessage, error) {
	ctr := datacounter.NewReaderCounter(r)
	mbr := mbox.NewReader(ctr)
	index := 0
	messages := make([]rfc822.RawMessage, 0)
	for {
		msg, err := mbr.NextMessage()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return messages, errors.Wrapf(err, "%s: message #%d near byte %d",
				name, index+1, ctr.Count())
		}

		content, err := io.ReadAll(msg)
		if err != nil {
			return messages, errors.Wrapf(err, "%s: message #%d near byte %d",
				name, index+1, ctr.Count())
		}

		messages = append(messages, &message{
			name: name, index: index, content: content,
		})

		index++
	}
	log.Debugf("%s: read %d messages (%d bytes)", name, len(messages), ctr.Count())
	return messages, nil
}
