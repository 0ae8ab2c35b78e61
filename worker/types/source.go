package types

import "git.sr.ht/~rjarry/mthreads/lib/rfc822"

// A Source is an opened mailbox backend.
type Source interface {
	// Name is the path the source was opened from.
	Name() string

	// Messages returns the raw messages in mailbox order. When the
	// mailbox cannot be read completely, the messages read so far are
	// returned along with the error.
	Messages() ([]rfc822.RawMessage, error)
}
