package maildir

import (
	"io"
	"os"
	"path/filepath"

	"github.com/emersion/go-maildir"
)

// A Message is an individual email inside of a maildir.Dir. It is addressed
// by its file path: a unique key may be a prefix of another message's file
// name when the info suffix is missing.
type Message struct {
	dir  maildir.Dir
	path string
}

// NewReader opens the message file.
func (m *Message) NewReader() (io.ReadCloser, error) {
	return os.Open(m.path)
}

// Key returns the folder and maildir unique key of the message.
func (m *Message) Key() string {
	key, err := maildir.Dir(filepath.Dir(m.path)).Key(m.path)
	if err != nil {
		return m.path
	}
	return string(m.dir) + ":" + key
}

// fileMessage is a message file outside of any maildir folder.
type fileMessage struct {
	path string
}

func (m *fileMessage) NewReader() (io.ReadCloser, error) {
	return os.Open(m.path)
}

func (m *fileMessage) Key() string {
	return m.path
}
