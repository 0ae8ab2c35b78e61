package mboxer

import (
	"bytes"
	"fmt"
	"io"
)

// message implements the rfc822.RawMessage interface
type message struct {
	name    string
	index   int
	content []byte
}

func (m *message) NewReader() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(m.content)), nil
}

func (m *message) Key() string {
	return fmt.Sprintf("%s#%d", m.name, m.index+1)
}
