package mboxer

import (
	"os"

	"git.sr.ht/~rjarry/mthreads/lib/log"
	"git.sr.ht/~rjarry/mthreads/lib/rfc822"
	"git.sr.ht/~rjarry/mthreads/worker/handlers"
	"git.sr.ht/~rjarry/mthreads/worker/types"
)

func init() {
	handlers.RegisterSourceFactory("mbox", NewSource)
}

type mboxSource struct {
	path string
}

// NewSource checks that the mbox file at path can be opened. Its content
// is only read by Messages.
func NewSource(path string) (types.Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	f.Close()
	log.Infof("configured with mbox file %s", path)
	return &mboxSource{path: path}, nil
}

func (s *mboxSource) Name() string {
	return s.path
}

func (s *mboxSource) Messages() ([]rfc822.RawMessage, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f, s.path)
}
