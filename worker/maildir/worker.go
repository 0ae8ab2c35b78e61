package maildir

import (
	"git.sr.ht/~rjarry/mthreads/lib/rfc822"
	"git.sr.ht/~rjarry/mthreads/worker/handlers"
	"git.sr.ht/~rjarry/mthreads/worker/types"
)

func init() {
	handlers.RegisterSourceFactory("maildir", NewSource)
}

type source struct {
	c    *Container
	name string
}

// NewSource opens the directory at path.
func NewSource(path string) (types.Source, error) {
	c, err := NewContainer(path)
	if err != nil {
		return nil, err
	}
	c.log.Infof("configured with maildir %s", path)
	return &source{c: c, name: path}, nil
}

func (s *source) Name() string {
	return s.name
}

func (s *source) Messages() ([]rfc822.RawMessage, error) {
	return s.c.Messages()
}
