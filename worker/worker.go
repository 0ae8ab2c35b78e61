package worker

import (
	"os"

	"github.com/pkg/errors"

	"git.sr.ht/~rjarry/mthreads/worker/handlers"
	"git.sr.ht/~rjarry/mthreads/worker/types"
)

// ErrUnreadablePath is returned when the mailbox path cannot be opened or
// is neither a directory nor a regular file.
var ErrUnreadablePath = errors.New("unreadable mailbox path")

// NewSource opens path with the maildir backend when it is a directory and
// with the mbox backend when it is a regular file.
func NewSource(path string) (types.Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(ErrUnreadablePath, err.Error())
	}
	var kind string
	switch {
	case info.IsDir():
		kind = "maildir"
	case info.Mode().IsRegular():
		kind = "mbox"
	default:
		return nil, errors.Wrapf(ErrUnreadablePath, "%s: not a directory or regular file", path)
	}
	source, err := handlers.GetSourceForKind(kind, path)
	if err != nil {
		return nil, errors.Wrapf(ErrUnreadablePath, "%s: %v", path, err)
	}
	return source, nil
}
