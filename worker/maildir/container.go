package maildir

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/emersion/go-maildir"
	"github.com/pkg/errors"

	"git.sr.ht/~rjarry/mthreads/lib/log"
	"git.sr.ht/~rjarry/mthreads/lib/rfc822"
)

// A Container is a directory which contains other directories which adhere to
// the Maildir spec. A directory without any maildir folder is read as a flat
// collection of message files.
type Container struct {
	dir string
	log log.Logger
}

// NewContainer creates a new container at the specified directory
func NewContainer(dir string) (*Container, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if !s.IsDir() {
		return nil, fmt.Errorf("Given maildir '%s' not a directory", dir)
	}
	return &Container{dir: dir, log: log.NewLogger("maildir", 2)}, nil
}

func isMaildir(path string) bool {
	for _, sub := range []string{"cur", "new"} {
		if info, err := os.Stat(filepath.Join(path, sub)); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}

// ListFolders returns the maildir folders in the container, the container
// itself included when it is a maildir. Maildir++ folders (.Sent, .Lists.foo)
// are ordinary sub-directories here. Sub-directories that cannot be read are
// skipped; the first such error is returned with the folders found.
func (c *Container) ListFolders() ([]maildir.Dir, error) {
	var folders []maildir.Dir
	var firstErr error
	err := filepath.Walk(c.dir, func(path string, info os.FileInfo, err error) error {
		// Skip maildir's default directories
		if info != nil && info.IsDir() && path != c.dir {
			switch info.Name() {
			case "new", "tmp", "cur":
				return filepath.SkipDir
			}
		}
		if err != nil {
			err = fmt.Errorf("Invalid path '%s': error: %w", path, err)
			if path == c.dir {
				return err
			}
			c.log.Warnf("%v", err)
			if firstErr == nil {
				firstErr = err
			}
			return nil
		}
		if !info.IsDir() {
			return nil
		}

		if isMaildir(path) {
			folders = append(folders, maildir.Dir(path))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return folders, firstErr
}

// Messages returns every message of every folder. Folders that cannot be
// listed are skipped; the first such error is returned after all readable
// folders were collected.
func (c *Container) Messages() ([]rfc822.RawMessage, error) {
	folders, firstErr := c.ListFolders()
	if len(folders) == 0 {
		c.log.Debugf("%s: no maildir folder, reading plain files", c.dir)
		messages, err := plainFiles(c.dir)
		if err != nil {
			return nil, err
		}
		return messages, firstErr
	}

	var messages []rfc822.RawMessage
	for _, d := range folders {
		msgs, err := c.folderMessages(d)
		if err != nil {
			c.log.Warnf("%s: %v", d, err)
			if firstErr == nil {
				firstErr = err
			}
		}
		c.log.Debugf("%s: %d messages", d, len(msgs))
		messages = append(messages, msgs...)
	}
	return messages, firstErr
}

// folderMessages returns the files of cur and new. Messages in new are read
// in place: moving them to cur is the MUA's job, not ours.
func (c *Container) folderMessages(d maildir.Dir) ([]rfc822.RawMessage, error) {
	var messages []rfc822.RawMessage
	for _, sub := range []string{"cur", "new"} {
		files, err := regularFiles(filepath.Join(string(d), sub))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return messages, errors.Wrapf(err, "could not list %s", sub)
		}
		for _, path := range files {
			messages = append(messages, &Message{dir: d, path: path})
		}
	}
	return messages, nil
}

// plainFiles returns one message per regular, non hidden file of dir.
func plainFiles(dir string) ([]rfc822.RawMessage, error) {
	files, err := regularFiles(dir)
	if err != nil {
		return nil, err
	}
	messages := make([]rfc822.RawMessage, 0, len(files))
	for _, path := range files {
		messages = append(messages, &fileMessage{path: path})
	}
	return messages, nil
}

// regularFiles lists the regular, non hidden files of dir, sorted by name.
func regularFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") || !e.Type().IsRegular() {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}
