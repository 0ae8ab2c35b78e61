package worker_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.sr.ht/~rjarry/mthreads/worker"
)

const mbox = "From a@example.org Mon Jan  1 00:00:00 2024\n" +
	"Message-Id: <a@example.org>\n" +
	"\n" +
	"body\n"

func TestNewSource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "1.eml"), []byte("Message-Id: <1@x>\n\n"), 0o600))
	file := filepath.Join(t.TempDir(), "archive.mbox")
	require.NoError(t, os.WriteFile(file, []byte(mbox), 0o600))

	for _, path := range []string{dir, file} {
		t.Run(filepath.Base(path), func(t *testing.T) {
			source, err := worker.NewSource(path)
			require.NoError(t, err)
			assert.Equal(t, path, source.Name())
			messages, err := source.Messages()
			require.NoError(t, err)
			assert.Len(t, messages, 1)
		})
	}
}

func TestNewSourceUnreadable(t *testing.T) {
	_, err := worker.NewSource(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, worker.ErrUnreadablePath))
}
