package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eml(id, subject, date string, headers ...string) string {
	s := ""
	if id != "" {
		s += fmt.Sprintf("Message-Id: <%s>\r\n", id)
	}
	s += fmt.Sprintf("Subject: %s\r\nDate: %s\r\n", subject, date)
	for _, h := range headers {
		s += h + "\r\n"
	}
	return s + "\r\nbody\r\n"
}

func maildirFixture(t *testing.T, messages map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for _, sub := range []string{"cur", "new", "tmp"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, sub), 0o700))
	}
	for name, content := range messages {
		path := filepath.Join(root, "cur", name+":2,S")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return root
}

func runArgs(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	status := run(append([]string{"mthreads"}, args...), &stdout, &stderr)
	return status, stdout.String(), stderr.String()
}

func TestRunMaildir(t *testing.T) {
	root := maildirFixture(t, map[string]string{
		"1": eml("m1@x", "hello", "Mon, 01 Jan 2024 10:00:00 +0000"),
		"2": eml("m2@x", "Re: hello", "Mon, 01 Jan 2024 11:00:00 +0000",
			"In-Reply-To: <m1@x>"),
		"3": eml("m3@x", "Re: Re: hello", "Mon, 01 Jan 2024 12:00:00 +0000",
			"In-Reply-To: <m2@x>", "References: <m1@x> <m2@x>"),
		"4": eml("g1@x", "ghost child", "Sun, 31 Dec 2023 10:00:00 +0000",
			"In-Reply-To: <never@x>"),
		"5": eml("", "no identifier", "Mon, 01 Jan 2024 09:00:00 +0000"),
		"6": "this is not an email\r\n\r\n",
	})

	status, stdout, stderr := runArgs("-w", "0", root)
	assert.Equal(t, 0, status)
	assert.Equal(t, "ghost child\n"+
		"hello\n"+
		"└─Re: hello\n"+
		"  └─Re: Re: hello\n", stdout)
	assert.NotContains(t, stdout, "no identifier")
	assert.Contains(t, stderr, "missing message identifier")
	assert.Contains(t, stderr, "2 entries skipped")
}

func TestRunMbox(t *testing.T) {
	mbox := "From a@x Mon Jan  1 00:00:00 2024\n" +
		"Message-Id: <b@x>\nIn-Reply-To: <a@x>\nSubject: B\nDate: Tue, 02 Jan 2024 00:00:00 +0000\n\nb\n\n" +
		"From a@x Mon Jan  1 00:00:00 2024\n" +
		"Message-Id: <a@x>\nSubject: A\nDate: Mon, 01 Jan 2024 00:00:00 +0000\n\na\n\n" +
		"From a@x Mon Jan  1 00:00:00 2024\n" +
		"Message-Id: <c@x>\nIn-Reply-To: <a@x>\nSubject: C\nDate: Wed, 03 Jan 2024 00:00:00 +0000\n\nc\n"
	path := filepath.Join(t.TempDir(), "list.mbox")
	require.NoError(t, os.WriteFile(path, []byte(mbox), 0o600))

	status, stdout, stderr := runArgs(path)
	assert.Equal(t, 0, status)
	assert.Equal(t, "A\n├─B\n└─C\n", stdout)
	assert.NotContains(t, stderr, "skipped")
}

func TestRunNotAnMbox(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("Subject: hi\n\nbody\n"), 0o600))

	status, stdout, stderr := runArgs(path)
	assert.Equal(t, 0, status)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "notes.txt: message #1")
	assert.Contains(t, stderr, "1 entries skipped\n")
}

func TestRunUnreadablePath(t *testing.T) {
	status, stdout, stderr := runArgs(filepath.Join(t.TempDir(), "missing"))
	assert.Equal(t, 1, status)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "unreadable mailbox path")
}

func TestRunUsage(t *testing.T) {
	status, _, stderr := runArgs()
	assert.Equal(t, 1, status)
	assert.Contains(t, stderr, "usage: mthreads")

	status, _, stderr = runArgs("a", "b")
	assert.Equal(t, 1, status)
	assert.Contains(t, stderr, "exactly one")

	status, _, stderr = runArgs("-w", "wide", "a")
	assert.Equal(t, 1, status)
	assert.Contains(t, stderr, "invalid width")

	status, _, stderr = runArgs("-L", "loud", "a")
	assert.Equal(t, 1, status)
	assert.Contains(t, stderr, "invalid log level")

	status, stdout, _ := runArgs("-h")
	assert.Equal(t, 0, status)
	assert.Contains(t, stdout, "Options:")

	status, stdout, _ = runArgs("-v")
	assert.Equal(t, 0, status)
	assert.Contains(t, stdout, "mthreads ")
}

func TestRunLogFile(t *testing.T) {
	root := maildirFixture(t, map[string]string{
		"1": eml("", "no identifier", "Mon, 01 Jan 2024 09:00:00 +0000"),
	})
	logfile := filepath.Join(t.TempDir(), "mthreads.log")

	status, stdout, stderr := runArgs("-l", logfile, "-L", "debug", root)
	assert.Equal(t, 0, status)
	assert.Empty(t, stdout)
	assert.Equal(t, "1 entries skipped\n", stderr)

	content, err := os.ReadFile(logfile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "missing message identifier")
	assert.Contains(t, string(content), "DEBUG")
}
