package main

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"

	"git.sr.ht/~sircmpwn/getopt"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"golang.org/x/term"

	"git.sr.ht/~rjarry/mthreads/lib/log"
	"git.sr.ht/~rjarry/mthreads/lib/rfc822"
	"git.sr.ht/~rjarry/mthreads/lib/threads"
	"git.sr.ht/~rjarry/mthreads/models"
	"git.sr.ht/~rjarry/mthreads/worker"
)

// set at build time
var Version string

func buildInfo() string {
	info := Version
	if info == "" {
		info = "devel"
	}
	info += fmt.Sprintf(" (%s %s %s)",
		runtime.Version(), runtime.GOARCH, runtime.GOOS)
	return info
}

const usageLine = "usage: mthreads [-h] [-v] [-l <logfile>] [-L <level>] [-w <columns>] <maildir|mbox>"

const help = `
Print the reply threads of a mailbox as a tree of subjects, oldest first.

A directory is read as a maildir (Maildir++ folders included) or, when it
holds no maildir folder, as one message per file. A regular file is read as
an mbox.

Options:

  -h             Show this help message and exit.
  -v             Print version information.
  -l <logfile>   Append log messages to <logfile> instead of stderr.
  -L <level>     Minimum log level: trace, debug, info, warn, error.
                 Defaults to warn.
  -w <columns>   Truncate lines to <columns>. Defaults to the terminal width
                 when stdout is a terminal, no truncation otherwise.
`

type options struct {
	logfile string
	level   log.LogLevel
	width   int
	path    string
}

// errExit ends run early with the given status once output was written.
type errExit int

func (e errExit) Error() string {
	return fmt.Sprintf("exit status %d", int(e))
}

func parseOptions(args []string, stdout, stderr io.Writer) (*options, error) {
	opts, optind, err := getopt.Getopts(args, "hvl:L:w:")
	if err != nil {
		fmt.Fprintln(stderr, "error: "+err.Error())
		fmt.Fprintln(stderr, usageLine)
		return nil, errExit(1)
	}
	o := &options{level: log.WARN, width: -1}
	for _, opt := range opts {
		switch opt.Option {
		case 'h':
			fmt.Fprint(stdout, usageLine+"\n"+help)
			return nil, errExit(0)
		case 'v':
			fmt.Fprintln(stdout, "mthreads "+buildInfo())
			return nil, errExit(0)
		case 'l':
			o.logfile = opt.Value
		case 'L':
			o.level, err = log.ParseLevel(opt.Value)
			if err != nil {
				return nil, err
			}
		case 'w':
			o.width, err = strconv.Atoi(opt.Value)
			if err != nil || o.width < 0 {
				return nil, fmt.Errorf("%s: invalid width", opt.Value)
			}
		}
	}
	rest := args[optind:]
	if len(rest) != 1 {
		fmt.Fprintln(stderr, "error: expected exactly one mailbox path")
		fmt.Fprintln(stderr, usageLine)
		return nil, errExit(1)
	}
	o.path = rest[0]
	return o, nil
}

func initLogging(o *options, stderr io.Writer) error {
	if o.logfile == "" {
		return log.Init(stderr, false, o.level)
	}
	f, err := os.OpenFile(o.logfile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return errors.Wrap(err, "cannot open log file")
	}
	return log.Init(f, true, o.level)
}

func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !isatty.IsTerminal(f.Fd()) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		log.Debugf("cannot get terminal size: %v", err)
		return 0
	}
	return width
}

// ingest threads every message of the mailbox into a pruned and sorted
// graph. Entries that cannot be decoded or threaded are logged and counted.
func ingest(path string) (*threads.Graph, int, error) {
	source, err := worker.NewSource(path)
	if err != nil {
		return nil, 0, err
	}
	skipped := 0
	raws, err := source.Messages()
	if err != nil {
		log.Warnf("%s: %v", source.Name(), err)
		skipped++
	}
	envs := make([]*models.Envelope, 0, len(raws))
	for _, raw := range raws {
		env, err := rfc822.MessageEnvelope(raw)
		if err != nil {
			log.Warnf("skipping %v", err)
			skipped++
			continue
		}
		envs = append(envs, env)
	}
	g, n := threads.Thread(envs)
	skipped += n
	log.Infof("%s: %d messages, %d skipped", source.Name(), g.Len(), skipped)
	return g, skipped, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	o, err := parseOptions(args, stdout, stderr)
	var exit errExit
	if errors.As(err, &exit) {
		return int(exit)
	} else if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	if err := initLogging(o, stderr); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	defer log.Close()
	log.Debugf("Starting up version %s", log.BuildInfo)

	g, skipped, err := ingest(o.path)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	width := o.width
	if width < 0 {
		width = terminalWidth(stdout)
	}
	if err := threads.Render(stdout, g, width); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	if skipped > 0 {
		fmt.Fprintf(stderr, "%d entries skipped\n", skipped)
	}
	return 0
}

func main() {
	defer log.PanicHandler()
	log.BuildInfo = buildInfo()
	if status := run(os.Args, os.Stdout, os.Stderr); status != 0 {
		os.Exit(status) //nolint:gocritic // PanicHandler does not need to run as it's not a panic
	}
}
