package threads

import (
	"bufio"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

const (
	cross    = "├─"
	corner   = "└─"
	vertical = "│ "
	space    = "  "
)

// folded subject headers may still carry line breaks
var newlines = strings.NewReplacer("\r", "", "\n", " ")

// Render writes one line per message subject, threads in graph order and
// replies indented under their parent with box drawing connectors. Nodes
// without a subject print no line; their replies are printed anyway. When
// width is positive, longer lines are truncated to that many columns.
//
// The walk uses an explicit stack so that very deep threads cannot exhaust
// the goroutine stack.
func Render(w io.Writer, g *Graph, width int) error {
	type step struct {
		node  *Node
		last  bool
		leave bool
	}

	out := bufio.NewWriter(w)
	var prefix []string
	var line strings.Builder

	for _, root := range g.Roots() {
		stack := []step{{node: root, last: true}}
		for len(stack) > 0 {
			s := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if s.leave {
				prefix = prefix[:len(prefix)-1]
				continue
			}

			indent := prefix
			connector := ""
			if !s.node.IsRoot() {
				if s.last {
					connector = corner
					prefix = append(prefix, space)
				} else {
					connector = cross
					prefix = append(prefix, vertical)
				}
				stack = append(stack, step{leave: true})
			}
			if subject, ok := s.node.Subject(); ok {
				line.Reset()
				for _, p := range indent {
					line.WriteString(p)
				}
				line.WriteString(connector)
				line.WriteString(subject)
				writeLine(out, line.String(), width)
			}

			kids := g.Children(s.node)
			for i := len(kids) - 1; i >= 0; i-- {
				stack = append(stack, step{node: kids[i], last: i == len(kids)-1})
			}
		}
	}
	return out.Flush()
}

func writeLine(out *bufio.Writer, line string, width int) {
	line = newlines.Replace(line)
	if width > 0 && runewidth.StringWidth(line) > width {
		line = runewidth.Truncate(line, width, "…")
	}
	out.WriteString(line) //nolint:errcheck // reported by Flush
	out.WriteByte('\n')   //nolint:errcheck // reported by Flush
}
