package treasure

import (
	"regexp"
	"strings"
)

var (
	labelPattern   = regexp.MustCompile(`^([A-Za-z_@][\w@.]*):$`)
	commandPattern = regexp.MustCompile(`^[A-Za-z_][\w.]*`)
)

// parseLine turns one source line into an unattached node. Lines that are
// neither labels nor data lines become text nodes, so parsing never fails.
func parseLine(line string) *Node {
	line = strings.TrimRight(line, "\r")
	trimmed := strings.TrimSpace(line)

	if trimmed == "" || trimmed[0] == ';' || trimmed[0] == '.' || trimmed[0] == '#' {
		return &Node{kind: TextNode, text: line}
	}

	if m := labelPattern.FindStringSubmatch(strings.TrimRight(line, " \t")); m != nil {
		return &Node{kind: LabelNode, name: m[1]}
	}

	// Leading whitespace and inline block comments belong to the prefix.
	pos := 0
	for {
		for pos < len(line) && (line[pos] == ' ' || line[pos] == '\t') {
			pos++
		}
		if !strings.HasPrefix(line[pos:], "/*") {
			break
		}
		end := strings.Index(line[pos:], "*/")
		if end < 0 {
			return &Node{kind: TextNode, text: line}
		}
		pos += end + 2
	}
	if pos == 0 {
		// Data lines are indented; anything at column 0 that is not a label is kept as-is.
		return &Node{kind: TextNode, text: line}
	}

	prefix := line[:pos]
	rest := line[pos:]
	cmd := commandPattern.FindString(rest)
	if cmd == "" {
		return &Node{kind: TextNode, text: line}
	}
	rest = rest[len(cmd):]

	n := &Node{kind: DataNode, command: cmd}
	n.spacing[0] = prefix

	if i := strings.IndexByte(rest, ';'); i >= 0 {
		j := i
		for j > 0 && (rest[j-1] == ' ' || rest[j-1] == '\t') {
			j--
		}
		n.trailing = rest[j:]
		rest = rest[:j]
	}

	body := strings.TrimLeft(rest, " \t")
	if body == "" {
		if rest != "" {
			// Whitespace with nothing after it; keep it so the line round-trips.
			n.trailing = rest + n.trailing
		}
		return n
	}
	if sep := rest[:len(rest)-len(body)]; sep == "" {
		// "cmd,..." or similar is not a command line we understand.
		return &Node{kind: TextNode, text: line}
	} else if sep != " " {
		n.spacing[1] = sep
	}

	for _, v := range strings.Split(body, ",") {
		n.values = append(n.values, strings.TrimSpace(v))
	}
	return n
}

// parseLines parses a block of lines in order.
func parseLines(lines []string) []*Node {
	nodes := make([]*Node, 0, len(lines))
	for _, l := range lines {
		nodes = append(nodes, parseLine(l))
	}
	return nodes
}

// splitLines splits document text into lines. A trailing newline does not
// produce an extra empty line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}
