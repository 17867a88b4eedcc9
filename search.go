package treasure

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SearchResult contains information about a search match.
type SearchResult struct {
	Node   *Node  // Node whose rendered line matched
	Line   int    // 0-indexed line within the document
	Column int    // Byte offset of the match within the line
	Match  string // The matched text
}

// SearchOptions configures string search behavior.
type SearchOptions struct {
	CaseSensitive bool // If false, search is case-insensitive
	WholeWord     bool // If true, only match whole words
}

// RegexOptions configures regex search behavior.
type RegexOptions struct {
	CaseInsensitive bool // If true, regex is case-insensitive
}

// FindString returns every line containing needle, in document order.
// At most one match is reported per line.
func (d *Document) FindString(needle string, opts SearchOptions) []SearchResult {
	if len(needle) == 0 {
		return nil
	}
	searchNeedle := needle
	if !opts.CaseSensitive {
		searchNeedle = strings.ToLower(needle)
	}

	var results []SearchResult
	line := 0
	for id := d.head; id != 0; id, line = d.next[id], line+1 {
		n := d.nodeRegistry[id]
		text := n.String()
		searchText := text
		if !opts.CaseSensitive {
			searchText = strings.ToLower(text)
		}

		offset := 0
		for offset < len(searchText) {
			idx := strings.Index(searchText[offset:], searchNeedle)
			if idx == -1 {
				break
			}
			pos := offset + idx
			if opts.WholeWord && !isWholeWord(text, pos, len(needle)) {
				offset = pos + 1
				continue
			}
			results = append(results, SearchResult{
				Node:   n,
				Line:   line,
				Column: pos,
				Match:  text[pos : pos+len(needle)],
			})
			break
		}
	}
	return results
}

// FindRegex returns the first match of pattern on every line, in document order.
func (d *Document) FindRegex(pattern string, opts RegexOptions) ([]SearchResult, error) {
	re, err := compileRegex(pattern, opts.CaseInsensitive)
	if err != nil {
		return nil, err
	}

	var results []SearchResult
	line := 0
	for id := d.head; id != 0; id, line = d.next[id], line+1 {
		n := d.nodeRegistry[id]
		text := n.String()
		loc := re.FindStringIndex(text)
		if loc == nil {
			continue
		}
		results = append(results, SearchResult{
			Node:   n,
			Line:   line,
			Column: loc[0],
			Match:  text[loc[0]:loc[1]],
		})
	}
	return results, nil
}

// compileRegex compiles a regex pattern with optional case insensitivity.
func compileRegex(pattern string, caseInsensitive bool) (*regexp.Regexp, error) {
	if caseInsensitive {
		pattern = "(?i)" + pattern
	}
	return regexp.Compile(pattern)
}

// isWholeWord checks if the match at pos is a whole word.
func isWholeWord(text string, pos, length int) bool {
	if pos > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:pos])
		if isWordChar(r) {
			return false
		}
	}
	if pos+length < len(text) {
		r, _ := utf8.DecodeRuneInString(text[pos+length:])
		if isWordChar(r) {
			return false
		}
	}
	return true
}

// isWordChar returns true if r is a word character (letter, digit, or underscore).
func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
