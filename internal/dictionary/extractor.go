package dictionary

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// ErrNoArrayData is returned when a page does not carry both translation arrays.
var ErrNoArrayData = errors.New("no array data")

// ExtractionError reports that a page could not be turned into translation arrays.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract arrays: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// RawArrayPair holds the raw tokens of both columns in page order.
// Left is filled from c2Arr and Right from c1Arr.
type RawArrayPair struct {
	Left  []string
	Right []string
}

// Records pairs both columns into records.
func (p RawArrayPair) Records() []Record {
	return Merge(p.Left, p.Right)
}

const (
	rightArrayName = "c1Arr"
	leftArrayName  = "c2Arr"
)

type parseState int

const (
	stateOutsideScript parseState = iota
	stateInsideScript
	stateScanningArray1
	stateScanningArray2
)

func (s parseState) String() string {
	switch s {
	case stateOutsideScript:
		return "outsideScript"
	case stateInsideScript:
		return "insideScript"
	case stateScanningArray1:
		return "scanningArray1"
	case stateScanningArray2:
		return "scanningArray2"
	}
	return fmt.Sprintf("parseState(%d)", int(s))
}

// Extract finds the c1Arr and c2Arr literals inside the script regions of a page.
//
// Script regions are visited in document order and the first well-formed
// assignment of each array wins. An assignment whose shape does not match
// `var cNArr = new Array("..", "..");` is skipped.
func Extract(htmlBody []byte) (RawArrayPair, error) {
	parser := arrayParser{state: stateOutsideScript}
	tokenizer := html.NewTokenizer(bytes.NewReader(htmlBody))

	for !parser.done() {
		tokenType := tokenizer.Next()
		if tokenType == html.ErrorToken {
			if err := tokenizer.Err(); !errors.Is(err, io.EOF) {
				return RawArrayPair{}, &ExtractionError{Err: fmt.Errorf("html.Tokenizer > %w", err)}
			}
			break
		}
		parser.handle(tokenType, tokenizer)
	}

	if len(parser.left) == 0 || len(parser.right) == 0 {
		return RawArrayPair{}, &ExtractionError{Err: ErrNoArrayData}
	}
	return RawArrayPair{
		Left:  parser.left,
		Right: parser.right,
	}, nil
}

type arrayParser struct {
	state  parseState
	script strings.Builder

	right      []string
	rightFound bool
	left       []string
	leftFound  bool
}

func (p *arrayParser) done() bool {
	return p.leftFound && p.rightFound
}

func (p *arrayParser) handle(tokenType html.TokenType, tokenizer *html.Tokenizer) {
	switch tokenType {
	case html.StartTagToken:
		name, _ := tokenizer.TagName()
		if p.state == stateOutsideScript && string(name) == "script" {
			p.state = stateInsideScript
			p.script.Reset()
		}
	case html.EndTagToken:
		name, _ := tokenizer.TagName()
		if p.state == stateInsideScript && string(name) == "script" {
			p.scanScript(collapseSpaces(p.script.String()))
			p.state = stateOutsideScript
		}
	case html.TextToken:
		if p.state == stateInsideScript {
			p.script.Write(tokenizer.Text())
		}
	}
}

func (p *arrayParser) scanScript(source string) {
	if !p.rightFound {
		p.state = stateScanningArray1
		p.right, p.rightFound = findArray(source, rightArrayName)
	}
	if !p.leftFound {
		p.state = stateScanningArray2
		p.left, p.leftFound = findArray(source, leftArrayName)
	}
	p.state = stateInsideScript
}

// findArray returns the tokens of the first well-formed assignment to name.
func findArray(source, name string) ([]string, bool) {
	marker := "var " + name
	offset := 0
	for {
		i := strings.Index(source[offset:], marker)
		if i < 0 {
			return nil, false
		}
		s := &scanner{src: source, pos: offset + i + len(marker)}
		if tokens, ok := s.arrayAssignment(); ok {
			return tokens, true
		}
		offset += i + len(marker)
	}
}

// collapseSpaces replaces every run of whitespace with a single space.
func collapseSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inSpace := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' || r == '\v' {
			if !inSpace {
				b.WriteByte(' ')
			}
			inSpace = true
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

type scanner struct {
	src string
	pos int
}

func (s *scanner) skipSpace() {
	for s.pos < len(s.src) && s.src[s.pos] == ' ' {
		s.pos++
	}
}

func (s *scanner) consume(literal string) bool {
	if !strings.HasPrefix(s.src[s.pos:], literal) {
		return false
	}
	s.pos += len(literal)
	return true
}

// arrayAssignment scans ` = new Array( "a", "b" );` right after the variable name.
func (s *scanner) arrayAssignment() ([]string, bool) {
	s.skipSpace()
	if !s.consume("=") {
		return nil, false
	}
	s.skipSpace()
	if !s.consume("new Array") {
		return nil, false
	}
	s.skipSpace()
	if !s.consume("(") {
		return nil, false
	}

	tokens := make([]string, 0)
	s.skipSpace()
	if !s.consume(")") {
		for {
			raw, ok := s.quoted()
			if !ok {
				return nil, false
			}
			tokens = append(tokens, normalizeToken(raw))

			s.skipSpace()
			if s.consume(",") {
				s.skipSpace()
				continue
			}
			if s.consume(")") {
				break
			}
			return nil, false
		}
	}

	s.skipSpace()
	if !s.consume(";") {
		return nil, false
	}
	return tokens, true
}

// quoted returns the raw content of a double-quoted string, escapes untouched.
func (s *scanner) quoted() (string, bool) {
	if !s.consume(`"`) {
		return "", false
	}
	start := s.pos
	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case '\\':
			s.pos += 2
		case '"':
			raw := s.src[start:s.pos]
			s.pos++
			return raw, true
		default:
			s.pos++
		}
	}
	return "", false
}

var tokenUnescaper = strings.NewReplacer(`\'`, `'`, `\"`, `"`, `\\`, `\`)

func normalizeToken(raw string) string {
	if strings.Trim(raw, " ") == "" {
		return Placeholder
	}
	return tokenUnescaper.Replace(raw)
}
