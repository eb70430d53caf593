package query

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
)

// ErrUnterminatedQuote is returned when a quoted part has no closing quote.
var ErrUnterminatedQuote = errors.New("unterminated quote")

// Lexer splits one configuration line into parts
type Lexer struct {
	input string
	pos   int // offset of the rune after ch
	ch    rune
}

// NewLexer creates a new lexer
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// readChar reads the next character
func (l *Lexer) readChar() {
	if l.pos >= len(l.input) {
		l.ch = 0
		l.pos = len(l.input) + 1
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.ch = r
	l.pos += size
}

// peekChar looks at the next character without advancing
func (l *Lexer) peekChar() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return r
}

// atEnd reports whether every character has been consumed
func (l *Lexer) atEnd() bool {
	return l.pos > len(l.input)
}

// skipWhitespace skips whitespace characters
func (l *Lexer) skipWhitespace() {
	for !l.atEnd() && unicode.IsSpace(l.ch) {
		l.readChar()
	}
}

// readQuoted reads a quoted part. A doubled quote inside it stands for
// one literal quote.
func (l *Lexer) readQuoted() (string, error) {
	var result strings.Builder
	l.readChar() // skip opening quote

	for {
		switch {
		case l.atEnd():
			return "", errors.Wrapf(ErrUnterminatedQuote, "in line: %s", l.input)
		case l.ch == '"' && l.peekChar() == '"':
			result.WriteRune('"')
			l.readChar()
			l.readChar()
		case l.ch == '"':
			l.readChar() // skip closing quote
			return result.String(), nil
		default:
			result.WriteRune(l.ch)
			l.readChar()
		}
	}
}

// readBare reads an unquoted part up to the next whitespace.
func (l *Lexer) readBare() string {
	var result strings.Builder
	for !l.atEnd() && !unicode.IsSpace(l.ch) {
		result.WriteRune(l.ch)
		l.readChar()
	}
	return result.String()
}

// Part is one whitespace-separated element of a configuration line.
type Part struct {
	Text string
	// Quoted is set when the part was written in double quotes.
	Quoted bool
}

// Next returns the next part. ok is false at the end of the line.
func (l *Lexer) Next() (part Part, ok bool, err error) {
	l.skipWhitespace()
	if l.atEnd() {
		return Part{}, false, nil
	}
	if l.ch == '"' {
		text, err := l.readQuoted()
		return Part{Text: text, Quoted: true}, err == nil, err
	}
	return Part{Text: l.readBare()}, true, nil
}

// SplitParts splits a configuration line into whitespace-separated parts.
// A part starting with a double quote runs to the matching closing quote
// and may contain whitespace.
func SplitParts(line string) ([]Part, error) {
	l := NewLexer(line)
	var parts []Part
	for {
		part, ok, err := l.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return parts, nil
		}
		parts = append(parts, part)
	}
}

// SplitLine is SplitParts without the quoting information.
func SplitLine(line string) ([]string, error) {
	parts, err := SplitParts(line)
	if err != nil || parts == nil {
		return nil, err
	}
	texts := make([]string, len(parts))
	for i, p := range parts {
		texts[i] = p.Text
	}
	return texts, nil
}
