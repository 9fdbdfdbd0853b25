package codec

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/zeusync/drawkit/internal/core/shape"
)

// Decoder reads whitespace-delimited tokens. Quoted strings use Go syntax.
type Decoder struct {
	r    *bufio.Reader
	line int
}

func NewDecoder(r io.Reader) *Decoder {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Decoder{r: br, line: 1}
}

// Line returns the line of the most recently read token.
func (d *Decoder) Line() int { return d.line }

// skipSpace consumes whitespace and returns io.EOF when the stream is exhausted.
func (d *Decoder) skipSpace() error {
	for {
		r, _, err := d.r.ReadRune()
		if err != nil {
			return err
		}
		if r == '\n' {
			d.line++
			continue
		}
		if !unicode.IsSpace(r) {
			return d.r.UnreadRune()
		}
	}
}

func (d *Decoder) formatErr(token string, err error) error {
	return &FormatError{Line: d.line, Token: token, Err: err}
}

func (d *Decoder) eof(err error) error {
	if errors.Is(err, io.EOF) {
		return d.formatErr("", io.ErrUnexpectedEOF)
	}
	return fmt.Errorf("line %d: %w", d.line, err)
}

// Token reads the next bare token. Running out of input is a FormatError.
func (d *Decoder) Token() (string, error) {
	if err := d.skipSpace(); err != nil {
		return "", d.eof(err)
	}
	var sb strings.Builder
	for {
		r, _, err := d.r.ReadRune()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", d.eof(err)
		}
		if unicode.IsSpace(r) {
			if err = d.r.UnreadRune(); err != nil {
				return "", err
			}
			break
		}
		sb.WriteRune(r)
	}
	return sb.String(), nil
}

// Expect reads the next token and fails unless it equals want.
func (d *Decoder) Expect(want string) error {
	tok, err := d.Token()
	if err != nil {
		return err
	}
	if tok != want {
		return d.formatErr(tok, fmt.Errorf("expected %q", want))
	}
	return nil
}

func (d *Decoder) Int() (int, error) {
	tok, err := d.Token()
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, d.formatErr(tok, err)
	}
	return v, nil
}

// Count reads a non-negative integer.
func (d *Decoder) Count() (int, error) {
	n, err := d.Int()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, d.formatErr(strconv.Itoa(n), errNegativeCount)
	}
	return n, nil
}

func (d *Decoder) Point() (shape.Point, error) {
	x, err := d.Int()
	if err != nil {
		return shape.Point{}, err
	}
	y, err := d.Int()
	if err != nil {
		return shape.Point{}, err
	}
	return shape.Point{X: x, Y: y}, nil
}

// Quoted reads a double-quoted Go string literal.
func (d *Decoder) Quoted() (string, error) {
	if err := d.skipSpace(); err != nil {
		return "", d.eof(err)
	}
	r, _, err := d.r.ReadRune()
	if err != nil {
		return "", d.eof(err)
	}
	if r != '"' {
		if err = d.r.UnreadRune(); err != nil {
			return "", err
		}
		tok, err := d.Token()
		if err != nil {
			return "", err
		}
		return "", d.formatErr(tok, errExpectedQuoted)
	}

	var sb strings.Builder
	sb.WriteRune('"')
	for escaped := false; ; {
		r, _, err = d.r.ReadRune()
		if err != nil {
			return "", d.eof(err)
		}
		if r == '\n' {
			return "", d.formatErr(sb.String(), errors.New("newline in quoted string"))
		}
		sb.WriteRune(r)
		if escaped {
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		if r == '"' {
			break
		}
	}

	s, err := strconv.Unquote(sb.String())
	if err != nil {
		return "", d.formatErr(sb.String(), err)
	}
	return s, nil
}

// End fails unless only whitespace remains.
func (d *Decoder) End() error {
	err := d.skipSpace()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("line %d: %w", d.line, err)
	}
	tok, _ := d.Token()
	return d.formatErr(tok, errTrailingData)
}

// Encoder writes tokens separated by single spaces and records terminated by newlines.
// The first error sticks; later writes are no-ops and Err reports it.
type Encoder struct {
	w    *bufio.Writer
	open bool
	err  error
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: bufio.NewWriter(w)}
}

func (e *Encoder) put(s string) {
	if e.err != nil {
		return
	}
	if e.open {
		if e.err = e.w.WriteByte(' '); e.err != nil {
			return
		}
	}
	_, e.err = e.w.WriteString(s)
	e.open = true
}

// Token writes a bare token. Tokens must be non-empty and free of whitespace and quotes.
func (e *Encoder) Token(s string) {
	if s == "" || strings.ContainsFunc(s, func(r rune) bool { return unicode.IsSpace(r) || r == '"' }) {
		if e.err == nil {
			e.err = &FormatError{Token: s, Err: errInvalidToken}
		}
		return
	}
	e.put(s)
}

func (e *Encoder) Int(v int) { e.put(strconv.Itoa(v)) }

func (e *Encoder) Point(p shape.Point) {
	e.Int(p.X)
	e.Int(p.Y)
}

func (e *Encoder) Quoted(s string) { e.put(strconv.Quote(s)) }

// EndRecord terminates the current line. It does nothing if the line is empty.
func (e *Encoder) EndRecord() {
	if e.err != nil || !e.open {
		return
	}
	e.err = e.w.WriteByte('\n')
	e.open = false
}

func (e *Encoder) Err() error { return e.err }

// Flush writes buffered output to the underlying writer.
func (e *Encoder) Flush() error {
	if e.err != nil {
		return e.err
	}
	e.err = e.w.Flush()
	return e.err
}
