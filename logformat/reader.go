package logformat

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	multierror "github.com/hashicorp/go-multierror"
)

// Reader parses the textual log format produced by Writer. Malformed
// lines are collected into a multierror instead of aborting the whole
// parse, matching the teacher's aggregate-startup-error idiom
// (command/agent/command.go).
type Reader struct {
	sc     *bufio.Scanner
	indent int
	errs   *multierror.Error
}

// NewReader wraps r.
func NewReader(r io.Reader) *Reader {
	return &Reader{sc: bufio.NewScanner(r)}
}

// Line is one parsed line of the log format.
type Line struct {
	// Field is set for "name: value" lines.
	Field, Value string
	// Block is set for "name {" lines (IsBegin) or "}" lines (IsEnd).
	Block          string
	IsBegin, IsEnd bool
	IndentBefore   int
}

// Next reads and classifies the next line. It returns io.EOF once the
// underlying stream is exhausted.
func (r *Reader) Next() (Line, error) {
	for {
		if !r.sc.Scan() {
			if err := r.sc.Err(); err != nil {
				return Line{}, err
			}
			return Line{}, io.EOF
		}
		raw := r.sc.Text()
		trimmed := strings.TrimLeft(raw, "\t")
		indent := len(raw) - len(trimmed)

		line := Line{IndentBefore: indent}
		switch {
		case trimmed == "}":
			if r.indent == 0 {
				r.errs = multierror.Append(r.errs, fmt.Errorf("logformat: unmatched '}' line %q", raw))
			} else {
				r.indent--
			}
			line.IsEnd = true
			return line, nil

		case strings.HasSuffix(trimmed, " {"):
			line.Block = strings.TrimSuffix(trimmed, " {")
			line.IsBegin = true
			r.indent++
			return line, nil

		default:
			idx := strings.Index(trimmed, ": ")
			if idx == -1 {
				r.errs = multierror.Append(r.errs, fmt.Errorf("logformat: malformed line %q", raw))
				continue
			}
			line.Field = trimmed[:idx]
			line.Value = trimmed[idx+2:]
			return line, nil
		}
	}
}

// Errors returns the accumulated parse errors (nil if there were none).
func (r *Reader) Errors() error {
	return r.errs.ErrorOrNil()
}

// ParseUint parses a field value as a uint64, recording a parse error
// (without aborting) on failure.
func (r *Reader) ParseUint(field, value string) uint64 {
	v, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		r.errs = multierror.Append(r.errs, fmt.Errorf("logformat: field %q: %w", field, err))
		return 0
	}
	return v
}

// ParseInt parses a field value as an int64, recording a parse error
// (without aborting) on failure.
func (r *Reader) ParseInt(field, value string) int64 {
	v, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		r.errs = multierror.Append(r.errs, fmt.Errorf("logformat: field %q: %w", field, err))
		return 0
	}
	return v
}

// ParseFloat parses a field value as a float64, recording a parse error
// (without aborting) on failure.
func (r *Reader) ParseFloat(field, value string) float64 {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		r.errs = multierror.Append(r.errs, fmt.Errorf("logformat: field %q: %w", field, err))
		return 0
	}
	return v
}

// ParseBool parses a field value as a bool, recording a parse error
// (without aborting) on failure.
func (r *Reader) ParseBool(field, value string) bool {
	v, err := strconv.ParseBool(value)
	if err != nil {
		r.errs = multierror.Append(r.errs, fmt.Errorf("logformat: field %q: %w", field, err))
		return false
	}
	return v
}
