package dateparse

import (
	"errors"
	"fmt"
	"time"

	"github.com/vvka-141/cdmload/pkg/cdm"
)

// Layouts accepted by the parser. Day and month may be one or two digits.
const (
	LayoutTwoDigitYear  = "2/1/06"
	LayoutFourDigitYear = "2/1/2006"
)

// minLength is the shortest input that is treated as a date at all.
const minLength = 2

// ErrNotString is reported for ParseValue inputs that are not strings.
var ErrNotString = errors.New("date value is not a string")

// Status classifies a parse outcome.
type Status int

const (
	// StatusAbsent means the field was empty, too short or not text.
	StatusAbsent Status = iota
	// StatusParsed means Date holds a valid date.
	StatusParsed
	// StatusMalformed means the field had content that is not a date.
	StatusMalformed
)

func (s Status) String() string {
	switch s {
	case StatusAbsent:
		return "absent"
	case StatusParsed:
		return "parsed"
	case StatusMalformed:
		return "malformed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Result is the outcome of parsing one field.
type Result struct {
	Input  string
	Status Status
	Date   cdm.Date

	// FourDigitYear is set when the input only matched DD/MM/YYYY.
	FourDigitYear bool

	// Err explains StatusMalformed, and StatusAbsent for non-string input.
	Err error
}

// Value returns the parsed date, or a null date for any other status.
func (r Result) Value() cdm.Date {
	if r.Status != StatusParsed {
		return cdm.Date{}
	}
	return r.Date
}

// Parser converts CDM date strings. The zero value is not usable; call New.
type Parser struct {
	strict bool
	logger cdm.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithStrictYears limits parsing to two-digit years.
func WithStrictYears(strict bool) Option {
	return func(p *Parser) {
		p.strict = strict
	}
}

// New creates a Parser that traces every conversion through logger.
func New(logger cdm.Logger, opts ...Option) *Parser {
	p := &Parser{logger: logger}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse converts s. It never panics and never returns an error directly;
// failures are logged and reported as StatusMalformed.
func (p *Parser) Parse(s string) Result {
	p.logger.Verbose("Going to convert date %s", s)

	if len(s) < minLength {
		return Result{Input: s, Status: StatusAbsent}
	}

	t, err := time.Parse(LayoutTwoDigitYear, s)
	if err == nil {
		return Result{Input: s, Status: StatusParsed, Date: cdm.DateOf(t)}
	}

	if !p.strict {
		if t4, err4 := time.Parse(LayoutFourDigitYear, s); err4 == nil {
			p.logger.Verbose("Date %q has a four-digit year", s)
			return Result{Input: s, Status: StatusParsed, Date: cdm.DateOf(t4), FourDigitYear: true}
		}
	}

	p.logger.Error("Error parsing date %q: %v", s, err)
	return Result{Input: s, Status: StatusMalformed, Err: err}
}

// ParseValue converts v if it is a string and reports StatusAbsent otherwise.
func (p *Parser) ParseValue(v any) Result {
	switch s := v.(type) {
	case string:
		return p.Parse(s)
	case *string:
		if s == nil {
			return Result{Status: StatusAbsent}
		}
		return p.Parse(*s)
	default:
		return Result{Status: StatusAbsent, Err: fmt.Errorf("%w: %T", ErrNotString, v)}
	}
}
