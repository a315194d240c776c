package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	apperrors "options-pricer/internal/errors"
)

// Prompter asks for one field at a time and re-prompts on recoverable errors.
type Prompter struct {
	scanner     *bufio.Scanner
	out         io.Writer
	maxAttempts int
	output      *Output
}

// NewPrompter reads answers from in and writes prompts to out.
// maxAttempts bounds re-prompts per field; 0 means unbounded.
func NewPrompter(in io.Reader, out io.Writer, maxAttempts int) *Prompter {
	return &Prompter{
		scanner:     bufio.NewScanner(in),
		out:         out,
		maxAttempts: maxAttempts,
		output:      &Output{writer: out},
	}
}

// WithOutput routes validation messages through o, for colour.
func (p *Prompter) WithOutput(o *Output) *Prompter {
	p.output = &Output{writer: p.out, colorEnabled: o.colorEnabled}
	return p
}

// Ask prompts with label until accept returns nil. Recoverable errors are
// printed and the field is asked again; any other error is returned as is.
func (p *Prompter) Ask(field, label string, accept func(answer string) error) error {
	for attempt := 1; ; attempt++ {
		fmt.Fprint(p.out, label)

		if !p.scanner.Scan() {
			if err := p.scanner.Err(); err != nil {
				return apperrors.Wrapf(err, "reading %s", field)
			}
			return apperrors.Wrapf(io.ErrUnexpectedEOF, "reading %s", field)
		}

		err := accept(strings.TrimSpace(p.scanner.Text()))
		if err == nil {
			return nil
		}
		if !apperrors.IsRecoverable(err) {
			return err
		}

		p.output.Error("%v", err)
		if p.maxAttempts > 0 && attempt >= p.maxAttempts {
			return apperrors.Wrapf(apperrors.ErrTooManyAttempts, "%s: %d invalid answers", field, attempt)
		}
	}
}

// askValue prompts for a single parsed value.
func askValue[T any](p *Prompter, field, label string, parse func(string) (T, error)) (T, error) {
	var value T
	err := p.Ask(field, label, func(answer string) error {
		v, err := parse(answer)
		if err != nil {
			return err
		}
		value = v
		return nil
	})
	return value, err
}
