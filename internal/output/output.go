// Package output serializes results and failures to the caller. It is the
// single place where monetary normalization is applied: exactly once, on the
// success path, immediately before encoding.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/stephendolan/chartmogul-cli/internal/apierror"
	"github.com/stephendolan/chartmogul-cli/internal/money"
)

// Printer writes JSON output. The compact/pretty choice is carried here as an
// explicit value rather than process-wide state.
type Printer struct {
	W       io.Writer
	Compact bool
}

// New creates a Printer writing to w.
func New(w io.Writer, compact bool) Printer {
	return Printer{W: w, Compact: compact}
}

// JSON normalizes monetary fields in v and writes it as a single JSON
// document followed by a newline. Callers must pass un-normalized API data;
// normalizing twice silently corrupts values.
func (p Printer) JSON(v any) error {
	return p.encode(money.Normalize(v))
}

// Failure writes a classified error response. Failure output is never
// normalized.
func (p Printer) Failure(resp apierror.Response) error {
	return p.encode(resp)
}

func (p Printer) encode(v any) error {
	var (
		data []byte
		err  error
	)
	if p.Compact {
		data, err = json.Marshal(v)
	} else {
		data, err = json.MarshalIndent(v, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	_, err = fmt.Fprintf(p.W, "%s\n", data)
	return err
}
