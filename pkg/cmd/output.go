package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/pqd/pqd-sdk/pkg/config"
)

// printer - writes a value as yaml or json, or through its text renderer
type printer struct {
	out    io.Writer
	format string
}

func newPrinter(out io.Writer, format string) *printer {
	return &printer{out: out, format: format}
}

// print - text renders v as aligned columns, any other format encodes v itself
func (p *printer) print(v interface{}, text func(w io.Writer)) error {
	switch p.format {
	case config.OutputYAML:
		enc := yaml.NewEncoder(p.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case config.OutputJSON:
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	w := tabwriter.NewWriter(p.out, 0, 4, 2, ' ', 0)
	text(w)
	return w.Flush()
}

// message - a single line, encoded as {"message": ...} outside of text output
func (p *printer) message(format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	return p.print(map[string]string{"message": msg}, func(w io.Writer) {
		fmt.Fprintln(w, msg)
	})
}

// row - one tab separated line
func row(w io.Writer, columns ...interface{}) {
	values := make([]string, len(columns))
	for i, c := range columns {
		values[i] = fmt.Sprint(c)
	}
	fmt.Fprintln(w, strings.Join(values, "\t"))
}
