package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/vvka-141/cdmload/pkg/cdm"
)

// nullText marks a null cell in table mode.
const nullText = "NULL"

// Printer writes the projects table dump.
type Printer struct {
	out  io.Writer
	mode Mode
}

// NewPrinter writes to stdout in the detected mode.
func NewPrinter() *Printer {
	return &Printer{out: os.Stdout, mode: DetectMode()}
}

// NewWriterPrinter writes to out in the given mode.
func NewWriterPrinter(out io.Writer, mode Mode) *Printer {
	return &Printer{out: out, mode: mode}
}

func (p *Printer) PrintProjects(projects []cdm.Project) error {
	if p.mode == ModeInteractive {
		return p.printTable(projects)
	}
	return p.printTuples(projects)
}

func (p *Printer) printTuples(projects []cdm.Project) error {
	for i := range projects {
		if _, err := fmt.Fprintln(p.out, FormatTuple(projects[i].Values())); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) printTable(projects []cdm.Project) error {
	rows := make([][]string, len(projects))
	nulls := make(map[[2]int]bool)
	for i := range projects {
		values := projects[i].Values()
		cells := make([]string, len(values))
		for j, v := range values {
			if v == nil {
				cells[j] = nullText
				nulls[[2]int{i, j}] = true
				continue
			}
			cells[j] = fmt.Sprint(v)
		}
		rows[i] = cells
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(BorderStyle).
		Headers(cdm.ProjectColumns...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return HeaderStyle
			case nulls[[2]int{row, col}]:
				return NullStyle
			default:
				return CellStyle
			}
		})

	_, err := fmt.Fprintln(p.out, t.String())
	return err
}

// FormatTuple renders values as a tuple literal: strings quoted, nil as None.
//
//	('id', 'org', 'UNFCCC CDM', None, '2019-02-01')
func FormatTuple(values []any) string {
	var b strings.Builder
	b.WriteByte('(')
	for i, v := range values {
		if i > 0 {
			b.WriteString(", ")
		}
		switch x := v.(type) {
		case nil:
			b.WriteString("None")
		case string:
			b.WriteString(quote(x))
		case fmt.Stringer:
			b.WriteString(quote(x.String()))
		default:
			fmt.Fprintf(&b, "%v", x)
		}
	}
	b.WriteByte(')')
	return b.String()
}

// quote uses single quotes unless the text holds a single quote and no double quote.
func quote(s string) string {
	q := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		q = '"'
	}

	var b strings.Builder
	b.WriteByte(q)
	for _, r := range s {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == rune(q):
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, `\x%02x`, r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(q)
	return b.String()
}

var _ cdm.ProjectPrinter = (*Printer)(nil)
