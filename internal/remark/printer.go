// Package remark prints records as compiler-style remarks on a terminal.
package remark

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/opt-report/internal/message"
	"github.com/opt-report/pkg/model"
)

// ColorMode selects when output is colourised.
type ColorMode string

const (
	ColorAuto ColorMode = "auto"
	ColorOn   ColorMode = "on"
	ColorOff  ColorMode = "off"
)

// ParseColorMode validates a --color value.
func ParseColorMode(s string) (ColorMode, error) {
	switch ColorMode(strings.ToLower(s)) {
	case ColorAuto, "":
		return ColorAuto, nil
	case ColorOn, "always":
		return ColorOn, nil
	case ColorOff, "never":
		return ColorOff, nil
	default:
		return "", fmt.Errorf("invalid color mode %q (auto|on|off)", s)
	}
}

// Enabled resolves the mode for a writer. Auto colours terminals only.
func (m ColorMode) Enabled(w io.Writer) bool {
	switch m {
	case ColorOn:
		return true
	case ColorOff:
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Printer writes one remark line per record:
//
//	file:line:col: remark: message [pass=name] [count(quality)=N]
type Printer struct {
	w      io.Writer
	bold   *color.Color
	remark *color.Color
	note   *color.Color
}

// NewPrinter creates a Printer writing to w.
func NewPrinter(w io.Writer, mode ColorMode) *Printer {
	p := &Printer{
		w:      w,
		bold:   color.New(color.Bold),
		remark: color.New(color.FgGreen, color.Bold),
		note:   color.New(color.Bold, color.FgCyan),
	}
	enabled := mode.Enabled(w)
	for _, c := range []*color.Color{p.bold, p.remark, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Format renders r as a remark line without the trailing newline.
func (p *Printer) Format(r *model.Record) (string, error) {
	if _, err := message.PlainText(r.Message); err != nil {
		return "", err
	}

	var b strings.Builder
	if r.Location != nil {
		b.WriteString(p.bold.Sprint(r.Location.String() + ": "))
		b.WriteString(p.remark.Sprint("remark: "))
	}
	for _, item := range r.Message {
		if item.Kind.IsReference() {
			b.WriteString("'" + p.bold.Sprint(item.Text) + "'")
		} else {
			b.WriteString(item.Text)
		}
	}
	if r.Pass != nil {
		b.WriteString(" [" + p.remark.Sprintf("pass=%s", r.Pass.Name) + "]")
	}
	if r.Count != nil {
		b.WriteString(" [" + p.note.Sprintf("count(%s)=%d", r.Count.Quality, int64(r.Count.Value)) + "]")
	}
	return b.String(), nil
}

// Print writes r as one line.
func (p *Printer) Print(r *model.Record) error {
	line, err := p.Format(r)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(p.w, line)
	return err
}

// PrintUnits prints the top-level records of every unit and returns the
// number printed.
func (p *Printer) PrintUnits(units []*model.TranslationUnit) (int, error) {
	n := 0
	for _, tu := range units {
		for _, r := range tu.Records {
			if err := p.Print(r); err != nil {
				return n, err
			}
			n++
		}
	}
	return n, nil
}

// Truncate shortens s to at most width terminal cells, ending in "..."
// when cut. A width of zero or less leaves s unchanged.
func Truncate(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}
