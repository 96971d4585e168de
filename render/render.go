package render

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	sent "github.com/revelaction/terms/sentence"
	"github.com/revelaction/terms/table"
)

const (
	FormatTable = "table"
	FormatCSV   = "csv"
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
	FormatAggr  = "aggr"

	DefaultFormat = FormatTable
)

var (
	Black   = "\033[1;30m"
	Red     = "\033[1;31m"
	Green   = "\033[1;32m"
	Yellow  = "\033[0;33m"
	Purple  = "\033[1;34m"
	Magenta = "\033[1;35m"
	Teal    = "\033[1;36m"
	Gray    = "\033[0;37m"
	White   = "\033[1;37m"
	Off     = "\033[0m"
	//Yellow256  = "\033[1;38;5;202m"
	Yellow256 = "\033[1;38;5;130m"
	Grey256   = "\033[1;38;5;145m"
	Green256  = "\033[1;38;5;70m"
	ClearLine = "\033[K"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Align(lipgloss.Center)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func SupportedFormats() []string {
	return []string{FormatTable, FormatCSV, FormatJSON, FormatJSONL, FormatAggr}
}

type Renderer struct {
	W io.Writer

	HasColor bool

	// HasPrefix prints the row count in the aggr format and the label in
	// front of highlighted sentences.
	HasPrefix bool

	// Format determines the output of Table
	//
	// table: bordered table
	// csv: comma separated values with header
	// json: array of objects
	// jsonl: one object per line
	// aggr: processed phrases, most frequent first
	Format string
}

func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{W: w, Format: DefaultFormat}
}

// Table writes t in the Renderer Format.
func (r *Renderer) Table(t *table.Table) error {
	switch r.Format {
	case FormatTable, "":
		return r.table(t)
	case FormatCSV:
		return r.csv(t)
	case FormatJSON:
		return r.json(t)
	case FormatJSONL:
		return r.jsonl(t)
	case FormatAggr:
		return r.aggr(t)
	}

	return fmt.Errorf("unknown format %q, allowed values are %s", r.Format, strings.Join(SupportedFormats(), ", "))
}

func (r *Renderer) table(t *table.Table) error {
	lt := ltable.New().
		Headers(t.Columns...).
		Rows(t.Strings()...).
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == ltable.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	_, err := fmt.Fprintln(r.W, lt.String())
	return err
}

func (r *Renderer) csv(t *table.Table) error {
	w := csv.NewWriter(r.W)
	if err := w.Write(t.Columns); err != nil {
		return err
	}

	if err := w.WriteAll(t.Strings()); err != nil {
		return err
	}

	return w.Error()
}

// Sentence writes the tokens as they appear in the text, the tokens in
// matches highlighted.
func (r *Renderer) Sentence(s []sent.Token, matches []sent.Token, prefix string) {
	text := r.sentence(s, matches)
	fmt.Fprintf(r.W, "%s%s\n", prefix, strings.ReplaceAll(text, "\n", " "))
}

func (r *Renderer) SentenceString(s []sent.Token, matches []sent.Token) string {
	text := r.sentence(s, matches)
	return strings.ReplaceAll(text, "\n", " ")
}

// Label returns the prefix for a highlighted sentence of the label.
func (r *Renderer) Label(label string) string {
	if !r.HasPrefix {
		return ""
	}

	if r.HasColor {
		label = Yellow256 + label + Off
	}

	return fmt.Sprintf("🏷  %s ✍  ", label)
}

func (r *Renderer) sentence(sentence, matches []sent.Token) string {
	var str strings.Builder
	var lastIdx, lastLen int
	for i, token := range sentence {
		l := len([]rune(token.Text))
		if i == 0 {
			str.WriteString(colorToken(token, matches, r.HasColor))
			lastIdx = token.Idx
			lastLen = l
			continue
		}

		// the parts of a multi token word share text and idx; only the
		// first one is written.
		diff := token.Idx - lastIdx

		if diff > 0 {
			str.WriteString(strings.Repeat(" ", max(diff-lastLen, 0)))
			str.WriteString(colorToken(token, matches, r.HasColor))
		}

		lastIdx = token.Idx
		lastLen = l
	}

	return str.String()
}

func colorToken(token sent.Token, matches []sent.Token, hasColor bool) string {
	if !hasColor {
		return token.Text
	}

	if slices.ContainsFunc(matches, func(mt sent.Token) bool { return mt.Id == token.Id }) {
		return Green256 + token.Text + Off
	}

	return token.Text
}

// NextFormat sets the Renderer Format option to a different one, following
// the SupportedFormats() order.
func (r *Renderer) NextFormat() {

	supported := SupportedFormats()
	for i, format := range supported {
		if format == r.Format {
			switch i {
			case len(supported) - 1:
				r.Format = supported[0]
			default:
				r.Format = supported[i+1]
			}

			break
		}
	}
}

func (r *Renderer) NextPrefix() {

	// toggle
	r.HasPrefix = !r.HasPrefix
}
