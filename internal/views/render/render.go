// Package render draws view output as plain terminal text: titled key/value
// blocks and aligned tables. Colors are applied only when the destination is
// a terminal.
package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	Success = lipgloss.Color("#8BC34A")
	Danger  = lipgloss.Color("#e53935")
	Warning = lipgloss.Color("#FFC107")
	Info    = lipgloss.Color("#2196F3")
	Muted   = lipgloss.Color("#8a94a6")
)

// Styles are bound to the writer they render to.
type Styles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Bold    lipgloss.Style
	Success lipgloss.Style
	Danger  lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Muted   lipgloss.Style
}

func NewStyles(w io.Writer) Styles {
	r := lipgloss.NewRenderer(w)
	return Styles{
		Title:   r.NewStyle().Bold(true).Foreground(Info),
		Label:   r.NewStyle().Foreground(Muted),
		Bold:    r.NewStyle().Bold(true),
		Success: r.NewStyle().Foreground(Success),
		Danger:  r.NewStyle().Foreground(Danger),
		Warning: r.NewStyle().Foreground(Warning),
		Info:    r.NewStyle().Foreground(Info),
		Muted:   r.NewStyle().Foreground(Muted),
	}
}

// Risk colors a risk category label.
func (s Styles) Risk(category string) string {
	switch category {
	case "Excellent":
		return s.Success.Render(category)
	case "Good":
		return s.Info.Render(category)
	case "Fair":
		return s.Warning.Render(category)
	default:
		return s.Danger.Render(category)
	}
}

// Pair is one line of a key/value block.
type Pair struct {
	Key   string
	Value string
}

// Block is a titled list of key/value pairs with aligned values.
type Block struct {
	Title string
	Pairs []Pair
}

func (b *Block) Add(key, value string) {
	b.Pairs = append(b.Pairs, Pair{Key: key, Value: value})
}

func (b *Block) View(styles Styles) string {
	var sb strings.Builder
	if b.Title != "" {
		sb.WriteString(styles.Title.Render(b.Title))
		sb.WriteString("\n")
	}
	width := 0
	for _, p := range b.Pairs {
		if w := lipgloss.Width(p.Key); w > width {
			width = w
		}
	}
	for _, p := range b.Pairs {
		sb.WriteString("  ")
		sb.WriteString(styles.Label.Render(padRight(p.Key+":", width+1)))
		sb.WriteString(" ")
		sb.WriteString(p.Value)
		sb.WriteString("\n")
	}
	return sb.String()
}

// Table is a static table with a header row.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

func NewTable(title string, headers ...string) *Table {
	return &Table{Title: title, Headers: headers, Rows: make([][]string, 0)}
}

func (t *Table) AddRow(row ...string) {
	t.Rows = append(t.Rows, row)
}

// View renders the table. An empty table renders as empty.
func (t *Table) View(styles Styles) string {
	if len(t.Rows) == 0 {
		return ""
	}

	var sb strings.Builder
	if t.Title != "" {
		sb.WriteString(styles.Title.Render(t.Title))
		sb.WriteString("\n")
	}

	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) {
				if w := lipgloss.Width(cell); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}

	for i, h := range t.Headers {
		sb.WriteString(styles.Bold.Render(padRight(h, widths[i])))
		if i < len(t.Headers)-1 {
			sb.WriteString("  ")
		}
	}
	sb.WriteString("\n")

	for i, w := range widths {
		sb.WriteString(styles.Muted.Render(strings.Repeat("-", w)))
		if i < len(widths)-1 {
			sb.WriteString("  ")
		}
	}
	sb.WriteString("\n")

	for _, row := range t.Rows {
		for i := range t.Headers {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			if i < len(t.Headers)-1 {
				sb.WriteString(padRight(cell, widths[i]))
				sb.WriteString("  ")
			} else {
				sb.WriteString(cell)
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func padRight(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

// Write prints each non-empty view followed by a newline.
func Write(w io.Writer, views ...string) error {
	for _, v := range views {
		if v == "" {
			continue
		}
		if _, err := fmt.Fprintln(w, v); err != nil {
			return err
		}
	}
	return nil
}

var printer = message.NewPrinter(language.English)

// Number groups thousands and keeps two decimals only for fractional values.
func Number(v float64) string {
	if v == math.Trunc(v) {
		return printer.Sprintf("%.0f", v)
	}
	return printer.Sprintf("%.2f", v)
}

// Money formats an amount in rupees.
func Money(v float64) string {
	return "₹" + Number(v)
}

// Score formats a NovaScore with one decimal.
func Score(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

// Percent formats an already scaled percentage.
func Percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}
