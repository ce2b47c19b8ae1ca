// Package table renders attribute-bearing records as aligned text tables.
package table

import (
	"strings"

	"github.com/muurk/blkmenu/internal/lsblk"
)

// Column is one display column. A column spec string may carry a leading
// '>' to right-align the column; alignment defaults to left.
type Column struct {
	Name  string
	Right bool
}

// ParseColumns converts column spec strings into Columns.
func ParseColumns(specs []string) []Column {
	out := make([]Column, 0, len(specs))
	for _, s := range specs {
		c := Column{Name: s}
		if strings.HasPrefix(s, ">") {
			c.Name = s[1:]
			c.Right = true
		}
		out = append(out, c)
	}
	return out
}

// Options controls table rendering.
type Options struct {
	// Header renders an upper-cased label row above the body.
	Header bool
	// Sep joins columns when Stretch is off. Empty means two spaces.
	Sep string
	// Stretch pads the gaps between columns with computed runs of
	// spaces so the rendered line width approaches Width.
	Stretch bool
	Width   int
}

// Format renders rows into a header line and body lines. Column widths
// are computed once, up front, as the maximum rendered value width per
// column (including the header label when headers are shown); every row
// then renders with those widths, which is what produces the vertical
// alignment.
func Format(rows []map[string]any, cols []Column, opts Options) (string, []string) {
	if opts.Sep == "" {
		opts.Sep = "  "
	}

	widths := make([]int, len(cols))
	for i, c := range cols {
		if opts.Header {
			widths[i] = len([]rune(strings.ToUpper(c.Name)))
		}
		for _, row := range rows {
			if w := len([]rune(lsblk.Render(row[c.Name]))); w > widths[i] {
				widths[i] = w
			}
		}
	}

	sep := opts.Sep
	if opts.Stretch && len(cols) > 1 {
		total := 0
		for _, w := range widths {
			total += w
		}
		gaps := len(cols) - 1
		pad := (opts.Width - total) / gaps
		if pad < 1 {
			pad = 1
		}
		sep = strings.Repeat(" ", pad)
	}

	render := func(value func(c Column) string) string {
		parts := make([]string, len(cols))
		for i, c := range cols {
			parts[i] = justify(value(c), widths[i], c.Right)
		}
		return strings.TrimRight(strings.Join(parts, sep), " ")
	}

	var header string
	if opts.Header {
		header = render(func(c Column) string { return strings.ToUpper(c.Name) })
	}
	lines := make([]string, len(rows))
	for i, row := range rows {
		r := row
		lines[i] = render(func(c Column) string { return lsblk.Render(r[c.Name]) })
	}
	return header, lines
}

func justify(s string, width int, right bool) string {
	pad := width - len([]rune(s))
	if pad <= 0 {
		return s
	}
	if right {
		return strings.Repeat(" ", pad) + s
	}
	return s + strings.Repeat(" ", pad)
}
