package main

import (
	"class-detail/domain"
	"class-detail/projection"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

// Render prints every displayed category as a table, collapsed rows included
// only once show-more is set.
func Render(out io.Writer, state projection.ViewState) {
	if len(state.Sections) == 0 {
		_, _ = fmt.Fprintln(out, "No content for this class.")
		return
	}

	for _, c := range state.Categories() {
		_, _ = fmt.Fprintln(out, color.New(color.BgBlack, color.FgGreen).Render(" "+state.Header(c)+" "))

		table := tablewriter.NewWriter(out)
		table.SetAutoWrapText(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		table.SetBorder(false)
		table.SetHeaderLine(false)
		table.SetCenterSeparator("")
		table.SetColumnSeparator("")
		table.SetRowSeparator("")
		table.SetTablePadding("\t")

		if c == domain.Basic {
			table.SetHeader([]string{"Teacher", "Room"})
			table.Append([]string{state.Summary.TeacherName, state.Summary.RoomNumber})
			table.Render()
			continue
		}

		table.SetHeader([]string{"#", "Title", "Body", "Target"})
		for i := 0; i < state.VisibleRowCount(c); i++ {
			row, _ := state.Row(c, i)
			table.Append([]string{strconv.Itoa(i), row.Title, truncate(row.Body, 80), target(row)})
		}
		table.Render()

		if state.ShowMoreVisible(c) {
			_, _ = fmt.Fprintf(out, "  ... %d more\n", state.RowCount(c)-state.VisibleRowCount(c))
		}
	}
}

func target(row domain.ContentRow) string {
	switch {
	case !row.HasTarget():
		return ""
	case row.URL != nil:
		return *row.URL
	default:
		return *row.AttachmentFileName
	}
}

func truncate(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}

// ParseRowRef reads "Category:index".
func ParseRowRef(ref string) (domain.Category, int, error) {
	name, idx, ok := strings.Cut(ref, ":")
	if !ok {
		return "", 0, fmt.Errorf("row reference %q must look like Category:index", ref)
	}
	category := domain.Category(name)
	if !category.IsKnown() {
		return "", 0, fmt.Errorf("unknown category %q", name)
	}
	i, err := strconv.Atoi(idx)
	if err != nil || i < 0 {
		return "", 0, fmt.Errorf("invalid row index %q", idx)
	}
	return category, i, nil
}
