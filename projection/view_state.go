// Package projection holds the aggregation state of a section and the read
// model the presentation layer queries: categories in display order, rows,
// row visibility and header titles.
// It performs no I/O.
package projection

import (
	"class-detail/domain"

	"github.com/samber/lo"
)

// collapsedRowCount is how many rows a category shows before "show more".
const collapsedRowCount = 2

// Section is the whole state of one displayed category.
type Section struct {
	Category       domain.Category
	Rows           []domain.ContentRow
	ShowMore       bool
	HeaderOverride string
}

// ViewState is the single record behind a class detail screen.
// Sections are ordered by classification order; Basic comes first when present.
type ViewState struct {
	Summary  domain.SectionSummary
	Sections []Section
}

// NewViewState seeds a fresh state: Basic when the summary has something to show,
// then every category once, with show-more collapsed.
func NewViewState(summary domain.SectionSummary, categories []domain.Category, overrides map[domain.Category]string) *ViewState {
	state := &ViewState{Summary: summary}
	if summary.HasBasicInformation() {
		state.Sections = append(state.Sections, Section{Category: domain.Basic})
	}
	for _, c := range lo.Uniq(categories) {
		if c == domain.Basic || state.Has(c) {
			continue
		}
		state.Sections = append(state.Sections, Section{
			Category:       c,
			HeaderOverride: overrides[c],
		})
	}
	return state
}

func (v *ViewState) Categories() []domain.Category {
	return lo.Map(v.Sections, func(s Section, _ int) domain.Category {
		return s.Category
	})
}

func (v *ViewState) Has(c domain.Category) bool {
	_, ok := v.Section(c)
	return ok
}

func (v *ViewState) Section(c domain.Category) (Section, bool) {
	return lo.Find(v.Sections, func(s Section) bool {
		return s.Category == c
	})
}

// SetRows stores the fetched rows of a category.
func (v *ViewState) SetRows(c domain.Category, rows []domain.ContentRow) {
	for i := range v.Sections {
		if v.Sections[i].Category == c {
			v.Sections[i].Rows = rows
			return
		}
	}
}

// Remove drops a category and everything attached to it.
func (v *ViewState) Remove(c domain.Category) {
	v.Sections = lo.Reject(v.Sections, func(s Section, _ int) bool {
		return s.Category == c
	})
}

// ExpandRows sets show-more on a category. It reports false when the
// category is not displayed.
func (v *ViewState) ExpandRows(c domain.Category) bool {
	for i := range v.Sections {
		if v.Sections[i].Category == c {
			v.Sections[i].ShowMore = true
			return true
		}
	}
	return false
}

// Header is the override from the server settings, or the category name.
func (v *ViewState) Header(c domain.Category) string {
	s, ok := v.Section(c)
	if ok && s.HeaderOverride != "" {
		return s.HeaderOverride
	}
	return string(c)
}

func (v *ViewState) RowCount(c domain.Category) int {
	s, _ := v.Section(c)
	return len(s.Rows)
}

// VisibleRowCount is min(2, N) until show-more is set, then N.
// Basic always renders a single summary row.
func (v *ViewState) VisibleRowCount(c domain.Category) int {
	s, ok := v.Section(c)
	if !ok {
		return 0
	}
	if c == domain.Basic {
		return 1
	}
	if s.ShowMore {
		return len(s.Rows)
	}
	return min(collapsedRowCount, len(s.Rows))
}

// ShowMoreVisible tells whether the "show more" footer is offered.
func (v *ViewState) ShowMoreVisible(c domain.Category) bool {
	s, ok := v.Section(c)
	if !ok || s.ShowMore {
		return false
	}
	return len(s.Rows) > collapsedRowCount
}

// Row returns the i-th row of a category.
func (v *ViewState) Row(c domain.Category, i int) (domain.ContentRow, bool) {
	s, ok := v.Section(c)
	if !ok || i < 0 || i >= len(s.Rows) {
		return domain.ContentRow{}, false
	}
	return s.Rows[i], true
}

// Clone returns a copy that shares nothing mutable with v.
func (v *ViewState) Clone() ViewState {
	clone := ViewState{Summary: v.Summary}
	if v.Sections == nil {
		return clone
	}
	clone.Sections = make([]Section, len(v.Sections))
	for i, s := range v.Sections {
		s.Rows = append([]domain.ContentRow(nil), s.Rows...)
		clone.Sections[i] = s
	}
	return clone
}
