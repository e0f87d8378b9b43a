package domain

import "strings"

type Category string

const (
	// Basic is synthetic: it carries the teacher/room summary and is never fetched.
	Basic        Category = "Basic"
	Syllabus     Category = "Syllabus"
	Link         Category = "Link"
	Announcement Category = "Announcement"
	Download     Category = "Download"
	Text         Category = "Text"
	Expectation  Category = "Expectation"
	// Photo is handled by the profile photo cache and never displayed as rows.
	Photo Category = "Photo"
)

// Categories is the full set of category names the catalog may reference.
var Categories = []Category{
	Basic,
	Syllabus,
	Link,
	Announcement,
	Download,
	Text,
	Expectation,
	Photo,
}

func (c Category) IsKnown() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Slug is the lower-case path segment used by the remote API for this category.
func (c Category) Slug() string {
	return strings.ToLower(string(c))
}

// Layout tells which item keys feed the title and the body of a row.
// An empty TitleKey means the category has no title.
type Layout struct {
	TitleKey string
	BodyKey  string
}

var layouts = map[Category]Layout{
	Syllabus:     {TitleKey: "ShortDescription", BodyKey: "Description"},
	Link:         {TitleKey: "ShortDescription", BodyKey: "Description"},
	Announcement: {TitleKey: "Name", BodyKey: "Description"},
	Download:     {TitleKey: "Description", BodyKey: "LongDescription"},
	Text:         {TitleKey: "Description", BodyKey: "LongText"},
	Expectation:  {TitleKey: "", BodyKey: "ShortDescription"},
}

// LayoutOf returns the row layout of a fetchable category.
func LayoutOf(c Category) (Layout, bool) {
	l, ok := layouts[c]
	return l, ok
}
