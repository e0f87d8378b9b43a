package domain

// ContentDescriptor is one entry of the "possible content" listing of a section.
type ContentDescriptor struct {
	ContentID       int     `json:"ContentId"`
	GenericSettings *string `json:"GenericSettings"`
}

// ContentItem is a raw item returned by a per-category endpoint.
// Field types vary between categories, so values are kept undecoded.
type ContentItem map[string]any

// String returns the value under key when it is a JSON string.
func (i ContentItem) String(key string) (string, bool) {
	if key == "" {
		return "", false
	}
	s, ok := i[key].(string)
	return s, ok
}

// OptionalString is String as a pointer, nil when absent or not a string.
func (i ContentItem) OptionalString(key string) *string {
	s, ok := i.String(key)
	if !ok {
		return nil
	}
	return &s
}

// ContentRow is one displayable item within a category.
type ContentRow struct {
	Title                 string
	Body                  string
	URL                   *string
	AttachmentFileName    *string
	AttachmentQueryString *string
	DirectDownloadURL     *string
}

// HasTarget reports whether tapping the row title can open something.
func (r ContentRow) HasTarget() bool {
	if r.Title == "" {
		return false
	}
	return r.URL != nil || r.AttachmentFileName != nil
}

// ToRow projects a raw item through the category layout.
func (l Layout) ToRow(item ContentItem) ContentRow {
	title, _ := item.String(l.TitleKey)
	body, _ := item.String(l.BodyKey)

	attachment := item.OptionalString("Attachment")
	if attachment == nil {
		attachment = item.OptionalString("FileName")
	}

	return ContentRow{
		Title:                 title,
		Body:                  body,
		URL:                   item.OptionalString("Url"),
		AttachmentFileName:    attachment,
		AttachmentQueryString: item.OptionalString("AttachmentQueryString"),
		DirectDownloadURL:     item.OptionalString("DownloadUrl"),
	}
}

// SyllabusEntry is the subset of a syllabus item kept in the offline snapshot.
type SyllabusEntry struct {
	Description           *string
	ShortDescription      *string
	Attachment            *string
	AttachmentQueryString *string
}

func ToSyllabusEntry(item ContentItem) SyllabusEntry {
	return SyllabusEntry{
		Description:           item.OptionalString("Description"),
		ShortDescription:      item.OptionalString("ShortDescription"),
		Attachment:            item.OptionalString("Attachment"),
		AttachmentQueryString: item.OptionalString("AttachmentQueryString"),
	}
}
