package domain

// SectionSummary identifies the class section being displayed.
type SectionSummary struct {
	SectionID   string `validate:"required,max=64"`
	TeacherName string `validate:"max=256"`
	RoomNumber  string `validate:"max=64"`
	PhotoURL    string `validate:"omitempty,url"`
}

// HasBasicInformation reports whether the teacher/room summary is worth displaying.
func (s SectionSummary) HasBasicInformation() bool {
	return s.TeacherName != "" || s.RoomNumber != ""
}

// ProfileKey is the cache key of the section's profile photo.
func ProfileKey(sectionID string) string {
	return sectionID + "_profile"
}

// SyllabusKey is the cache key of the section's syllabus snapshot.
func SyllabusKey(sectionID string) string {
	return sectionID + "_syllabus"
}

func AttachmentKey(fileName string) string {
	return "attachment_" + fileName
}
