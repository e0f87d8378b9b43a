package storage

import (
	"class-detail/domain"
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// EncodeSyllabus serializes a snapshot as a protobuf ListValue of Structs.
// Absent fields are omitted rather than stored as null.
func EncodeSyllabus(entries []domain.SyllabusEntry) ([]byte, error) {
	values := make([]*structpb.Value, 0, len(entries))
	for _, e := range entries {
		fields := make(map[string]*structpb.Value, 4)
		putString(fields, "Description", e.Description)
		putString(fields, "ShortDescription", e.ShortDescription)
		putString(fields, "Attachment", e.Attachment)
		putString(fields, "AttachmentQueryString", e.AttachmentQueryString)
		values = append(values, structpb.NewStructValue(&structpb.Struct{Fields: fields}))
	}

	data, err := proto.Marshal(&structpb.ListValue{Values: values})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal syllabus snapshot: %w", err)
	}
	return data, nil
}

func DecodeSyllabus(data []byte) ([]domain.SyllabusEntry, error) {
	var list structpb.ListValue
	if err := proto.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to unmarshal syllabus snapshot: %w", err)
	}

	entries := make([]domain.SyllabusEntry, 0, len(list.GetValues()))
	for i, v := range list.GetValues() {
		s := v.GetStructValue()
		if s == nil {
			return nil, fmt.Errorf("syllabus snapshot entry %d is not an object", i)
		}
		entries = append(entries, domain.SyllabusEntry{
			Description:           getString(s, "Description"),
			ShortDescription:      getString(s, "ShortDescription"),
			Attachment:            getString(s, "Attachment"),
			AttachmentQueryString: getString(s, "AttachmentQueryString"),
		})
	}
	return entries, nil
}

func putString(fields map[string]*structpb.Value, key string, value *string) {
	if value != nil {
		fields[key] = structpb.NewStringValue(*value)
	}
}

func getString(s *structpb.Struct, key string) *string {
	v, ok := s.GetFields()[key]
	if !ok {
		return nil
	}
	str, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return nil
	}
	return &str.StringValue
}
