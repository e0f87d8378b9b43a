package catalog

import (
	"class-detail/domain"
	"encoding/json"
)

const headerTextKey = "HeaderText"

// Resolve maps descriptors to category names in input order.
// Duplicates are kept and unknown content ids are skipped, so that content
// types introduced server side do not break older clients.
// A "HeaderText" found in the generic settings overrides the category header;
// the last descriptor of a category wins.
func (c *Catalog) Resolve(descriptors []domain.ContentDescriptor) ([]domain.Category, map[domain.Category]string) {
	categories := make([]domain.Category, 0, len(descriptors))
	overrides := make(map[domain.Category]string)

	for _, d := range descriptors {
		category, ok := c.Lookup(d.ContentID)
		if !ok {
			continue
		}
		categories = append(categories, category)

		if header, ok := headerText(d.GenericSettings); ok {
			overrides[category] = header
		}
	}
	return categories, overrides
}

// headerText extracts HeaderText from a JSON encoded settings map.
// Unparseable settings are ignored.
func headerText(settings *string) (string, bool) {
	if settings == nil || *settings == "" {
		return "", false
	}
	var values map[string]any
	if err := json.Unmarshal([]byte(*settings), &values); err != nil {
		return "", false
	}
	header, ok := values[headerTextKey].(string)
	return header, ok
}
