package content

import (
	"fmt"
	"strings"
)

// AnalyticsCategory is the script category stored as a single row with a fixed id.
const AnalyticsCategory = "analytics"

// ScriptRow is one stored script snippet.
type ScriptRow struct {
	ID       int64
	Category string
	Type     *string
	Content  *string
}

// ScriptEntry is one snippet inside a category.
type ScriptEntry struct {
	ScriptType    *string `json:"ScriptType"`
	ScriptContent *string `json:"ScriptContent"`
}

// ScriptGroup is the public shape of a script category.
type ScriptGroup struct {
	ID             int64         `json:"id"`
	ScriptCategory string        `json:"ScriptCategory"`
	Sections       []ScriptEntry `json:"Sections"`
}

// GroupScripts groups rows by category. The group takes the id of its first row.
func GroupScripts(rows []ScriptRow) []ScriptGroup {
	groups := make([]ScriptGroup, 0)
	index := make(map[string]int)
	for _, row := range rows {
		entry := ScriptEntry{ScriptType: row.Type, ScriptContent: row.Content}
		if i, ok := index[row.Category]; ok {
			groups[i].Sections = append(groups[i].Sections, entry)
			continue
		}
		index[row.Category] = len(groups)
		groups = append(groups, ScriptGroup{ID: row.ID, ScriptCategory: row.Category, Sections: []ScriptEntry{entry}})
	}
	return groups
}

// ScriptUpload replaces every snippet of one category.
type ScriptUpload struct {
	ID             FlexInt       `json:"id"`
	ScriptCategory string        `json:"ScriptCategory"`
	Sections       []ScriptEntry `json:"Sections"`
}

// Rows converts the upload to storage rows. The analytics category keeps only
// its first snippet under the submitted id; other rows get generated ids.
func (u ScriptUpload) Rows() ([]ScriptRow, error) {
	category := strings.TrimSpace(u.ScriptCategory)
	if category == "" {
		return nil, fmt.Errorf("%w: script category is required", ErrInvalidUpload)
	}
	if len(u.Sections) == 0 {
		return nil, fmt.Errorf("%w: at least one script is required", ErrInvalidUpload)
	}
	if category == AnalyticsCategory {
		first := u.Sections[0]
		return []ScriptRow{{ID: int64(u.ID), Category: category, Type: first.ScriptType, Content: first.ScriptContent}}, nil
	}
	rows := make([]ScriptRow, 0, len(u.Sections))
	for _, s := range u.Sections {
		rows = append(rows, ScriptRow{Category: category, Type: s.ScriptType, Content: s.ScriptContent})
	}
	return rows, nil
}
