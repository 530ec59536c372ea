// Package content regroups flat relational rows into nested post documents and
// decomposes uploaded documents back into rows.
package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// SectionKind is the stored discriminator of an ordered post section.
type SectionKind string

const (
	KindParagraph SectionKind = "para"
	KindHeading   SectionKind = "head"
	KindAnchor    SectionKind = "anchor"
	KindImage     SectionKind = "Img"
	KindTable     SectionKind = "Table"
)

// FeaturingImage is the image subtype used for a post's cover picture.
const FeaturingImage = "Featuring_Image"

// ErrTableContent is returned when a stored table body is not valid JSON rows.
var ErrTableContent = errors.New("table content is not valid json")

// IsText reports whether the kind carries body text.
func (k SectionKind) IsText() bool {
	return k == KindParagraph || k == KindHeading || k == KindAnchor
}

// Known reports whether the kind is one the site renders.
func (k SectionKind) Known() bool {
	return k.IsText() || k == KindImage || k == KindTable
}

// Section is one ordered content unit of a post. Only the fields that belong
// to Kind are set.
type Section struct {
	Order   int
	Kind    SectionKind
	Content *string
	Link    *string
	Path    *string
	Alt     *string
	Table   *Table
}

// Table holds header labels and decoded row data.
type Table struct {
	Headers []string
	Rows    [][]any
}

type tableValue struct {
	Headers []string `json:"headers"`
	Rows    [][]any  `json:"rows"`
}

// FAQ is a question/answer pair whose id is unique within its post.
type FAQ struct {
	ID       int64
	Question *string
	Answer   *string
}

func decodeTable(headers, raw *string) (*Table, error) {
	table := &Table{Headers: splitHeaders(headers)}
	if raw == nil {
		return table, nil
	}
	if err := json.Unmarshal([]byte(*raw), &table.Rows); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTableContent, err)
	}
	return table, nil
}

func splitHeaders(headers *string) []string {
	if headers == nil {
		return []string{}
	}
	return strings.Split(*headers, ",")
}

// SplitRelated decodes the comma-joined related post column.
func SplitRelated(related *string) []string {
	if related == nil || *related == "" {
		return []string{}
	}
	return strings.Split(*related, ",")
}

// JoinRelated encodes related post ids for storage; an empty list is stored as NULL.
func JoinRelated(ids []string) *string {
	if len(ids) == 0 {
		return nil
	}
	joined := strings.Join(ids, ",")
	return &joined
}
