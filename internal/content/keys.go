package content

import (
	"slices"
	"strconv"
)

// AltNaming selects how the alt-text companion key of an inline image is named.
type AltNaming int

const (
	// AltFromKey prefixes the primary key: Pic3 -> AltPic3. Used by the listing.
	AltFromKey AltNaming = iota
	// AltFromOrder builds AltPic<N> from the order number. Used by single-post reads.
	AltFromOrder
)

func (n AltNaming) key(primary string, order int) string {
	if n == AltFromOrder {
		return "AltPic" + strconv.Itoa(order)
	}
	return "Alt" + primary
}

var keyPrefixes = map[SectionKind]string{
	KindParagraph: "Para",
	KindHeading:   "Head",
	KindImage:     "Pic",
	KindTable:     "table",
	KindAnchor:    "AnchorWord",
}

// SortSections returns a copy of sections ordered by order number. Sections
// sharing a number keep their first-seen order.
func SortSections(sections []Section) []Section {
	sorted := slices.Clone(sections)
	slices.SortStableFunc(sorted, func(a, b Section) int {
		return a.Order - b.Order
	})
	return sorted
}

// SynthesizeKeys writes one or two type-prefixed fields per section into doc.
// Sections of unknown kind are skipped.
func SynthesizeKeys(doc *Document, sections []Section, naming AltNaming) {
	for _, s := range SortSections(sections) {
		prefix, ok := keyPrefixes[s.Kind]
		if !ok {
			continue
		}
		n := strconv.Itoa(s.Order)
		key := prefix + n
		switch s.Kind {
		case KindAnchor:
			doc.Set(key, s.Content)
			doc.Set("AnchorLink"+n, s.Link)
		case KindImage:
			doc.Set(key, s.Path)
			doc.Set(naming.key(key, s.Order), s.Alt)
		case KindTable:
			doc.Set(key, tableValue{Headers: s.Table.Headers, Rows: s.Table.Rows})
		default:
			doc.Set(key, s.Content)
		}
	}
}
