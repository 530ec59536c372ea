package content

import (
	"fmt"
	"time"
)

// Titles of the singleton static pages.
const (
	OthersPrivacy = "PP"
	OthersAbout   = "A"
	OthersTerms   = "TC"
)

// OthersTitles lists the static pages in their admin index order.
var OthersTitles = []string{OthersPrivacy, OthersAbout, OthersTerms}

// OthersRow is one stored text section of a static page.
type OthersRow struct {
	Title       string
	SectionType *string
	Content     *string
	Order       int64
	UpdatedAt   *time.Time
}

// OthersEntry is a text section in the admin shape.
type OthersEntry struct {
	SectionType *string `json:"SectionType"`
	Order       int64   `json:"Section_OrderNum"`
	Content     *string `json:"Content"`
}

// OthersPage groups the sections of one static page.
type OthersPage struct {
	Title        string
	NumOfEntries int64
	Sections     []OthersEntry
	UpdatedDate  *time.Time
}

// GroupOthers groups rows by page title. The first row of a page carries its
// update date.
func GroupOthers(rows []OthersRow) map[string]*OthersPage {
	pages := make(map[string]*OthersPage)
	for _, row := range rows {
		page, ok := pages[row.Title]
		if !ok {
			page = &OthersPage{Title: row.Title, UpdatedDate: row.UpdatedAt, Sections: []OthersEntry{}}
			pages[row.Title] = page
		}
		page.Sections = append(page.Sections, OthersEntry{SectionType: row.SectionType, Order: row.Order, Content: row.Content})
		if row.Order > page.NumOfEntries {
			page.NumOfEntries = row.Order
		}
	}
	return pages
}

// PublicDocument renders the page with synthesized Para/Head keys.
func (p *OthersPage) PublicDocument() *Document {
	sections := make([]Section, 0, len(p.Sections))
	for _, e := range p.Sections {
		if e.SectionType == nil {
			continue
		}
		kind := SectionKind(*e.SectionType)
		if kind != KindParagraph && kind != KindHeading {
			continue
		}
		sections = append(sections, Section{Order: int(e.Order), Kind: kind, Content: e.Content})
	}
	doc := NewDocument()
	doc.Set("Title", p.Title)
	doc.Set("NumOfEntries", p.NumOfEntries)
	SynthesizeKeys(doc, sections, AltFromKey)
	doc.Set("UpdatedDate", p.UpdatedDate)
	return doc
}

// AdminDocument renders the page for the editor. index is the page position
// in OthersTitles.
func (p *OthersPage) AdminDocument(index int) *Document {
	doc := NewDocument()
	doc.Set("id", index)
	doc.Set("Title", p.Title)
	doc.Set("NumOfEntries", p.NumOfEntries)
	doc.Set("Sections", p.Sections)
	doc.Set("UpdatedDate", p.UpdatedDate)
	return doc
}

// OthersUpload replaces every section of one static page.
type OthersUpload struct {
	Title       string          `json:"Title"`
	UpdatedDate *FlexTime       `json:"UpdatedDate"`
	Sections    []OthersSection `json:"Sections"`
}

// OthersSection is one uploaded static page section.
type OthersSection struct {
	SectionType string  `json:"SectionType"`
	Order       FlexInt `json:"Section_OrderNum"`
	Content     *string `json:"Content"`
}

// ValidOthersTitle reports whether title names a known static page.
func ValidOthersTitle(title string) bool {
	for _, t := range OthersTitles {
		if t == title {
			return true
		}
	}
	return false
}

// Rows converts the upload to storage rows. Only paragraphs and headings are
// kept and only section 1 stores the update date.
func (u OthersUpload) Rows() ([]OthersRow, error) {
	if !ValidOthersTitle(u.Title) {
		return nil, fmt.Errorf("%w: unknown page %q", ErrInvalidUpload, u.Title)
	}
	rows := make([]OthersRow, 0, len(u.Sections))
	for _, s := range u.Sections {
		kind := SectionKind(s.SectionType)
		if kind != KindParagraph && kind != KindHeading {
			continue
		}
		row := OthersRow{
			Title:       u.Title,
			SectionType: stringPtr(s.SectionType),
			Content:     s.Content,
			Order:       int64(s.Order),
		}
		if s.Order == 1 && u.UpdatedDate != nil {
			updated := u.UpdatedDate.Time
			row.UpdatedAt = &updated
		}
		rows = append(rows, row)
	}
	return rows, nil
}
