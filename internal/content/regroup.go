package content

import "fmt"

// Accumulator collects everything known about one post while rows are fed in.
type Accumulator struct {
	Post        PostRow
	FeaturePath *string
	FeatureAlt  *string
	Sections    []Section
	FAQs        []FAQ
}

// Regrouper folds flat rows into one Accumulator per post id. Posts keep the
// order in which their id was first seen.
type Regrouper struct {
	order []int64
	byID  map[int64]*Accumulator
}

// NewRegrouper returns an empty Regrouper.
func NewRegrouper() *Regrouper {
	return &Regrouper{byID: make(map[int64]*Accumulator)}
}

// AddPost registers a post and returns its accumulator. Scalars of the first
// row seen for an id win.
func (g *Regrouper) AddPost(row PostRow) *Accumulator {
	if acc, ok := g.byID[row.ID]; ok {
		return acc
	}
	acc := &Accumulator{Post: row, Sections: []Section{}, FAQs: []FAQ{}}
	g.byID[row.ID] = acc
	g.order = append(g.order, row.ID)
	return acc
}

// AddJoined applies every regrouping rule to a single joined row. A row may
// carry a section, an image, a table and a faq at the same time. Images without
// an order number are skipped here, the featuring image included.
func (g *Regrouper) AddJoined(row JoinedRow) error {
	acc := g.AddPost(row.PostRow)
	acc.AddSection(row.section())
	if img := row.image(); img.Order != nil {
		acc.AddImage(img)
	}
	if err := acc.AddTable(row.table()); err != nil {
		return fmt.Errorf("post %d: %w", row.ID, err)
	}
	acc.AddFAQ(row.faq())
	return nil
}

// AddRows feeds a per-table row set for one post.
func (g *Regrouper) AddRows(rows Rows) (*Accumulator, error) {
	acc := g.AddPost(rows.Post)
	for _, s := range rows.Sections {
		acc.AddSection(s)
	}
	for _, img := range rows.Images {
		acc.AddImage(img)
	}
	for _, t := range rows.Tables {
		if err := acc.AddTable(t); err != nil {
			return nil, fmt.Errorf("post %d: %w", rows.Post.ID, err)
		}
	}
	for _, f := range rows.FAQs {
		acc.AddFAQ(f)
	}
	return acc, nil
}

// Posts returns the accumulators in first-seen order.
func (g *Regrouper) Posts() []*Accumulator {
	posts := make([]*Accumulator, 0, len(g.order))
	for _, id := range g.order {
		posts = append(posts, g.byID[id])
	}
	return posts
}

// AddSection appends a body section unless one with the same order and kind
// is already present.
func (a *Accumulator) AddSection(row SectionRow) {
	if row.Type == nil || *row.Type == "" || row.Order == nil {
		return
	}
	kind := SectionKind(*row.Type)
	order := int(*row.Order)
	if a.find(order, kind, nil) {
		return
	}
	a.Sections = append(a.Sections, Section{
		Order:   order,
		Kind:    kind,
		Content: row.Content,
		Link:    row.AnchorLink,
	})
}

// AddImage records the featuring image or appends an inline image. Inline
// images are keyed by order and path.
func (a *Accumulator) AddImage(row ImageRow) {
	if row.Type == nil {
		return
	}
	switch *row.Type {
	case FeaturingImage:
		a.FeaturePath = row.Path
		a.FeatureAlt = row.Alt
	case string(KindImage):
		if row.Order == nil {
			return
		}
		order := int(*row.Order)
		if a.find(order, KindImage, func(s Section) bool { return equalPtr(s.Path, row.Path) }) {
			return
		}
		a.Sections = append(a.Sections, Section{
			Order: order,
			Kind:  KindImage,
			Path:  row.Path,
			Alt:   row.Alt,
		})
	}
}

// AddTable decodes and appends a table unless one with the same order exists.
func (a *Accumulator) AddTable(row TableRow) error {
	if row.Order == nil {
		return nil
	}
	order := int(*row.Order)
	if a.find(order, KindTable, nil) {
		return nil
	}
	table, err := decodeTable(row.Headers, row.Content)
	if err != nil {
		return fmt.Errorf("table %d: %w", order, err)
	}
	a.Sections = append(a.Sections, Section{Order: order, Kind: KindTable, Table: table})
	return nil
}

// AddFAQ appends a faq unless its id is already present.
func (a *Accumulator) AddFAQ(row FAQRow) {
	if row.ID == nil {
		return
	}
	for _, f := range a.FAQs {
		if f.ID == *row.ID {
			return
		}
	}
	a.FAQs = append(a.FAQs, FAQ{ID: *row.ID, Question: row.Question, Answer: row.Answer})
}

func (a *Accumulator) find(order int, kind SectionKind, match func(Section) bool) bool {
	for _, s := range a.Sections {
		if s.Order != order || s.Kind != kind {
			continue
		}
		if match == nil || match(s) {
			return true
		}
	}
	return false
}

func equalPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
