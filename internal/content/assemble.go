package content

import "strconv"

// Detail selects the output shape produced by Assemble.
type Detail int

const (
	// DetailList is the public all-posts listing.
	DetailList Detail = iota
	// DetailPage is the public single post fetched by permalink.
	DetailPage
	// DetailEdit is the admin editor view fetched by id.
	DetailEdit
	// DetailCard is the minimal summary used by post cards.
	DetailCard
)

// Assemble merges the synthesized section keys with the post scalars.
func Assemble(acc *Accumulator, detail Detail) *Document {
	p := acc.Post
	doc := NewDocument()
	doc.Set("id", p.ID)
	doc.Set("Title", p.Title)

	if detail == DetailCard {
		doc.Set("metaPermalink", p.Permalink)
		doc.Set("PublishingDate", p.PublishingDate)
		doc.Set("FPic", acc.FeaturePath)
		doc.Set("FPicAlt", acc.FeatureAlt)
		return doc
	}

	doc.Set("Category", p.Category)
	doc.Set("FPic", acc.FeaturePath)
	doc.Set("FPicAlt", acc.FeatureAlt)

	switch detail {
	case DetailList:
		SynthesizeKeys(doc, acc.Sections, AltFromKey)
		doc.Set("faqsEntriesNum", len(acc.FAQs))
	case DetailPage:
		SynthesizeKeys(doc, acc.Sections, AltFromOrder)
	case DetailEdit:
		doc.Set("Sections", editSections(acc.Sections))
	}

	doc.Set("faqs", faqDocuments(acc.FAQs))
	doc.Set("RelatedPosts", SplitRelated(p.RelatedPosts))
	doc.Set("NumOfEntries", p.NumOfEntries)

	if detail == DetailEdit {
		doc.Set("MetaTitle", p.MetaTitle)
		doc.Set("MetaDescription", p.MetaDescription)
		doc.Set("Permalink", p.Permalink)
		doc.Set("Keywords", p.Keywords)
	} else {
		doc.Set("metaTitle", p.MetaTitle)
		doc.Set("metaDescription", p.MetaDescription)
		doc.Set("metaPermalink", p.Permalink)
		doc.Set("keywords", p.Keywords)
	}
	doc.Set("PublishingDate", p.PublishingDate)
	return doc
}

// AssembleAll assembles every accumulator with the same detail level.
func AssembleAll(posts []*Accumulator, detail Detail) []*Document {
	docs := make([]*Document, 0, len(posts))
	for _, acc := range posts {
		docs = append(docs, Assemble(acc, detail))
	}
	return docs
}

func editSections(sections []Section) []*Document {
	out := make([]*Document, 0, len(sections))
	for _, s := range SortSections(sections) {
		if !s.Kind.Known() {
			continue
		}
		d := NewDocument()
		d.Set("Section_OrderNum", s.Order)
		d.Set("Type", s.Kind)
		switch s.Kind {
		case KindImage:
			d.Set("ImgPath", s.Path)
			d.Set("ImgAlt", s.Alt)
		case KindTable:
			d.Set("Headers", s.Table.Headers)
			d.Set("Content", s.Table.Rows)
		default:
			d.Set("Content", s.Content)
			d.Set("AnchorLink", s.Link)
		}
		out = append(out, d)
	}
	return out
}

func faqDocuments(faqs []FAQ) []*Document {
	out := make([]*Document, 0, len(faqs))
	for _, f := range faqs {
		id := strconv.FormatInt(f.ID, 10)
		d := NewDocument()
		d.Set("id", f.ID)
		d.Set("Qs"+id, f.Question)
		d.Set("Ans"+id, f.Answer)
		out = append(out, d)
	}
	return out
}
