package content

import "time"

// PostRow carries the scalar columns of a post.
type PostRow struct {
	ID              int64      `gorm:"column:Blog_id"`
	Title           *string    `gorm:"column:Blog_Title"`
	Category        *string    `gorm:"column:Category"`
	MetaTitle       *string    `gorm:"column:MetaTitle"`
	MetaDescription *string    `gorm:"column:MetaDescription"`
	Permalink       *string    `gorm:"column:Permalink"`
	Keywords        *string    `gorm:"column:Keywords"`
	RelatedPosts    *string    `gorm:"column:RelatedPosts"`
	NumOfEntries    *int64     `gorm:"column:NumOfEntries"`
	PublishingDate  *time.Time `gorm:"column:PublishingDate"`
}

// JoinedRow is one line of the posts/sections/images/tables/faqs outer join.
// Child columns are nil when the join produced no match.
type JoinedRow struct {
	PostRow
	SectionOrder   *int64  `gorm:"column:Section_OrderNum"`
	SectionType    *string `gorm:"column:SectionType"`
	AnchorLink     *string `gorm:"column:AnchorLink"`
	SectionContent *string `gorm:"column:Section_Content"`
	ImageOrder     *int64  `gorm:"column:Image_OrderNum"`
	ImageType      *string `gorm:"column:Image_Type"`
	ImagePath      *string `gorm:"column:Image_Path"`
	ImageAlt       *string `gorm:"column:Image_Alt"`
	TableOrder     *int64  `gorm:"column:Table_OrderNum"`
	TableHeaders   *string `gorm:"column:Table_Headers"`
	TableContent   *string `gorm:"column:Table_content"`
	FAQID          *int64  `gorm:"column:Faq_id"`
	FAQQuestion    *string `gorm:"column:Faq_Que"`
	FAQAnswer      *string `gorm:"column:Faq_Ans"`
}

// SectionRow is a stored paragraph, heading or anchor.
type SectionRow struct {
	Order      *int64
	Type       *string
	AnchorLink *string
	Content    *string
}

// ImageRow is a stored image, either the featuring image or an inline one.
type ImageRow struct {
	Order *int64
	Type  *string
	Path  *string
	Alt   *string
}

// TableRow is a stored table with comma-joined headers and a JSON row blob.
type TableRow struct {
	Order   *int64
	Headers *string
	Content *string
}

// FAQRow is a stored question/answer pair.
type FAQRow struct {
	ID       *int64
	Question *string
	Answer   *string
}

// Rows is the full per-table row set of a single post.
type Rows struct {
	Post     PostRow
	Sections []SectionRow
	Images   []ImageRow
	Tables   []TableRow
	FAQs     []FAQRow
}

func (r JoinedRow) section() SectionRow {
	return SectionRow{Order: r.SectionOrder, Type: r.SectionType, AnchorLink: r.AnchorLink, Content: r.SectionContent}
}

func (r JoinedRow) image() ImageRow {
	return ImageRow{Order: r.ImageOrder, Type: r.ImageType, Path: r.ImagePath, Alt: r.ImageAlt}
}

func (r JoinedRow) table() TableRow {
	return TableRow{Order: r.TableOrder, Headers: r.TableHeaders, Content: r.TableContent}
}

func (r JoinedRow) faq() FAQRow {
	return FAQRow{ID: r.FAQID, Question: r.FAQQuestion, Answer: r.FAQAnswer}
}
