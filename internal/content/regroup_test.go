package content

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sp(s string) *string { return &s }

func ip(v int64) *int64 { return &v }

func postRow(id int64, title string) PostRow {
	return PostRow{ID: id, Title: sp(title), Permalink: sp("post-" + title)}
}

func TestRegrouperDeduplicatesBodySections(t *testing.T) {
	g := NewRegrouper()
	row := JoinedRow{PostRow: postRow(1, "one"), SectionOrder: ip(1), SectionType: sp("para"), SectionContent: sp("hello")}

	for i := 0; i < 3; i++ {
		require.NoError(t, g.AddJoined(row))
	}

	posts := g.Posts()
	require.Len(t, posts, 1)
	require.Len(t, posts[0].Sections, 1)
	assert.Equal(t, "hello", *posts[0].Sections[0].Content)
}

func TestRegrouperKeepsSameOrderAcrossKinds(t *testing.T) {
	g := NewRegrouper()
	base := postRow(5, "goats")
	sections := []JoinedRow{
		{SectionOrder: ip(1), SectionType: sp("para"), SectionContent: sp("intro")},
		{SectionOrder: ip(2), SectionType: sp("head"), SectionContent: sp("Breeds")},
	}
	images := []JoinedRow{
		{ImageOrder: ip(1), ImageType: sp(FeaturingImage), ImagePath: sp("cover.jpg"), ImageAlt: sp("cover")},
		{ImageOrder: ip(2), ImageType: sp("Img"), ImagePath: sp("boer.jpg"), ImageAlt: sp("a boer goat")},
	}
	for _, s := range sections {
		for _, img := range images {
			row := JoinedRow{
				PostRow:        base,
				SectionOrder:   s.SectionOrder,
				SectionType:    s.SectionType,
				SectionContent: s.SectionContent,
				ImageOrder:     img.ImageOrder,
				ImageType:      img.ImageType,
				ImagePath:      img.ImagePath,
				ImageAlt:       img.ImageAlt,
			}
			require.NoError(t, g.AddJoined(row))
		}
	}

	acc := g.Posts()[0]
	require.Len(t, acc.Sections, 3)
	assert.Equal(t, "cover.jpg", *acc.FeaturePath)
	assert.Equal(t, "cover", *acc.FeatureAlt)
	for _, s := range acc.Sections {
		assert.NotEqual(t, "cover.jpg", deref(s.Path), "featuring image must stay out of the ordered sections")
	}

	doc := Assemble(acc, DetailPage)
	for _, key := range []string{"Para1", "Head2", "Pic2", "AltPic2", "FPic", "FPicAlt"} {
		_, ok := doc.Get(key)
		assert.True(t, ok, "missing key %s", key)
	}
	pic, _ := doc.Get("Pic2")
	assert.Equal(t, "boer.jpg", *pic.(*string))
}

func TestRegrouperInlineImagesKeyedByPath(t *testing.T) {
	acc := NewRegrouper().AddPost(postRow(2, "two"))
	acc.AddImage(ImageRow{Order: ip(3), Type: sp("Img"), Path: sp("a.jpg")})
	acc.AddImage(ImageRow{Order: ip(3), Type: sp("Img"), Path: sp("a.jpg")})
	acc.AddImage(ImageRow{Order: ip(3), Type: sp("Img"), Path: sp("b.jpg")})

	assert.Len(t, acc.Sections, 2)
}

func TestRegrouperIgnoresRowsWithoutOrder(t *testing.T) {
	acc := NewRegrouper().AddPost(postRow(2, "two"))
	acc.AddSection(SectionRow{Type: sp("para"), Content: sp("orphan")})
	acc.AddImage(ImageRow{Type: sp("Img"), Path: sp("x.jpg")})
	require.NoError(t, acc.AddTable(TableRow{Headers: sp("a"), Content: sp("not json")}))
	acc.AddFAQ(FAQRow{Question: sp("q?")})

	assert.Empty(t, acc.Sections)
	assert.Empty(t, acc.FAQs)
}

func TestRegrouperFeatureImageNeedsOrderInJoinedRows(t *testing.T) {
	g := NewRegrouper()
	require.NoError(t, g.AddJoined(JoinedRow{PostRow: postRow(4, "four"), ImageType: sp(FeaturingImage), ImagePath: sp("legacy.jpg")}))
	assert.Nil(t, g.Posts()[0].FeaturePath, "list rows drop a featuring image with no order")

	require.NoError(t, g.AddJoined(JoinedRow{PostRow: postRow(4, "four"), ImageOrder: ip(1), ImageType: sp(FeaturingImage), ImagePath: sp("cover.jpg")}))
	assert.Equal(t, "cover.jpg", *g.Posts()[0].FeaturePath)

	acc, err := NewRegrouper().AddRows(Rows{
		Post:   postRow(5, "five"),
		Images: []ImageRow{{Type: sp(FeaturingImage), Path: sp("legacy.jpg")}},
	})
	require.NoError(t, err)
	require.NotNil(t, acc.FeaturePath, "single post reads keep it")
	assert.Equal(t, "legacy.jpg", *acc.FeaturePath)
}

func TestRegrouperSeparatesPosts(t *testing.T) {
	g := NewRegrouper()
	rows := []JoinedRow{
		{PostRow: postRow(1, "one"), SectionOrder: ip(1), SectionType: sp("para"), SectionContent: sp("first")},
		{PostRow: postRow(2, "two"), SectionOrder: ip(1), SectionType: sp("para"), SectionContent: sp("second")},
		{PostRow: postRow(1, "ignored"), SectionOrder: ip(2), SectionType: sp("para"), SectionContent: sp("first again")},
		{PostRow: postRow(2, "two"), FAQID: ip(7), FAQQuestion: sp("q"), FAQAnswer: sp("a")},
	}
	for _, r := range rows {
		require.NoError(t, g.AddJoined(r))
	}

	posts := g.Posts()
	require.Len(t, posts, 2)
	assert.Equal(t, int64(1), posts[0].Post.ID)
	assert.Equal(t, "one", *posts[0].Post.Title, "first row seen wins for scalars")
	assert.Len(t, posts[0].Sections, 2)
	assert.Empty(t, posts[0].FAQs)
	assert.Equal(t, int64(2), posts[1].Post.ID)
	assert.Len(t, posts[1].Sections, 1)
	assert.Len(t, posts[1].FAQs, 1)
}

func TestRegrouperFailsOnMalformedTable(t *testing.T) {
	g := NewRegrouper()
	err := g.AddJoined(JoinedRow{PostRow: postRow(3, "three"), TableOrder: ip(4), TableHeaders: sp("a,b"), TableContent: sp("[[1,2]")})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTableContent))
}

func TestRegrouperDecodesTable(t *testing.T) {
	acc, err := NewRegrouper().AddRows(Rows{
		Post:   postRow(4, "four"),
		Tables: []TableRow{{Order: ip(2), Headers: sp("Breed,Weight"), Content: sp(`[["Boer","110kg"],["Kiko","90kg"]]`)}},
	})
	require.NoError(t, err)
	require.Len(t, acc.Sections, 1)

	table := acc.Sections[0].Table
	assert.Equal(t, []string{"Breed", "Weight"}, table.Headers)
	assert.Equal(t, [][]any{{"Boer", "110kg"}, {"Kiko", "90kg"}}, table.Rows)
}

func TestRegrouperStableOrderAcrossRuns(t *testing.T) {
	rows := []JoinedRow{
		{PostRow: postRow(9, "nine"), SectionOrder: ip(2), SectionType: sp("para"), SectionContent: sp("p2"), ImageOrder: ip(2), ImageType: sp("Img"), ImagePath: sp("i2.jpg")},
		{PostRow: postRow(9, "nine"), SectionOrder: ip(1), SectionType: sp("head"), SectionContent: sp("h1"), TableOrder: ip(2), TableHeaders: sp("x"), TableContent: sp(`[["1"]]`)},
	}

	var first []string
	for run := 0; run < 5; run++ {
		g := NewRegrouper()
		for _, r := range rows {
			require.NoError(t, g.AddJoined(r))
		}
		keys := Assemble(g.Posts()[0], DetailList).Keys()
		if run == 0 {
			first = keys
			continue
		}
		assert.Equal(t, first, keys)
	}
	assert.Equal(t, []string{"id", "Title", "Category", "FPic", "FPicAlt", "Head1", "Para2", "Pic2", "AltPic2", "table2"}, first[:10])
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
