package content

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const editorPayload = `{
	"id": "12",
	"Title": "Feeding kids",
	"Category": "Care",
	"MetaTitle": "Feeding goat kids",
	"MetaDescription": "How much milk",
	"Permalink": "feeding-kids",
	"Keywords": "kids,milk",
	"NumOfEntries": 4,
	"RelatedPosts": ["3", 7],
	"FPic": "kids.jpg",
	"FPicAlt": "two kids",
	"Sections": [
		{"Section_OrderNum": 1, "Type": "para", "Content": "Start slow."},
		{"Section_OrderNum": "2", "Type": "Img", "ImgPath": "bottle.jpg", "ImgAlt": "a bottle"},
		{"Section_OrderNum": 3, "Type": "anchor", "Content": "weaning", "AnchorLink": "/Post/weaning"},
		{"Section_OrderNum": 4, "Type": "Table", "Headers": ["Age", "Milk"], "Content": [["1w", "4x"], ["4w", 3]]},
		{"Section_OrderNum": 5, "Type": "video", "Content": "ignored"}
	],
	"faqs": [{"id": 1, "Qs1": "Cow milk?", "Ans1": "In a pinch."}]
}`

func TestBlogUploadDecompose(t *testing.T) {
	var upload BlogUpload
	require.NoError(t, json.Unmarshal([]byte(editorPayload), &upload))

	rows, err := upload.Decompose()
	require.NoError(t, err)

	assert.Equal(t, int64(12), rows.Post.ID)
	assert.Equal(t, "3,7", *rows.Post.RelatedPosts)
	assert.Equal(t, int64(4), *rows.Post.NumOfEntries)
	require.Len(t, rows.Sections, 2)
	require.Len(t, rows.Images, 2)
	assert.Equal(t, FeaturingImage, *rows.Images[0].Type)
	assert.Equal(t, int64(1), *rows.Images[0].Order)
	require.Len(t, rows.Tables, 1)
	assert.Equal(t, "Age,Milk", *rows.Tables[0].Headers)
	assert.Equal(t, `[["1w","4x"],["4w",3]]`, *rows.Tables[0].Content)
	require.Len(t, rows.FAQs, 1)
	assert.Equal(t, "In a pinch.", *rows.FAQs[0].Answer)
}

func TestBlogUploadRoundTrip(t *testing.T) {
	var upload BlogUpload
	require.NoError(t, json.Unmarshal([]byte(editorPayload), &upload))
	rows, err := upload.Decompose()
	require.NoError(t, err)

	acc, err := NewRegrouper().AddRows(rows)
	require.NoError(t, err)
	raw, err := json.Marshal(Assemble(acc, DetailEdit))
	require.NoError(t, err)

	var again BlogUpload
	require.NoError(t, json.Unmarshal(raw, &again))
	assert.Equal(t, upload.ID, again.ID)
	assert.Equal(t, []string(upload.RelatedPosts), []string(again.RelatedPosts))
	assert.Equal(t, *upload.FPic, *again.FPic)
	require.Len(t, again.Sections, 4)
	for i, s := range again.Sections {
		assert.Equal(t, upload.Sections[i].Order, s.Order)
		assert.Equal(t, upload.Sections[i].Type, s.Type)
	}
	assert.Equal(t, "/Post/weaning", *again.Sections[2].AnchorLink)
	assert.JSONEq(t, `[["1w","4x"],["4w",3]]`, string(again.Sections[3].Content))
	require.Len(t, again.FAQs, 1)
	assert.Equal(t, "Cow milk?", *again.FAQs[0].Question)

	doc := Assemble(acc, DetailPage)
	for _, key := range []string{"Para1", "Pic2", "AltPic2", "AnchorWord3", "AnchorLink3", "table4"} {
		_, ok := doc.Get(key)
		assert.True(t, ok, "missing key %s", key)
	}
}

func TestBlogUploadEmptyRelatedPostsStoredAsNull(t *testing.T) {
	var upload BlogUpload
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"Permalink":"p","RelatedPosts":[]}`), &upload))

	rows, err := upload.Decompose()
	require.NoError(t, err)
	assert.Nil(t, rows.Post.RelatedPosts)
	assert.Empty(t, rows.Images, "no featuring image row without FPic")
}

func TestBlogUploadValidation(t *testing.T) {
	cases := map[string]string{
		"missing id":        `{"Permalink":"p"}`,
		"missing permalink": `{"id":3}`,
		"duplicate faq":     `{"id":3,"Permalink":"p","faqs":[{"id":1},{"id":1}]}`,
		"table not arrays":  `{"id":3,"Permalink":"p","Sections":[{"Section_OrderNum":1,"Type":"Table","Content":{"a":1}}]}`,
		"para not text":     `{"id":3,"Permalink":"p","Sections":[{"Section_OrderNum":1,"Type":"para","Content":[1]}]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			var upload BlogUpload
			require.NoError(t, json.Unmarshal([]byte(body), &upload))
			_, err := upload.Decompose()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidUpload))
		})
	}
}

func TestFlexIntRejectsText(t *testing.T) {
	var n FlexInt
	err := json.Unmarshal([]byte(`"abc"`), &n)
	assert.True(t, errors.Is(err, ErrInvalidUpload))

	require.NoError(t, json.Unmarshal([]byte(`"42"`), &n))
	assert.Equal(t, FlexInt(42), n)
}

func TestFlexIntRejectsFractionsAndOverflow(t *testing.T) {
	for _, raw := range []string{`1.9`, `"1.9"`, `-0.5`, `1e30`, `"-1e30"`, `9223372036854775808`, `"NaN"`, `"Inf"`} {
		var n FlexInt
		err := json.Unmarshal([]byte(raw), &n)
		assert.True(t, errors.Is(err, ErrInvalidUpload), "%s must be rejected, got %v (%d)", raw, err, n)
	}

	accepted := map[string]FlexInt{`2.0`: 2, `"1e3"`: 1000, `-7`: -7, `"12"`: 12, `null`: 0}
	for raw, want := range accepted {
		var n FlexInt
		require.NoError(t, json.Unmarshal([]byte(raw), &n), raw)
		assert.Equal(t, want, n, raw)
	}
}

func TestFlexTimeLayouts(t *testing.T) {
	for _, raw := range []string{`"2024-05-01T10:00:00Z"`, `"2024-05-01 10:00:00"`, `"2024-05-01"`} {
		var ft FlexTime
		require.NoError(t, json.Unmarshal([]byte(raw), &ft), raw)
		assert.Equal(t, 2024, ft.Year())
	}
}
