package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidUpload marks a submitted document that cannot be stored.
var ErrInvalidUpload = errors.New("invalid upload")

// FlexInt accepts a JSON number or a numeric string. The admin client sends both.
type FlexInt int64

// UnmarshalJSON implements json.Unmarshaler.
func (n *FlexInt) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*n = 0
		return nil
	}
	raw = strings.Trim(raw, `"`)
	if raw == "" {
		*n = 0
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err == nil {
		*n = FlexInt(v)
		return nil
	}
	// 允许 2.0、1e3 这类整数值，拒绝小数与超出 int64 的值
	f, ferr := strconv.ParseFloat(raw, 64)
	if ferr != nil {
		return fmt.Errorf("%w: %q is not a number", ErrInvalidUpload, raw)
	}
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return fmt.Errorf("%w: %q is not an integer", ErrInvalidUpload, raw)
	}
	*n = FlexInt(int64(f))
	return nil
}

// FlexStrings accepts an array of strings or numbers.
type FlexStrings []string

// UnmarshalJSON implements json.Unmarshaler.
func (s *FlexStrings) UnmarshalJSON(data []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		var str string
		if err := json.Unmarshal(item, &str); err == nil {
			out = append(out, str)
			continue
		}
		var num json.Number
		if err := json.Unmarshal(item, &num); err != nil {
			return fmt.Errorf("%w: related post %s", ErrInvalidUpload, item)
		}
		out = append(out, num.String())
	}
	*s = out
	return nil
}

// FlexTime accepts RFC 3339 timestamps and plain dates.
type FlexTime struct {
	time.Time
}

var flexLayouts = []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02"}

// UnmarshalJSON implements json.Unmarshaler.
func (t *FlexTime) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, layout := range flexLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("%w: unrecognised date %q", ErrInvalidUpload, raw)
}

// BlogUpload is the full post document accepted by the upload endpoint. It is
// the same shape DetailEdit produces.
type BlogUpload struct {
	ID              FlexInt         `json:"id"`
	Title           *string         `json:"Title"`
	Category        *string         `json:"Category"`
	MetaTitle       *string         `json:"MetaTitle"`
	MetaDescription *string         `json:"MetaDescription"`
	Permalink       *string         `json:"Permalink"`
	Keywords        *string         `json:"Keywords"`
	NumOfEntries    FlexInt         `json:"NumOfEntries"`
	RelatedPosts    FlexStrings     `json:"RelatedPosts"`
	FPic            *string         `json:"FPic"`
	FPicAlt         *string         `json:"FPicAlt"`
	Sections        []UploadSection `json:"Sections"`
	FAQs            []UploadFAQ     `json:"faqs"`
}

// UploadSection is one section of an uploaded post. Content holds text for
// text kinds and the row arrays for tables.
type UploadSection struct {
	Order      FlexInt         `json:"Section_OrderNum"`
	Type       SectionKind     `json:"Type"`
	Content    json.RawMessage `json:"Content"`
	AnchorLink *string         `json:"AnchorLink"`
	ImgPath    *string         `json:"ImgPath"`
	ImgAlt     *string         `json:"ImgAlt"`
	Headers    []string        `json:"Headers"`
}

// UploadFAQ is a faq entry keyed as {id, Qs<id>, Ans<id>}.
type UploadFAQ struct {
	ID       int64
	Question *string
	Answer   *string
}

// UnmarshalJSON reads the id-suffixed question and answer keys.
func (f *UploadFAQ) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	var id FlexInt
	if raw, ok := fields["id"]; ok {
		if err := json.Unmarshal(raw, &id); err != nil {
			return err
		}
	}
	f.ID = int64(id)
	suffix := strconv.FormatInt(f.ID, 10)
	var err error
	if f.Question, err = optionalString(fields["Qs"+suffix]); err != nil {
		return err
	}
	if f.Answer, err = optionalString(fields["Ans"+suffix]); err != nil {
		return err
	}
	return nil
}

// Validate checks the fields the write path depends on.
func (b BlogUpload) Validate() error {
	if b.ID <= 0 {
		return fmt.Errorf("%w: id must be positive", ErrInvalidUpload)
	}
	if b.Permalink == nil || strings.TrimSpace(*b.Permalink) == "" {
		return fmt.Errorf("%w: permalink is required", ErrInvalidUpload)
	}
	seen := make(map[int64]bool, len(b.FAQs))
	for _, f := range b.FAQs {
		if seen[f.ID] {
			return fmt.Errorf("%w: duplicate faq id %d", ErrInvalidUpload, f.ID)
		}
		seen[f.ID] = true
	}
	return nil
}

// Decompose splits the document into per-table rows, the inverse of the
// regrouping done on reads. Sections of unknown kind are not stored.
func (b BlogUpload) Decompose() (Rows, error) {
	if err := b.Validate(); err != nil {
		return Rows{}, err
	}
	id := int64(b.ID)
	entries := int64(b.NumOfEntries)
	rows := Rows{
		Post: PostRow{
			ID:              id,
			Title:           b.Title,
			Category:        b.Category,
			MetaTitle:       b.MetaTitle,
			MetaDescription: b.MetaDescription,
			Permalink:       b.Permalink,
			Keywords:        b.Keywords,
			RelatedPosts:    JoinRelated(b.RelatedPosts),
			NumOfEntries:    &entries,
		},
	}

	if b.FPic != nil || b.FPicAlt != nil {
		rows.Images = append(rows.Images, ImageRow{
			Order: int64Ptr(1),
			Type:  stringPtr(FeaturingImage),
			Path:  b.FPic,
			Alt:   b.FPicAlt,
		})
	}

	for _, s := range b.Sections {
		order := int64Ptr(int64(s.Order))
		switch {
		case s.Type.IsText():
			text, err := optionalString(s.Content)
			if err != nil {
				return Rows{}, fmt.Errorf("section %d: %w", s.Order, err)
			}
			rows.Sections = append(rows.Sections, SectionRow{
				Order:      order,
				Type:       stringPtr(string(s.Type)),
				AnchorLink: s.AnchorLink,
				Content:    text,
			})
		case s.Type == KindImage:
			rows.Images = append(rows.Images, ImageRow{
				Order: order,
				Type:  stringPtr(string(KindImage)),
				Path:  s.ImgPath,
				Alt:   s.ImgAlt,
			})
		case s.Type == KindTable:
			body, err := encodeTableRows(s.Content)
			if err != nil {
				return Rows{}, fmt.Errorf("table %d: %w", s.Order, err)
			}
			rows.Tables = append(rows.Tables, TableRow{
				Order:   order,
				Headers: stringPtr(strings.Join(s.Headers, ",")),
				Content: body,
			})
		}
	}

	for _, f := range b.FAQs {
		rows.FAQs = append(rows.FAQs, FAQRow{ID: int64Ptr(f.ID), Question: f.Question, Answer: f.Answer})
	}
	return rows, nil
}

func encodeTableRows(raw json.RawMessage) (*string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	var rows [][]any
	if err := json.Unmarshal(trimmed, &rows); err != nil {
		return nil, fmt.Errorf("%w: table rows must be arrays", ErrInvalidUpload)
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidUpload, err)
	}
	body := buf.String()
	return &body, nil
}

func optionalString(raw json.RawMessage) (*string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return nil, fmt.Errorf("%w: expected text, got %s", ErrInvalidUpload, trimmed)
	}
	return &s, nil
}

func stringPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }
