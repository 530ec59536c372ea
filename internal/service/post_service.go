package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goatwiki/internal/content"
	"github.com/goatwiki/internal/db"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrPostNotFound = errors.New("post not found")
)

const allPostsQuery = `
SELECT DISTINCT
	P.id AS Blog_id,
	P.Title AS Blog_Title,
	P.Category,
	P.MetaTitle,
	P.MetaDescription,
	P.Permalink,
	P.Keywords,
	P.RelatedPosts,
	P.NumOfEntries,
	P.PublishingDate,
	S.OrderNumber AS Section_OrderNum,
	S.SectionType,
	S.AnchorLink,
	S.Content AS Section_Content,
	I.ImgOrderNum AS Image_OrderNum,
	I.SectionType AS Image_Type,
	I.ImgPath AS Image_Path,
	I.ImgAlt AS Image_Alt,
	B.OrderNum AS Table_OrderNum,
	B.Headers AS Table_Headers,
	B.Table_content,
	Q.id AS Faq_id,
	Q.Que AS Faq_Que,
	Q.Ans AS Faq_Ans
FROM Posts P
LEFT JOIN Sections S ON P.id = S.Post_id
LEFT JOIN Images I ON P.id = I.Post_id
LEFT JOIN BlogTables B ON P.id = B.Post_id
LEFT JOIN Qna Q ON P.id = Q.Post_id
ORDER BY P.id, S.OrderNumber, I.ImgOrderNum, B.OrderNum, Q.id`

// postUpsertColumns 是重复上传时覆盖的列，发布时间保持首次写入的值。
var postUpsertColumns = []string{
	"Title", "Category", "MetaTitle", "MetaDescription", "Permalink", "Keywords", "RelatedPosts", "NumOfEntries",
}

// PostService wraps post related database operations.
type PostService struct {
	db        *gorm.DB
	read      reader
	sanitizer *bluemonday.Policy
	now       func() time.Time
}

// NavEntry 用于导航栏与全部文章页。
type NavEntry struct {
	ID             int64      `json:"id"`
	Title          *string    `json:"Title"`
	Permalink      *string    `json:"metaPermalink"`
	PublishingDate *time.Time `json:"PublishingDate"`
}

// IDEntry 只暴露文章 id。
type IDEntry struct {
	ID int64 `json:"id"`
}

// CategoryEntry 用于分类页。
type CategoryEntry struct {
	ID       int64   `json:"id"`
	Category *string `json:"Category"`
}

// NewPostService creates a PostService instance. queryTimeout bounds every read.
func NewPostService(gdb *gorm.DB, queryTimeout time.Duration) *PostService {
	return &PostService{
		db:   gdb,
		read: reader{db: gdb, timeout: queryTimeout},
		now:  time.Now,
	}
}

// WithSanitizer 为上传内容启用 HTML 清洗。默认不清洗，内容按原样存储。
func (s *PostService) WithSanitizer(policy *bluemonday.Policy) *PostService {
	s.sanitizer = policy
	return s
}

// ListAll 通过一次四表外连接读取全部文章并重组为列表结构。
func (s *PostService) ListAll(ctx context.Context) ([]*content.Document, error) {
	tx, cancel := s.read.session(ctx)
	defer cancel()

	var rows []content.JoinedRow
	if err := tx.Raw(allPostsQuery).Scan(&rows).Error; err != nil {
		return nil, err
	}

	g := content.NewRegrouper()
	for _, row := range rows {
		if err := g.AddJoined(row); err != nil {
			return nil, err
		}
	}
	return content.AssembleAll(g.Posts(), content.DetailList), nil
}

// GetByPermalink returns the public document of the post with the given permalink.
func (s *PostService) GetByPermalink(ctx context.Context, permalink string) (*content.Document, error) {
	return s.single(ctx, content.DetailPage, "Permalink = ?", permalink)
}

// GetByID returns the editor document of a post.
func (s *PostService) GetByID(ctx context.Context, id int64) (*content.Document, error) {
	return s.single(ctx, content.DetailEdit, "id = ?", id)
}

func (s *PostService) single(ctx context.Context, detail content.Detail, where string, arg any) (*content.Document, error) {
	tx, cancel := s.read.session(ctx)
	defer cancel()

	rows, err := loadPostRows(tx, where, arg)
	if err != nil {
		return nil, err
	}
	acc, err := content.NewRegrouper().AddRows(rows)
	if err != nil {
		return nil, err
	}
	return content.Assemble(acc, detail), nil
}

// GetCard returns the card summary of a post.
func (s *PostService) GetCard(ctx context.Context, id int64) (*content.Document, error) {
	tx, cancel := s.read.session(ctx)
	defer cancel()

	post, err := findPost(tx, "id = ?", id)
	if err != nil {
		return nil, err
	}
	var images []db.Image
	if err := tx.Where("Post_id = ? AND SectionType = ?", id, content.FeaturingImage).
		Limit(1).
		Find(&images).Error; err != nil {
		return nil, err
	}
	acc, err := content.NewRegrouper().AddRows(content.Rows{Post: postRow(post), Images: imageRows(images)})
	if err != nil {
		return nil, err
	}
	return content.Assemble(acc, content.DetailCard), nil
}

// ListNav returns id, title, permalink and publishing date of every post.
func (s *PostService) ListNav(ctx context.Context) ([]NavEntry, error) {
	tx, cancel := s.read.session(ctx)
	defer cancel()

	var posts []db.Post
	if err := tx.Select("id", "Title", "Permalink", "PublishingDate").Order("id").Find(&posts).Error; err != nil {
		return nil, err
	}
	entries := make([]NavEntry, 0, len(posts))
	for _, p := range posts {
		entries = append(entries, NavEntry{ID: p.ID, Title: p.Title, Permalink: p.Permalink, PublishingDate: p.PublishingDate})
	}
	return entries, nil
}

// ListIDs returns the id of every post.
func (s *PostService) ListIDs(ctx context.Context) ([]IDEntry, error) {
	tx, cancel := s.read.session(ctx)
	defer cancel()

	var ids []int64
	if err := tx.Model(&db.Post{}).Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	entries := make([]IDEntry, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, IDEntry{ID: id})
	}
	return entries, nil
}

// ListCategories returns the category of every post.
func (s *PostService) ListCategories(ctx context.Context) ([]CategoryEntry, error) {
	tx, cancel := s.read.session(ctx)
	defer cancel()

	var posts []db.Post
	if err := tx.Select("id", "Category").Order("id").Find(&posts).Error; err != nil {
		return nil, err
	}
	entries := make([]CategoryEntry, 0, len(posts))
	for _, p := range posts {
		entries = append(entries, CategoryEntry{ID: p.ID, Category: p.Category})
	}
	return entries, nil
}

// Permalinks 返回全部非空固定链接，供站点地图使用。
func (s *PostService) Permalinks(ctx context.Context) ([]string, error) {
	tx, cancel := s.read.session(ctx)
	defer cancel()

	var links []string
	if err := tx.Model(&db.Post{}).
		Where("Permalink IS NOT NULL AND Permalink <> ''").
		Order("id").
		Pluck("Permalink", &links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

// Upload 在一个事务中整体替换文章：写入或更新主记录，删除全部子记录后重新插入。
// 任一步失败都会回滚，原有数据保持不变。
func (s *PostService) Upload(ctx context.Context, upload content.BlogUpload) error {
	rows, err := upload.Decompose()
	if err != nil {
		return err
	}
	sanitizeRows(s.sanitizer, &rows)

	post := postModel(rows.Post)
	published := s.now()
	post.PublishingDate = &published
	id := post.ID

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(postUpsertColumns),
		}).Create(&post).Error; err != nil {
			return fmt.Errorf("upsert post %d: %w", id, err)
		}

		if err := deleteChildren(tx, id); err != nil {
			return err
		}

		if sections := sectionModels(id, rows.Sections); len(sections) > 0 {
			if err := tx.Create(&sections).Error; err != nil {
				return fmt.Errorf("insert sections: %w", err)
			}
		}
		if images := imageModels(id, rows.Images); len(images) > 0 {
			if err := tx.Create(&images).Error; err != nil {
				return fmt.Errorf("insert images: %w", err)
			}
		}
		if tables := tableModels(id, rows.Tables); len(tables) > 0 {
			if err := tx.Create(&tables).Error; err != nil {
				return fmt.Errorf("insert tables: %w", err)
			}
		}
		if faqs := faqModels(id, rows.FAQs); len(faqs) > 0 {
			if err := tx.Create(&faqs).Error; err != nil {
				return fmt.Errorf("insert faqs: %w", err)
			}
		}
		return nil
	})
}

// Delete removes a post and all of its children.
func (s *PostService) Delete(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteChildren(tx, id); err != nil {
			return err
		}
		res := tx.Delete(&db.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrPostNotFound
		}
		return nil
	})
}

func deleteChildren(tx *gorm.DB, id int64) error {
	for _, model := range []any{&db.Section{}, &db.Image{}, &db.BlogTable{}, &db.Qna{}} {
		if err := tx.Where("Post_id = ?", id).Delete(model).Error; err != nil {
			return fmt.Errorf("clear children of post %d: %w", id, err)
		}
	}
	return nil
}

func findPost(tx *gorm.DB, where string, arg any) (db.Post, error) {
	var post db.Post
	if err := tx.Where(where, arg).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return db.Post{}, ErrPostNotFound
		}
		return db.Post{}, err
	}
	return post, nil
}

// loadPostRows 分五次查询读取单篇文章，子表之间的读偏差可以接受。
func loadPostRows(tx *gorm.DB, where string, arg any) (content.Rows, error) {
	post, err := findPost(tx, where, arg)
	if err != nil {
		return content.Rows{}, err
	}

	var sections []db.Section
	if err := tx.Where("Post_id = ?", post.ID).Order("OrderNumber").Find(&sections).Error; err != nil {
		return content.Rows{}, err
	}
	var images []db.Image
	if err := tx.Where("Post_id = ?", post.ID).Order("ImgOrderNum").Find(&images).Error; err != nil {
		return content.Rows{}, err
	}
	var tables []db.BlogTable
	if err := tx.Where("Post_id = ?", post.ID).Order("OrderNum").Find(&tables).Error; err != nil {
		return content.Rows{}, err
	}
	var faqs []db.Qna
	if err := tx.Where("Post_id = ?", post.ID).Order("id").Find(&faqs).Error; err != nil {
		return content.Rows{}, err
	}

	rows := content.Rows{Post: postRow(post), Images: imageRows(images)}
	for _, s := range sections {
		rows.Sections = append(rows.Sections, content.SectionRow{Order: s.OrderNumber, Type: s.SectionType, AnchorLink: s.AnchorLink, Content: s.Content})
	}
	for _, t := range tables {
		rows.Tables = append(rows.Tables, content.TableRow{Order: t.OrderNum, Headers: t.Headers, Content: t.TableContent})
	}
	for _, f := range faqs {
		id := f.ID
		rows.FAQs = append(rows.FAQs, content.FAQRow{ID: &id, Question: f.Que, Answer: f.Ans})
	}
	return rows, nil
}

func postRow(p db.Post) content.PostRow {
	return content.PostRow{
		ID:              p.ID,
		Title:           p.Title,
		Category:        p.Category,
		MetaTitle:       p.MetaTitle,
		MetaDescription: p.MetaDescription,
		Permalink:       p.Permalink,
		Keywords:        p.Keywords,
		RelatedPosts:    p.RelatedPosts,
		NumOfEntries:    p.NumOfEntries,
		PublishingDate:  p.PublishingDate,
	}
}

func postModel(r content.PostRow) db.Post {
	return db.Post{
		ID:              r.ID,
		Title:           r.Title,
		Category:        r.Category,
		MetaTitle:       r.MetaTitle,
		MetaDescription: r.MetaDescription,
		Permalink:       r.Permalink,
		Keywords:        r.Keywords,
		RelatedPosts:    r.RelatedPosts,
		NumOfEntries:    r.NumOfEntries,
		PublishingDate:  r.PublishingDate,
	}
}

func imageRows(images []db.Image) []content.ImageRow {
	rows := make([]content.ImageRow, 0, len(images))
	for _, img := range images {
		rows = append(rows, content.ImageRow{Order: img.ImgOrderNum, Type: img.SectionType, Path: img.ImgPath, Alt: img.ImgAlt})
	}
	return rows
}

func sectionModels(postID int64, rows []content.SectionRow) []db.Section {
	out := make([]db.Section, 0, len(rows))
	for _, r := range rows {
		out = append(out, db.Section{PostID: postID, SectionType: r.Type, AnchorLink: r.AnchorLink, Content: r.Content, OrderNumber: r.Order})
	}
	return out
}

func imageModels(postID int64, rows []content.ImageRow) []db.Image {
	out := make([]db.Image, 0, len(rows))
	for _, r := range rows {
		out = append(out, db.Image{PostID: postID, SectionType: r.Type, ImgPath: r.Path, ImgAlt: r.Alt, ImgOrderNum: r.Order})
	}
	return out
}

func tableModels(postID int64, rows []content.TableRow) []db.BlogTable {
	out := make([]db.BlogTable, 0, len(rows))
	for _, r := range rows {
		out = append(out, db.BlogTable{PostID: postID, Headers: r.Headers, TableContent: r.Content, OrderNum: r.Order})
	}
	return out
}

func faqModels(postID int64, rows []content.FAQRow) []db.Qna {
	out := make([]db.Qna, 0, len(rows))
	for _, r := range rows {
		if r.ID == nil {
			continue
		}
		out = append(out, db.Qna{ID: *r.ID, PostID: postID, Que: r.Question, Ans: r.Answer})
	}
	return out
}
