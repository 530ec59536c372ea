package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/goatwiki/internal/config"
	"github.com/goatwiki/internal/content"
	"github.com/goatwiki/internal/db"
	"github.com/goatwiki/internal/service"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type breed struct {
	name    string
	summary string
	origin  string
}

var breeds = []breed{
	{name: "Boer", summary: "Boer goats are a meat breed with fast growth.", origin: "South Africa"},
	{name: "Kiko", summary: "Kiko goats are hardy and need little care.", origin: "New Zealand"},
	{name: "Spanish", summary: "Spanish goats forage well in rough country.", origin: "Spain"},
	{name: "Nigerian Dwarf", summary: "Nigerian Dwarf goats are small dairy goats.", origin: "West Africa"},
	{name: "Damascus", summary: "Damascus goats are known for their long ears.", origin: "Syria"},
}

// 测试数据生成器
func main() {
	cfg := config.Load()
	gdb, err := db.Init(db.Options{
		Driver:      cfg.DBDriver,
		Path:        cfg.DatabasePath,
		Host:        cfg.DBHost,
		Port:        cfg.DBPort,
		User:        cfg.DBUser,
		Password:    cfg.DBPass,
		Name:        cfg.DBName,
		AutoMigrate: true,
	})
	if err != nil {
		logrus.WithError(err).Fatal("数据库初始化失败")
	}

	fmt.Println("开始生成测试数据...")
	if err := seed(context.Background(), gdb, cfg.QueryTimeout); err != nil {
		logrus.WithError(err).Fatal("生成测试数据失败")
	}
	fmt.Printf("测试数据生成完成！文章: %d 篇，静态页面: %d 个\n", len(breeds), len(content.OthersTitles))
}

func seed(ctx context.Context, gdb *gorm.DB, timeout time.Duration) error {
	if err := createTestPosts(ctx, service.NewPostService(gdb, timeout)); err != nil {
		return err
	}
	if err := createOthersPages(ctx, service.NewOthersService(gdb, timeout)); err != nil {
		return err
	}
	return createScripts(ctx, service.NewScriptService(gdb, timeout))
}

// 每个品种一篇文章，包含段落、标题、图片、表格和问答
func createTestPosts(ctx context.Context, posts *service.PostService) error {
	for i, b := range breeds {
		id := i + 1
		permalink := fmt.Sprintf("%s-goats", slug(b.name))
		related := []string{}
		if id > 1 {
			related = append(related, fmt.Sprint(id-1))
		}
		doc := map[string]any{
			"id":              id,
			"Title":           b.name + " goats",
			"Category":        "Breeds",
			"MetaTitle":       b.name + " goat guide",
			"MetaDescription": b.summary,
			"Permalink":       permalink,
			"Keywords":        slug(b.name) + ",goats",
			"NumOfEntries":    4,
			"RelatedPosts":    related,
			"FPic":            fmt.Sprintf("BlogPics/blog%d/cover.jpg", id+1),
			"FPicAlt":         b.name + " goat",
			"Sections": []map[string]any{
				{"Section_OrderNum": 1, "Type": "para", "Content": b.summary},
				{"Section_OrderNum": 2, "Type": "head", "Content": "Origin"},
				{"Section_OrderNum": 2, "Type": "Img", "ImgPath": fmt.Sprintf("BlogPics/blog%d/herd.jpg", id+1), "ImgAlt": b.name + " herd"},
				{"Section_OrderNum": 3, "Type": "para", "Content": "The breed comes from " + b.origin + "."},
				{"Section_OrderNum": 4, "Type": "Table", "Headers": []string{"Trait", "Value"}, "Content": [][]string{{"Origin", b.origin}}},
			},
			"faqs": []map[string]any{
				{"id": 1, "Qs1": "Where do " + b.name + " goats come from?", "Ans1": b.origin},
			},
		}
		upload, err := decode[content.BlogUpload](doc)
		if err != nil {
			return err
		}
		if err := posts.Upload(ctx, upload); err != nil {
			return fmt.Errorf("upload %s: %w", permalink, err)
		}
	}
	return nil
}

func createOthersPages(ctx context.Context, others *service.OthersService) error {
	pages := map[string][]string{
		content.OthersPrivacy: {"Privacy Policy", "We do not sell your data."},
		content.OthersAbout:   {"About", "A wiki about goat breeds."},
		content.OthersTerms:   {"Terms and Conditions", "Content is provided as is."},
	}
	now := content.FlexTime{Time: time.Now().UTC()}
	for _, title := range content.OthersTitles {
		text := pages[title]
		head, para := text[0], text[1]
		upload := content.OthersUpload{
			Title:       title,
			UpdatedDate: &now,
			Sections: []content.OthersSection{
				{SectionType: "head", Order: 1, Content: &head},
				{SectionType: "para", Order: 2, Content: &para},
			},
		}
		if err := others.Replace(ctx, upload); err != nil {
			return fmt.Errorf("page %s: %w", title, err)
		}
	}
	return nil
}

func createScripts(ctx context.Context, scripts *service.ScriptService) error {
	kind, snippet := "js", "window.dataLayer = window.dataLayer || [];"
	return scripts.Replace(ctx, content.ScriptUpload{
		ID:             1,
		ScriptCategory: content.AnalyticsCategory,
		Sections:       []content.ScriptEntry{{ScriptType: &kind, ScriptContent: &snippet}},
	})
}

func decode[T any](v any) (T, error) {
	var out T
	raw, err := json.Marshal(v)
	if err != nil {
		return out, err
	}
	err = json.Unmarshal(raw, &out)
	return out, err
}

func slug(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}
