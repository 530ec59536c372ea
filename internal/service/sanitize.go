package service

import (
	"regexp"
	"strings"

	"github.com/goatwiki/internal/content"
	"github.com/microcosm-cc/bluemonday"
)

var embedSrcPattern = regexp.MustCompile(`^https://(?:www\.)?(?:youtube\.com/embed/|youtube-nocookie\.com/embed/)`)

// ContentPolicy 允许常见富文本标签与 YouTube 内嵌视频。
func ContentPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("iframe")
	policy.AllowAttrs("src").Matching(embedSrcPattern).OnElements("iframe")
	policy.AllowAttrs("title", "allow", "allowfullscreen", "frameborder", "loading").OnElements("iframe")
	policy.AllowAttrs("target", "rel").OnElements("a")
	return policy
}

// sanitizeText 仅在配置了策略且文本包含标签时清洗，否则原样保存。
func sanitizeText(policy *bluemonday.Policy, text *string) *string {
	if policy == nil || text == nil || !strings.Contains(*text, "<") {
		return text
	}
	cleaned := policy.Sanitize(*text)
	return &cleaned
}

func sanitizeRows(policy *bluemonday.Policy, rows *content.Rows) {
	if policy == nil {
		return
	}
	for i := range rows.Sections {
		rows.Sections[i].Content = sanitizeText(policy, rows.Sections[i].Content)
	}
	for i := range rows.FAQs {
		rows.FAQs[i].Question = sanitizeText(policy, rows.FAQs[i].Question)
		rows.FAQs[i].Answer = sanitizeText(policy, rows.FAQs[i].Answer)
	}
}
