package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goatwiki/internal/auth"
	"github.com/goatwiki/internal/cache"
	"github.com/goatwiki/internal/db"
	"github.com/goatwiki/internal/media"
	"github.com/goatwiki/internal/service"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeHost struct {
	mu             sync.Mutex
	deletedFolders []string
	destroyed      []string
	folderErr      error
}

func (h *fakeHost) List(context.Context, string, int) ([]media.Asset, error) { return nil, nil }
func (h *fakeHost) Delete(context.Context, []string) error                   { return nil }
func (h *fakeHost) CopyFromURL(context.Context, string, string) error        { return nil }

func (h *fakeHost) DeleteFolder(_ context.Context, folder string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.deletedFolders = append(h.deletedFolders, folder)
	return h.folderErr
}

func (h *fakeHost) Destroy(_ context.Context, id string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.destroyed = append(h.destroyed, id)
	return "ok", nil
}

// countingRefresher 记录调用次数；设置 release 时会阻塞直到其被关闭。
type countingRefresher struct {
	calls   atomic.Int32
	entered chan struct{}
	release chan struct{}
}

func (r *countingRefresher) Refresh() {
	r.calls.Add(1)
	if r.release != nil {
		r.entered <- struct{}{}
		<-r.release
	}
}

type testEnv struct {
	api     *API
	db      *gorm.DB
	host    *fakeHost
	sitemap *countingRefresher
	tokens  *auth.TokenService
}

func setupTestAPI(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:handler-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := gdb.AutoMigrate(db.Models()...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	env := &testEnv{
		db:      gdb,
		host:    &fakeHost{},
		sitemap: &countingRefresher{},
		tokens:  auth.NewTokenService("test-secret", time.Hour),
	}
	env.api = NewAPI(Deps{
		Posts:   service.NewPostService(gdb, time.Second),
		Others:  service.NewOthersService(gdb, time.Second),
		Scripts: service.NewScriptService(gdb, time.Second),
		Creds:   service.NewCredentialService(gdb, time.Second),
		Tokens:  env.tokens,
		Cache:   cache.New(time.Hour, time.Minute),
		Media:   media.NewService(env.host, 0),
		Sitemap: env.sitemap,
	})
	return env
}

func perform(h gin.HandlerFunc, method, target string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	h(c)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func expectMsg(t *testing.T, w *httptest.ResponseRecorder, status int, msg string) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("expected status %d, got %d (%s)", status, w.Code, w.Body.String())
	}
	if got := decodeBody(t, w)["msg"]; got != msg {
		t.Fatalf("expected msg %q, got %v", msg, got)
	}
}

const goatPost = `{
	"id": 5,
	"Title": "Boer goats",
	"Category": "Breeds",
	"Permalink": "boer-goats",
	"NumOfEntries": 3,
	"RelatedPosts": ["3", "7"],
	"FPic": "BlogPics/blog6/cover.jpg",
	"FPicAlt": "a boer goat",
	"Sections": [
		{"Section_OrderNum": 1, "Type": "para", "Content": "Boers are meat goats."},
		{"Section_OrderNum": 2, "Type": "head", "Content": "Origins"},
		{"Section_OrderNum": 3, "Type": "Table", "Headers": ["Sex", "Weight"], "Content": [["Buck", "120kg"]]}
	],
	"faqs": []
}`

const kikoPost = `{
	"id": 9,
	"Title": "Kiko goats",
	"Category": "Breeds",
	"Permalink": "kiko-goats",
	"NumOfEntries": 1,
	"RelatedPosts": [],
	"Sections": [{"Section_OrderNum": 1, "Type": "para", "Content": "Kikos are hardy."}],
	"faqs": []
}`
