package db

import (
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestInitSqliteMigratesTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "blog.db")

	gdb, err := Init(Options{Driver: "sqlite", Path: path})
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if DB != gdb {
		t.Fatalf("expected global handle to be set")
	}

	for _, table := range []string{"Posts", "Sections", "Images", "BlogTables", "Qna", "Others", "Scripts", "Credentials"} {
		if !gdb.Migrator().HasTable(table) {
			t.Fatalf("expected table %s", table)
		}
	}
	if !gdb.Migrator().HasColumn(&Post{}, "PublishingDate") {
		t.Fatalf("expected PublishingDate column")
	}
}

func TestInitRejectsUnknownDriver(t *testing.T) {
	if _, err := Init(Options{Driver: "oracle"}); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestMySQLDSN(t *testing.T) {
	dsn := MySQLDSN(Options{User: "goat", Password: "pw", Host: "db", Name: "wiki"})
	if !strings.HasPrefix(dsn, "goat:pw@tcp(db:3306)/wiki?") {
		t.Fatalf("unexpected dsn %q", dsn)
	}
	if !strings.Contains(dsn, "parseTime=True") {
		t.Fatalf("dates must be parsed: %q", dsn)
	}
}

func TestEnsureCredentialSeedsOnce(t *testing.T) {
	gdb, err := Init(Options{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "cred.db")})
	if err != nil {
		t.Fatalf("init: %v", err)
	}

	if err := EnsureCredential(gdb, " admin ", "secret"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := EnsureCredential(gdb, "other", "other"); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	var creds []Credential
	if err := gdb.Find(&creds).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(creds) != 1 {
		t.Fatalf("expected exactly one credential, got %d", len(creds))
	}
	if creds[0].Username != "admin" {
		t.Fatalf("expected trimmed username, got %q", creds[0].Username)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(creds[0].Password), []byte("secret")); err != nil {
		t.Fatalf("expected bcrypt hash: %v", err)
	}
}
