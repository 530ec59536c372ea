package sitemap

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/jlaffaye/ftp"
)

// Uploader publishes a rendered sitemap.
type Uploader interface {
	Upload(ctx context.Context, body []byte) error
}

// FTPUploader stores the sitemap on an FTP server.
type FTPUploader struct {
	Host       string
	Port       string
	User       string
	Password   string
	RemotePath string
	Timeout    time.Duration
}

// Upload connects, logs in and stores body at RemotePath.
func (u FTPUploader) Upload(ctx context.Context, body []byte) error {
	timeout := u.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	port := u.Port
	if port == "" {
		port = "21"
	}

	conn, err := ftp.Dial(net.JoinHostPort(u.Host, port), ftp.DialWithContext(ctx), ftp.DialWithTimeout(timeout))
	if err != nil {
		return fmt.Errorf("ftp dial: %w", err)
	}
	defer conn.Quit()

	if err := conn.Login(u.User, u.Password); err != nil {
		return fmt.Errorf("ftp login: %w", err)
	}
	if err := conn.Stor(u.RemotePath, bytes.NewReader(body)); err != nil {
		return fmt.Errorf("ftp store %s: %w", u.RemotePath, err)
	}
	return nil
}

// FileUploader writes the sitemap to a local file.
type FileUploader struct {
	Path string
}

// Upload writes body to Path.
func (u FileUploader) Upload(_ context.Context, body []byte) error {
	if dir := filepath.Dir(u.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(u.Path, body, 0o644)
}
