// Package media manages the blog's image folders on the media host.
package media

import (
	"context"
	"errors"
	"strconv"
)

var (
	ErrNotConfigured    = errors.New("media host not configured")
	ErrFolderNotFound   = errors.New("folder not found")
	ErrFolderRequired   = errors.New("folder name is required")
	ErrPublicIDRequired = errors.New("public id is required")
	ErrAssetsRemain     = errors.New("some assets were not removed")
	ErrNothingToRevert  = errors.New("backup folder is empty")
)

// Asset is a stored file on the media host.
type Asset struct {
	PublicID  string
	SecureURL string
}

// Host is the subset of the media hosting API the blog uses.
type Host interface {
	// List returns at most limit assets whose public id starts with prefix.
	List(ctx context.Context, prefix string, limit int) ([]Asset, error)
	// Delete removes assets by public id.
	Delete(ctx context.Context, publicIDs []string) error
	// DeleteFolder removes an empty folder. Missing folders yield ErrFolderNotFound.
	DeleteFolder(ctx context.Context, folder string) error
	// Destroy removes one asset and returns the host's result string.
	Destroy(ctx context.Context, publicID string) (string, error)
	// CopyFromURL uploads the file at url under publicID.
	CopyFromURL(ctx context.Context, url, publicID string) error
}

// BlogFolder names the image folder of a post. Folders are numbered one
// above the post id.
func BlogFolder(postID int64) string {
	return "BlogPics/blog" + strconv.FormatInt(postID+1, 10)
}

// Disabled is a Host that fails every call. It is used when no credentials
// are configured.
type Disabled struct{}

func (Disabled) List(context.Context, string, int) ([]Asset, error) { return nil, ErrNotConfigured }
func (Disabled) Delete(context.Context, []string) error             { return ErrNotConfigured }
func (Disabled) DeleteFolder(context.Context, string) error         { return ErrNotConfigured }
func (Disabled) Destroy(context.Context, string) (string, error)    { return "", ErrNotConfigured }
func (Disabled) CopyFromURL(context.Context, string, string) error  { return ErrNotConfigured }
