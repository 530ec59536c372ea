package media

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// listLimit is the page size used when listing a folder.
const listLimit = 500

// Service runs the folder-level operations of the admin panel.
type Service struct {
	host   Host
	settle time.Duration
	sleep  func(context.Context, time.Duration) error
}

// NewService creates a Service. settle is how long the host is given to
// process a bulk delete before the folder is checked again.
func NewService(host Host, settle time.Duration) *Service {
	return &Service{host: host, settle: settle, sleep: sleepContext}
}

// DeleteFolder removes every asset under folder and then the folder itself.
// A folder that does not exist counts as deleted.
func (s *Service) DeleteFolder(ctx context.Context, folder string) error {
	folder = strings.TrimSpace(folder)
	if folder == "" {
		return ErrFolderRequired
	}

	err := s.deleteFolder(ctx, folder)
	if errors.Is(err, ErrFolderNotFound) {
		return nil
	}
	if err != nil {
		logrus.WithError(err).WithField("folder", folder).Error("delete media folder")
	}
	return err
}

func (s *Service) deleteFolder(ctx context.Context, folder string) error {
	assets, err := s.host.List(ctx, folder, listLimit)
	if err != nil {
		return err
	}

	if len(assets) > 0 {
		ids := make([]string, 0, len(assets))
		for _, a := range assets {
			ids = append(ids, a.PublicID)
		}
		if err := s.host.Delete(ctx, ids); err != nil {
			return err
		}
		if err := s.sleep(ctx, s.settle); err != nil {
			return err
		}

		left, err := s.host.List(ctx, folder, listLimit)
		if err != nil {
			return err
		}
		if len(left) > 0 {
			logrus.WithField("folder", folder).WithField("remaining", len(left)).Warn("assets survived folder delete")
			return ErrAssetsRemain
		}
	}

	return s.host.DeleteFolder(ctx, folder)
}

// Destroy removes a single asset.
func (s *Service) Destroy(ctx context.Context, publicID string) (string, error) {
	publicID = strings.TrimSpace(publicID)
	if publicID == "" {
		return "", ErrPublicIDRequired
	}
	result, err := s.host.Destroy(ctx, publicID)
	if err != nil {
		logrus.WithError(err).WithField("public_id", publicID).Error("destroy media asset")
	}
	return result, err
}

// BackupFolder copies every asset of folder into backup and returns the
// backup folder name. An empty backup name gets a generated one.
func (s *Service) BackupFolder(ctx context.Context, folder, backup string) (string, error) {
	folder = strings.TrimSpace(folder)
	if folder == "" {
		return "", ErrFolderRequired
	}
	backup = strings.TrimSpace(backup)
	if backup == "" {
		backup = folder + "_backup_" + uuid.NewString()
	}

	assets, err := s.host.List(ctx, folder, listLimit)
	if err != nil {
		return "", err
	}
	if err := s.copyAll(ctx, assets, folder, backup); err != nil {
		return "", err
	}
	return backup, nil
}

// RevertFolder copies the assets of backup back into folder.
func (s *Service) RevertFolder(ctx context.Context, backup, folder string) error {
	backup, folder = strings.TrimSpace(backup), strings.TrimSpace(folder)
	if backup == "" || folder == "" {
		return ErrFolderRequired
	}

	assets, err := s.host.List(ctx, backup, listLimit)
	if err != nil {
		return err
	}
	if len(assets) == 0 {
		return ErrNothingToRevert
	}
	return s.copyAll(ctx, assets, backup, folder)
}

func (s *Service) copyAll(ctx context.Context, assets []Asset, from, to string) error {
	for _, a := range assets {
		target := strings.Replace(a.PublicID, from, to, 1)
		if err := s.host.CopyFromURL(ctx, a.SecureURL, target); err != nil {
			logrus.WithError(err).WithField("public_id", a.PublicID).Error("copy media asset")
			return err
		}
	}
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
