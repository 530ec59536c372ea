package sitemap

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Source lists the permalinks of every post.
type Source interface {
	Permalinks(ctx context.Context) ([]string, error)
}

// Worker regenerates and uploads the sitemap in the background. Requests made
// while a run is pending are merged into that run.
type Worker struct {
	source   Source
	uploader Uploader
	baseURL  string
	retries  int
	backoff  time.Duration

	trigger chan struct{}
	runs    chan error
}

// NewWorker creates a Worker. retries is the number of attempts per run.
func NewWorker(source Source, uploader Uploader, baseURL string, retries int) *Worker {
	if retries < 1 {
		retries = 1
	}
	return &Worker{
		source:   source,
		uploader: uploader,
		baseURL:  baseURL,
		retries:  retries,
		backoff:  2 * time.Second,
		trigger:  make(chan struct{}, 1),
	}
}

// Refresh schedules a run without blocking.
func (w *Worker) Refresh() {
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}

// Run processes refresh requests until ctx is done.
func (w *Worker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.trigger:
			err := w.generateWithRetry(ctx)
			if w.runs != nil {
				w.runs <- err
			}
		}
	}
}

// Generate builds the sitemap from the current posts and uploads it once.
func (w *Worker) Generate(ctx context.Context) error {
	links, err := w.source.Permalinks(ctx)
	if err != nil {
		return err
	}
	body, err := Build(w.baseURL, StaticRoutes, links)
	if err != nil {
		return err
	}
	return w.uploader.Upload(ctx, body)
}

func (w *Worker) generateWithRetry(ctx context.Context) error {
	var err error
	for attempt := 1; attempt <= w.retries; attempt++ {
		if err = w.Generate(ctx); err == nil {
			logrus.WithField("attempt", attempt).Info("sitemap published")
			return nil
		}
		logrus.WithError(err).WithField("attempt", attempt).Warn("sitemap publish failed")
		if attempt == w.retries {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(w.backoff * time.Duration(attempt)):
		}
	}
	logrus.WithError(err).Error("sitemap publish gave up")
	return err
}
