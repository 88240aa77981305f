package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/craftcost/pkg/retrier"
)

const maxFeedSize = 64 << 20

// Fetcher reads the raw bytes of a feed document.
type Fetcher interface {
	Fetch(ctx context.Context, source string) ([]byte, error)
}

// SourceFetcher reads local files and retries http(s) downloads.
type SourceFetcher struct {
	l       *zap.Logger
	client  *http.Client
	retrier *retrier.Retrier
}

// NewSourceFetcher creates a fetcher. A nil client uses http.DefaultClient.
func NewSourceFetcher(l *zap.Logger, client *http.Client, r *retrier.Retrier) *SourceFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if r == nil {
		r = retrier.New()
	}
	return &SourceFetcher{l: l, client: client, retrier: r}
}

// Fetch returns the document found at source.
func (f *SourceFetcher) Fetch(ctx context.Context, source string) ([]byte, error) {
	if source == "" {
		return nil, errors.New("feed source is empty")
	}

	if isRemote(source) {
		return retrier.DoWithData(f.retrier, ctx, func(ctx context.Context) ([]byte, error) {
			return f.download(ctx, source)
		})
	}

	payload, err := os.ReadFile(source)
	if err != nil {
		return nil, errors.Wrapf(err, "read feed %s", source)
	}
	return payload, nil
}

func (f *SourceFetcher) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, retrier.Permanent(errors.Wrapf(err, "build request for %s", url))
	}

	resp, err := f.client.Do(req)
	if err != nil {
		f.l.Debug("feed download failed", zap.String("url", url), zap.Error(err))
		return nil, errors.Wrapf(err, "download %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("download %s: unexpected status %d", url, resp.StatusCode)
		// client errors will not go away on retry
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return nil, retrier.Permanent(err)
		}
		return nil, err
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedSize))
	if err != nil {
		return nil, errors.Wrapf(err, "read body of %s", url)
	}
	return payload, nil
}

func isRemote(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
