package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// maxPayloadSize caps how much of a remote body is read.
const maxPayloadSize = 32 << 20

// Loader fetches raw waypoint payloads from local files or HTTP(S) URLs.
// A failed fetch is reported once; there is no retry.
type Loader struct {
	Client *http.Client
	Log    *zap.Logger

	group singleflight.Group
}

// NewLoader creates a Loader with the given request timeout.
func NewLoader(timeout time.Duration, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{
		Client: &http.Client{Timeout: timeout},
		Log:    log,
	}
}

// Fetch returns the payload at location. Concurrent fetches of the same
// location share one request.
func (l *Loader) Fetch(ctx context.Context, location string) (Payload, error) {
	v, err, shared := l.group.Do(location, func() (any, error) {
		if isRemote(location) {
			return l.fetchHTTP(ctx, location)
		}
		return l.readFile(location)
	})
	if err != nil {
		l.logger().Warn("waypoint source unavailable", zap.String("location", location), zap.Error(err))
		return Payload{}, err
	}
	if shared {
		l.logger().Debug("fetch shared", zap.String("location", location))
	}
	return Payload{Data: v.([]byte)}, nil
}

// Load fetches and parses location.
func (l *Loader) Load(ctx context.Context, location string, opts Options) (*Dataset, error) {
	payload, err := l.Fetch(ctx, location)
	if err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = l.logger()
	}
	ds, err := Parse(location, payload, opts)
	if err != nil {
		l.logger().Warn("waypoint source rejected", zap.String("location", location), zap.Error(err))
		return nil, err
	}
	return ds, nil
}

// LoadAll loads several locations concurrently, preserving order. The first
// error cancels the remaining loads.
func (l *Loader) LoadAll(ctx context.Context, locations []string, opts Options) ([]*Dataset, error) {
	out := make([]*Dataset, len(locations))
	g, gctx := errgroup.WithContext(ctx)
	for i, location := range locations {
		i, location := i, location
		g.Go(func() error {
			ds, err := l.Load(gctx, location, opts)
			if err != nil {
				return err
			}
			out[i] = ds
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (l *Loader) fetchHTTP(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadSize))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	return data, nil
}

func (l *Loader) readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func (l *Loader) logger() *zap.Logger {
	if l.Log == nil {
		return zap.NewNop()
	}
	return l.Log
}

func isRemote(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
