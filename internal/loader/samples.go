package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"time"

	"golang.org/x/sync/singleflight"

	apierrors "idwrcli/internal/errors"
)

// SampleInfo describes one sample and whether a local copy exists.
type SampleInfo struct {
	Name    string    `json:"name"`
	Local   bool      `json:"local"`
	Size    int64     `json:"size,omitempty"`
	ModTime time.Time `json:"mod_time,omitempty"`
}

// Samples lists the configured samples plus any other loadable file found in
// SamplesDir, in name order.
func (l *Loader) Samples() []SampleInfo {
	byName := make(map[string]SampleInfo, len(l.cfg.Samples))
	for _, name := range l.cfg.Samples {
		info := SampleInfo{Name: name}
		if p, ok := l.localPath(name); ok {
			if st, err := os.Stat(p); err == nil && !st.IsDir() {
				info.Local = true
				info.Size = st.Size()
				info.ModTime = st.ModTime()
			}
		}
		byName[name] = info
	}
	for _, info := range l.discoverLocal() {
		byName[info.Name] = info
	}

	out := make([]SampleInfo, 0, len(byName))
	for _, info := range byName {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Sample returns the text of a named sample. The local copy wins; otherwise
// the sample is fetched, and callers asking for the same name at the same time
// share the result.
func (l *Loader) Sample(ctx context.Context, name string) (string, error) {
	if !l.known(name) {
		return "", fmt.Errorf("%w: %q", ErrUnknownSample, name)
	}

	if p, ok := l.localPath(name); ok {
		text, err := l.ReadFile(p)
		if err == nil {
			l.logger.InfoContext(ctx, "Loaded sample from disk",
				slog.String("sample", name), slog.String("path", p))
			return text, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
	}

	if l.cfg.BaseURL == "" {
		return "", apierrors.NewNotFoundError(fmt.Sprintf("sample %q", name))
	}

	// The shared fetch outlives any one caller; FetchTimeout still bounds it.
	ch := l.group.DoChan(name, func() (interface{}, error) {
		return l.fetch(context.WithoutCancel(ctx), name)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	if res.Err != nil {
		return "", res.Err
	}
	l.logger.InfoContext(ctx, "Fetched sample",
		slog.String("sample", name), slog.Bool("shared", res.Shared))
	return res.Val.(string), nil
}

func (l *Loader) fetch(ctx context.Context, name string) (string, error) {
	target, err := sampleURL(l.cfg.BaseURL, name)
	if err != nil {
		return "", apierrors.NewConfigError("invalid sample base URL", err)
	}

	ctx, cancel := context.WithTimeout(ctx, l.cfg.FetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", apierrors.NewNetworkError("failed to build sample request", err)
	}

	start := time.Now()
	resp, err := l.client.Do(req)
	if err != nil {
		return "", apierrors.NewNetworkError("failed to fetch sample", err).
			WithContext("url", target)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apierrors.NewNetworkError(
			fmt.Sprintf("sample fetch returned %d", resp.StatusCode), nil).
			WithContext("url", target)
	}

	text, err := l.Decode(name, resp.Body)
	if err != nil {
		return "", err
	}

	l.logger.DebugContext(ctx, "Sample downloaded",
		slog.String("url", target),
		slog.Duration("duration", time.Since(start)),
		slog.Int("size_bytes", len(text)))
	return text, nil
}

func (l *Loader) known(name string) bool {
	for _, s := range l.cfg.Samples {
		if s == name {
			return true
		}
	}
	return l.discovered(name)
}

// localPath confines name to SamplesDir.
func (l *Loader) localPath(name string) (string, bool) {
	if l.cfg.SamplesDir == "" || name != filepath.Base(name) {
		return "", false
	}
	return filepath.Join(l.cfg.SamplesDir, name), true
}

func sampleURL(base, name string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	u.Path = path.Join(u.Path, name)
	return u.String(), nil
}
