package loader

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"sort"
	"strings"
)

// discoverLocal lists the loadable files directly inside SamplesDir, so a
// table dropped there can be picked without touching configuration. A missing
// directory yields nothing.
func (l *Loader) discoverLocal() []SampleInfo {
	if l.cfg.SamplesDir == "" {
		return nil
	}

	entries, err := os.ReadDir(l.cfg.SamplesDir)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			l.logger.Warn("Failed to read samples directory",
				slog.String("dir", l.cfg.SamplesDir),
				slog.String("error", err.Error()))
		}
		return nil
	}

	var found []SampleInfo
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if _, err := FormatOf(name); err != nil {
			continue
		}

		info, err := entry.Info()
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		found = append(found, SampleInfo{
			Name:    name,
			Local:   true,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(found, func(i, j int) bool { return found[i].Name < found[j].Name })
	return found
}

// discovered reports whether name is a loadable file inside SamplesDir.
func (l *Loader) discovered(name string) bool {
	p, ok := l.localPath(name)
	if !ok {
		return false
	}
	if _, err := FormatOf(name); err != nil {
		return false
	}
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}
