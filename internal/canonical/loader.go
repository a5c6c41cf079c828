package canonical

import (
	"encoding/json"
	"log/slog"
	"os"
	"sync"

	"where-to-watch-service/internal/logging"
)

// Loader lazily reads the offline-built canonical map artifact, once per
// process. A missing or unparsable artifact degrades to a nil map (raw
// identity matching downstream) instead of failing.
type Loader struct {
	path   string
	logger *slog.Logger

	mu     sync.Mutex
	loaded bool
	m      *Map
}

// NewLoader constructs a Loader for the given artifact path.
func NewLoader(path string, logger *slog.Logger) *Loader {
	return &Loader{path: path, logger: logger}
}

// Load returns the canonical map, reading the artifact on first call.
// Subsequent calls return the cached result. Safe for concurrent use.
func (l *Loader) Load() *Map {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.loaded {
		return l.m
	}
	l.loaded = true

	raw, err := os.ReadFile(l.path)
	if err != nil {
		logging.Warn(l.logger, "canonical map unavailable, degrading to raw identity",
			slog.String("path", l.path), slog.Any("err", err))
		return nil
	}

	var m Map
	if err := json.Unmarshal(raw, &m); err != nil {
		logging.Warn(l.logger, "canonical map unparsable, degrading to raw identity",
			slog.String("path", l.path), slog.Any("err", err))
		return nil
	}

	l.m = &m
	logging.Info(l.logger, "canonical map loaded",
		slog.String("path", l.path), slog.Int(logging.FieldCount, m.Len()))
	return l.m
}

// Reload rereads the artifact and swaps the map in place. Unlike Load, a
// read or parse failure keeps the previously loaded map and reports the
// error, so a broken redeploy of the artifact never degrades a healthy
// process.
func (l *Loader) Reload() error {
	raw, err := os.ReadFile(l.path)
	if err != nil {
		return err
	}
	var m Map
	if err := json.Unmarshal(raw, &m); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.loaded = true
	l.m = &m
	logging.Info(l.logger, "canonical map reloaded",
		slog.String("path", l.path), slog.Int(logging.FieldCount, m.Len()))
	return nil
}

// SetForTest replaces the loaded map. Test-only seam; must not be called
// concurrently with live traffic.
func (l *Loader) SetForTest(m *Map) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loaded = true
	l.m = m
}

// ResetForTest rearms the lazy load so the next Load rereads the artifact.
func (l *Loader) ResetForTest() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loaded = false
	l.m = nil
}
