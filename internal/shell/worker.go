// Package shell models the browser worker that keeps the calendar
// usable offline and surfaces push notifications. The worker owns one
// version-tagged cache generation; bumping the version on deploy is the
// only invalidation mechanism.
package shell

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ds124wfegd/abfall-notifier/internal/entity"

	"github.com/sirupsen/logrus"
)

const (
	cacheNamePrefix = "trash-pickup-cache-"
	manifestPath    = "/asset-manifest.json"
	rootDocument    = "/"
)

// Lifecycle phases of the worker.
const (
	PhaseIdle       = "idle"
	PhaseInstalling = "installing"
	PhaseActive     = "active"
)

// CoreAssets is the fixed part of every cache generation. Build
// artifacts from the asset manifest are added on top at install time.
var CoreAssets = []string{
	rootDocument,
	"/recycling-truck.png",
	"/Blau.svg",
	"/Braun.svg",
	"/Gelb.svg",
	"/Grün.svg",
	"/Schwarz.svg",
	"/trash-pickup-dates.json",
	"/trash-bin.png",
	"/manifest.json",
}

// CacheName derives the cache generation name from the version tag.
func CacheName(version string) string {
	return cacheNamePrefix + version
}

// Cache is one named asset cache. Re-caching the same path is harmless.
type Cache interface {
	Put(path string, body []byte) error
	Match(path string) ([]byte, bool)
}

// CacheStorage manages the named caches of the worker context.
type CacheStorage interface {
	Open(name string) (Cache, error)
	Keys() ([]string, error)
	Delete(name string) error
}

// Fetcher retrieves an asset over the network.
type Fetcher interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// Notifier renders OS-level notifications.
type Notifier interface {
	Show(n Notification) error
	Close(n Notification)
}

// WindowOpener opens or focuses a browser window at a URL.
type WindowOpener interface {
	OpenWindow(url string) error
}

// Notification is a rendered notification and its attached data.
type Notification struct {
	Title string
	Body  string
	Icon  string
	Data  entity.NotificationData
}

type assetManifest struct {
	Files map[string]string `json:"files"`
}

// Worker drives the offline shell: it populates a versioned cache at
// install time, serves intercepted fetches cache-first, and renders
// incoming push payloads.
type Worker struct {
	version string
	storage CacheStorage
	net     Fetcher
	notify  Notifier
	windows WindowOpener

	mu    sync.Mutex
	phase string
}

func NewWorker(version string, storage CacheStorage, net Fetcher, notify Notifier, windows WindowOpener) *Worker {
	return &Worker{
		version: version,
		storage: storage,
		net:     net,
		notify:  notify,
		windows: windows,
		phase:   PhaseIdle,
	}
}

// Phase reports the current lifecycle phase.
func (w *Worker) Phase() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.phase
}

func (w *Worker) setPhase(phase string) {
	w.mu.Lock()
	w.phase = phase
	w.mu.Unlock()
}

// Install fetches the asset manifest, resolves the full asset set and
// populates a fresh cache generation. The install is all-or-nothing: if
// any asset fails to fetch, nothing is cached and a previously active
// generation stays in effect.
func (w *Worker) Install(ctx context.Context) error {
	w.setPhase(PhaseInstalling)

	paths, err := w.assetPaths(ctx)
	if err != nil {
		w.setPhase(PhaseIdle)
		return err
	}

	// Fetch everything before touching the cache so a failed asset
	// cannot leave a half-populated generation behind.
	bodies := make(map[string][]byte, len(paths))
	for _, path := range paths {
		body, err := w.net.Fetch(ctx, path)
		if err != nil {
			w.setPhase(PhaseIdle)
			return fmt.Errorf("failed to fetch %s: %w", path, err)
		}
		bodies[path] = body
	}

	name := CacheName(w.version)
	cache, err := w.storage.Open(name)
	if err != nil {
		w.setPhase(PhaseIdle)
		return fmt.Errorf("failed to open cache %s: %w", name, err)
	}

	for path, body := range bodies {
		if err := cache.Put(path, body); err != nil {
			// Roll the broken generation back entirely
			if delErr := w.storage.Delete(name); delErr != nil {
				logrus.Errorf("Error deleting partial cache %s: %v", name, delErr)
			}
			w.setPhase(PhaseIdle)
			return fmt.Errorf("failed to cache %s: %w", path, err)
		}
	}

	logrus.Infof("Worker installed, %d assets cached under %s", len(bodies), name)
	return nil
}

func (w *Worker) assetPaths(ctx context.Context) ([]string, error) {
	data, err := w.net.Fetch(ctx, manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch asset manifest: %w", err)
	}

	var manifest assetManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse asset manifest: %w", err)
	}

	seen := make(map[string]bool, len(CoreAssets)+len(manifest.Files))
	paths := make([]string, 0, len(CoreAssets)+len(manifest.Files))
	for _, path := range CoreAssets {
		if !seen[path] {
			seen[path] = true
			paths = append(paths, path)
		}
	}
	for _, path := range manifest.Files {
		if !seen[path] {
			seen[path] = true
			paths = append(paths, path)
		}
	}
	return paths, nil
}

// Activate purges every cache generation that does not match the
// current version tag, leaving exactly one live cache.
func (w *Worker) Activate(ctx context.Context) error {
	names, err := w.storage.Keys()
	if err != nil {
		return fmt.Errorf("failed to enumerate caches: %w", err)
	}

	current := CacheName(w.version)
	for _, name := range names {
		if name == current {
			continue
		}
		if err := w.storage.Delete(name); err != nil {
			return fmt.Errorf("failed to delete stale cache %s: %w", name, err)
		}
		logrus.Infof("Purged stale cache %s", name)
	}

	w.setPhase(PhaseActive)
	return nil
}

// HandleFetch serves an intercepted request cache-first: cached body if
// present, then the network, then the cached root document as the
// offline fallback.
func (w *Worker) HandleFetch(ctx context.Context, path string) ([]byte, error) {
	cache, err := w.storage.Open(CacheName(w.version))
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	if body, ok := cache.Match(path); ok {
		return body, nil
	}

	body, err := w.net.Fetch(ctx, path)
	if err == nil {
		return body, nil
	}

	if fallback, ok := cache.Match(rootDocument); ok {
		return fallback, nil
	}
	return nil, fmt.Errorf("failed to fetch %s and no offline fallback cached: %w", path, err)
}

// HandlePush parses an incoming push message and renders it as an OS
// notification. A malformed message is logged and dropped; it must
// never take the worker down.
func (w *Worker) HandlePush(data []byte) error {
	var payload entity.NotificationPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		logrus.Errorf("Error parsing push payload: %v", err)
		return fmt.Errorf("failed to parse push payload: %w", err)
	}

	return w.notify.Show(Notification{
		Title: payload.Title,
		Body:  payload.Body,
		Icon:  payload.Icon,
		Data:  payload.Data,
	})
}

// HandleNotificationClick closes the notification and opens a window at
// its attached URL.
func (w *Worker) HandleNotificationClick(n Notification) error {
	w.notify.Close(n)
	return w.windows.OpenWindow(n.Data.URL)
}
