package shell

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/ds124wfegd/abfall-notifier/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNetwork struct {
	mu      sync.Mutex
	assets  map[string][]byte
	calls   map[string]int
	offline bool
}

func newFakeNetwork(manifest string) *fakeNetwork {
	net := &fakeNetwork{
		assets: map[string][]byte{manifestPath: []byte(manifest)},
		calls:  make(map[string]int),
	}
	for _, path := range CoreAssets {
		net.assets[path] = []byte("asset:" + path)
	}
	return net
}

func (n *fakeNetwork) Fetch(ctx context.Context, path string) ([]byte, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls[path]++
	if n.offline {
		return nil, errors.New("network unreachable")
	}
	body, ok := n.assets[path]
	if !ok {
		return nil, fmt.Errorf("404 for %s", path)
	}
	return body, nil
}

func (n *fakeNetwork) fetchCount(path string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls[path]
}

type fakeNotifier struct {
	shown  []Notification
	closed []Notification
}

func (f *fakeNotifier) Show(n Notification) error {
	f.shown = append(f.shown, n)
	return nil
}

func (f *fakeNotifier) Close(n Notification) {
	f.closed = append(f.closed, n)
}

type fakeWindows struct {
	opened []string
}

func (f *fakeWindows) OpenWindow(url string) error {
	f.opened = append(f.opened, url)
	return nil
}

const testManifest = `{"files": {"main.js": "/static/js/main.abc123.js", "main.css": "/static/css/main.def456.css"}}`

func newTestWorker(version string, net *fakeNetwork) (*Worker, *MemoryCacheStorage, *fakeNotifier, *fakeWindows) {
	if net.assets["/static/js/main.abc123.js"] == nil {
		net.assets["/static/js/main.abc123.js"] = []byte("js bundle")
		net.assets["/static/css/main.def456.css"] = []byte("css bundle")
	}
	storage := NewMemoryCacheStorage()
	notifier := &fakeNotifier{}
	windows := &fakeWindows{}
	return NewWorker(version, storage, net, notifier, windows), storage, notifier, windows
}

func TestInstallCachesManifestAssets(t *testing.T) {
	net := newFakeNetwork(testManifest)
	worker, storage, _, _ := newTestWorker("v2", net)

	require.NoError(t, worker.Install(context.Background()))

	cache, err := storage.Open(CacheName("v2"))
	require.NoError(t, err)

	body, ok := cache.Match("/static/js/main.abc123.js")
	assert.True(t, ok, "manifest-listed build artifact must be cached")
	assert.Equal(t, []byte("js bundle"), body)

	for _, path := range CoreAssets {
		_, ok := cache.Match(path)
		assert.True(t, ok, "core asset %s must be cached", path)
	}
}

func TestInstallIsAllOrNothing(t *testing.T) {
	net := newFakeNetwork(`{"files": {"main.js": "/static/js/missing.js"}}`)
	worker, storage, _, _ := newTestWorker("v2", net)

	err := worker.Install(context.Background())
	require.Error(t, err)
	assert.NotEqual(t, PhaseActive, worker.Phase())

	// A failed install must not leave a partially populated generation
	cache, openErr := storage.Open(CacheName("v2"))
	require.NoError(t, openErr)
	assert.Zero(t, cache.(*MemoryCache).Len())
}

func TestInstallFailsOnBrokenManifest(t *testing.T) {
	net := newFakeNetwork(`{broken`)
	worker, _, _, _ := newTestWorker("v2", net)

	assert.Error(t, worker.Install(context.Background()))
}

func TestHandleFetchServesFromCacheWithoutNetwork(t *testing.T) {
	net := newFakeNetwork(testManifest)
	worker, _, _, _ := newTestWorker("v2", net)
	require.NoError(t, worker.Install(context.Background()))

	before := net.fetchCount("/static/js/main.abc123.js")
	body, err := worker.HandleFetch(context.Background(), "/static/js/main.abc123.js")
	require.NoError(t, err)
	assert.Equal(t, []byte("js bundle"), body)
	assert.Equal(t, before, net.fetchCount("/static/js/main.abc123.js"),
		"cached asset must be served without a network request")
}

func TestHandleFetchFallsThroughToNetwork(t *testing.T) {
	net := newFakeNetwork(testManifest)
	net.assets["/api/calendar"] = []byte("calendar data")
	worker, _, _, _ := newTestWorker("v2", net)
	require.NoError(t, worker.Install(context.Background()))

	body, err := worker.HandleFetch(context.Background(), "/api/calendar")
	require.NoError(t, err)
	assert.Equal(t, []byte("calendar data"), body)
	assert.Equal(t, 1, net.fetchCount("/api/calendar"))
}

func TestHandleFetchOfflineFallsBackToRootDocument(t *testing.T) {
	net := newFakeNetwork(testManifest)
	worker, _, _, _ := newTestWorker("v2", net)
	require.NoError(t, worker.Install(context.Background()))

	net.offline = true
	body, err := worker.HandleFetch(context.Background(), "/impressum")
	require.NoError(t, err)
	assert.Equal(t, []byte("asset:/"), body, "offline miss must serve the cached shell")
}

func TestActivatePurgesStaleCaches(t *testing.T) {
	net := newFakeNetwork(testManifest)

	oldWorker, storage, _, _ := newTestWorker("v1", net)
	require.NoError(t, oldWorker.Install(context.Background()))
	require.NoError(t, oldWorker.Activate(context.Background()))

	newWorker := NewWorker("v2", storage, net, &fakeNotifier{}, &fakeWindows{})
	require.NoError(t, newWorker.Install(context.Background()))
	require.NoError(t, newWorker.Activate(context.Background()))

	names, err := storage.Keys()
	require.NoError(t, err)
	require.Len(t, names, 1, "activation keeps exactly one live cache")
	assert.Equal(t, CacheName("v2"), names[0])
	assert.Equal(t, PhaseActive, newWorker.Phase())
}

func TestHandlePushRendersNotification(t *testing.T) {
	worker, _, notifier, _ := newTestWorker("v2", newFakeNetwork(testManifest))

	payload := []byte(`{"title":"Bioabfall","body":"Bioabfall • 2025-03-04","icon":"/Braun.svg","data":{"url":"/"}}`)
	require.NoError(t, worker.HandlePush(payload))

	require.Len(t, notifier.shown, 1)
	shown := notifier.shown[0]
	assert.Equal(t, "Bioabfall", shown.Title)
	assert.Equal(t, "Bioabfall • 2025-03-04", shown.Body)
	assert.Equal(t, "/Braun.svg", shown.Icon)
	assert.Equal(t, "/", shown.Data.URL)
}

func TestHandlePushToleratesMalformedPayload(t *testing.T) {
	worker, _, notifier, _ := newTestWorker("v2", newFakeNetwork(testManifest))

	assert.Error(t, worker.HandlePush([]byte(`{"title": `)))
	assert.Empty(t, notifier.shown)
}

func TestHandleNotificationClick(t *testing.T) {
	worker, _, notifier, windows := newTestWorker("v2", newFakeNetwork(testManifest))

	n := Notification{Title: "Bioabfall", Data: entity.NotificationData{URL: "/"}}
	require.NoError(t, worker.HandleNotificationClick(n))

	require.Len(t, notifier.closed, 1)
	assert.Equal(t, []string{"/"}, windows.opened)
}
