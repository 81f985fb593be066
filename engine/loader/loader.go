package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-classroom/engine/model"
	"github.com/rs/zerolog"
)

// LoaderBackendType identifies the model file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeGLTF selects the glTF/GLB loader backend.
	BackendTypeGLTF LoaderBackendType = iota
)

// Result is the outcome of an asynchronous load. Exactly one of Model and Err is set.
type Result struct {
	Source string
	Model  model.Model
	Err    error
}

// ProgressFunc receives the share of the source read so far, from 0 to 100.
type ProgressFunc func(percent float64)

// DispatchFunc hands a callback to the goroutine that owns the scene, typically Engine.Post.
type DispatchFunc func(fn func())

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	modelCache map[string]model.Model

	backend loaderBackend

	pool    worker.DynamicWorkerPool
	workers int
	taskID  int

	client   *http.Client
	dispatch DispatchFunc
	log      zerolog.Logger
}

// Loader defines the public-facing interface for loading and caching 3D models.
// Sources are local file paths or http(s) URLs. Decoding happens off the frame loop on a
// worker pool, and results are handed back through the configured DispatchFunc.
type Loader interface {
	// Load fetches and decodes a model synchronously and caches it by source.
	// A cached model is returned without touching the source again.
	//
	// Parameters:
	//   - ctx: bounds the fetch of remote sources
	//   - source: a file path or http(s) URL
	//
	// Returns:
	//   - model.Model: the loaded model
	//   - error: error if fetching or decoding fails
	Load(ctx context.Context, source string) (model.Model, error)

	// LoadAsync queues a load on the worker pool and returns immediately.
	// Progress updates and the final Result are delivered through the dispatch function,
	// so both callbacks run on the frame loop when the loader is built with Engine.Post.
	//
	// Parameters:
	//   - ctx: bounds the fetch of remote sources
	//   - source: a file path or http(s) URL
	//   - onProgress: receives progress percentages, may be nil
	//   - done: receives the Result exactly once
	LoadAsync(ctx context.Context, source string, onProgress ProgressFunc, done func(Result))

	// Get retrieves a cached model by source. Returns nil if not found.
	//
	// Parameters:
	//   - source: the cache key to look up
	//
	// Returns:
	//   - model.Model: the cached model or nil
	Get(source string) model.Model

	// Models returns a copy of the model cache.
	//
	// Returns:
	//   - map[string]model.Model: all cached models keyed by source
	Models() map[string]model.Model
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and options applied.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeGLTF)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		modelCache: make(map[string]model.Model),
		workers:    max(runtime.NumCPU()-1, 1),
		client:     http.DefaultClient,
		dispatch:   func(fn func()) { fn() },
		log:        zerolog.Nop(),
	}

	switch backendType {
	case BackendTypeGLTF:
		l.backend = newGLTFLoaderBackend()
	}

	for _, option := range options {
		option(l)
	}

	l.pool = worker.NewDynamicWorkerPool(l.workers, 256, 1*time.Second)
	return l
}

func (l *loader) Load(ctx context.Context, source string) (model.Model, error) {
	return l.load(ctx, source, nil)
}

func (l *loader) LoadAsync(ctx context.Context, source string, onProgress ProgressFunc, done func(Result)) {
	l.mu.Lock()
	id := l.taskID
	l.taskID++
	l.mu.Unlock()

	l.pool.SubmitTask(worker.Task{
		ID: id,
		Do: func() (any, error) {
			m, err := l.load(ctx, source, func(percent float64) {
				l.log.Debug().Str("source", source).Float64("percent", percent).Msg("loading model")
				if onProgress != nil {
					l.dispatch(func() { onProgress(percent) })
				}
			})

			res := Result{Source: source, Model: m, Err: err}
			if err != nil {
				l.log.Error().Err(err).Str("source", source).Msg("model load failed")
			} else {
				l.log.Info().Str("source", source).Int("triangles", m.TriangleCount()).Msg("model loaded")
			}
			if done != nil {
				l.dispatch(func() { done(res) })
			}
			return m, err
		},
	})
}

func (l *loader) Get(source string) model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.modelCache[source]
}

func (l *loader) Models() map[string]model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]model.Model, len(l.modelCache))
	for k, v := range l.modelCache {
		result[k] = v
	}
	return result
}

func (l *loader) load(ctx context.Context, source string, progress ProgressFunc) (model.Model, error) {
	if cached := l.Get(source); cached != nil {
		if progress != nil {
			progress(100)
		}
		return cached, nil
	}

	if l.backend == nil {
		return nil, fmt.Errorf("no loader backend configured")
	}

	rc, total, resolve, err := l.open(ctx, source)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(&progressReader{r: rc, total: total, last: -1, report: progress})
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", source, err)
	}
	if progress != nil && total <= 0 {
		progress(100)
	}

	m, err := l.backend.Decode(sourceName(source), data, resolve)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", source, err)
	}

	l.mu.Lock()
	l.modelCache[source] = m
	l.mu.Unlock()
	return m, nil
}

// open returns a reader over the source, its size when known (or -1), and a resolver for
// sibling resources.
func (l *loader) open(ctx context.Context, source string) (io.ReadCloser, int64, ResolveFunc, error) {
	if u, err := url.Parse(source); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		body, size, err := l.fetch(ctx, u.String())
		if err != nil {
			return nil, 0, nil, err
		}
		resolve := func(uri string) ([]byte, error) {
			ref, err := url.Parse(uri)
			if err != nil {
				return nil, err
			}
			rc, _, err := l.fetch(ctx, u.ResolveReference(ref).String())
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
		return body, size, resolve, nil
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("opening %s: %w", source, err)
	}
	size := int64(-1)
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}

	dir := filepath.Dir(source)
	resolve := func(uri string) ([]byte, error) {
		return os.ReadFile(filepath.Join(dir, filepath.FromSlash(uri)))
	}
	return f, size, resolve, nil
}

func (l *loader) fetch(ctx context.Context, rawURL string) (io.ReadCloser, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("building request for %s: %w", rawURL, err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, 0, fmt.Errorf("fetching %s: unexpected status %s", rawURL, resp.Status)
	}
	return resp.Body, resp.ContentLength, nil
}

// sourceName derives a model name from the last path element of a file path or URL.
func sourceName(source string) string {
	if u, err := url.Parse(source); err == nil && u.Scheme != "" && u.Host != "" {
		return strings.TrimSuffix(path.Base(u.Path), path.Ext(u.Path))
	}
	base := filepath.Base(source)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// progressReader reports whole-percent steps while the wrapped reader is drained.
// last starts below zero so the first chunk is always reported.
type progressReader struct {
	r      io.Reader
	total  int64
	read   int64
	last   int
	report ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.read += int64(n)
	if p.report != nil && p.total > 0 {
		pct := int(p.read * 100 / p.total)
		if pct > 100 {
			pct = 100
		}
		if n > 0 && pct > p.last {
			p.last = pct
			p.report(float64(pct))
		}
	}
	return n, err
}
