package loader

import (
	"net/http"

	"github.com/Carmen-Shannon/oxy-classroom/engine/model"
	"github.com/rs/zerolog"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithModel is an option builder that pre-populates the model cache with a model.
//
// Parameters:
//   - key: the cache key for the model
//   - model: the model to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the model option to a loader
func WithModel(key string, model model.Model) LoaderBuilderOption {
	return func(l *loader) {
		l.modelCache[key] = model
	}
}

// WithWorkers sets how many goroutines the decode pool may run. Values below 1 are ignored.
//
// Parameters:
//   - n: the worker count
//
// Returns:
//   - LoaderBuilderOption: a function that applies the worker count to a loader
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		if n >= 1 {
			l.workers = n
		}
	}
}

// WithDispatch sets the function that delivers async callbacks, usually Engine.Post.
// Without it callbacks run on the worker goroutine.
//
// Parameters:
//   - dispatch: the dispatch function
//
// Returns:
//   - LoaderBuilderOption: a function that applies the dispatch option to a loader
func WithDispatch(dispatch DispatchFunc) LoaderBuilderOption {
	return func(l *loader) {
		if dispatch != nil {
			l.dispatch = dispatch
		}
	}
}

// WithHTTPClient sets the client used for http(s) sources.
func WithHTTPClient(c *http.Client) LoaderBuilderOption {
	return func(l *loader) {
		if c != nil {
			l.client = c
		}
	}
}

// WithLogger sets the logger that receives progress and failure events.
func WithLogger(log zerolog.Logger) LoaderBuilderOption {
	return func(l *loader) {
		l.log = log
	}
}
