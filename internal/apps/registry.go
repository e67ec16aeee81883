package apps

import (
	"slices"
	"sync"

	"github.com/charmbracelet/log"
)

// Registry maps application names to App handlers. It always holds a
// default handler, returned for names nobody registered.
type Registry struct {
	mu             sync.RWMutex
	apps           map[string]App
	fallback       App
	warnOnFallback bool
	logger         *log.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithFallbackWarning makes Get log a warning whenever it substitutes the
// default app for an unregistered name. The substitution is silent otherwise.
func WithFallbackWarning(logger *log.Logger) RegistryOption {
	return func(r *Registry) {
		r.warnOnFallback = true
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRegistry returns a Registry pre-seeded with fallback under its own name.
func NewRegistry(fallback App, opts ...RegistryOption) *Registry {
	r := &Registry{
		apps:     map[string]App{fallback.Name(): fallback},
		fallback: fallback,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Get returns the App registered under name, or the default App.
func (r *Registry) Get(name string) App {
	r.mu.RLock()
	app, ok := r.apps[name]
	r.mu.RUnlock()
	if ok {
		return app
	}
	if name != "" && r.warnOnFallback {
		r.logger.Warn("app not registered, using default", "app", name, "default", r.fallback.Name())
	}
	return r.fallback
}

// Register binds name to app, replacing any existing binding.
func (r *Registry) Register(name string, app App) {
	r.mu.Lock()
	r.apps[name] = app
	r.mu.Unlock()
}

// List returns the registered names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.apps))
	for name := range r.apps {
		names = append(names, name)
	}
	r.mu.RUnlock()
	slices.Sort(names)
	return names
}

// Default returns the fallback App.
func (r *Registry) Default() App {
	return r.fallback
}
