package export

import (
	"regexp"
	"sort"
	"sync"

	"github.com/shareful-ai/shareful/internal/errors"
)

// Sentinel errors for registry operations.
var (
	// ErrTargetRegistered is returned when registering a target under a
	// name that is already taken.
	ErrTargetRegistered = errors.New("export target already registered")

	// ErrInvalidTargetName is returned when registering a target whose
	// name is outside the allowed charset.
	ErrInvalidTargetName = errors.New("invalid export target name")

	// ErrUnknownTarget is returned when looking up a target that was
	// never registered.
	ErrUnknownTarget = errors.New("unknown export target")
)

// targetNamePattern constrains names to what is safe to type and print.
var targetNamePattern = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// Registry manages export target registration and lookup.
// It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	targets map[string]Target
}

// NewRegistry creates a new empty target registry.
func NewRegistry() *Registry {
	return &Registry{
		targets: make(map[string]Target),
	}
}

// Register adds a target under its name. Returns an error if:
//   - The name is empty or outside targetNamePattern
//   - A target with the same name is already registered
func (r *Registry) Register(t Target) error {
	name := t.Name()
	if !targetNamePattern.MatchString(name) {
		return errors.Wrapf(ErrInvalidTargetName, "%q", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.targets[name]; exists {
		return errors.Wrapf(ErrTargetRegistered, "%q", name)
	}

	r.targets[name] = t
	return nil
}

// Get returns the target registered under name.
func (r *Registry) Get(name string) (Target, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.targets[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownTarget, "%q", name)
	}
	return t, nil
}

// Names returns the registered target names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.targets))
	for name := range r.targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// defaultRegistry holds the built-in targets.
var defaultRegistry = NewRegistry()

func init() {
	for _, t := range []Target{
		Docusaurus{},
		MkDocs{},
		Hugo{},
		SearchIndex{},
	} {
		if err := defaultRegistry.Register(t); err != nil {
			panic(err)
		}
	}
}

// Get returns a built-in target by name.
func Get(name string) (Target, error) {
	return defaultRegistry.Get(name)
}

// Names returns the built-in target names in sorted order.
func Names() []string {
	return defaultRegistry.Names()
}
