package filter

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/paulmbaike/movie-database-app/moviedb"
)

// Manager holds named filter presets, typically loaded from the config
// file, so commands can refer to an expression by its short name.
type Manager struct {
	compiler  Compiler
	evaluator *Evaluator

	mu      sync.RWMutex
	filters map[string]CompiledFilter
}

// ManagerOption configures a filter manager.
type ManagerOption func(*Manager)

// WithCompiler sets a custom compiler.
func WithCompiler(compiler Compiler) ManagerOption {
	return func(m *Manager) {
		m.compiler = compiler
	}
}

// WithEvaluator sets a custom evaluator.
func WithEvaluator(evaluator *Evaluator) ManagerOption {
	return func(m *Manager) {
		m.evaluator = evaluator
	}
}

// NewManager creates a filter manager.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		compiler:  NewExprCompiler(WithCache(64)),
		evaluator: NewEvaluator(),
		filters:   make(map[string]CompiledFilter),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register compiles and stores a preset, replacing any previous one with
// the same name.
func (m *Manager) Register(name, expression string) error {
	compiled, err := m.compiler.Compile(expression)
	if err != nil {
		return fmt.Errorf("failed to compile filter %q: %w", name, err)
	}

	m.mu.Lock()
	m.filters[name] = compiled
	m.mu.Unlock()
	return nil
}

// RegisterAll compiles every preset before storing any, so a bad
// expression leaves the manager unchanged.
func (m *Manager) RegisterAll(filters map[string]string) error {
	compiled := make(map[string]CompiledFilter, len(filters))
	for name, expression := range filters {
		f, err := m.compiler.Compile(expression)
		if err != nil {
			return fmt.Errorf("failed to compile filter %q: %w", name, err)
		}
		compiled[name] = f
	}

	m.mu.Lock()
	maps.Copy(m.filters, compiled)
	m.mu.Unlock()
	return nil
}

// Get returns a preset by name.
func (m *Manager) Get(name string) (CompiledFilter, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.filters[name]
	return f, ok
}

// Names returns the registered preset names.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.filters))
	for name := range m.filters {
		names = append(names, name)
	}
	return names
}

// Resolve returns the preset with the given name, or compiles the
// argument as an expression when no preset matches. Commands accept
// either form in the same flag.
func (m *Manager) Resolve(nameOrExpression string) (CompiledFilter, error) {
	if f, ok := m.Get(nameOrExpression); ok {
		return f, nil
	}
	return m.compiler.Compile(nameOrExpression)
}

// Evaluate runs a named preset over movies.
func (m *Manager) Evaluate(ctx context.Context, name string, movies []moviedb.Movie) ([]moviedb.Movie, error) {
	f, ok := m.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFilter, name)
	}
	return m.evaluator.Evaluate(ctx, f, movies)
}
