package filter

import (
	"maps"
	"slices"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/paulmbaike/movie-database-app/moviedb"
)

// exprFilter implements CompiledFilter using the expr language.
type exprFilter struct {
	expression string
	program    *vm.Program
}

// ExprCompilerOption configures an expr compiler.
type ExprCompilerOption func(*exprCompiler)

// WithCache memoizes up to size compiled expressions.
func WithCache(size int) ExprCompilerOption {
	return func(c *exprCompiler) {
		if size > 0 {
			c.cache = newLRUCache(size)
		}
	}
}

// WithCustomFunctions adds extra helper functions to the environment.
func WithCustomFunctions(funcs map[string]any) ExprCompilerOption {
	return func(c *exprCompiler) {
		maps.Copy(c.helperFuncs, funcs)
	}
}

// exprCompiler implements CachingCompiler for expr-based filters.
type exprCompiler struct {
	helperFuncs map[string]any
	cache       *lruCache
}

// NewExprCompiler creates an expr-based filter compiler.
func NewExprCompiler(opts ...ExprCompilerOption) CachingCompiler {
	c := &exprCompiler{
		helperFuncs: staticHelpers(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile parses and validates an expression. Movie fields stay undefined
// at compile time, so validation covers syntax, helper arity and the
// boolean result type.
func (c *exprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached.(CompiledFilter), nil
		}
	}

	program, err := expr.Compile(expression,
		expr.Env(c.helperFuncs),
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	compiled := &exprFilter{
		expression: expression,
		program:    program,
	}

	if c.cache != nil {
		c.cache.Put(expression, compiled)
	}

	return compiled, nil
}

// Clear drops all memoized filters.
func (c *exprCompiler) Clear() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// Size reports the number of memoized filters.
func (c *exprCompiler) Size() int {
	if c.cache != nil {
		return c.cache.Size()
	}
	return 0
}

// Evaluate runs the program against a movie. A runtime error counts as a
// non-match rather than aborting the whole listing.
func (f *exprFilter) Evaluate(movie moviedb.Movie) bool {
	result, err := expr.Run(f.program, runtimeEnv(movie))
	if err != nil {
		return false
	}
	return result.(bool)
}

// Expression returns the source expression.
func (f *exprFilter) Expression() string {
	return f.expression
}

// staticHelpers builds the compile-time environment.
func staticHelpers() map[string]any {
	env := make(map[string]any, 16)
	addStringHelpers(env)
	return env
}

func addStringHelpers(env map[string]any) {
	env["contains"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["startsWith"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["endsWith"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper
}

// runtimeEnv builds the evaluation environment for one movie. Helpers
// close over the movie so expressions read naturally without qualifying
// every field.
func runtimeEnv(movie moviedb.Movie) map[string]any {
	env := make(map[string]any, 32)
	addStringHelpers(env)

	env["Movie"] = movie
	env["ID"] = movie.ID
	env["Title"] = movie.Title
	env["ReleaseYear"] = movie.ReleaseYear
	env["Runtime"] = movie.Runtime
	env["Plot"] = movie.Plot
	env["Director"] = movie.Director
	env["Genres"] = movie.Genres
	env["Actors"] = movie.Actors

	env["hasGenre"] = nameMatchFunc(movie.Genres)
	env["hasActor"] = nameMatchFunc(movie.Actors)
	env["directedBy"] = func(name string) bool {
		return name != "" && strings.Contains(strings.ToLower(movie.Director), strings.ToLower(name))
	}
	env["releasedIn"] = func(year int) bool {
		return movie.ReleaseYear == year
	}
	env["releasedAfter"] = func(year int) bool {
		return movie.ReleaseYear > year
	}
	env["releasedBefore"] = func(year int) bool {
		return movie.ReleaseYear != 0 && movie.ReleaseYear < year
	}
	env["runtimeOver"] = func(minutes int) bool {
		return movie.Runtime > minutes
	}
	env["runtimeUnder"] = func(minutes int) bool {
		return movie.Runtime != 0 && movie.Runtime < minutes
	}

	return env
}

// nameMatchFunc builds a case-insensitive membership check over a list of
// display names.
func nameMatchFunc(names []string) func(string) bool {
	lowered := make([]string, len(names))
	for i, name := range names {
		lowered[i] = strings.ToLower(name)
	}
	return func(target string) bool {
		return slices.Contains(lowered, strings.ToLower(target))
	}
}
