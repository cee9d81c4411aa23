// Package filter compiles boolean expressions and evaluates them against
// catalog movies. Expressions use the expr language with catalog-aware
// helpers, so a command line like
//
//	movies list --filter 'hasGenre("Action") and ReleaseYear > 2000'
//
// narrows a cached page without another round trip to the server.
package filter

import (
	"github.com/paulmbaike/movie-database-app/moviedb"
)

// Filter matches a single movie.
type Filter interface {
	Evaluate(movie moviedb.Movie) bool
}

// CompiledFilter is a parsed expression ready for repeated evaluation. It
// is safe for concurrent use.
type CompiledFilter interface {
	Filter

	// Expression returns the source expression.
	Expression() string
}

// Compiler turns expression text into executable filters.
type Compiler interface {
	Compile(expression string) (CompiledFilter, error)
}

// CachingCompiler is a Compiler that memoizes compiled expressions.
type CachingCompiler interface {
	Compiler

	// Clear drops all memoized filters.
	Clear()

	// Size reports the number of memoized filters.
	Size() int
}

// defaultCompiler backs the package-level Compile call.
var defaultCompiler = NewExprCompiler(WithCache(64))

// Compile compiles an expression with the shared default compiler.
func Compile(expression string) (CompiledFilter, error) {
	return defaultCompiler.Compile(expression)
}

// Apply evaluates the filter over movies sequentially and returns the
// matches in their original order.
func Apply(f Filter, movies []moviedb.Movie) []moviedb.Movie {
	matches := make([]moviedb.Movie, 0, len(movies)/4+1)
	for _, movie := range movies {
		if f.Evaluate(movie) {
			matches = append(matches, movie)
		}
	}
	return matches
}
