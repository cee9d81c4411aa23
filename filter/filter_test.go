package filter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/paulmbaike/movie-database-app/moviedb"
)

func testMovie() moviedb.Movie {
	return moviedb.Movie{
		ID:          1,
		Title:       "Seven Samurai",
		ReleaseYear: 1954,
		Runtime:     207,
		Plot:        "A village hires seven ronin to fight off bandits.",
		Director:    "Akira Kurosawa",
		Genres:      []string{"Action", "Drama"},
		Actors:      []string{"Toshiro Mifune", "Takashi Shimura"},
	}
}

func generateTestMovies(count int) []moviedb.Movie {
	movies := make([]moviedb.Movie, count)
	for i := 0; i < count; i++ {
		movie := moviedb.Movie{
			ID:          i + 1,
			Title:       fmt.Sprintf("Movie %d", i+1),
			ReleaseYear: 1980 + i%45,
			Runtime:     80 + i%90,
			Director:    fmt.Sprintf("Director %d", i%7),
		}
		if i%2 == 0 {
			movie.Genres = append(movie.Genres, "Action")
		}
		if i%3 == 0 {
			movie.Genres = append(movie.Genres, "Drama")
		}
		movies[i] = movie
	}
	return movies
}

func TestCompile(t *testing.T) {
	tests := []struct {
		name        string
		expression  string
		wantErr     bool
		errContains string
	}{
		{
			name:       "valid expression",
			expression: `hasGenre("Action")`,
		},
		{
			name:        "empty expression",
			expression:  "",
			wantErr:     true,
			errContains: "empty expression",
		},
		{
			name:        "blank expression",
			expression:  "   ",
			wantErr:     true,
			errContains: "empty expression",
		},
		{
			name:       "invalid syntax",
			expression: `hasGenre("unclosed`,
			wantErr:    true,
		},
		{
			name:       "complex expression",
			expression: `hasGenre("Action") and ReleaseYear > 1950 and runtimeOver(120)`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			compiled, err := Compile(tt.expression)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				var ce *CompilationError
				if !errors.As(err, &ce) {
					t.Errorf("expected CompilationError, got %T", err)
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q does not contain %q", err.Error(), tt.errContains)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if compiled == nil {
				t.Fatal("expected filter but got nil")
			}
			if compiled.Expression() != tt.expression {
				t.Errorf("expected expression %q, got %q", tt.expression, compiled.Expression())
			}
		})
	}
}

func TestEvaluation(t *testing.T) {
	movie := testMovie()

	tests := []struct {
		name       string
		expression string
		expected   bool
	}{
		{
			name:       "has genre",
			expression: `hasGenre("action")`,
			expected:   true,
		},
		{
			name:       "does not have genre",
			expression: `hasGenre("Horror")`,
			expected:   false,
		},
		{
			name:       "has actor",
			expression: `hasActor("Toshiro Mifune")`,
			expected:   true,
		},
		{
			name:       "directed by partial name",
			expression: `directedBy("kurosawa")`,
			expected:   true,
		},
		{
			name:       "year comparison",
			expression: `ReleaseYear < 1960`,
			expected:   true,
		},
		{
			name:       "released helpers",
			expression: `releasedAfter(1950) and releasedBefore(1960) and not releasedIn(1955)`,
			expected:   true,
		},
		{
			name:       "runtime helpers",
			expression: `runtimeOver(180) and not runtimeUnder(200)`,
			expected:   true,
		},
		{
			name:       "title contains",
			expression: `contains(Title, "samurai")`,
			expected:   true,
		},
		{
			name:       "plot search",
			expression: `contains(Plot, "bandits") and startsWith(Title, "seven")`,
			expected:   true,
		},
		{
			name:       "struct field access",
			expression: `Movie.Runtime == 207`,
			expected:   true,
		},
		{
			name:       "complex expression",
			expression: `hasGenre("Drama") and directedBy("Kurosawa") and ReleaseYear < 1960`,
			expected:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			compiled, err := Compile(tt.expression)
			if err != nil {
				t.Fatalf("failed to compile filter: %v", err)
			}

			if got := compiled.Evaluate(movie); got != tt.expected {
				t.Errorf("expected %v but got %v for expression %q", tt.expected, got, tt.expression)
			}
		})
	}
}

func TestUnreleasedFieldsFailClosed(t *testing.T) {
	movie := moviedb.Movie{ID: 2, Title: "Untitled Project"}

	compiled, err := Compile(`releasedBefore(2000) or runtimeUnder(90)`)
	if err != nil {
		t.Fatalf("failed to compile filter: %v", err)
	}

	if compiled.Evaluate(movie) {
		t.Error("zero-valued year and runtime should not match before/under checks")
	}
}

func TestApplyKeepsOrder(t *testing.T) {
	movies := generateTestMovies(20)

	compiled, err := Compile(`hasGenre("Action")`)
	if err != nil {
		t.Fatalf("failed to compile filter: %v", err)
	}

	matches := Apply(compiled, movies)
	if len(matches) != 10 {
		t.Fatalf("expected 10 matches, got %d", len(matches))
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].ID <= matches[i-1].ID {
			t.Fatalf("matches out of order at index %d", i)
		}
	}
}

func TestConcurrentEvaluation(t *testing.T) {
	movies := generateTestMovies(1000)

	compiled, err := Compile(`hasGenre("Action") and ReleaseYear > 2000`)
	if err != nil {
		t.Fatalf("failed to compile filter: %v", err)
	}

	evaluator := NewEvaluator(WithWorkers(4), WithChunkSize(64))
	matches, err := evaluator.Evaluate(context.Background(), compiled, movies)
	if err != nil {
		t.Fatalf("evaluation failed: %v", err)
	}

	expected := Apply(compiled, movies)
	if len(matches) != len(expected) {
		t.Fatalf("expected %d matches but got %d", len(expected), len(matches))
	}
	for i := range matches {
		if matches[i].ID != expected[i].ID {
			t.Fatalf("match %d: expected ID %d, got %d", i, expected[i].ID, matches[i].ID)
		}
	}
}

func TestConcurrentEvaluationCancelled(t *testing.T) {
	movies := generateTestMovies(1000)

	compiled, err := Compile(`ReleaseYear > 0`)
	if err != nil {
		t.Fatalf("failed to compile filter: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	evaluator := NewEvaluator(WithWorkers(2), WithChunkSize(10))
	if _, err := evaluator.Evaluate(ctx, compiled, movies); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestManager(t *testing.T) {
	manager := NewManager()

	presets := map[string]string{
		"action": `hasGenre("Action")`,
		"recent": `ReleaseYear > 2015`,
		"epics":  `runtimeOver(150)`,
	}
	if err := manager.RegisterAll(presets); err != nil {
		t.Fatalf("failed to register filters: %v", err)
	}

	if got := len(manager.Names()); got != len(presets) {
		t.Errorf("expected %d filters, got %d", len(presets), got)
	}

	if _, ok := manager.Get("action"); !ok {
		t.Error("expected filter 'action' to exist")
	}

	movies := generateTestMovies(100)
	matches, err := manager.Evaluate(context.Background(), "action", movies)
	if err != nil {
		t.Fatalf("failed to evaluate filter: %v", err)
	}
	if len(matches) == 0 {
		t.Error("expected some matches")
	}

	if _, err := manager.Evaluate(context.Background(), "missing", movies); !errors.Is(err, ErrUnknownFilter) {
		t.Errorf("expected ErrUnknownFilter, got %v", err)
	}
}

func TestManagerRegisterAllAtomic(t *testing.T) {
	manager := NewManager()

	err := manager.RegisterAll(map[string]string{
		"good": `hasGenre("Action")`,
		"bad":  `hasGenre(`,
	})
	if err == nil {
		t.Fatal("expected compile error")
	}
	if got := len(manager.Names()); got != 0 {
		t.Errorf("expected no filters registered after failure, got %d", got)
	}
}

func TestManagerResolve(t *testing.T) {
	manager := NewManager()
	if err := manager.Register("classics", `ReleaseYear < 1970`); err != nil {
		t.Fatalf("failed to register filter: %v", err)
	}

	preset, err := manager.Resolve("classics")
	if err != nil {
		t.Fatalf("failed to resolve preset: %v", err)
	}
	if !preset.Evaluate(testMovie()) {
		t.Error("expected preset to match")
	}

	adhoc, err := manager.Resolve(`directedBy("Kurosawa")`)
	if err != nil {
		t.Fatalf("failed to resolve ad hoc expression: %v", err)
	}
	if !adhoc.Evaluate(testMovie()) {
		t.Error("expected ad hoc expression to match")
	}

	if _, err := manager.Resolve(`not an expression (((`); err == nil {
		t.Error("expected error for malformed expression")
	}
}

func TestCompilerCache(t *testing.T) {
	compiler := NewExprCompiler(WithCache(10))
	expression := `hasGenre("Action") and ReleaseYear > 2000`

	first, err := compiler.Compile(expression)
	if err != nil {
		t.Fatalf("first compilation failed: %v", err)
	}

	second, err := compiler.Compile(expression)
	if err != nil {
		t.Fatalf("second compilation failed: %v", err)
	}
	if first != second {
		t.Error("expected cached filter to be reused")
	}

	if compiler.Size() != 1 {
		t.Errorf("expected cache size 1, got %d", compiler.Size())
	}

	compiler.Clear()
	if compiler.Size() != 0 {
		t.Errorf("expected cache size 0 after clear, got %d", compiler.Size())
	}
}

func TestCacheEviction(t *testing.T) {
	cache := newLRUCache(2)
	cache.Put("a", 1)
	cache.Put("b", 2)

	if _, ok := cache.Get("a"); !ok {
		t.Fatal("expected 'a' to be cached")
	}

	cache.Put("c", 3)

	if _, ok := cache.Get("b"); ok {
		t.Error("expected 'b' to be evicted")
	}
	if _, ok := cache.Get("a"); !ok {
		t.Error("expected 'a' to survive, it was most recently used")
	}
	if _, ok := cache.Get("c"); !ok {
		t.Error("expected 'c' to be cached")
	}
}

func TestCustomFunctions(t *testing.T) {
	compiler := NewExprCompiler(WithCustomFunctions(map[string]any{
		"isEpic": func(minutes int) bool { return minutes >= 180 },
	}))

	compiled, err := compiler.Compile(`isEpic(Runtime)`)
	if err != nil {
		t.Fatalf("failed to compile filter: %v", err)
	}
	if !compiled.Evaluate(testMovie()) {
		t.Error("expected custom function to match")
	}
}
