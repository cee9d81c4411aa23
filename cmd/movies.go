package cmd

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/paulmbaike/movie-database-app/cache"
	"github.com/paulmbaike/movie-database-app/filter"
	"github.com/paulmbaike/movie-database-app/moviedb"
)

var (
	moviePage       int
	moviePageSize   int
	movieAll        bool
	movieFilterExpr string
	movieRelated    bool

	movieSearchTerm  string
	movieSearchYear  int
	movieSearchGenre []int
	movieSortBy      string
	movieSortOrder   string

	movieTitle     string
	movieYear      int
	moviePlot      string
	movieRuntime   int
	moviePosterURL string
	movieDirector  string
	movieGenres    []string
	movieActors    []string

	movieYes bool
)

// moviesCmd represents the movies command group
var moviesCmd = &cobra.Command{
	Use:   "movies",
	Short: "Browse and manage catalog movies",
}

var moviesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List movies in the catalog",
	Long: `List one page of the movie catalog. With --all, pages are fetched and
merged until the catalog is exhausted. A --filter argument names a preset
from the config file or gives an inline expression.`,
	RunE: runMoviesList,
}

var moviesSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search movies by text and facets",
	RunE:  runMoviesSearch,
}

var moviesGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one movie",
	Long: `Show a movie's details. With --related, the movies sharing its first
genre and its first billed actor are listed underneath.`,
	Args: cobra.ExactArgs(1),
	RunE: runMoviesGet,
}

var moviesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a movie to the catalog",
	RunE:  runMoviesAdd,
}

var moviesEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Update fields of a movie",
	Long: `Update a movie. Only the flags you pass are sent; everything else is
left untouched on the server.`,
	Args: cobra.ExactArgs(1),
	RunE: runMoviesEdit,
}

var moviesRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Delete a movie from the catalog",
	Args:  cobra.ExactArgs(1),
	RunE:  runMoviesRemove,
}

var moviesByActorCmd = &cobra.Command{
	Use:   "by-actor <actor-id>",
	Short: "List the movies featuring an actor",
	Args:  cobra.ExactArgs(1),
	RunE:  runMoviesByActor,
}

var moviesByGenreCmd = &cobra.Command{
	Use:   "by-genre <genre-id>",
	Short: "List the movies in a genre",
	Args:  cobra.ExactArgs(1),
	RunE:  runMoviesByGenre,
}

func init() {
	rootCmd.AddCommand(moviesCmd)
	moviesCmd.AddCommand(moviesListCmd)
	moviesCmd.AddCommand(moviesSearchCmd)
	moviesCmd.AddCommand(moviesGetCmd)
	moviesCmd.AddCommand(moviesAddCmd)
	moviesCmd.AddCommand(moviesEditCmd)
	moviesCmd.AddCommand(moviesRemoveCmd)
	moviesCmd.AddCommand(moviesByActorCmd)
	moviesCmd.AddCommand(moviesByGenreCmd)

	moviesListCmd.Flags().IntVar(&moviePage, "page", 1, "page number")
	moviesListCmd.Flags().IntVar(&moviePageSize, "page-size", 0, "movies per page")
	moviesListCmd.Flags().BoolVar(&movieAll, "all", false, "fetch and merge every page")
	moviesListCmd.Flags().StringVarP(&movieFilterExpr, "filter", "f", "", "filter preset name or expression")

	moviesSearchCmd.Flags().StringVarP(&movieSearchTerm, "term", "t", "", "search term")
	moviesSearchCmd.Flags().IntVar(&movieSearchYear, "year", 0, "release year")
	moviesSearchCmd.Flags().IntSliceVar(&movieSearchGenre, "genre-id", nil, "genre id, repeatable")
	moviesSearchCmd.Flags().StringVar(&movieSortBy, "sort-by", "", "sort field")
	moviesSearchCmd.Flags().StringVar(&movieSortOrder, "sort-order", "", "sort order (asc/desc)")
	moviesSearchCmd.Flags().IntVar(&moviePage, "page", 1, "page number")
	moviesSearchCmd.Flags().IntVar(&moviePageSize, "page-size", 0, "movies per page")
	moviesSearchCmd.Flags().BoolVar(&movieAll, "all", false, "fetch and merge every page")

	moviesGetCmd.Flags().BoolVar(&movieRelated, "related", false, "also list movies sharing the genre and lead actor")

	addMovieFieldFlags(moviesAddCmd)
	moviesAddCmd.MarkFlagRequired("title")

	addMovieFieldFlags(moviesEditCmd)

	moviesRemoveCmd.Flags().BoolVarP(&movieYes, "yes", "y", false, "skip the confirmation prompt")

	moviesByActorCmd.Flags().IntVar(&moviePage, "page", 1, "page number")
	moviesByActorCmd.Flags().IntVar(&moviePageSize, "page-size", 0, "movies per page")
	moviesByGenreCmd.Flags().IntVar(&moviePage, "page", 1, "page number")
	moviesByGenreCmd.Flags().IntVar(&moviePageSize, "page-size", 0, "movies per page")
}

func addMovieFieldFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&movieTitle, "title", "", "movie title")
	cmd.Flags().IntVar(&movieYear, "year", 0, "release year")
	cmd.Flags().StringVar(&moviePlot, "plot", "", "plot summary")
	cmd.Flags().IntVar(&movieRuntime, "runtime", 0, "runtime in minutes")
	cmd.Flags().StringVar(&moviePosterURL, "poster-url", "", "poster image URL")
	cmd.Flags().StringVar(&movieDirector, "director", "", "director name")
	cmd.Flags().StringSliceVar(&movieGenres, "genre", nil, "genre name, repeatable")
	cmd.Flags().StringSliceVar(&movieActors, "actor", nil, "actor name, repeatable")
}

func moviePageSizeOrDefault() int {
	if moviePageSize > 0 {
		return moviePageSize
	}
	return cfg.Client.PageSize
}

// listMoviesPage loads one catalog page through the cache.
func listMoviesPage(ctx context.Context, page, pageSize int) (*moviedb.MoviePage, error) {
	key := cache.NewKey("movies", cache.OpList, pageKeyParams(page, pageSize))
	return fetchMoviePage(ctx, key, func(ctx context.Context) (any, error) {
		return client.Movies().List(ctx, page, pageSize)
	})
}

// fetchAllMovies walks the catalog page by page, merging results the way
// an infinite scroll would.
func fetchAllMovies(ctx context.Context, pageSize int) ([]moviedb.Movie, error) {
	var scroll cache.Accumulator
	page := 1
	for {
		mp, err := listMoviesPage(ctx, page, pageSize)
		if err != nil {
			return nil, err
		}

		items := make([]any, len(mp.Items))
		for i, m := range mp.Items {
			items[i] = m
		}
		merged := scroll.Add(pageKeyParams(page, pageSize), items)

		if !mp.HasNext {
			movies := make([]moviedb.Movie, len(merged))
			for i, v := range merged {
				movies[i] = v.(moviedb.Movie)
			}
			return movies, nil
		}
		page++
	}
}

func resolveMovieFilter() (filter.CompiledFilter, error) {
	if movieFilterExpr == "" {
		return nil, nil
	}
	compiled, err := filters.Resolve(movieFilterExpr)
	if err != nil {
		return nil, fmt.Errorf("invalid filter: %w", err)
	}
	return compiled, nil
}

func runMoviesList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	pageSize := moviePageSizeOrDefault()

	compiled, err := resolveMovieFilter()
	if err != nil {
		return err
	}

	if movieAll {
		movies, err := fetchAllMovies(ctx, pageSize)
		if err != nil {
			return err
		}
		total := len(movies)
		if compiled != nil {
			movies = filter.Apply(compiled, movies)
		}
		printMovies(movies)
		if compiled != nil {
			fmt.Printf("\n%d of %d movies match\n", len(movies), total)
		} else {
			fmt.Printf("\n%d movies\n", total)
		}
		return nil
	}

	mp, err := listMoviesPage(ctx, moviePage, pageSize)
	if err != nil {
		return err
	}

	movies := mp.Items
	if compiled != nil {
		movies = filter.Apply(compiled, movies)
	}
	printMovies(movies)
	fmt.Printf("\nPage %d of %d (%d movies total)\n", mp.PageNumber, mp.TotalPages, mp.TotalCount)
	return nil
}

// searchKeyParams mirrors the query the client will send so the cache key
// identifies exactly one request shape.
func searchKeyParams(p moviedb.SearchParams) url.Values {
	params := pageKeyParams(p.Page, p.PageSize)
	if p.Term != "" {
		params.Set("SearchTerm", p.Term)
	}
	if p.ReleaseYear > 0 {
		params.Set("ReleaseYear", strconv.Itoa(p.ReleaseYear))
	}
	for _, id := range p.GenreIDs {
		params.Add("GenreIds", strconv.Itoa(id))
	}
	if p.SortBy != "" {
		params.Set("SortBy", p.SortBy)
	}
	if p.SortOrder != "" {
		params.Set("SortOrder", p.SortOrder)
	}
	return params
}

// searchMoviesPage loads one page of search results through the cache.
func searchMoviesPage(ctx context.Context, p moviedb.SearchParams) (*moviedb.MoviePage, error) {
	key := cache.NewKey("movies", cache.OpSearch, searchKeyParams(p))
	return fetchMoviePage(ctx, key, func(ctx context.Context) (any, error) {
		return client.Movies().Search(ctx, p)
	})
}

// searchAllMovies walks the search results page by page, merging them the
// way an infinite scroll would.
func searchAllMovies(ctx context.Context, p moviedb.SearchParams) ([]moviedb.Movie, error) {
	var scroll cache.Accumulator
	p.Page = 1
	for {
		mp, err := searchMoviesPage(ctx, p)
		if err != nil {
			return nil, err
		}

		items := make([]any, len(mp.Items))
		for i, m := range mp.Items {
			items[i] = m
		}
		merged := scroll.Add(searchKeyParams(p), items)

		if !mp.HasNext {
			movies := make([]moviedb.Movie, len(merged))
			for i, v := range merged {
				movies[i] = v.(moviedb.Movie)
			}
			return movies, nil
		}
		p.Page++
	}
}

func runMoviesSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	p := moviedb.SearchParams{
		Term:        movieSearchTerm,
		ReleaseYear: movieSearchYear,
		GenreIDs:    movieSearchGenre,
		SortBy:      movieSortBy,
		SortOrder:   movieSortOrder,
		Page:        moviePage,
		PageSize:    moviePageSizeOrDefault(),
	}

	if movieAll {
		movies, err := searchAllMovies(ctx, p)
		if err != nil {
			return err
		}
		printMovies(movies)
		fmt.Printf("\n%d movies\n", len(movies))
		return nil
	}

	mp, err := searchMoviesPage(ctx, p)
	if err != nil {
		return err
	}

	printMovies(mp.Items)
	fmt.Printf("\nPage %d of %d (%d movies total)\n", mp.PageNumber, mp.TotalPages, mp.TotalCount)
	return nil
}

func runMoviesGet(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid movie id %q", args[0])
	}

	movie, err := fetchMovie(cmd.Context(), id)
	if err != nil {
		return err
	}

	printMovieDetail(movie)

	if movieRelated {
		return printRelated(cmd.Context(), movie)
	}
	return nil
}

const relatedPageSize = 6

// printRelated lists other movies sharing the first genre and the first
// billed actor. The catalog stores display names on the movie, so each
// lookup resolves its name to an id before asking for the page. The two
// lookups are independent and run concurrently.
func printRelated(ctx context.Context, m *moviedb.Movie) error {
	var sameGenre, sameActor *moviedb.MoviePage

	g, ctx := errgroup.WithContext(ctx)
	if len(m.Genres) > 0 {
		name := m.Genres[0]
		g.Go(func() error {
			id, ok, err := resolveGenreID(ctx, name)
			if err != nil || !ok {
				return err
			}
			sameGenre, err = moviesByGenrePage(ctx, id, 1, relatedPageSize)
			return err
		})
	}
	if len(m.Actors) > 0 {
		name := m.Actors[0]
		g.Go(func() error {
			id, ok, err := resolveActorID(ctx, name)
			if err != nil || !ok {
				return err
			}
			sameActor, err = moviesByActorPage(ctx, id, 1, relatedPageSize)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if sameGenre != nil {
		printRelatedSection(fmt.Sprintf("More in %s:", m.Genres[0]), sameGenre.Items, m.ID)
	}
	if sameActor != nil {
		printRelatedSection(fmt.Sprintf("More with %s:", m.Actors[0]), sameActor.Items, m.ID)
	}
	return nil
}

// resolveGenreID finds the id of a genre by display name.
func resolveGenreID(ctx context.Context, name string) (int, bool, error) {
	gp, err := listGenresPage(ctx, 1, 50)
	if err != nil {
		return 0, false, err
	}
	for _, g := range gp.Items {
		if strings.EqualFold(g.Name, name) {
			return g.ID, true, nil
		}
	}
	return 0, false, nil
}

// resolveActorID finds the id of an actor by display name through the
// people search endpoint. Only an exact name match counts.
func resolveActorID(ctx context.Context, name string) (int, bool, error) {
	pp, err := searchPeoplePage(ctx, name, 1, 5)
	if err != nil {
		return 0, false, err
	}
	for _, p := range pp.Items {
		if strings.EqualFold(p.Name, name) {
			return p.ID, true, nil
		}
	}
	return 0, false, nil
}

func printRelatedSection(header string, movies []moviedb.Movie, excludeID int) {
	shown := 0
	for _, m := range movies {
		if m.ID == excludeID {
			continue
		}
		if shown == 0 {
			fmt.Printf("\n%s\n", header)
		}
		fmt.Printf("• %s", m.Title)
		if m.ReleaseYear > 0 {
			fmt.Printf(" (%d)", m.ReleaseYear)
		}
		fmt.Printf("  [#%d]\n", m.ID)
		shown++
	}
}

func runMoviesAdd(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return err
	}

	in := moviedb.MovieInput{
		Title:       movieTitle,
		ReleaseYear: movieYear,
		Plot:        moviePlot,
		Runtime:     movieRuntime,
		PosterURL:   moviePosterURL,
		Director:    movieDirector,
		Genres:      movieGenres,
		Actors:      movieActors,
	}

	v, err := data.Mutate(cmd.Context(), "movies", cache.MutationCreate, 0, func(ctx context.Context) (any, error) {
		return client.Movies().Create(ctx, in)
	})
	if err != nil {
		return err
	}

	movie := v.(*moviedb.Movie)
	fmt.Printf("✓ Added %q (#%d)\n", movie.Title, movie.ID)
	return nil
}

func runMoviesEdit(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return err
	}

	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid movie id %q", args[0])
	}

	var in moviedb.MovieUpdate
	changed := false
	if cmd.Flags().Changed("title") {
		in.Title = &movieTitle
		changed = true
	}
	if cmd.Flags().Changed("year") {
		in.ReleaseYear = &movieYear
		changed = true
	}
	if cmd.Flags().Changed("plot") {
		in.Plot = &moviePlot
		changed = true
	}
	if cmd.Flags().Changed("runtime") {
		in.Runtime = &movieRuntime
		changed = true
	}
	if cmd.Flags().Changed("poster-url") {
		in.PosterURL = &moviePosterURL
		changed = true
	}
	if cmd.Flags().Changed("director") {
		in.Director = &movieDirector
		changed = true
	}
	if cmd.Flags().Changed("genre") {
		in.Genres = &movieGenres
		changed = true
	}
	if cmd.Flags().Changed("actor") {
		in.Actors = &movieActors
		changed = true
	}
	if !changed {
		return fmt.Errorf("nothing to update, pass at least one field flag")
	}

	v, err := data.Mutate(cmd.Context(), "movies", cache.MutationUpdate, id, func(ctx context.Context) (any, error) {
		return client.Movies().Update(ctx, id, in)
	})
	if err != nil {
		return err
	}

	movie := v.(*moviedb.Movie)
	fmt.Printf("✓ Updated %q (#%d)\n", movie.Title, movie.ID)
	return nil
}

func runMoviesRemove(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return err
	}

	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid movie id %q", args[0])
	}

	if cfg.Safety.ConfirmDelete && !movieYes {
		if !confirm(fmt.Sprintf("Delete movie #%d?", id)) {
			logger.Info().Msg("deletion cancelled")
			return nil
		}
	}

	_, err = data.Mutate(cmd.Context(), "movies", cache.MutationDelete, id, func(ctx context.Context) (any, error) {
		return nil, client.Movies().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	fmt.Printf("✓ Deleted movie #%d\n", id)
	return nil
}

// moviesByActorPage loads one page of an actor's filmography through the
// cache.
func moviesByActorPage(ctx context.Context, actorID, page, pageSize int) (*moviedb.MoviePage, error) {
	params := pageKeyParams(page, pageSize)
	params.Set("actorId", strconv.Itoa(actorID))

	key := cache.NewKey("movies", cache.OpList, params)
	return fetchMoviePage(ctx, key, func(ctx context.Context) (any, error) {
		return client.Movies().ByActor(ctx, actorID, page, pageSize)
	})
}

// moviesByGenrePage loads one page of a genre's movies through the cache.
func moviesByGenrePage(ctx context.Context, genreID, page, pageSize int) (*moviedb.MoviePage, error) {
	params := pageKeyParams(page, pageSize)
	params.Set("genreId", strconv.Itoa(genreID))

	key := cache.NewKey("movies", cache.OpList, params)
	return fetchMoviePage(ctx, key, func(ctx context.Context) (any, error) {
		return client.Movies().ByGenre(ctx, genreID, page, pageSize)
	})
}

func runMoviesByActor(cmd *cobra.Command, args []string) error {
	actorID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid actor id %q", args[0])
	}

	mp, err := moviesByActorPage(cmd.Context(), actorID, moviePage, moviePageSizeOrDefault())
	if err != nil {
		return err
	}

	printMovies(mp.Items)
	fmt.Printf("\nPage %d of %d (%d movies total)\n", mp.PageNumber, mp.TotalPages, mp.TotalCount)
	return nil
}

func runMoviesByGenre(cmd *cobra.Command, args []string) error {
	genreID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid genre id %q", args[0])
	}

	mp, err := moviesByGenrePage(cmd.Context(), genreID, moviePage, moviePageSizeOrDefault())
	if err != nil {
		return err
	}

	printMovies(mp.Items)
	fmt.Printf("\nPage %d of %d (%d movies total)\n", mp.PageNumber, mp.TotalPages, mp.TotalCount)
	return nil
}

func printMovies(movies []moviedb.Movie) {
	if len(movies) == 0 {
		fmt.Println("No movies found.")
		return
	}

	for _, m := range movies {
		fmt.Printf("• %s", m.Title)
		if m.ReleaseYear > 0 {
			fmt.Printf(" (%d)", m.ReleaseYear)
		}
		fmt.Printf("  [#%d]\n", m.ID)

		if cfg.Safety.ShowDetails {
			if m.Director != "" {
				fmt.Printf("  Director: %s\n", m.Director)
			}
			if len(m.Genres) > 0 {
				fmt.Printf("  Genres: %s\n", strings.Join(m.Genres, ", "))
			}
			if m.Runtime > 0 {
				fmt.Printf("  Runtime: %d min\n", m.Runtime)
			}
		}
	}
}

func printMovieDetail(m *moviedb.Movie) {
	fmt.Printf("%s", m.Title)
	if m.ReleaseYear > 0 {
		fmt.Printf(" (%d)", m.ReleaseYear)
	}
	fmt.Printf("  [#%d]\n", m.ID)

	if m.Director != "" {
		fmt.Printf("Director: %s\n", m.Director)
	}
	if m.Runtime > 0 {
		fmt.Printf("Runtime: %d min\n", m.Runtime)
	}
	if len(m.Genres) > 0 {
		fmt.Printf("Genres: %s\n", strings.Join(m.Genres, ", "))
	}
	if len(m.Actors) > 0 {
		fmt.Printf("Cast: %s\n", strings.Join(m.Actors, ", "))
	}
	if m.PosterURL != "" {
		fmt.Printf("Poster: %s\n", m.PosterURL)
	}
	if m.Plot != "" {
		fmt.Printf("\n%s\n", m.Plot)
	}
}
