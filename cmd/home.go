package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/paulmbaike/movie-database-app/moviedb"
)

// homeCmd represents the home command. It assembles the landing view the
// mobile clients show: latest movies, popular people and the genre list,
// fetched concurrently.
var homeCmd = &cobra.Command{
	Use:   "home",
	Short: "Show a catalog overview",
	RunE:  runHome,
}

func init() {
	rootCmd.AddCommand(homeCmd)
}

func runHome(cmd *cobra.Command, args []string) error {
	var (
		movies  *moviedb.MoviePage
		popular *moviedb.PersonPage
		genres  *moviedb.GenrePage
	)

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		var err error
		movies, err = listMoviesPage(ctx, 1, cfg.Client.PageSize)
		return err
	})
	g.Go(func() error {
		var err error
		popular, err = popularPeoplePage(ctx, 1, 5)
		return err
	})
	g.Go(func() error {
		var err error
		genres, err = listGenresPage(ctx, 1, 50)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Printf("Movies (%d in catalog)\n", movies.TotalCount)
	fmt.Println(strings.Repeat("-", 40))
	for _, m := range movies.Items {
		fmt.Printf("• %s", m.Title)
		if m.ReleaseYear > 0 {
			fmt.Printf(" (%d)", m.ReleaseYear)
		}
		fmt.Println()
	}

	fmt.Printf("\nPopular people\n")
	fmt.Println(strings.Repeat("-", 40))
	for _, p := range popular.Items {
		fmt.Printf("• %s\n", p.Name)
	}

	fmt.Printf("\nGenres\n")
	fmt.Println(strings.Repeat("-", 40))
	names := make([]string, 0, len(genres.Items))
	for _, genre := range genres.Items {
		names = append(names, genre.Name)
	}
	fmt.Println(strings.Join(names, ", "))

	return nil
}
