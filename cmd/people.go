package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paulmbaike/movie-database-app/cache"
	"github.com/paulmbaike/movie-database-app/moviedb"
)

var (
	peoplePage     int
	peoplePageSize int
)

// peopleCmd represents the people command group. People are the combined
// actor and director directory the catalog exposes for browsing.
var peopleCmd = &cobra.Command{
	Use:   "people",
	Short: "Browse the combined people directory",
}

var peopleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List people",
	RunE:  runPeopleList,
}

var peoplePopularCmd = &cobra.Command{
	Use:   "popular",
	Short: "List people ranked by popularity",
	RunE:  runPeoplePopular,
}

var peopleSearchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search people by name",
	Args:  cobra.ExactArgs(1),
	RunE:  runPeopleSearch,
}

func init() {
	rootCmd.AddCommand(peopleCmd)
	peopleCmd.AddCommand(peopleListCmd)
	peopleCmd.AddCommand(peoplePopularCmd)
	peopleCmd.AddCommand(peopleSearchCmd)

	for _, c := range []*cobra.Command{peopleListCmd, peoplePopularCmd, peopleSearchCmd} {
		c.Flags().IntVar(&peoplePage, "page", 1, "page number")
		c.Flags().IntVar(&peoplePageSize, "page-size", 0, "people per page")
	}
}

func peoplePageSizeOrDefault() int {
	if peoplePageSize > 0 {
		return peoplePageSize
	}
	return cfg.Client.PeoplePageSize
}

// popularPeoplePage loads one page of the popularity ranking through the
// cache.
func popularPeoplePage(ctx context.Context, page, pageSize int) (*moviedb.PersonPage, error) {
	key := cache.NewKey("people", cache.OpPopular, pageKeyParams(page, pageSize))
	return fetchPersonPage(ctx, key, func(ctx context.Context) (any, error) {
		return client.People().Popular(ctx, page, pageSize)
	})
}

// searchPeoplePage loads one page of people matching a name through the
// cache.
func searchPeoplePage(ctx context.Context, term string, page, pageSize int) (*moviedb.PersonPage, error) {
	params := pageKeyParams(page, pageSize)
	params.Set("SearchTerm", term)

	key := cache.NewKey("people", cache.OpSearch, params)
	return fetchPersonPage(ctx, key, func(ctx context.Context) (any, error) {
		return client.People().Search(ctx, term, page, pageSize)
	})
}

func runPeopleList(cmd *cobra.Command, args []string) error {
	pageSize := peoplePageSizeOrDefault()

	key := cache.NewKey("people", cache.OpList, pageKeyParams(peoplePage, pageSize))
	pp, err := fetchPersonPage(cmd.Context(), key, func(ctx context.Context) (any, error) {
		return client.People().List(ctx, peoplePage, pageSize)
	})
	if err != nil {
		return err
	}

	printPeople(pp.Items)
	fmt.Printf("\nPage %d of %d (%d people total)\n", pp.PageNumber, pp.TotalPages, pp.TotalCount)
	return nil
}

func runPeoplePopular(cmd *cobra.Command, args []string) error {
	pp, err := popularPeoplePage(cmd.Context(), peoplePage, peoplePageSizeOrDefault())
	if err != nil {
		return err
	}

	printPeople(pp.Items)
	fmt.Printf("\nPage %d of %d (%d people total)\n", pp.PageNumber, pp.TotalPages, pp.TotalCount)
	return nil
}

func runPeopleSearch(cmd *cobra.Command, args []string) error {
	pp, err := searchPeoplePage(cmd.Context(), args[0], peoplePage, peoplePageSizeOrDefault())
	if err != nil {
		return err
	}

	printPeople(pp.Items)
	fmt.Printf("\nPage %d of %d (%d people total)\n", pp.PageNumber, pp.TotalPages, pp.TotalCount)
	return nil
}
