package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/paulmbaike/movie-database-app/cache"
	"github.com/paulmbaike/movie-database-app/moviedb"
)

var (
	genrePage        int
	genrePageSize    int
	genreName        string
	genreDescription string
	genreYes         bool
)

// genresCmd represents the genres command group
var genresCmd = &cobra.Command{
	Use:   "genres",
	Short: "Browse and manage genres",
}

var genresListCmd = &cobra.Command{
	Use:   "list",
	Short: "List genres",
	RunE:  runGenresList,
}

var genresGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one genre",
	Args:  cobra.ExactArgs(1),
	RunE:  runGenresGet,
}

var genresAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a genre",
	RunE:  runGenresAdd,
}

var genresEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Update fields of a genre",
	Args:  cobra.ExactArgs(1),
	RunE:  runGenresEdit,
}

var genresRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Delete a genre",
	Args:  cobra.ExactArgs(1),
	RunE:  runGenresRemove,
}

func init() {
	rootCmd.AddCommand(genresCmd)
	genresCmd.AddCommand(genresListCmd)
	genresCmd.AddCommand(genresGetCmd)
	genresCmd.AddCommand(genresAddCmd)
	genresCmd.AddCommand(genresEditCmd)
	genresCmd.AddCommand(genresRemoveCmd)

	genresListCmd.Flags().IntVar(&genrePage, "page", 1, "page number")
	genresListCmd.Flags().IntVar(&genrePageSize, "page-size", 0, "genres per page")

	genresAddCmd.Flags().StringVar(&genreName, "name", "", "genre name")
	genresAddCmd.Flags().StringVar(&genreDescription, "description", "", "genre description")
	genresAddCmd.MarkFlagRequired("name")

	genresEditCmd.Flags().StringVar(&genreName, "name", "", "genre name")
	genresEditCmd.Flags().StringVar(&genreDescription, "description", "", "genre description")

	genresRemoveCmd.Flags().BoolVarP(&genreYes, "yes", "y", false, "skip the confirmation prompt")
}

// listGenresPage loads one page of genres through the cache.
func listGenresPage(ctx context.Context, page, pageSize int) (*moviedb.GenrePage, error) {
	key := cache.NewKey("genres", cache.OpList, pageKeyParams(page, pageSize))
	return fetchGenrePage(ctx, key, func(ctx context.Context) (any, error) {
		return client.Genres().List(ctx, page, pageSize)
	})
}

func runGenresList(cmd *cobra.Command, args []string) error {
	pageSize := genrePageSize
	if pageSize <= 0 {
		pageSize = cfg.Client.PageSize
	}

	gp, err := listGenresPage(cmd.Context(), genrePage, pageSize)
	if err != nil {
		return err
	}

	if len(gp.Items) == 0 {
		fmt.Println("No genres found.")
	}
	for _, g := range gp.Items {
		fmt.Printf("• %s  [#%d]\n", g.Name, g.ID)
		if cfg.Safety.ShowDetails && g.Description != "" {
			fmt.Printf("  %s\n", g.Description)
		}
	}
	fmt.Printf("\nPage %d of %d (%d genres total)\n", gp.PageNumber, gp.TotalPages, gp.TotalCount)
	return nil
}

func runGenresGet(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid genre id %q", args[0])
	}

	genre, err := fetchGenre(cmd.Context(), id)
	if err != nil {
		return err
	}

	fmt.Printf("%s  [#%d]\n", genre.Name, genre.ID)
	if genre.Description != "" {
		fmt.Printf("\n%s\n", genre.Description)
	}
	return nil
}

func runGenresAdd(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return err
	}

	in := moviedb.GenreInput{
		Name:        genreName,
		Description: genreDescription,
	}

	v, err := data.Mutate(cmd.Context(), "genres", cache.MutationCreate, 0, func(ctx context.Context) (any, error) {
		return client.Genres().Create(ctx, in)
	})
	if err != nil {
		return err
	}

	genre := v.(*moviedb.Genre)
	fmt.Printf("✓ Added genre %q (#%d)\n", genre.Name, genre.ID)
	return nil
}

func runGenresEdit(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return err
	}

	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid genre id %q", args[0])
	}

	var in moviedb.GenreUpdate
	changed := false
	if cmd.Flags().Changed("name") {
		in.Name = &genreName
		changed = true
	}
	if cmd.Flags().Changed("description") {
		in.Description = &genreDescription
		changed = true
	}
	if !changed {
		return fmt.Errorf("nothing to update, pass at least one field flag")
	}

	v, err := data.Mutate(cmd.Context(), "genres", cache.MutationUpdate, id, func(ctx context.Context) (any, error) {
		return client.Genres().Update(ctx, id, in)
	})
	if err != nil {
		return err
	}

	genre := v.(*moviedb.Genre)
	fmt.Printf("✓ Updated genre %q (#%d)\n", genre.Name, genre.ID)
	return nil
}

func runGenresRemove(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return err
	}

	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid genre id %q", args[0])
	}

	if cfg.Safety.ConfirmDelete && !genreYes {
		if !confirm(fmt.Sprintf("Delete genre #%d?", id)) {
			logger.Info().Msg("deletion cancelled")
			return nil
		}
	}

	_, err = data.Mutate(cmd.Context(), "genres", cache.MutationDelete, id, func(ctx context.Context) (any, error) {
		return nil, client.Genres().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	fmt.Printf("✓ Deleted genre #%d\n", id)
	return nil
}
