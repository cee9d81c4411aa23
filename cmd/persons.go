package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/paulmbaike/movie-database-app/cache"
	"github.com/paulmbaike/movie-database-app/moviedb"
)

// personService is the slice of the typed client shared by the actor and
// director command trees.
type personService interface {
	List(ctx context.Context, page, pageSize int) (*moviedb.PersonPage, error)
	Get(ctx context.Context, id int) (*moviedb.Person, error)
	Create(ctx context.Context, in moviedb.PersonInput) (*moviedb.Person, error)
	Update(ctx context.Context, id int, in moviedb.PersonUpdate) (*moviedb.Person, error)
	Delete(ctx context.Context, id int) error
}

func init() {
	rootCmd.AddCommand(newPersonCommands("actors", "actor", "actors", func() personService {
		return client.Actors()
	}))
	rootCmd.AddCommand(newPersonCommands("directors", "director", "directors", func() personService {
		return client.Directors()
	}))
}

// newPersonCommands builds one command tree for a person-shaped resource.
// The service is resolved lazily because the client only exists once the
// root pre-run has executed.
func newPersonCommands(use, singular, domain string, svc func() personService) *cobra.Command {
	root := &cobra.Command{
		Use:   use,
		Short: fmt.Sprintf("Browse and manage %ss", singular),
	}

	var page, pageSize int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %ss", singular),
		RunE: func(cmd *cobra.Command, args []string) error {
			size := pageSize
			if size <= 0 {
				size = cfg.Client.PageSize
			}

			key := cache.NewKey(domain, cache.OpList, pageKeyParams(page, size))
			pp, err := fetchPersonPage(cmd.Context(), key, func(ctx context.Context) (any, error) {
				return svc().List(ctx, page, size)
			})
			if err != nil {
				return err
			}

			printPeople(pp.Items)
			fmt.Printf("\nPage %d of %d (%d total)\n", pp.PageNumber, pp.TotalPages, pp.TotalCount)
			return nil
		},
	}
	listCmd.Flags().IntVar(&page, "page", 1, "page number")
	listCmd.Flags().IntVar(&pageSize, "page-size", 0, fmt.Sprintf("%ss per page", singular))

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: fmt.Sprintf("Show one %s", singular),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid %s id %q", singular, args[0])
			}

			v, err := data.Fetch(cmd.Context(), cache.DetailKey(domain, id), func(ctx context.Context) (any, error) {
				return svc().Get(ctx, id)
			})
			if err != nil {
				return err
			}

			printPersonDetail(v.(*moviedb.Person))
			return nil
		},
	}

	var name, born, bio string
	addCmd := &cobra.Command{
		Use:   "add",
		Short: fmt.Sprintf("Add a %s", singular),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(); err != nil {
				return err
			}

			in := moviedb.PersonInput{
				Name:        name,
				DateOfBirth: born,
				Biography:   bio,
			}

			v, err := data.Mutate(cmd.Context(), domain, cache.MutationCreate, 0, func(ctx context.Context) (any, error) {
				return svc().Create(ctx, in)
			})
			if err != nil {
				return err
			}

			person := v.(*moviedb.Person)
			fmt.Printf("✓ Added %s %q (#%d)\n", singular, person.Name, person.ID)
			return nil
		},
	}
	addCmd.Flags().StringVar(&name, "name", "", fmt.Sprintf("%s name", singular))
	addCmd.Flags().StringVar(&born, "born", "", "date of birth (YYYY-MM-DD)")
	addCmd.Flags().StringVar(&bio, "bio", "", "biography")
	addCmd.MarkFlagRequired("name")

	var editName, editBorn, editBio string
	editCmd := &cobra.Command{
		Use:   "edit <id>",
		Short: fmt.Sprintf("Update fields of a %s", singular),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(); err != nil {
				return err
			}

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid %s id %q", singular, args[0])
			}

			var in moviedb.PersonUpdate
			changed := false
			if cmd.Flags().Changed("name") {
				in.Name = &editName
				changed = true
			}
			if cmd.Flags().Changed("born") {
				in.DateOfBirth = &editBorn
				changed = true
			}
			if cmd.Flags().Changed("bio") {
				in.Biography = &editBio
				changed = true
			}
			if !changed {
				return fmt.Errorf("nothing to update, pass at least one field flag")
			}

			v, err := data.Mutate(cmd.Context(), domain, cache.MutationUpdate, id, func(ctx context.Context) (any, error) {
				return svc().Update(ctx, id, in)
			})
			if err != nil {
				return err
			}

			person := v.(*moviedb.Person)
			fmt.Printf("✓ Updated %s %q (#%d)\n", singular, person.Name, person.ID)
			return nil
		},
	}
	editCmd.Flags().StringVar(&editName, "name", "", fmt.Sprintf("%s name", singular))
	editCmd.Flags().StringVar(&editBorn, "born", "", "date of birth (YYYY-MM-DD)")
	editCmd.Flags().StringVar(&editBio, "bio", "", "biography")

	var yes bool
	removeCmd := &cobra.Command{
		Use:   "remove <id>",
		Short: fmt.Sprintf("Delete a %s", singular),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(); err != nil {
				return err
			}

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid %s id %q", singular, args[0])
			}

			if cfg.Safety.ConfirmDelete && !yes {
				if !confirm(fmt.Sprintf("Delete %s #%d?", singular, id)) {
					logger.Info().Msg("deletion cancelled")
					return nil
				}
			}

			_, err = data.Mutate(cmd.Context(), domain, cache.MutationDelete, id, func(ctx context.Context) (any, error) {
				return nil, svc().Delete(ctx, id)
			})
			if err != nil {
				return err
			}

			fmt.Printf("✓ Deleted %s #%d\n", singular, id)
			return nil
		},
	}
	removeCmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	root.AddCommand(listCmd)
	root.AddCommand(getCmd)
	root.AddCommand(addCmd)
	root.AddCommand(editCmd)
	root.AddCommand(removeCmd)
	return root
}

func printPeople(people []moviedb.Person) {
	if len(people) == 0 {
		fmt.Println("No results.")
		return
	}

	for _, p := range people {
		fmt.Printf("• %s  [#%d]\n", p.Name, p.ID)
		if cfg.Safety.ShowDetails && p.DateOfBirth != "" {
			fmt.Printf("  Born: %s\n", p.DateOfBirth)
		}
	}
}

func printPersonDetail(p *moviedb.Person) {
	fmt.Printf("%s  [#%d]\n", p.Name, p.ID)
	if p.DateOfBirth != "" {
		fmt.Printf("Born: %s\n", p.DateOfBirth)
	}
	if p.Biography != "" {
		fmt.Printf("\n%s\n", p.Biography)
	}
}
