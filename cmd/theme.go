package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var themeFollowOS bool

// themeCmd represents the theme command group. The theme lives in the same
// local store as the credentials so every client on this machine shares it.
var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Show or change the stored display theme",
}

var themeShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored theme",
	RunE:  runThemeShow,
}

var themeSetCmd = &cobra.Command{
	Use:   "set <light|dark|system>",
	Short: "Set the stored theme",
	Args:  cobra.ExactArgs(1),
	RunE:  runThemeSet,
}

func init() {
	rootCmd.AddCommand(themeCmd)
	themeCmd.AddCommand(themeShowCmd)
	themeCmd.AddCommand(themeSetCmd)

	themeSetCmd.Flags().BoolVar(&themeFollowOS, "follow-os", false, "follow the operating system theme")
}

func runThemeShow(cmd *cobra.Command, args []string) error {
	color, followOS := creds.Theme()

	fmt.Printf("Theme: %s\n", color)
	if followOS {
		fmt.Println("Follows the operating system setting.")
	}
	return nil
}

func runThemeSet(cmd *cobra.Command, args []string) error {
	choice := strings.ToLower(args[0])
	color, followOS := creds.Theme()

	switch choice {
	case "light", "dark":
		// Picking an explicit scheme stops following the OS unless the
		// flag says otherwise.
		color = choice
		followOS = themeFollowOS
	case "system":
		followOS = true
	default:
		return fmt.Errorf("invalid theme %q (must be 'light', 'dark' or 'system')", args[0])
	}

	if err := creds.SaveTheme(color, followOS); err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}

	fmt.Printf("✓ Theme set to %s\n", choice)
	return nil
}
