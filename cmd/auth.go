package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	authUsername string
	authPassword string
	authEmail    string

	authCurrentPassword string
	authNewPassword     string
)

// authCmd represents the auth command group
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Sign in and manage the stored session",
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session token",
	RunE:  runAuthLogin,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session",
	RunE:  runAuthLogout,
}

var authRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and sign in",
	RunE:  runAuthRegister,
}

var authPasswdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change the password for the signed-in user",
	RunE:  runAuthPasswd,
}

var authWhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	RunE:  runAuthWhoami,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authRegisterCmd)
	authCmd.AddCommand(authPasswdCmd)
	authCmd.AddCommand(authWhoamiCmd)

	authLoginCmd.Flags().StringVarP(&authUsername, "username", "u", "", "username")
	authLoginCmd.Flags().StringVarP(&authPassword, "password", "p", "", "password")

	authRegisterCmd.Flags().StringVarP(&authUsername, "username", "u", "", "username")
	authRegisterCmd.Flags().StringVar(&authEmail, "email", "", "email address")
	authRegisterCmd.Flags().StringVarP(&authPassword, "password", "p", "", "password")

	authPasswdCmd.Flags().StringVar(&authCurrentPassword, "current", "", "current password")
	authPasswdCmd.Flags().StringVar(&authNewPassword, "new", "", "new password")
}

// promptFor reads one line from stdin when the flag was left empty.
func promptFor(label, value string) (string, error) {
	if value != "" {
		return value, nil
	}

	fmt.Printf("%s: ", label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return "", fmt.Errorf("%s must not be empty", strings.ToLower(label))
	}
	return line, nil
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	username, err := promptFor("Username", authUsername)
	if err != nil {
		return err
	}
	password, err := promptFor("Password", authPassword)
	if err != nil {
		return err
	}

	st := sessions.Login(cmd.Context(), username, password)
	if st.Err != nil {
		return fmt.Errorf("login failed: %w", st.Err)
	}

	fmt.Printf("✓ Signed in as %s (%s)\n", st.User.Username, st.User.Role)
	return nil
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	sessions.Logout()
	fmt.Println("✓ Signed out")
	return nil
}

func runAuthRegister(cmd *cobra.Command, args []string) error {
	username, err := promptFor("Username", authUsername)
	if err != nil {
		return err
	}
	email, err := promptFor("Email", authEmail)
	if err != nil {
		return err
	}
	password, err := promptFor("Password", authPassword)
	if err != nil {
		return err
	}

	st := sessions.Register(cmd.Context(), username, email, password)
	if st.Err != nil {
		return fmt.Errorf("registration failed: %w", st.Err)
	}

	fmt.Printf("✓ Registered and signed in as %s\n", st.User.Username)
	return nil
}

func runAuthPasswd(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return err
	}

	current, err := promptFor("Current password", authCurrentPassword)
	if err != nil {
		return err
	}
	next, err := promptFor("New password", authNewPassword)
	if err != nil {
		return err
	}

	if err := sessions.ChangePassword(cmd.Context(), current, next); err != nil {
		return fmt.Errorf("password change failed: %w", err)
	}

	fmt.Println("✓ Password changed")
	return nil
}

func runAuthWhoami(cmd *cobra.Command, args []string) error {
	st := sessions.State()
	if !st.Authenticated {
		fmt.Println("Not signed in.")
		return nil
	}

	fmt.Printf("Signed in as %s (%s)\n", st.User.Username, st.User.Role)
	return nil
}
