package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newLoginCommand(a *app) *cobra.Command {
	var email, password, google string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password, or a Google ID token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if google != "" {
				user, err := a.client.GoogleLogin(ctx(cmd), google)
				if err != nil {
					return err
				}
				a.out.message("Signed in as %s <%s>", user.Name, user.Email)
				return nil
			}
			if password == "" {
				var err error
				if password, err = readLine(cmd.InOrStdin()); err != nil {
					return err
				}
			}
			user, err := a.client.Login(ctx(cmd), email, password)
			if err != nil {
				return err
			}
			a.out.message("Signed in as %s <%s>", user.Name, user.Email)
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (read from stdin when omitted)")
	cmd.Flags().StringVar(&google, "google-token", "", "Google ID token credential")
	return cmd
}

func newSignupCommand(a *app) *cobra.Command {
	var email, password, confirm, name string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if confirm == "" {
				confirm = password
			}
			user, err := a.client.Signup(ctx(cmd), email, password, confirm, name)
			if err != nil {
				return err
			}
			a.out.message("Welcome, %s! You are signed in as %s.", user.Name, user.Email)
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password, at least 6 characters")
	cmd.Flags().StringVar(&confirm, "confirm", "", "password confirmation (defaults to --password)")
	cmd.Flags().StringVarP(&name, "name", "n", "", "display name")
	return cmd
}

func newLogoutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.client.Logout(ctx(cmd)); err != nil {
				return err
			}
			a.out.message("Signed out.")
			return nil
		},
	}
}

func newWhoamiCommand(a *app) *cobra.Command {
	var remote bool
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			user, _ := a.session.User()
			if remote {
				var err error
				if user, err = a.client.Profile(ctx(cmd)); err != nil {
					return err
				}
			}
			v := viewUser(user)
			return a.out.emit(v, func(tw *tabwriter.Writer) {
				fmt.Fprintf(tw, "ID\t%d\n", v.ID)
				fmt.Fprintf(tw, "Name\t%s\n", v.Name)
				fmt.Fprintf(tw, "Email\t%s\n", v.Email)
				fmt.Fprintf(tw, "Admin\t%t\n", v.IsAdmin)
			})
		},
	}
	cmd.Flags().BoolVar(&remote, "remote", false, "fetch the profile from the backend")
	return cmd
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
