package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"socialclient/internal/client/bootstrap"
)

var errMissingInput = errors.New("value is required")

func (c *cli) loginCommand() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withClient(cmd, func(ctx context.Context, client *bootstrap.Client) error {
				in := bufio.NewReader(cmd.InOrStdin())
				if err := prompt(cmd.OutOrStdout(), in, "email", &email); err != nil {
					return err
				}
				if err := prompt(cmd.OutOrStdout(), in, "password", &password); err != nil {
					return err
				}

				user, err := client.Session.Login(ctx, email, password)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "logged in as @%s\n", user.Username)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when empty)")
	return cmd
}

func (c *cli) registerCommand() *cobra.Command {
	var email, username, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withClient(cmd, func(ctx context.Context, client *bootstrap.Client) error {
				in := bufio.NewReader(cmd.InOrStdin())
				for _, field := range []struct {
					name  string
					value *string
				}{{"email", &email}, {"username", &username}, {"password", &password}} {
					if err := prompt(cmd.OutOrStdout(), in, field.name, field.value); err != nil {
						return err
					}
				}

				user, err := client.Session.Register(ctx, email, username, password)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "registered and logged in as @%s\n", user.Username)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&username, "username", "", "public username")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when empty)")
	return cmd
}

func (c *cli) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the session and remove stored tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withClient(cmd, func(ctx context.Context, client *bootstrap.Client) error {
				if err := client.Session.Logout(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "logged out")
				return nil
			})
		},
	}
}

func (c *cli) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Verify the stored session and show the current user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withClient(cmd, func(ctx context.Context, client *bootstrap.Client) error {
				ok, err := client.Verify(ctx)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "not logged in")
					return nil
				}
				printUser(cmd.OutOrStdout(), client.Session.CurrentUser())
				return nil
			})
		},
	}
}

// prompt читает значение из in, если оно не задано флагом.
func prompt(out io.Writer, in *bufio.Reader, name string, value *string) error {
	if *value != "" {
		return nil
	}

	fmt.Fprintf(out, "%s: ", name)
	line, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("reading %s: %w", name, err)
	}

	*value = strings.TrimSpace(line)
	if *value == "" {
		return fmt.Errorf("%s: %w", name, errMissingInput)
	}
	return nil
}
