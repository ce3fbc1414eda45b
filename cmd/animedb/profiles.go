package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/deppfellow/animedb/internal/app"
	"github.com/deppfellow/animedb/internal/errs"
	"github.com/deppfellow/animedb/internal/model"
	"github.com/spf13/cobra"
)

func (c *cli) profilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "Profile queries and registration",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List the first profiles by id",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
					profiles, err := a.Store().ListProfiles(ctx)
					if err != nil {
						return err
					}
					return c.print(profiles)
				})
			},
		},
		&cobra.Command{
			Use:   "count",
			Short: "Count named profiles",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
					total, err := a.Store().CountProfiles(ctx)
					if err != nil {
						return err
					}
					return c.print(map[string]int64{"count": total})
				})
			},
		},
		&cobra.Command{
			Use:   "name <id>",
			Short: "Look up a profile name by id",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
					name, found, err := a.Store().GetProfileName(ctx, id)
					if err != nil {
						return err
					}
					return c.print(map[string]any{"id": id, "profile_name": name, "found": found})
				})
			},
		},
		&cobra.Command{
			Use:   "taken <name>",
			Short: "Check whether a profile name is in use",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
					taken, err := a.Store().IsUsernameTaken(ctx, args[0])
					if err != nil {
						return err
					}
					return c.print(map[string]any{"profile_name": args[0], "taken": taken})
				})
			},
		},
		c.createProfileCmd(),
		c.loginCmd(),
	)

	return cmd
}

type passwordFlags struct {
	password string
	stdin    bool
}

func (p *passwordFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.password, "password", "", "password (prefer --password-stdin)")
	cmd.Flags().BoolVar(&p.stdin, "password-stdin", false, "read the password from the first line of stdin")
	cmd.MarkFlagsMutuallyExclusive("password", "password-stdin")
}

func (p *passwordFlags) resolve(in io.Reader) (string, error) {
	if !p.stdin {
		return p.password, nil
	}
	return readPassword(in)
}

// readPassword returns the first line of r without its line terminator.
func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (c *cli) createProfileCmd() *cobra.Command {
	var (
		in  model.NewProfile
		pwd passwordFlags
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a new profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := pwd.resolve(c.in)
			if err != nil {
				return err
			}
			in.Password = password

			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				profile, err := a.Store().CreateUser(ctx, in)
				if err != nil {
					return err
				}
				return c.print(profile)
			})
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "profile name")
	cmd.Flags().StringVar(&in.Gender, "gender", "", "gender")
	cmd.Flags().StringVar(&in.Birthday, "birthday", "", "birthday as YYYY-MM-DD")
	pwd.register(cmd)
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func (c *cli) loginCmd() *cobra.Command {
	var (
		name string
		pwd  passwordFlags
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Check a profile name and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := pwd.resolve(c.in)
			if err != nil {
				return err
			}

			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				ok, err := a.Store().CheckCredentials(ctx, name, password)
				if err != nil {
					return err
				}
				return c.print(map[string]any{"profile_name": name, "authenticated": ok})
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "profile name")
	pwd.register(cmd)
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errs.NewInvalidError(fmt.Sprintf("invalid id %q", s), nil, []errs.FieldError{
			{Field: "id", Error: "must be an integer"},
		})
	}
	return id, nil
}
