package app

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/GoBazaar/GoBazaar/internal/access"
	"github.com/GoBazaar/GoBazaar/internal/db"
	"github.com/GoBazaar/GoBazaar/internal/db/models"
	"github.com/GoBazaar/GoBazaar/internal/role"
)

func init() { //nolint: gochecknoinits
	roleCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List roles with their access types",
			Args:  cobra.NoArgs,
			RunE: withRoles(func(cmd *cobra.Command, svc *role.Service, _ []string) error {
				roles, err := svc.List(cmd.Context())
				if err != nil {
					return err //nolint:wrapcheck
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0) //nolint:mnd
				_, _ = fmt.Fprintln(w, "ID\tNAME\tACCESSES")

				for i := range roles {
					printRole(w, &roles[i])
				}

				return w.Flush() //nolint:wrapcheck
			}),
		},
		&cobra.Command{
			Use:   "create NAME [ACCESS...]",
			Short: "Create a role",
			Args:  cobra.MinimumNArgs(1),
			RunE: withRoles(func(cmd *cobra.Command, svc *role.Service, args []string) error {
				r, err := svc.Create(cmd.Context(), args[0], types(args[1:]))
				if err != nil {
					return err //nolint:wrapcheck
				}

				printRole(cmd.OutOrStdout(), r)

				return nil
			}),
		},
		&cobra.Command{
			Use:   "grant ROLE_ID ACCESS...",
			Short: "Grant access types to a role",
			Args:  cobra.MinimumNArgs(2), //nolint:mnd
			RunE: withRoles(func(cmd *cobra.Command, svc *role.Service, args []string) error {
				r, err := svc.AddAccess(cmd.Context(), args[0], types(args[1:]))
				if err != nil {
					return err //nolint:wrapcheck
				}

				printRole(cmd.OutOrStdout(), r)

				return nil
			}),
		},
		&cobra.Command{
			Use:   "revoke ROLE_ID ACCESS...",
			Short: "Revoke access types from a role",
			Args:  cobra.MinimumNArgs(2), //nolint:mnd
			RunE: withRoles(func(cmd *cobra.Command, svc *role.Service, args []string) error {
				r, err := svc.RemoveAccess(cmd.Context(), args[0], types(args[1:]))
				if err != nil {
					return err //nolint:wrapcheck
				}

				printRole(cmd.OutOrStdout(), r)

				return nil
			}),
		},
		&cobra.Command{
			Use:   "rename ROLE_ID NAME",
			Short: "Rename a role",
			Args:  cobra.ExactArgs(2), //nolint:mnd
			RunE: withRoles(func(cmd *cobra.Command, svc *role.Service, args []string) error {
				r, err := svc.Rename(cmd.Context(), args[0], args[1])
				if err != nil {
					return err //nolint:wrapcheck
				}

				printRole(cmd.OutOrStdout(), r)

				return nil
			}),
		},
		&cobra.Command{
			Use:   "delete ROLE_ID",
			Short: "Delete a role, its users keep no role",
			Args:  cobra.ExactArgs(1),
			RunE: withRoles(func(cmd *cobra.Command, svc *role.Service, args []string) error {
				r, err := svc.Delete(cmd.Context(), args[0])
				if err != nil {
					return err //nolint:wrapcheck
				}

				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s (%s)\n", r.Name, r.ID)

				return nil
			}),
		},
	)

	rootCmd.AddCommand(roleCmd, accessCmd)
}

var (
	roleCmd = &cobra.Command{
		Use:               "role",
		Short:             "Manage roles",
		PersistentPreRunE: loadConfig,
	}

	accessCmd = &cobra.Command{
		Use:   "access",
		Short: "Print the access type catalog",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, t := range access.All() {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), t)
			}
		},
	}
)

type roleRunFunc func(cmd *cobra.Command, svc *role.Service, args []string) error

// withRoles opens the configured database for one role command.
func withRoles(run roleRunFunc) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		gdb, err := db.Open(&cfg.DB)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if sqlDB, err := gdb.DB(); err == nil {
			defer sqlDB.Close()
		}

		if err = db.Migrate(gdb); err != nil {
			return err //nolint:wrapcheck
		}

		return run(cmd, role.NewService(gdb, cfg.DB.QueryTimeout), args)
	}
}

func types(args []string) []access.Type {
	out := make([]access.Type, len(args))
	for i, a := range args {
		out[i] = access.Type(strings.TrimSpace(a))
	}

	return out
}

func printRole(w io.Writer, r *models.Role) {
	_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", r.ID, r.Name, strings.Join(r.AccessSet().Strings(), ","))
}
