package cli

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cityfeedback/portal/internal/core/service"
)

func (r *runner) adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage accounts (administrators)",
	}
	cmd.AddCommand(
		r.adminUsersCmd(),
		r.adminCreateUserCmd(),
		r.adminRoleCmd(),
		r.adminPasswordCmd(),
		r.adminDeleteUserCmd(),
		r.adminDeleteDemoDataCmd(),
	)
	return cmd
}

func (r *runner) adminView(cmd *cobra.Command) *service.AdminUsersView {
	return service.NewAdminUsersView(cmd.Context(), r.session(), r.env.Backend, r.validator, r.env.Log)
}

func (r *runner) adminUsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := r.adminView(cmd)
			defer v.Close()

			if !v.Mount() {
				return nil
			}
			snap := v.Snapshot()
			if snap.Error != "" {
				return errors.New(snap.Error)
			}
			tw := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tEMAIL\tROLE\t")
			for _, u := range snap.Users {
				self := ""
				if u.Self {
					self = "(you)"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.ID, u.Email, u.RoleDisplay.Label, self)
			}
			return tw.Flush()
		},
	}
}

func (r *runner) adminCreateUserCmd() *cobra.Command {
	var form service.CreateUserForm
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create an account with any role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			form.Role = strings.ToUpper(form.Role)
			v := r.adminView(cmd)
			defer v.Close()

			u, err := v.CreateUser(form)
			if err != nil {
				return failure(err, v.Snapshot().Error)
			}
			fmt.Fprintf(r.out, "Created %s (%s) with id %s\n", u.Email, u.Role, u.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&form.Email, "email", "", "account email")
	cmd.Flags().StringVar(&form.Password, "password", "", "initial password")
	cmd.Flags().StringVar(&form.Role, "role", "CITIZEN", "CITIZEN, STAFF or ADMIN")
	return cmd
}

func (r *runner) adminRoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "role <user-id> <role>",
		Short: "Reassign a role",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := r.adminView(cmd)
			defer v.Close()

			u, err := v.ChangeRole(args[0], service.ChangeRoleForm{Role: strings.ToUpper(args[1])})
			if err != nil {
				return failure(err, v.Snapshot().Error)
			}
			fmt.Fprintf(r.out, "%s is now %s\n", args[0], u.Role)
			return nil
		},
	}
}

func (r *runner) adminPasswordCmd() *cobra.Command {
	var form service.ChangePasswordForm
	cmd := &cobra.Command{
		Use:   "password <user-id>",
		Short: "Set a new password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := r.adminView(cmd)
			defer v.Close()

			if err := v.ChangePassword(args[0], form); err != nil {
				return failure(err, v.Snapshot().Error)
			}
			fmt.Fprintln(r.out, v.Snapshot().Notice)
			return nil
		},
	}
	cmd.Flags().StringVar(&form.Password, "password", "", "new password")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (r *runner) adminDeleteUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-user <user-id>",
		Short: "Delete an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := r.adminView(cmd)
			defer v.Close()

			if err := v.DeleteUser(args[0]); err != nil {
				return failure(err, v.Snapshot().Error)
			}
			fmt.Fprintf(r.out, "Deleted %s\n", args[0])
			return nil
		},
	}
}

func (r *runner) adminDeleteDemoDataCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-demo-data",
		Short: "Purge demo accounts and their feedback",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := r.adminView(cmd)
			defer v.Close()

			res, err := v.DeleteDemoData()
			if err != nil {
				return failure(err, v.Snapshot().Error)
			}
			fmt.Fprintf(r.out, "%s (%d users)\n", res.Message, res.DeletedUsers)
			return nil
		},
	}
}
