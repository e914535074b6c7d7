package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cityfeedback/portal/internal/core/domain"
	"github.com/cityfeedback/portal/internal/core/service"
)

func (r *runner) loginCmd() *cobra.Command {
	var form service.LoginForm
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the user locally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := service.NewAuthView(cmd.Context(), r.session(), r.env.Backend, r.validator, r.env.Log)
			defer v.Close()

			u, err := v.Login(form)
			if err != nil {
				return failure(err, v.Message())
			}
			fmt.Fprintf(r.out, "Logged in as %s (%s)\n", u.Email, domain.RoleDisplay(u.Role).Label)
			return nil
		},
	}
	cmd.Flags().StringVar(&form.Email, "email", "", "account email")
	cmd.Flags().StringVar(&form.Password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (r *runner) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the locally stored user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.session().Logout(cmd.Context())
		},
	}
}

func (r *runner) signupCmd() *cobra.Command {
	var form service.SignupForm
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Register a citizen account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if form.ConfirmPassword == "" {
				form.ConfirmPassword = form.Password
			}
			v := service.NewAuthView(cmd.Context(), r.session(), r.env.Backend, r.validator, r.env.Log)
			defer v.Close()

			u, err := v.Signup(form)
			if err != nil {
				return failure(err, v.Message())
			}
			fmt.Fprintf(r.out, "Registered %s\n", u.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&form.Email, "email", "", "account email")
	cmd.Flags().StringVar(&form.Password, "password", "", "at least 8 characters with a letter and a digit")
	cmd.Flags().StringVar(&form.ConfirmPassword, "confirm", "", "password confirmation (defaults to --password)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (r *runner) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the locally stored user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u := r.session().Current(cmd.Context())
			if u == nil {
				return failure(domain.ErrNoSession, "You are not logged in.")
			}
			sb := service.BuildSidebar(u, "")
			fmt.Fprintf(r.out, "%s  %s <%s>\n", sb.Initials, sb.DisplayName, sb.Email)
			fmt.Fprintf(r.out, "id:   %s\nrole: %s\n", u.ID, sb.Role.Label)
			return nil
		},
	}
}
