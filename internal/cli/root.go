// Package cli is the terminal front end of the portal. Each command builds the
// same views the web portal uses and prints their snapshots; navigation is
// printed as an arrow followed by the route.
package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cityfeedback/portal/internal/core/domain"
	"github.com/cityfeedback/portal/internal/core/ports"
	"github.com/cityfeedback/portal/internal/core/service"
)

// Env is what every command runs against.
type Env struct {
	Backend ports.Backend
	Store   ports.SessionStore
	Schema  domain.StatusSchema
	Log     zerolog.Logger
}

// Loader builds the Env once the command line has been parsed.
type Loader func(ctx context.Context) (*Env, error)

type runner struct {
	load      Loader
	env       *Env
	out       io.Writer
	validator *service.FormValidator
}

// NewRootCommand assembles the command tree.
func NewRootCommand(load Loader) *cobra.Command {
	r := &runner{load: load, validator: service.NewFormValidator()}

	root := &cobra.Command{
		Use:           "cityfeedback",
		Short:         "Citizen feedback portal client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			env, err := r.load(cmd.Context())
			if err != nil {
				return err
			}
			r.env = env
			r.out = cmd.OutOrStdout()
			return nil
		},
	}

	root.AddCommand(
		r.loginCmd(),
		r.logoutCmd(),
		r.signupCmd(),
		r.whoamiCmd(),
		r.dashboardCmd(),
		r.createCmd(),
		r.publicCmd(),
		r.staffCmd(),
		r.adminCmd(),
	)
	return root
}

// arrowNavigator prints navigation instead of performing it.
type arrowNavigator struct {
	w io.Writer
}

func (n arrowNavigator) Navigate(route string) {
	fmt.Fprintf(n.w, "→ %s\n", route)
}

func (r *runner) session() *service.Session {
	return service.NewSession(r.env.Store, r.env.Backend, arrowNavigator{w: r.out}, r.env.Log)
}

func (r *runner) workflow(sess *service.Session) *service.Workflow {
	return service.NewWorkflow(sess, r.env.Backend, r.env.Backend, r.env.Log)
}

// Failure carries the message a view chose for a failed action. The
// underlying error stays reachable through errors.Is.
type Failure struct {
	Message string
	Err     error
}

func (f *Failure) Error() string { return f.Message }

func (f *Failure) Unwrap() error { return f.Err }

func failure(err error, msg string) error {
	if msg == "" {
		return err
	}
	return &Failure{Message: msg, Err: err}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid feedback id %q", domain.ErrValidation, raw)
	}
	return id, nil
}
