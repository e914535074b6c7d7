package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cityfeedback/portal/internal/core/domain"
	"github.com/cityfeedback/portal/internal/core/service"
)

func (r *runner) dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "List your own feedback",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := service.NewDashboardView(cmd.Context(), r.session(), r.env.Backend, r.env.Schema, r.env.Log)
			defer v.Close()

			if !v.Mount() {
				return nil
			}
			snap := v.Snapshot()
			if snap.Error != "" {
				return errors.New(snap.Error)
			}
			fmt.Fprintf(r.out, "Total %d  Open %d  In progress %d  Closed %d\n\n",
				snap.Stats.Total, snap.Stats.Open, snap.Stats.InProgress, snap.Stats.Closed)
			printRows(r.out, snap.Items)
			return nil
		},
	}
}

func (r *runner) createCmd() *cobra.Command {
	var form service.CreateFeedbackForm
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Submit new feedback",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			form.Category = strings.ToUpper(form.Category)
			v := service.NewCreateFeedbackView(cmd.Context(), r.session(), r.env.Backend, r.validator, r.env.Log)
			defer v.Close()

			if !v.Mount() {
				return nil
			}
			fb, err := v.Submit(form)
			if err != nil {
				return failure(err, v.Message())
			}
			fmt.Fprintf(r.out, "Created #%d %q\n", fb.ID, fb.Title)
			return nil
		},
	}
	cmd.Flags().StringVar(&form.Title, "title", "", "short title")
	cmd.Flags().StringVar(&form.Category, "category", "", "one of "+strings.Join(categoryCodes(), ", "))
	cmd.Flags().StringVar(&form.Content, "content", "", "description")
	return cmd
}

func (r *runner) publicCmd() *cobra.Command {
	var (
		category string
		comments bool
	)
	cmd := &cobra.Command{
		Use:   "public",
		Short: "Show published feedback grouped by status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := service.NewPublicView(cmd.Context(), r.env.Backend, r.env.Backend, r.env.Schema, r.env.Log)
			defer v.Close()

			if err := v.SetCategory(domain.Category(strings.ToUpper(category))); err != nil {
				return err
			}
			v.Mount()
			snap := v.Render()
			if snap.Error != "" {
				return errors.New(snap.Error)
			}

			fmt.Fprintf(r.out, "%d published (%s)\n", snap.Total, domain.CategoryLabel(snap.Category))
			for _, g := range snap.Groups {
				fmt.Fprintf(r.out, "\n%s (%d)\n", g.Display.Label, len(g.Items))
				for _, it := range g.Items {
					fmt.Fprintf(r.out, "  #%d %s [%s] %s\n", it.ID, it.Title, it.CategoryLabel, formatDate(it.Feedback))
					if comments {
						for _, c := range it.Comments {
							fmt.Fprintf(r.out, "      > %s\n", c.Content)
						}
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "filter by category code or ALL")
	cmd.Flags().BoolVar(&comments, "comments", false, "show comment threads")
	return cmd
}

func printRows(w io.Writer, rows []service.FeedbackRow) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No feedback yet.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tSTATUS\tDATE")
	for _, row := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", row.ID, row.Title, row.CategoryLabel, row.StatusDisplay.Label, formatDate(row.Feedback))
	}
	_ = tw.Flush()
}

func formatDate(f domain.Feedback) string {
	if d, ok := f.Date(); ok {
		return d.Format("02.01.2006")
	}
	return "-"
}

func categoryCodes() []string {
	out := make([]string, len(domain.Categories))
	for i, c := range domain.Categories {
		out[i] = string(c)
	}
	return out
}
