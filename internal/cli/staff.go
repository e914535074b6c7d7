package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cityfeedback/portal/internal/core/domain"
	"github.com/cityfeedback/portal/internal/core/service"
)

func (r *runner) staffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "staff",
		Short: "Triage feedback (staff and administrators)",
	}
	cmd.AddCommand(
		r.staffListCmd(),
		r.staffStatusCmd(),
		r.staffToggleCmd("publish", "Show an item on the public page", (*service.StaffView).Publish),
		r.staffToggleCmd("unpublish", "Withdraw an item from the public page", (*service.StaffView).Unpublish),
		r.staffCommentCmd(),
		r.staffToggleCmd("delete", "Delete an item (administrators)", (*service.StaffView).Delete),
		r.staffStatsCmd(),
	)
	return cmd
}

func (r *runner) staffView(cmd *cobra.Command) *service.StaffView {
	sess := r.session()
	return service.NewStaffView(cmd.Context(), sess, r.env.Backend, r.workflow(sess), r.env.Schema, r.env.Log)
}

func (r *runner) staffListCmd() *cobra.Command {
	var expand int64
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every item with its comments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := r.staffView(cmd)
			defer v.Close()

			if !v.Mount() {
				return nil
			}
			if expand > 0 {
				v.ToggleExpand(expand)
			}
			snap := v.Snapshot()
			if snap.Error != "" {
				return errors.New(snap.Error)
			}
			r.printStaff(snap)
			return nil
		},
	}
	cmd.Flags().Int64Var(&expand, "expand", 0, "show the full thread of this item")
	return cmd
}

func (r *runner) printStaff(snap service.StaffSnapshot) {
	fmt.Fprintf(r.out, "Open %d  In progress %d  Done %d  Published %d\n\n",
		snap.Stats.Open, snap.Stats.InProgress, snap.Stats.Done, snap.Stats.Published)
	if len(snap.Items) == 0 {
		fmt.Fprintln(r.out, "No feedback.")
		return
	}

	tw := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tSTATUS\tPUBLIC\tCOMMENTS\tNEXT")
	for _, it := range snap.Items {
		public := "no"
		if it.Published {
			public = "yes"
		}
		comments := fmt.Sprint(len(it.Comments))
		if it.CommentsError {
			comments = "?"
		}
		next := it.NextStatus
		if next == "" {
			next = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			it.ID, it.Title, it.CategoryLabel, it.StatusDisplay.Label, public, comments, next)
	}
	_ = tw.Flush()

	for _, it := range snap.Items {
		if !it.Expanded {
			continue
		}
		fmt.Fprintf(r.out, "\n#%d %s\n%s\n", it.ID, it.Title, it.Content)
		for _, c := range it.Comments {
			fmt.Fprintf(r.out, "  > %s\n", c.Content)
		}
	}
}

func (r *runner) staffStatusCmd() *cobra.Command {
	var comment string
	cmd := &cobra.Command{
		Use:   "status <id> [status]",
		Short: "Set the status, or advance it when no status is given",
		Long: "Set the status of an item and optionally attach a comment.\n" +
			"Without a status the item moves to the next status of the configured schema.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			v := r.staffView(cmd)
			defer v.Close()

			var change *service.StatusChange
			if len(args) == 2 {
				change, err = v.ChangeStatus(id, domain.FeedbackStatus(strings.ToUpper(args[1])), comment)
			} else {
				v.Reload()
				change, err = v.Advance(id, comment)
			}
			if err != nil {
				return failure(err, v.Snapshot().Error)
			}
			fmt.Fprintf(r.out, "#%d is now %s\n", id, domain.StatusDisplay(change.Feedback.Status).Label)
			if change.CommentErr != nil {
				return failure(change.CommentErr, v.Snapshot().Error)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&comment, "comment", "", "comment to attach")
	return cmd
}

func (r *runner) staffToggleCmd(use, short string, action func(*service.StaffView, int64) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			v := r.staffView(cmd)
			defer v.Close()

			if err := action(v, id); err != nil {
				return failure(err, v.Snapshot().Error)
			}
			fmt.Fprintf(r.out, "%s #%d: done\n", use, id)
			return nil
		},
	}
}

func (r *runner) staffCommentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "comment <id> <text>...",
		Short: "Add a comment to an item",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			v := r.staffView(cmd)
			defer v.Close()

			if _, err := v.AddComment(id, strings.Join(args[1:], " ")); err != nil {
				return failure(err, v.Snapshot().Error)
			}
			fmt.Fprintf(r.out, "Comment added to #%d\n", id)
			return nil
		},
	}
}

func (r *runner) staffStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Item counts per status as reported by the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := r.session().Actor(cmd.Context(), domain.CapTriageFeedback); err != nil {
				return err
			}
			counts, err := r.env.Backend.StatusStatistics(cmd.Context())
			if err != nil {
				return err
			}
			statuses := make([]string, 0, len(counts))
			for s := range counts {
				statuses = append(statuses, string(s))
			}
			sort.Strings(statuses)
			for _, s := range statuses {
				fmt.Fprintf(r.out, "%-12s %d\n", s, counts[domain.FeedbackStatus(s)])
			}
			return nil
		},
	}
}
