package main

import (
	"fmt"
	"time"

	"github.com/conorfennell/spacedrep/internal/domain"
	"github.com/conorfennell/spacedrep/internal/schedule"
	"github.com/conorfennell/spacedrep/internal/storage"
	"github.com/spf13/cobra"
)

func (a *app) contentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Manage study contents",
	}
	cmd.AddCommand(a.contentAddCmd())
	cmd.AddCommand(a.contentListCmd())
	cmd.AddCommand(a.contentShowCmd())
	cmd.AddCommand(a.contentEditCmd())
	cmd.AddCommand(a.contentRmCmd())
	return cmd
}

func (a *app) contentAddCmd() *cobra.Command {
	var labelID int64

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a content and schedule its reviews",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.store()
			if err != nil {
				return err
			}
			defer s.Close()

			content, err := s.CreateContent(cmd.Context(), args[0], labelID)
			if err != nil {
				return err
			}

			fmt.Printf("Added content %d: %s\n", content.ID, content.Title)
			for _, kind := range domain.ReviewKinds {
				fmt.Printf("  %-13s %s\n", kind, content.ReviewDates[kind])
			}
			return nil
		},
	}

	cmd.Flags().Int64VarP(&labelID, "label", "l", 0, "label id")
	_ = cmd.MarkFlagRequired("label")
	return cmd
}

func (a *app) contentListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List contents, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.store()
			if err != nil {
				return err
			}
			defer s.Close()

			views, err := s.ListContents(cmd.Context())
			if err != nil {
				return err
			}
			if len(views) == 0 {
				fmt.Println("No contents yet. Use 'spacedrep content add' to create one.")
				return nil
			}

			w := newTable()
			fmt.Fprintln(w, "ID\tTITLE\tLABEL\tCREATED\tDONE")
			for _, v := range views {
				done := 0
				for _, st := range v.Reviews {
					if st.Completed {
						done++
					}
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d/%d\n",
					v.ID, truncate(v.Title, 50), v.LabelName, domain.DateOf(v.CreatedAt), done, len(v.Reviews))
			}
			return w.Flush()
		},
	}
}

func (a *app) contentShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show a content and its reviews",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			s, err := a.store()
			if err != nil {
				return err
			}
			defer s.Close()

			v, err := s.GetContent(cmd.Context(), id)
			if err != nil {
				return err
			}
			if v == nil {
				return storage.ErrContentNotFound
			}

			fmt.Printf("ID:      %d\n", v.ID)
			fmt.Printf("Title:   %s\n", v.Title)
			fmt.Printf("Label:   %s (%d)\n", v.LabelName, v.LabelID)
			fmt.Printf("Created: %s\n", v.CreatedAt.Format("2006-01-02 15:04"))
			fmt.Println("Reviews:")
			today := domain.DateOf(time.Now())
			for _, kind := range domain.ReviewKinds {
				st, ok := v.Reviews[kind]
				if !ok {
					continue
				}
				fmt.Printf("  %-13s %s  +%-3d %s\n", kind, st.ScheduledDate, schedule.Offset(kind), reviewState(st, today))
			}
			return nil
		},
	}
}

func (a *app) contentEditCmd() *cobra.Command {
	var labelID int64

	cmd := &cobra.Command{
		Use:   "edit [id] [title]",
		Short: "Change the title or label of a content",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			s, err := a.store()
			if err != nil {
				return err
			}
			defer s.Close()

			if !cmd.Flags().Changed("label") {
				current, err := s.GetContent(cmd.Context(), id)
				if err != nil {
					return err
				}
				if current == nil {
					return storage.ErrContentNotFound
				}
				labelID = current.LabelID
			}

			if err := s.UpdateContent(cmd.Context(), id, args[1], labelID); err != nil {
				return err
			}
			fmt.Printf("Updated content %d\n", id)
			return nil
		},
	}

	cmd.Flags().Int64VarP(&labelID, "label", "l", 0, "new label id")
	return cmd
}

func (a *app) contentRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm [id]",
		Short: "Delete a content and its reviews",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			s, err := a.store()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.DeleteContent(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Printf("Deleted content %d\n", id)
			return nil
		},
	}
}

// reviewState describes a review as of today.
func reviewState(st domain.ReviewStatus, today domain.Date) string {
	switch {
	case st.Completed && st.CompletedAt != nil:
		return "done " + st.CompletedAt.Format("2006-01-02 15:04")
	case st.Completed:
		return "done"
	case st.ScheduledDate.Before(today):
		return "overdue"
	case schedule.IsDue(st.ScheduledDate, today):
		return "due"
	default:
		return "scheduled"
	}
}
