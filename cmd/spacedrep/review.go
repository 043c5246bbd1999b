package main

import (
	"fmt"

	"github.com/conorfennell/spacedrep/internal/domain"
	"github.com/spf13/cobra"
)

func (a *app) dueCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "due",
		Short: "List pending reviews due today or on a given date",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.store()
			if err != nil {
				return err
			}
			defer s.Close()

			var due []domain.DueReview
			if date == "" {
				due, err = s.DueToday(cmd.Context())
			} else {
				on, perr := domain.ParseDate(date)
				if perr != nil {
					return perr
				}
				due, err = s.ListDueReviews(cmd.Context(), on)
			}
			if err != nil {
				return err
			}

			if len(due) == 0 {
				fmt.Println("Nothing to review.")
				return nil
			}

			w := newTable()
			fmt.Fprintln(w, "CONTENT\tTITLE\tLABEL\tKIND\tSCHEDULED")
			for _, r := range due {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
					r.ContentID, truncate(r.Title, 50), r.LabelName, r.Kind, r.ScheduledDate)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "date to check (YYYY-MM-DD), default today")
	return cmd
}

func (a *app) doneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done [content-id] [kind]",
		Short: "Mark a review as completed (kind: next_day, one_week, one_month, three_months)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			kind, err := domain.ParseReviewKind(args[1])
			if err != nil {
				return err
			}

			s, err := a.store()
			if err != nil {
				return err
			}
			defer s.Close()

			at, err := s.CompleteReview(cmd.Context(), id, kind)
			if err != nil {
				return err
			}
			fmt.Printf("Completed %s review of content %d at %s\n", kind, id, at.Format("2006-01-02 15:04"))
			return nil
		},
	}
}

func (a *app) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show global counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.store()
			if err != nil {
				return err
			}
			defer s.Close()

			st, err := s.Statistics(cmd.Context())
			if err != nil {
				return err
			}

			w := newTable()
			fmt.Fprintf(w, "Contents:\t%d\n", st.TotalContents)
			fmt.Fprintf(w, "Labels:\t%d\n", st.TotalLabels)
			fmt.Fprintf(w, "Pending today:\t%d\n", st.PendingToday)
			fmt.Fprintf(w, "Completed reviews:\t%d\n", st.CompletedReviews)
			fmt.Fprintf(w, "Total reviews:\t%d\n", st.TotalReviews)
			return w.Flush()
		},
	}
}
