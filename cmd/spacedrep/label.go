package main

import (
	"errors"
	"fmt"

	"github.com/conorfennell/spacedrep/internal/storage"
	"github.com/spf13/cobra"
)

func (a *app) labelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "label",
		Short: "Manage labels",
	}
	cmd.AddCommand(a.labelAddCmd())
	cmd.AddCommand(a.labelListCmd())
	cmd.AddCommand(a.labelEditCmd())
	cmd.AddCommand(a.labelRmCmd())
	return cmd
}

func (a *app) labelAddCmd() *cobra.Command {
	var color string

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Create a label",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.store()
			if err != nil {
				return err
			}
			defer s.Close()

			label, err := s.CreateLabel(cmd.Context(), args[0], color)
			if err != nil {
				return err
			}
			fmt.Printf("Added label %d: %s\n", label.ID, label.Name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&color, "color", "c", "", "label color, e.g. #FF0000")
	return cmd
}

func (a *app) labelListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List labels",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.store()
			if err != nil {
				return err
			}
			defer s.Close()

			labels, err := s.ListLabels(cmd.Context())
			if err != nil {
				return err
			}
			if len(labels) == 0 {
				fmt.Println("No labels yet. Use 'spacedrep label add' to create one.")
				return nil
			}

			w := newTable()
			fmt.Fprintln(w, "ID\tNAME\tCOLOR")
			for _, l := range labels {
				fmt.Fprintf(w, "%d\t%s\t%s\n", l.ID, l.Name, l.Color)
			}
			return w.Flush()
		},
	}
}

func (a *app) labelEditCmd() *cobra.Command {
	var color string

	cmd := &cobra.Command{
		Use:   "edit [id] [name]",
		Short: "Rename or recolor a label",
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

			if !cmd.Flags().Changed("color") {
				current, err := s.GetLabel(cmd.Context(), id)
				if err != nil {
					return err
				}
				if current == nil {
					return storage.ErrLabelNotFound
				}
				color = current.Color
			}

			if err := s.UpdateLabel(cmd.Context(), id, args[1], color); err != nil {
				return err
			}
			fmt.Printf("Updated label %d\n", id)
			return nil
		},
	}

	cmd.Flags().StringVarP(&color, "color", "c", "", "new label color")
	return cmd
}

func (a *app) labelRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm [id]",
		Short: "Delete an unused label",
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

			err = s.DeleteLabel(cmd.Context(), id)
			var inUse *storage.LabelInUseError
			if errors.As(err, &inUse) {
				return fmt.Errorf("label %d still has %d content(s); move or delete them first", id, inUse.Count)
			}
			if err != nil {
				return err
			}
			fmt.Printf("Deleted label %d\n", id)
			return nil
		},
	}
}
