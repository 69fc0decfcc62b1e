package main

import (
	"github.com/spf13/cobra"

	"roadtrip/internal/model"
)

var elementFlags struct {
	name        string
	description string
	category    string
	priority    string
	assignee    string
	completed   bool
}

var checklistCmd = &cobra.Command{
	Use:   "checklist",
	Short: "List and edit roadtrip checklists",
}

var checklistListCmd = &cobra.Command{
	Use:   "list <roadtripID>",
	Short: "Print the checklist of a roadtrip",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tripID, err := parseID("roadtripID", args[0])
		if err != nil {
			return err
		}
		ctx, cancel := opContext(cmd)
		defer cancel()
		elems, err := client.Checklist(ctx, tripID)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), elems)
	},
}

var checklistAddCmd = &cobra.Command{
	Use:   "add <roadtripID>",
	Short: "Add a checklist element",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tripID, err := parseID("roadtripID", args[0])
		if err != nil {
			return err
		}
		ctx, cancel := opContext(cmd)
		defer cancel()
		el, err := client.AddChecklistElement(ctx, tripID, elementInput())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), el)
	},
}

var checklistUpdateCmd = &cobra.Command{
	Use:   "update <roadtripID> <elementID>",
	Short: "Replace a checklist element",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tripID, err := parseID("roadtripID", args[0])
		if err != nil {
			return err
		}
		elementID, err := parseID("elementID", args[1])
		if err != nil {
			return err
		}
		ctx, cancel := opContext(cmd)
		defer cancel()
		el, err := client.UpdateChecklistElement(ctx, tripID, elementID, elementInput())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), el)
	},
}

var checklistDeleteCmd = &cobra.Command{
	Use:   "delete <roadtripID> <elementID>",
	Short: "Remove a checklist element",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tripID, err := parseID("roadtripID", args[0])
		if err != nil {
			return err
		}
		elementID, err := parseID("elementID", args[1])
		if err != nil {
			return err
		}
		ctx, cancel := opContext(cmd)
		defer cancel()
		if err := client.DeleteChecklistElement(ctx, tripID, elementID); err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), map[string]any{"deleted": elementID})
	},
}

func elementInput() model.ChecklistInput {
	return model.ChecklistInput{
		Name:         elementFlags.name,
		Description:  elementFlags.description,
		Category:     elementFlags.category,
		Priority:     elementFlags.priority,
		Completed:    elementFlags.completed,
		AssignedUser: elementFlags.assignee,
	}
}

func init() {
	for _, c := range []*cobra.Command{checklistAddCmd, checklistUpdateCmd} {
		c.Flags().StringVar(&elementFlags.name, "name", "", "Element name (required)")
		c.Flags().StringVar(&elementFlags.description, "description", "", "Free-form description")
		c.Flags().StringVar(&elementFlags.category, "category", "", "ITEM or TASK (TODO is accepted as TASK)")
		c.Flags().StringVar(&elementFlags.priority, "priority", "", "LOW, MEDIUM or HIGH")
		c.Flags().StringVar(&elementFlags.assignee, "assign", "", "Username to assign")
		c.Flags().BoolVar(&elementFlags.completed, "completed", false, "Mark as completed")
		c.MarkFlagRequired("name")
	}

	checklistCmd.AddCommand(checklistListCmd, checklistAddCmd, checklistUpdateCmd, checklistDeleteCmd)
}
