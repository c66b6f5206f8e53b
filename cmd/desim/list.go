package main

import (
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(cmdList)
}

var cmdList = &cobra.Command{
	Use:   "list",
	Short: "List the available decoys and the saved selection",
	Long: `Prints every built-in decoy with the process names it spawns. Decoys
marked with * are part of the selection the resident last saved.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controllerFactory()
		if err != nil {
			return err
		}
		defer ctrl.Close()

		sel, _, err := ctrl.SavedSelection()
		if err != nil {
			return err
		}
		selected := make(map[string]bool)
		for _, key := range append(sel.Active, sel.Pending...) {
			selected[key] = true
		}

		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{"Sel", "Key", "Name", "Processes"})
		table.SetAutoWrapText(false)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetBorder(false)
		table.SetHeaderLine(false)
		table.SetColumnSeparator("")
		table.SetCenterSeparator("")
		table.SetRowSeparator("")
		table.SetTablePadding("  ")
		table.SetNoWhiteSpace(true)
		for _, st := range ctrl.Decoys() {
			mark := " "
			if selected[st.Key] {
				mark = "*"
			}
			names := make([]string, 0, len(st.Processes))
			for _, p := range st.Processes {
				names = append(names, p.Name)
			}
			procs := strings.Join(names, ",")
			if procs == "" {
				procs = "-"
			}
			table.Append([]string{mark, st.Key, st.Name, procs})
		}
		table.Render()
		return nil
	},
}
