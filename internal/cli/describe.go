package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/toolbench/toolbench/internal/catalog"
)

var describeCmd = &cobra.Command{
	Use:   "describe <tool>",
	Short: "Show a tool's descriptor and input schema",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tool, err := newClient().GetTool(args[0])
		if err != nil {
			return err
		}

		fmt.Println(titleStyle.Render(tool.Name) + " " + dimStyle.Render("v"+tool.Version))
		fmt.Println(tool.Description)
		fmt.Printf("output: %s\n", badgeStyle.Render(string(tool.OutputKind)))

		if len(tool.InputSchema) == 0 {
			fmt.Println(dimStyle.Render("no input fields"))
			return nil
		}

		fmt.Println(titleStyle.Render("fields:"))
		for _, f := range tool.InputSchema {
			fmt.Printf("  %s %s%s\n",
				nameStyle.Render(f.Name),
				dimStyle.Render("("+string(f.Kind)+")"),
				requiredMarker(f),
			)
			if f.Description != "" {
				fmt.Printf("      %s\n", f.Description)
			}
			if hints := fieldHints(f); hints != "" {
				fmt.Printf("      %s\n", dimStyle.Render(hints))
			}
		}
		return nil
	},
}

func requiredMarker(f catalog.FieldSpec) string {
	if f.Required {
		return " " + reqStyle.Render("required")
	}
	return ""
}

func fieldHints(f catalog.FieldSpec) string {
	var hints []string
	if len(f.Enum) > 0 {
		hints = append(hints, "one of: "+strings.Join(f.Enum, ", "))
	}
	if f.Minimum != nil {
		hints = append(hints, fmt.Sprintf("min: %v", *f.Minimum))
	}
	if f.Maximum != nil {
		hints = append(hints, fmt.Sprintf("max: %v", *f.Maximum))
	}
	if f.Default != nil {
		hints = append(hints, fmt.Sprintf("default: %v", f.Default))
	}
	if f.Example != "" {
		hints = append(hints, "example: "+f.Example)
	}
	return strings.Join(hints, "  ")
}
