package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every tool the server registers",
	RunE: func(cmd *cobra.Command, args []string) error {
		tools, err := newClient().ListTools()
		if err != nil {
			return err
		}

		fmt.Println(titleStyle.Render(fmt.Sprintf("%d tools registered", len(tools))))
		for _, t := range tools {
			fmt.Printf("  %s %s  %s\n",
				nameStyle.Render(t.Name),
				badgeStyle.Render("["+string(t.OutputKind)+"]"),
				dimStyle.Render(t.Description),
			)
		}
		return nil
	},
}
