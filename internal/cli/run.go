package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/toolbench/toolbench/internal/catalog"
	"github.com/toolbench/toolbench/internal/client"
)

var (
	runParams []string
	runFiles  []string
	runOutDir string
)

var runCmd = &cobra.Command{
	Use:   "run <tool>",
	Short: "Run a tool with the given parameters",
	Long: `Run a tool by name. Scalar fields are passed with --param name=value,
file fields with --file name=path. The transport shape (JSON or multipart)
is chosen from the tool's schema, never by the caller.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		toolName := args[0]
		c := newClient()

		tool, err := c.GetTool(toolName)
		if err != nil {
			return err
		}

		form := client.Compile(tool.InputSchema)
		for _, p := range runParams {
			name, value, ok := strings.Cut(p, "=")
			if !ok {
				return fmt.Errorf("invalid --param %q (expected name=value)", p)
			}
			if err := form.Set(name, value); err != nil {
				return err
			}
		}
		for _, p := range runFiles {
			name, path, ok := strings.Cut(p, "=")
			if !ok {
				return fmt.Errorf("invalid --file %q (expected name=path)", p)
			}
			if err := form.SetFile(name, path); err != nil {
				return err
			}
		}

		rendered, err := c.Run(toolName, form)
		if err != nil {
			return err
		}

		if rendered.Kind == catalog.OutputStructured {
			fmt.Println(rendered.Pretty())
			return nil
		}

		path, err := rendered.Attachment.Save(runOutDir)
		if err != nil {
			return err
		}
		fmt.Printf("%s %s %s\n",
			resultStyle.Render("saved"),
			path,
			dimStyle.Render("("+rendered.Attachment.MediaType+")"),
		)
		return nil
	},
}

func init() {
	runCmd.Flags().StringArrayVar(&runParams, "param", nil, "scalar field as name=value (repeatable)")
	runCmd.Flags().StringArrayVar(&runFiles, "file", nil, "file field as name=path (repeatable)")
	runCmd.Flags().StringVar(&runOutDir, "out", ".", "directory for attachment downloads")
}
