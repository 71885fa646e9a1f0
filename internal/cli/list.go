package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/clive/forget-me-not/internal/controller"
	"github.com/clive/forget-me-not/internal/exitcode"
	"github.com/clive/forget-me-not/internal/model"
)

// listedTask is the structured form printed by list --format json|yaml
type listedTask struct {
	Index       int    `json:"index" yaml:"index"`
	Description string `json:"description" yaml:"description"`
}

func newListCmd(opts *globalOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the saved tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case "text", "json", "yaml":
			default:
				return withCode(exitcode.UserError, fmt.Errorf("unknown format %q (want text, json or yaml)", format))
			}
			return headless(opts, cmd.ErrOrStderr(), func(ctrl *controller.Controller) error {
				return writeTasks(cmd.OutOrStdout(), format, ctrl.Tasks())
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json or yaml")
	return cmd
}

func writeTasks(w io.Writer, format string, tasks []model.Task) error {
	listed := make([]listedTask, len(tasks))
	for i, t := range tasks {
		listed[i] = listedTask{Index: i + 1, Description: t.Description}
	}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(listed)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(listed); err != nil {
			return err
		}
		return enc.Close()
	}

	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks.")
		return nil
	}
	for _, t := range listed {
		formatTask(w, t.Index, t.Description)
	}
	return nil
}

// formatTask prints "{N:>4}  {DESCRIPTION}" with newlines flattened
func formatTask(w io.Writer, num int, description string) {
	description = strings.ReplaceAll(description, "\r", " ")
	description = strings.ReplaceAll(description, "\n", " ")
	if strings.TrimSpace(description) == "" {
		description = "(blank)"
	}
	fmt.Fprintf(w, "%4d  %s\n", num, description)
}
