package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clive/forget-me-not/internal/controller"
	"github.com/clive/forget-me-not/internal/exitcode"
	"github.com/clive/forget-me-not/internal/model"
)

func newAddCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <description>...",
		Short: "Append a task",
		Long: `Append a task. Multiple arguments are joined with spaces.

Commas are stored as-is and split the task into several on the next load.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			description := strings.Join(args, " ")
			return headless(opts, cmd.ErrOrStderr(), func(ctrl *controller.Controller) error {
				if _, err := ctrl.AddTask(description); err != nil {
					if errors.Is(err, model.ErrEmptyDescription) {
						return withCode(exitcode.UserError, err)
					}
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added task %d\n", ctrl.Len())
				return nil
			})
		},
	}
}
