package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/clive/forget-me-not/internal/controller"
	"github.com/clive/forget-me-not/internal/exitcode"
)

func newRmCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <number>",
		Short: "Delete the task with the given list number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			num, err := strconv.Atoi(args[0])
			if err != nil {
				return withCode(exitcode.UserError, fmt.Errorf("invalid task number %q", args[0]))
			}
			return headless(opts, cmd.ErrOrStderr(), func(ctrl *controller.Controller) error {
				p, err := ctrl.SelectTask(num - 1)
				if err != nil {
					return withCode(exitcode.UserError, fmt.Errorf("no task %d: %w", num, err))
				}
				if _, err := ctrl.ConfirmDelete(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted: %s\n", p.Description)
				return nil
			})
		},
	}
}
