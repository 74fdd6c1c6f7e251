package cmd

import (
	stderrors "errors"
	"io/fs"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/taskflow/internal/errors"
	"github.com/felixgeelhaar/taskflow/internal/scheduler"
	"github.com/felixgeelhaar/taskflow/internal/ux"
)

func newScheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Order the tasks in a file by their dependencies",
		Long: `Read tasks from a YAML or JSON file and print them in an order where
every task comes after the tasks it depends on. Tasks that are ready at the
same time keep their order from the file. Dependencies on tasks that are not
in the file are ignored with a warning.

The file has the same shape as the API request body:

  tasks:
    - title: Design
      estimatedHours: 3
    - title: Build
      dependencies: [Design]

Exit codes: 0 ordered, 2 invalid file, 3 dependency cycle, 4 file missing.`,
		Example: `  taskflow schedule -f tasks.yaml
  taskflow schedule -f tasks.json --format json`,
		Args: cobra.NoArgs,
		RunE: runSchedule,
	}
	cmd.Flags().StringP("file", "f", "", "task file (.yaml, .yml or .json)")
	cmd.Flags().String("format", "text", "output format: "+strings.Join(ux.Formats, ", "))
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	path, _ := cmd.Flags().GetString("file")
	format, _ := cmd.Flags().GetString("format")

	formatter, err := ux.NewFormatter(format, &ux.FormatterOptions{Writer: cc.Out, NoColor: cc.NoColor})
	if err != nil {
		return errors.Wrap(errors.ErrCodeBadRequest, err.Error(), err)
	}

	tasks, err := scheduler.LoadTasks(path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return errors.NewTaskFileNotFoundError(path)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeScheduleInvalid, "invalid task file "+path, err).
			WithSuggestion("Every task needs a unique, non-empty title").
			WithSuggestion("estimatedHours must not be negative")
	}

	schedule, err := scheduler.Resolve(tasks)
	if scheduler.IsCycle(err) {
		return errors.NewCycleDetectedError(err)
	}
	if err != nil {
		return errors.NewScheduleInvalidError(err)
	}

	return formatter.Format(ux.NewScheduleReport(tasks, schedule))
}
