package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/benjamonnguyen/timero"
	"github.com/benjamonnguyen/timero/cmd/timero/models"
	"github.com/benjamonnguyen/timero/cmd/timero/ui"
)

var (
	taskEstimate  int
	taskListAll   bool
	taskNewTitle  string
	taskClear     bool
	errAmbiguous  = errors.New("ambiguous task reference")
	errInvalidRef = errors.New("invalid task reference")
)

var taskCmd = &cobra.Command{
	Use:     "task",
	Aliases: []string{"tasks"},
	Short:   "Manage the task list",
	Long: `Manage the task list.

Tasks are referenced by their list number or by a prefix of their ID.
Completed focus sessions are credited to the active task.

Running bare 'timero task' is the same as 'timero task list'.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(_ context.Context, a *app) error {
			return taskListRun(a, false)
		})
	},
}

var taskAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a task",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(_ context.Context, a *app) error {
			return taskAddRun(a, strings.Join(args, " "), taskEstimate)
		})
	},
}

var taskListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(_ context.Context, a *app) error {
			return taskListRun(a, taskListAll)
		})
	},
}

var taskRmCmd = &cobra.Command{
	Use:   "rm <task>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(_ context.Context, a *app) error {
			return taskRmRun(a, args[0])
		})
	},
}

var taskDoneCmd = &cobra.Command{
	Use:   "done <task>",
	Short: "Mark a task completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(_ context.Context, a *app) error {
			return taskDoneRun(a, args[0])
		})
	},
}

var taskActiveCmd = &cobra.Command{
	Use:   "active [task]",
	Short: "Show or set the task credited with focus sessions",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(_ context.Context, a *app) error {
			ref := ""
			if len(args) == 1 {
				ref = args[0]
			}
			return taskActiveRun(a, ref, taskClear)
		})
	},
}

var taskEditCmd = &cobra.Command{
	Use:   "edit <task>",
	Short: "Change a task's title or estimate",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(_ context.Context, a *app) error {
			var u models.TaskUpdate
			if cmd.Flags().Changed("title") {
				u.Title = timero.Some(taskNewTitle)
			}
			if cmd.Flags().Changed("estimate") {
				u.EstimatedPomodoros = timero.Some(taskEstimate)
			}
			return taskEditRun(a, args[0], u)
		})
	},
}

func init() {
	taskAddCmd.Flags().IntVarP(&taskEstimate, "estimate", "e", 1, "Estimated pomodoros")
	taskListCmd.Flags().BoolVarP(&taskListAll, "all", "a", false, "Include completed tasks")
	taskActiveCmd.Flags().BoolVar(&taskClear, "clear", false, "Clear the active task")
	taskEditCmd.Flags().StringVar(&taskNewTitle, "title", "", "New title")
	taskEditCmd.Flags().IntVarP(&taskEstimate, "estimate", "e", 1, "New estimate")

	taskCmd.AddCommand(taskAddCmd, taskListCmd, taskRmCmd, taskDoneCmd, taskActiveCmd, taskEditCmd)
	rootCmd.AddCommand(taskCmd)
}

// resolveTask finds a task by 1-based list number or unique ID prefix.
func resolveTask(list models.TaskList, ref string) (timero.ExistingTaskRecord, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return timero.ExistingTaskRecord{}, errInvalidRef
	}
	all := list.All()
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(all) {
			return timero.ExistingTaskRecord{}, fmt.Errorf("%w: no task #%d", errInvalidRef, n)
		}
		return all[n-1], nil
	}

	var found []timero.ExistingTaskRecord
	for _, t := range all {
		if strings.HasPrefix(string(t.ID), ref) {
			found = append(found, t)
		}
	}
	switch len(found) {
	case 0:
		return timero.ExistingTaskRecord{}, fmt.Errorf("%w: %s", models.ErrTaskNotFound, ref)
	case 1:
		return found[0], nil
	}
	return timero.ExistingTaskRecord{}, fmt.Errorf("%w: %s matches %d tasks", errAmbiguous, ref, len(found))
}

func shortID(id timero.TaskID) string {
	s := string(id)
	if len(s) > 8 {
		return s[:8]
	}
	return s
}

func taskAddRun(a *app, title string, estimate int) error {
	t, err := a.tasks.Add(title, estimate)
	if err != nil {
		return err
	}
	console.Success("Added %q (%s, %d pomodoros)", t.Title, shortID(t.ID), t.EstimatedPomodoros)
	return nil
}

func taskListRun(a *app, all bool) error {
	list := a.tasks.Tasks()
	if len(list.All()) == 0 {
		console.Info("No tasks. Add one with 'timero task add <title>'")
		return nil
	}

	activeID := list.ActiveID()
	table := console.Table([]string{"#", "ID", "Title", "Pomodoros", "Status"})
	for i, t := range list.All() {
		if t.IsCompleted && !all {
			continue
		}
		status := "open"
		switch {
		case t.IsCompleted:
			status = ui.Faint("done")
		case activeID.OrElse("") == t.ID:
			status = ui.Bold("active")
		}
		_ = table.Append([]string{
			strconv.Itoa(i + 1),
			shortID(t.ID),
			t.Title,
			fmt.Sprintf("%d/%d", t.CompletedPomodoros, t.EstimatedPomodoros),
			status,
		})
	}
	if err := table.Render(); err != nil {
		return err
	}
	if n := len(list.Completed()); n > 0 && !all {
		console.VerboseLog("%d completed tasks hidden (use --all)", n)
	}
	return nil
}

func taskRmRun(a *app, ref string) error {
	t, err := resolveTask(a.tasks.Tasks(), ref)
	if err != nil {
		return err
	}
	if err := a.tasks.Delete(t.ID); err != nil {
		return err
	}
	console.Success("Deleted %q", t.Title)
	return nil
}

func taskDoneRun(a *app, ref string) error {
	t, err := resolveTask(a.tasks.Tasks(), ref)
	if err != nil {
		return err
	}
	t, err = a.tasks.Complete(t.ID)
	if err != nil {
		return err
	}
	console.Success("Completed %q after %d pomodoros", t.Title, t.CompletedPomodoros)
	return nil
}

func taskActiveRun(a *app, ref string, clearActive bool) error {
	if clearActive {
		a.tasks.SetActive(timero.None[timero.TaskID]())
		console.Success("Cleared active task")
		return nil
	}
	if ref == "" {
		if t, ok := a.tasks.Tasks().Active(); ok {
			console.Info("Active: %q (%d/%d pomodoros)", t.Title, t.CompletedPomodoros, t.EstimatedPomodoros)
		} else {
			console.Info("No active task")
		}
		return nil
	}

	t, err := resolveTask(a.tasks.Tasks(), ref)
	if err != nil {
		return err
	}
	if t.IsCompleted {
		return fmt.Errorf("task %q is already completed", t.Title)
	}
	a.tasks.SetActive(timero.Some(t.ID))
	console.Success("Active task: %q", t.Title)
	return nil
}

func taskEditRun(a *app, ref string, u models.TaskUpdate) error {
	t, err := resolveTask(a.tasks.Tasks(), ref)
	if err != nil {
		return err
	}
	t, err = a.tasks.Update(t.ID, u)
	if err != nil {
		return err
	}
	console.Success("Updated %q (%d pomodoros)", t.Title, t.EstimatedPomodoros)
	return nil
}
