package ux

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/felixgeelhaar/taskflow/internal/scheduler"
)

// ScheduledTask is one row of a printed schedule.
type ScheduledTask struct {
	Position       int        `json:"position" yaml:"position"`
	Title          string     `json:"title" yaml:"title"`
	EstimatedHours *int       `json:"estimatedHours,omitempty" yaml:"estimatedHours,omitempty"`
	DueDate        *time.Time `json:"dueDate,omitempty" yaml:"dueDate,omitempty"`
}

// ScheduleReport is the result of the schedule command.
type ScheduleReport struct {
	RecommendedOrder []string        `json:"recommendedOrder" yaml:"recommendedOrder"`
	Tasks            []ScheduledTask `json:"tasks" yaml:"tasks"`
	TotalHours       int             `json:"totalHours" yaml:"totalHours"`
	Warnings         []string        `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// NewScheduleReport joins a resolved order back to the submitted tasks.
func NewScheduleReport(tasks []scheduler.Task, schedule *scheduler.Schedule) *ScheduleReport {
	byID := make(map[string]scheduler.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	report := &ScheduleReport{
		RecommendedOrder: append([]string{}, schedule.Order...),
		Tasks:            make([]ScheduledTask, 0, len(schedule.Order)),
	}
	for i, id := range schedule.Order {
		t := byID[id]
		report.Tasks = append(report.Tasks, ScheduledTask{
			Position:       i + 1,
			Title:          id,
			EstimatedHours: t.EstimatedHours,
			DueDate:        t.DueDate,
		})
		if t.EstimatedHours != nil {
			report.TotalHours += *t.EstimatedHours
		}
	}

	for _, d := range scheduler.DanglingReferences(tasks) {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("%q depends on unknown task %q (ignored)", d.Task, d.Dependency))
	}
	return report
}

// RenderText prints the schedule as a table followed by any warnings.
func (r *ScheduleReport) RenderText(w io.Writer, styles Styles) error {
	if len(r.Tasks) == 0 {
		_, err := fmt.Fprintln(w, styles.Muted.Render("No tasks to schedule."))
		return err
	}

	if _, err := fmt.Fprintln(w, styles.Heading.Render("Recommended order")); err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"#", "Title", "Estimate", "Due"})
	for _, task := range r.Tasks {
		t.AppendRow(table.Row{task.Position, task.Title, formatHours(task.EstimatedHours), formatDue(task.DueDate)})
	}
	t.AppendFooter(table.Row{"", "Total", strconv.Itoa(r.TotalHours) + "h", ""})
	t.Render()

	for _, warning := range r.Warnings {
		if _, err := fmt.Fprintln(w, styles.Warning.Render("warning: "+warning)); err != nil {
			return err
		}
	}
	return nil
}

func formatHours(h *int) string {
	if h == nil {
		return "-"
	}
	return strconv.Itoa(*h) + "h"
}

func formatDue(d *time.Time) string {
	if d == nil {
		return "-"
	}
	return d.Format("2006-01-02")
}
