package models

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/benjamonnguyen/timero"
)

var ErrTaskNotFound = errors.New("task not found")

// TaskList is the ordered task aggregate with its active pointer.
type TaskList struct {
	record timero.TasksRecord
}

func NewTaskList(record timero.TasksRecord) TaskList {
	return TaskList{record: record}
}

// Snapshot returns a copy that does not share the task slice with l.
func (l TaskList) Snapshot() timero.TasksRecord {
	return timero.TasksRecord{
		Tasks:        slices.Clone(l.record.Tasks),
		ActiveTaskID: l.record.ActiveTaskID,
	}
}

func (l TaskList) indexOf(id timero.TaskID) int {
	return slices.IndexFunc(l.record.Tasks, func(t timero.ExistingTaskRecord) bool {
		return t.ID == id
	})
}

func (l TaskList) Get(id timero.TaskID) (timero.ExistingTaskRecord, bool) {
	i := l.indexOf(id)
	if i < 0 {
		return timero.ExistingTaskRecord{}, false
	}
	return l.record.Tasks[i], true
}

// Add appends a new task. Estimates below one are raised to one.
func (l *TaskList) Add(id timero.TaskID, title string, estimatedPomodoros int, now time.Time) (timero.ExistingTaskRecord, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return timero.ExistingTaskRecord{}, errors.New("provide task title")
	}
	if id == "" {
		return timero.ExistingTaskRecord{}, errors.New("provide task id")
	}

	task := timero.ExistingTaskRecord{
		ExistingRecord: timero.ExistingRecord[timero.TaskID]{
			ID:        id,
			CreatedAt: now,
			UpdatedAt: now,
		},
		TaskRecord: timero.TaskRecord{
			Title:              title,
			EstimatedPomodoros: max(1, estimatedPomodoros),
		},
	}
	l.record.Tasks = append(l.record.Tasks, task)
	return task, nil
}

// Delete removes a task and clears the active pointer if it pointed there.
func (l *TaskList) Delete(id timero.TaskID) (timero.ExistingTaskRecord, error) {
	i := l.indexOf(id)
	if i < 0 {
		return timero.ExistingTaskRecord{}, ErrTaskNotFound
	}
	removed := l.record.Tasks[i]
	l.record.Tasks = slices.Delete(l.record.Tasks, i, i+1)
	if active, ok := l.activeID(); ok && active == id {
		l.record.ActiveTaskID = timero.None[timero.TaskID]()
	}
	return removed, nil
}

// SetActive points at id, or clears the pointer for None. The id is not validated.
func (l *TaskList) SetActive(id timero.Optional[timero.TaskID]) {
	l.record.ActiveTaskID = id
}

func (l TaskList) activeID() (timero.TaskID, bool) {
	if l.record.ActiveTaskID.IsEmpty() {
		return "", false
	}
	return l.record.ActiveTaskID.Get(), true
}

func (l TaskList) ActiveID() timero.Optional[timero.TaskID] {
	return l.record.ActiveTaskID
}

// Active returns the active task, if the pointer resolves to one.
func (l TaskList) Active() (timero.ExistingTaskRecord, bool) {
	id, ok := l.activeID()
	if !ok {
		return timero.ExistingTaskRecord{}, false
	}
	return l.Get(id)
}

// IncrementPomodoro credits the active task with one pomodoro. It reports whether a
// task was credited.
func (l *TaskList) IncrementPomodoro(now time.Time) (timero.ExistingTaskRecord, bool) {
	id, ok := l.activeID()
	if !ok {
		return timero.ExistingTaskRecord{}, false
	}
	i := l.indexOf(id)
	if i < 0 {
		return timero.ExistingTaskRecord{}, false
	}

	task := &l.record.Tasks[i]
	task.CompletedPomodoros++
	task.UpdatedAt = now
	if task.CompletedPomodoros >= task.EstimatedPomodoros && !task.IsCompleted {
		task.IsCompleted = true
		task.CompletedAt = timero.Some(now)
	}
	return *task, true
}

// Complete marks a task done regardless of progress.
func (l *TaskList) Complete(id timero.TaskID, now time.Time) (timero.ExistingTaskRecord, error) {
	i := l.indexOf(id)
	if i < 0 {
		return timero.ExistingTaskRecord{}, ErrTaskNotFound
	}
	task := &l.record.Tasks[i]
	task.IsCompleted = true
	task.CompletedAt = timero.Some(now)
	task.UpdatedAt = now
	return *task, nil
}

type TaskUpdate struct {
	Title              timero.Optional[string]
	EstimatedPomodoros timero.Optional[int]
}

// Update applies the present fields of u.
func (l *TaskList) Update(id timero.TaskID, u TaskUpdate, now time.Time) (timero.ExistingTaskRecord, error) {
	i := l.indexOf(id)
	if i < 0 {
		return timero.ExistingTaskRecord{}, ErrTaskNotFound
	}
	task := &l.record.Tasks[i]
	if !u.Title.IsEmpty() {
		if title := strings.TrimSpace(u.Title.Get()); title != "" {
			task.Title = title
		}
	}
	if !u.EstimatedPomodoros.IsEmpty() {
		task.EstimatedPomodoros = max(1, u.EstimatedPomodoros.Get())
	}
	task.UpdatedAt = now
	return *task, nil
}

func (l TaskList) All() []timero.ExistingTaskRecord {
	return slices.Clone(l.record.Tasks)
}

func (l TaskList) Incomplete() []timero.ExistingTaskRecord {
	return l.filter(func(t timero.ExistingTaskRecord) bool { return !t.IsCompleted })
}

func (l TaskList) Completed() []timero.ExistingTaskRecord {
	return l.filter(func(t timero.ExistingTaskRecord) bool { return t.IsCompleted })
}

func (l TaskList) filter(keep func(timero.ExistingTaskRecord) bool) []timero.ExistingTaskRecord {
	var out []timero.ExistingTaskRecord
	for _, t := range l.record.Tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}
