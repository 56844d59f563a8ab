package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/benjamonnguyen/timero"
	"github.com/benjamonnguyen/timero/cmd/timero/models"
)

type TasksProvider interface {
	Load(context.Context) error
	Add(title string, estimatedPomodoros int) (timero.ExistingTaskRecord, error)
	Delete(timero.TaskID) error
	Update(timero.TaskID, models.TaskUpdate) (timero.ExistingTaskRecord, error)
	SetActive(timero.Optional[timero.TaskID])
	Complete(timero.TaskID) (timero.ExistingTaskRecord, error)
	// IncrementPomodoro credits the active task, if any.
	IncrementPomodoro() (timero.ExistingTaskRecord, bool)
	Tasks() models.TaskList
}

type tasksProvider struct {
	repo      timero.KVRepo
	stored    storedValue[models.TaskList]
	persister Persister
	clock     clockwork.Clock
	l         *log.Logger

	mu    sync.RWMutex
	tasks models.TaskList
}

func NewTasksProvider(repo timero.KVRepo, persister Persister, clock clockwork.Clock, l *log.Logger) *tasksProvider {
	return &tasksProvider{
		repo: repo,
		stored: storedValue[models.TaskList]{
			repo: repo,
			key:  timero.TasksKey,
			decode: func(data []byte) (models.TaskList, error) {
				var record timero.TasksRecord
				err := json.Unmarshal(data, &record)
				return models.NewTaskList(record), err
			},
			encode: func(l models.TaskList) ([]byte, error) { return json.Marshal(l.Snapshot()) },
			clone:  func(l models.TaskList) models.TaskList { return models.NewTaskList(l.Snapshot()) },
		},
		persister: persister,
		clock:     clock,
		l:         l,
	}
}

func (tp *tasksProvider) Load(ctx context.Context) error {
	data, err := tp.repo.Get(ctx, timero.TasksKey)
	if err != nil {
		if errors.Is(err, timero.ErrNotFound) {
			tp.l.Info("no stored tasks")
			return nil
		}
		return fmt.Errorf("get tasks: %w", err)
	}

	var record timero.TasksRecord
	if err := json.Unmarshal(data, &record); err != nil {
		tp.l.Warn("discarding stored tasks", "err", err)
		record = timero.TasksRecord{}
	}

	tp.mu.Lock()
	tp.tasks = models.NewTaskList(record)
	tp.mu.Unlock()
	tp.l.Info("loaded tasks", "cnt", len(record.Tasks))
	return nil
}

func (tp *tasksProvider) Add(title string, estimatedPomodoros int) (timero.ExistingTaskRecord, error) {
	var task timero.ExistingTaskRecord
	err := tp.mutate("add task", func(l *models.TaskList) (err error) {
		task, err = l.Add(timero.TaskID(uuid.NewString()), title, estimatedPomodoros, tp.clock.Now())
		return err
	})
	return task, err
}

func (tp *tasksProvider) Delete(id timero.TaskID) error {
	return tp.mutate("delete task", func(l *models.TaskList) error {
		_, err := l.Delete(id)
		return err
	})
}

func (tp *tasksProvider) Update(id timero.TaskID, u models.TaskUpdate) (timero.ExistingTaskRecord, error) {
	var task timero.ExistingTaskRecord
	err := tp.mutate("update task", func(l *models.TaskList) (err error) {
		task, err = l.Update(id, u, tp.clock.Now())
		return err
	})
	return task, err
}

func (tp *tasksProvider) SetActive(id timero.Optional[timero.TaskID]) {
	_ = tp.mutate("set active task", func(l *models.TaskList) error {
		l.SetActive(id)
		return nil
	})
}

func (tp *tasksProvider) Complete(id timero.TaskID) (timero.ExistingTaskRecord, error) {
	var task timero.ExistingTaskRecord
	err := tp.mutate("complete task", func(l *models.TaskList) (err error) {
		task, err = l.Complete(id, tp.clock.Now())
		return err
	})
	return task, err
}

func (tp *tasksProvider) IncrementPomodoro() (timero.ExistingTaskRecord, bool) {
	var (
		task     timero.ExistingTaskRecord
		credited bool
	)
	_ = tp.mutate("increment pomodoro", func(l *models.TaskList) error {
		task, credited = l.IncrementPomodoro(tp.clock.Now())
		if !credited {
			return errNoChange
		}
		return nil
	})
	return task, credited
}

func (tp *tasksProvider) Tasks() models.TaskList {
	tp.mu.RLock()
	defer tp.mu.RUnlock()
	return models.NewTaskList(tp.tasks.Snapshot())
}

var errNoChange = errors.New("no change")

// mutate applies fn to the latest stored task list and persists the whole
// aggregate unless fn fails.
func (tp *tasksProvider) mutate(name string, fn func(*models.TaskList) error) error {
	tp.mu.Lock()
	defer tp.mu.Unlock()

	tasks, err := tp.stored.update(tp.persister, tp.l, name, tp.tasks, fn)
	tp.tasks = tasks
	if errors.Is(err, errNoChange) {
		return nil
	}
	return err
}
