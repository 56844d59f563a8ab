package timero

import "time"

type TaskRecord struct {
	Title              string              `json:"title"`
	EstimatedPomodoros int                 `json:"estimatedPomodoros"`
	CompletedPomodoros int                 `json:"completedPomodoros"`
	IsCompleted        bool                `json:"isCompleted"`
	CompletedAt        Optional[time.Time] `json:"completedAt"`
}

type ExistingTaskRecord struct {
	ExistingRecord[TaskID]
	TaskRecord
}

type TasksRecord struct {
	Tasks        []ExistingTaskRecord `json:"tasks"`
	ActiveTaskID Optional[TaskID]     `json:"activeTaskId"`
}
