package scheduler

import (
	"encoding/json"

	"github.com/ASEODA/narashop-estimate/internal/history/repository"

	"github.com/hibiken/asynq"
)

const TaskHistoryAppend = "history.append"

func NewHistoryAppendTask(entry repository.Entry) (*asynq.Task, error) {
	data, err := json.Marshal(entry)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskHistoryAppend, data), nil
}

func ParseHistoryAppendPayload(task *asynq.Task) (repository.Entry, error) {
	var entry repository.Entry
	if err := json.Unmarshal(task.Payload(), &entry); err != nil {
		return repository.Entry{}, err
	}
	return entry, nil
}
