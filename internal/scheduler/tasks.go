package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskAcquisitionRun = "leads.acquire"

const TaskQualificationRun = "leads.qualify"

const TaskOutreachSend = "leads.send"

const TaskInboxPoll = "inbox.poll"

type AcquisitionRunPayload struct {
	StartPage int `json:"startPage"`
	PageCount int `json:"pageCount"`
}

type QualificationRunPayload struct {
	Limit int `json:"limit"`
}

type OutreachSendPayload struct {
	Limit  int  `json:"limit"`
	DryRun bool `json:"dryRun"`
}

func NewAcquisitionRunTask(payload AcquisitionRunPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAcquisitionRun, data), nil
}

func ParseAcquisitionRunPayload(task *asynq.Task) (AcquisitionRunPayload, error) {
	var payload AcquisitionRunPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return AcquisitionRunPayload{}, err
	}
	return payload, nil
}

func NewQualificationRunTask(payload QualificationRunPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskQualificationRun, data), nil
}

func ParseQualificationRunPayload(task *asynq.Task) (QualificationRunPayload, error) {
	var payload QualificationRunPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return QualificationRunPayload{}, err
	}
	return payload, nil
}

func NewOutreachSendTask(payload OutreachSendPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOutreachSend, data), nil
}

func ParseOutreachSendPayload(task *asynq.Task) (OutreachSendPayload, error) {
	var payload OutreachSendPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return OutreachSendPayload{}, err
	}
	return payload, nil
}

func NewInboxPollTask() *asynq.Task {
	return asynq.NewTask(TaskInboxPoll, nil)
}
