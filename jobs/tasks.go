package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSendEmail is the task type for sending transactional emails.
	TaskTypeSendEmail = "mail:send"
	// TaskRoleChanged tells a user their access level changed.
	TaskRoleChanged = "roles:notify"
	// TaskCentersWarmup refills the directory cache.
	TaskCentersWarmup = "centers:warm"
)

// SendEmailPayload describes the information required to send an email.
type SendEmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// RoleChangedPayload identifies the user whose role changed.
type RoleChangedPayload struct {
	UserID     int64  `json:"user_id"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	CenterName string `json:"center_name,omitempty"`
}

// CentersWarmupPayload carries no options yet; it keeps the task shape stable.
type CentersWarmupPayload struct {
	Reason string `json:"reason,omitempty"`
}

// NewSendEmailTask constructs an Asynq task.
func NewSendEmailTask(payload SendEmailPayload) (*asynq.Task, error) {
	return newTask(TaskTypeSendEmail, payload)
}

// NewRoleChangedTask constructs a role notification task.
func NewRoleChangedTask(payload RoleChangedPayload) (*asynq.Task, error) {
	return newTask(TaskRoleChanged, payload)
}

// NewCentersWarmupTask constructs a cache warmup task.
func NewCentersWarmupTask(reason string) (*asynq.Task, error) {
	return newTask(TaskCentersWarmup, CentersWarmupPayload{Reason: reason})
}

func newTask(kind string, payload any) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(kind, data), nil
}
