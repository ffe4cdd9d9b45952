package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/centersguide/centersguide/internal/jobs"
	"github.com/centersguide/centersguide/internal/roles"
)

// RoleNotifyJob emails users when an administrator changes their role.
type RoleNotifyJob struct {
	Mailer  Mailer
	SiteURL string
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// Handle processes TaskRoleChanged tasks.
func (j *RoleNotifyJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Mailer == nil {
		return errors.New("role notify: mailer not configured")
	}
	var payload RoleChangedPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil || payload.Email == "" {
		return asynq.SkipRetry
	}
	tracker := j.Metrics.Track(TaskRoleChanged)
	msg := RoleChangedEmail(payload, j.SiteURL)
	if err := j.Mailer.Send(ctx, msg); err != nil {
		return tracker.End(fmt.Errorf("role notify %d: %w", payload.UserID, err))
	}
	j.Metrics.EmailSent("role_changed")
	if j.Logger != nil {
		j.Logger.Info("role change emailed", slog.Int64("user_id", payload.UserID), slog.String("role", payload.Role))
	}
	return tracker.End(nil)
}

// RoleChangedEmail renders the notification for payload.
func RoleChangedEmail(payload RoleChangedPayload, siteURL string) SendEmailPayload {
	siteURL = strings.TrimRight(siteURL, "/")
	var body strings.Builder
	switch roles.Role(payload.Role) {
	case roles.SuperAdmin:
		body.WriteString("You are now a site administrator.\n\n")
		fmt.Fprintf(&body, "Sign in at %s/admin/login to manage centers and roles.\n", siteURL)
	case roles.CenterAdmin:
		center := payload.CenterName
		if center == "" {
			center = "your center"
		}
		fmt.Fprintf(&body, "You can now manage %s.\n\n", center)
		fmt.Fprintf(&body, "Sign in at %s/center/login to edit its profile, teachers and timetable.\n", siteURL)
	default:
		body.WriteString("Your administrator access was removed.\n")
	}
	return SendEmailPayload{
		To:      payload.Email,
		Subject: "Your Centers Guide access changed",
		Body:    body.String(),
	}
}

// RoleEnqueuer queues role notifications.
type RoleEnqueuer interface {
	EnqueueRoleChanged(ctx context.Context, payload RoleChangedPayload) (*asynq.TaskInfo, error)
}

// RoleNotifier adapts the queue to roles.Notifier.
type RoleNotifier struct {
	queue RoleEnqueuer
}

// NewRoleNotifier builds a RoleNotifier.
func NewRoleNotifier(queue RoleEnqueuer) *RoleNotifier {
	return &RoleNotifier{queue: queue}
}

// RoleChanged implements roles.Notifier.
func (n *RoleNotifier) RoleChanged(ctx context.Context, a roles.Assignment) error {
	if n == nil || n.queue == nil {
		return nil
	}
	_, err := n.queue.EnqueueRoleChanged(ctx, RoleChangedPayload{
		UserID:     a.UserID,
		Email:      a.Email,
		Role:       a.Role.String(),
		CenterName: a.CenterName,
	})
	return err
}

var _ roles.Notifier = (*RoleNotifier)(nil)
