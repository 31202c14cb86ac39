package notification

import (
	"context"
	"fmt"

	"acms/internal/domain/project"
	"acms/internal/infrastructure/mailer"
	"acms/internal/worker"

	"go.uber.org/zap"
)

type Submitter interface {
	Submit(name string, t worker.Task) error
}

type Broadcaster interface {
	NotifyProjectAssigned(a project.Assignment) error
}

// AssignmentNotifier fans an assignment out to one email per developer and a
// websocket event, all off the request path.
type AssignmentNotifier struct {
	pool        Submitter
	mail        mailer.Sender
	hub         Broadcaster
	frontendURL string
	logger      *zap.Logger
}

func NewAssignmentNotifier(pool Submitter, mail mailer.Sender, hub Broadcaster, frontendURL string, logger *zap.Logger) *AssignmentNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentNotifier{pool: pool, mail: mail, hub: hub, frontendURL: frontendURL, logger: logger}
}

func (n *AssignmentNotifier) ProjectAssigned(_ context.Context, a project.Assignment) {
	if n == nil || n.pool == nil {
		return
	}

	if n.mail != nil {
		for _, r := range a.Recipients {
			name := fmt.Sprintf("assignment-email:%s:%s", a.ProjectSlug, r.DeveloperProfileID)
			err := n.pool.Submit(name, func(ctx context.Context) error {
				msg, err := mailer.Assignment(r.Email, mailer.AssignmentData{
					FirstName:   r.FirstName,
					ProjectName: a.ProjectName,
					StartDate:   a.StartDate.Format(project.DateLayout),
					EndDate:     a.EndDate.Format(project.DateLayout),
					Link:        fmt.Sprintf("%s/%s/projects/", n.frontendURL, r.UserID),
				})
				if err != nil {
					return err
				}
				return n.mail.Send(ctx, msg)
			})
			if err != nil {
				n.logger.Warn("assignment email not queued", zap.String("project", a.ProjectSlug), zap.String("to", r.Email), zap.Error(err))
			}
		}
	}

	if n.hub != nil {
		err := n.pool.Submit("assignment-event:"+a.ProjectSlug, func(context.Context) error {
			return n.hub.NotifyProjectAssigned(a)
		})
		if err != nil {
			n.logger.Warn("assignment event not queued", zap.String("project", a.ProjectSlug), zap.Error(err))
		}
	}
}
