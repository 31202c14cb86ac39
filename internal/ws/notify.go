package ws

import (
	"encoding/json"
	"time"

	"acms/internal/domain/project"
	"acms/internal/domain/user"

	"github.com/google/uuid"
)

const EventProjectAssigned = "project_assigned"

type ProjectAssignedEvent struct {
	Type                string      `json:"type"`
	ProjectSlug         string      `json:"project_slug"`
	ProjectName         string      `json:"project_name"`
	StartDate           string      `json:"start_date"`
	EndDate             string      `json:"end_date"`
	DeveloperProfileIDs []uuid.UUID `json:"developer_profile_ids"`
	Timestamp           string      `json:"timestamp"`
}

func NewProjectAssignedEvent(a project.Assignment) ProjectAssignedEvent {
	ids := a.DeveloperProfileIDs
	if ids == nil {
		ids = []uuid.UUID{}
	}
	at := a.AssignedAt
	if at.IsZero() {
		at = time.Now()
	}
	return ProjectAssignedEvent{
		Type:                EventProjectAssigned,
		ProjectSlug:         a.ProjectSlug,
		ProjectName:         a.ProjectName,
		StartDate:           a.StartDate.Format(project.DateLayout),
		EndDate:             a.EndDate.Format(project.DateLayout),
		DeveloperProfileIDs: ids,
		Timestamp:           at.UTC().Format(time.RFC3339),
	}
}

// NotifyProjectAssigned sends the event to admins, project managers and the
// assigned developers.
func (h *Hub) NotifyProjectAssigned(a project.Assignment) error {
	b, err := json.Marshal(NewProjectAssignedEvent(a))
	if err != nil {
		return err
	}

	assigned := make(map[uuid.UUID]bool, len(a.Recipients))
	for _, r := range a.Recipients {
		assigned[r.UserID] = true
	}
	h.Broadcast(b, func(c *Client) bool {
		return c.Role == user.RoleAdmin || c.Role == user.RoleProjectManager || assigned[c.UserID]
	})
	return nil
}
