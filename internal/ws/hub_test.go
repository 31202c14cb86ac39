package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"acms/internal/domain/project"
	"acms/internal/domain/user"

	"github.com/google/uuid"
)

func testClient(h *Hub, role user.Role) *Client {
	return &Client{UserID: uuid.New(), Role: role, hub: h, send: make(chan []byte, 4)}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met in time")
}

func receive(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case msg := <-c.send:
		return msg
	case <-time.After(time.Second):
		t.Fatalf("no message for %v", c.Role)
		return nil
	}
}

func TestNotifyProjectAssignedAudience(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := NewHub(nil)
	go h.Run(ctx)

	admin := testClient(h, user.RoleAdmin)
	pm := testClient(h, user.RoleProjectManager)
	assignedDev := testClient(h, user.RoleDeveloper)
	otherDev := testClient(h, user.RoleDeveloper)
	for _, c := range []*Client{admin, pm, assignedDev, otherDev} {
		h.Register(c)
	}
	waitFor(t, func() bool { return h.ClientCount() == 4 })

	profileID := uuid.New()
	a := project.Assignment{
		ProjectSlug:         "payroll",
		ProjectName:         "Payroll",
		StartDate:           time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		EndDate:             time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC),
		DeveloperProfileIDs: []uuid.UUID{profileID},
		Recipients:          []project.Recipient{{DeveloperProfileID: profileID, UserID: assignedDev.UserID}},
	}
	if err := h.NotifyProjectAssigned(a); err != nil {
		t.Fatalf("notify: %v", err)
	}

	for _, c := range []*Client{admin, pm, assignedDev} {
		var evt ProjectAssignedEvent
		if err := json.Unmarshal(receive(t, c), &evt); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if evt.Type != EventProjectAssigned || evt.ProjectSlug != "payroll" || evt.StartDate != "2024-05-01" {
			t.Fatalf("unexpected event: %+v", evt)
		}
		if len(evt.DeveloperProfileIDs) != 1 || evt.DeveloperProfileIDs[0] != profileID {
			t.Fatalf("unexpected profile ids: %v", evt.DeveloperProfileIDs)
		}
	}

	select {
	case msg := <-otherDev.send:
		t.Fatalf("unassigned developer should not receive the event: %s", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubUnregisterClosesSend(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := NewHub(nil)
	go h.Run(ctx)

	c := testClient(h, user.RoleAdmin)
	h.Register(c)
	waitFor(t, func() bool { return h.ClientCount() == 1 })

	h.Unregister(c)
	waitFor(t, func() bool { return h.ClientCount() == 0 })
	if _, ok := <-c.send; ok {
		t.Fatalf("expected send channel to be closed")
	}
}
