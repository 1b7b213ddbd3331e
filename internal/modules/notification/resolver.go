package notification

import (
	"context"
	"regexp"

	"taskboard/internal/domain"
)

// mention pattern is a cosmetic classification only; no check that the
// handle matches an actual participant.
var mentionRe = regexp.MustCompile(`@\w+`)

// Event describes something that just happened and may need fan-out.
// Which fields matter depends on Type.
type Event struct {
	Type        domain.NotificationType
	ActorID     int64
	TargetID    int64 // direct-target events: the single affected user
	WorkspaceID int64
	ThreadID    int64
	AssigneeID  int64 // status-change events
	CreatorID   int64 // status-change events
	Body        string // message events: raw body, used for mention detection
}

// Resolver turns an event into a deduplicated, actor-excluded recipient set.
type Resolver struct {
	workspaces WorkspaceReader
	threads    ThreadReader
}

func NewResolver(workspaces WorkspaceReader, threads ThreadReader) *Resolver {
	return &Resolver{workspaces: workspaces, threads: threads}
}

// Resolve returns the recipient ids and the final notification type. The
// type differs from ev.Type only for the mention upgrade. An empty result
// with a nil error means "no one to notify".
func (r *Resolver) Resolve(ctx context.Context, ev Event) ([]int64, domain.NotificationType, error) {
	typ := ev.Type

	var candidates []int64
	switch ev.Type {
	case domain.NotifTaskAssigned, domain.NotifWorkspaceRemoved, domain.NotifWorkspaceInvite:
		// direct-target: a single affected user
		if ev.TargetID != 0 {
			candidates = []int64{ev.TargetID}
		}

	case domain.NotifTaskCreated:
		// ownership-notification: workspace owners and admins
		ids, err := r.workspaces.GetAdminIDs(ctx, ev.WorkspaceID)
		if err != nil {
			return nil, typ, err
		}
		candidates = ids

	case domain.NotifTaskUpdate:
		// status-change: assignee and creator
		candidates = []int64{ev.AssigneeID, ev.CreatorID}

	case domain.NotifMessageNew, domain.NotifMessageMention:
		ids, err := r.threads.GetParticipantIDs(ctx, ev.ThreadID)
		if err != nil {
			return nil, typ, err
		}
		if len(ids) == 0 {
			// public thread: fall back to full workspace membership
			ids, err = r.workspaces.GetMemberIDs(ctx, ev.WorkspaceID)
			if err != nil {
				return nil, typ, err
			}
		}
		candidates = ids

		if typ == domain.NotifMessageNew && mentionRe.MatchString(ev.Body) {
			typ = domain.NotifMessageMention
		}
	}

	return dedupeExcluding(candidates, ev.ActorID), typ, nil
}

// dedupeExcluding drops duplicates, zero ids and the actor itself.
func dedupeExcluding(ids []int64, actorID int64) []int64 {
	out := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if id == 0 || id == actorID {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
