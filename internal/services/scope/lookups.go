package scope

import (
	"context"
	"fmt"
	"time"

	"github.com/mcoot/judgecore/internal/model"
	"github.com/mcoot/judgecore/internal/storage"
)

// Lookups are the reads the resolver needs from persistence.
// Role lookups return the None role for non-members and a not-found error for unknown entities.
type Lookups interface {
	TeamRole(ctx context.Context, teamID model.TeamID, userID model.UserID) (model.TeamRole, error)
	ContestRole(ctx context.Context, contestID model.ContestID, userID model.UserID) (model.ContestRole, error)
	ContestTiming(ctx context.Context, contestID model.ContestID) (begin, end time.Time, err error)
	Privacy(ctx context.Context, resource Resource) (bool, error)
}

// StoreLookups implements Lookups over a Storage
type StoreLookups struct {
	store storage.Storage
}

// Ensure StoreLookups implements Lookups
var _ Lookups = (*StoreLookups)(nil)

// NewStoreLookups creates lookups backed by store
func NewStoreLookups(store storage.Storage) *StoreLookups {
	return &StoreLookups{store: store}
}

func (l *StoreLookups) TeamRole(ctx context.Context, teamID model.TeamID, userID model.UserID) (model.TeamRole, error) {
	return l.store.GetTeamMemberRole(ctx, teamID, userID)
}

func (l *StoreLookups) ContestRole(ctx context.Context, contestID model.ContestID, userID model.UserID) (model.ContestRole, error) {
	return l.store.GetParticipantRole(ctx, contestID, userID)
}

func (l *StoreLookups) ContestTiming(ctx context.Context, contestID model.ContestID) (time.Time, time.Time, error) {
	contest, err := l.store.GetContest(ctx, contestID)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return contest.BeginTime, contest.EndTime, nil
}

func (l *StoreLookups) Privacy(ctx context.Context, resource Resource) (bool, error) {
	switch resource.Kind {
	case ResourceTeam:
		team, err := l.store.GetTeam(ctx, model.TeamID(resource.ID))
		if err != nil {
			return false, err
		}
		return team.Private, nil
	case ResourceContest:
		contest, err := l.store.GetContest(ctx, model.ContestID(resource.ID))
		if err != nil {
			return false, err
		}
		return contest.Private, nil
	case ResourceProblem:
		problem, err := l.store.GetProblem(ctx, model.ProblemID(resource.ID))
		if err != nil {
			return false, err
		}
		return problem.Private, nil
	case ResourceRoom:
		room, err := l.store.GetRoom(ctx, model.RoomID(resource.ID))
		if err != nil {
			return false, err
		}
		return room.Private, nil
	}
	return false, fmt.Errorf("%w: unknown resource kind %q", model.ErrValidationFailed, resource.Kind)
}
