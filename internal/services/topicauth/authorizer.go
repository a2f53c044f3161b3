package topicauth

import (
	"context"
	"fmt"

	"github.com/mcoot/judgecore/internal/broadcast"
	"github.com/mcoot/judgecore/internal/model"
	"github.com/mcoot/judgecore/internal/services/judge"
	"github.com/mcoot/judgecore/internal/services/scope"
	"github.com/mcoot/judgecore/internal/storage"
	"github.com/mcoot/judgecore/internal/validation"
)

// Authorizer checks subscriptions against the same capabilities that guard
// reading the underlying data over HTTP
type Authorizer struct {
	storage  storage.Storage
	resolver *scope.Resolver
}

// Ensure Authorizer implements broadcast.SubscribeAuthorizer
var _ broadcast.SubscribeAuthorizer = (*Authorizer)(nil)

// New creates a new Authorizer
func New(storage storage.Storage, resolver *scope.Resolver) *Authorizer {
	return &Authorizer{storage: storage, resolver: resolver}
}

// AuthorizeSubscribe admits a subscription when the requester could read what
// the topic carries
func (a *Authorizer) AuthorizeSubscribe(ctx context.Context, req model.Requester, topic string) error {
	if err := broadcast.ValidateTopic(topic); err != nil {
		return err
	}
	family, parts := broadcast.ParseTopic(topic)
	for _, p := range parts {
		if err := validation.ID(p); err != nil {
			return fmt.Errorf("%w: %s", broadcast.ErrInvalidTopic, topic)
		}
	}

	switch {
	case family == broadcast.TopicUser && len(parts) == 1:
		return a.resolver.Assert(ctx, scope.For(req).Subject(model.UserID(parts[0])), model.CapViewUserPMSelf)

	case family == broadcast.TopicRoom && len(parts) == 1:
		return a.roomMember(ctx, req, model.RoomID(parts[0]))

	case family == broadcast.TopicRecord && len(parts) == 1:
		record, err := a.storage.GetRecord(ctx, model.RecordID(parts[0]))
		if err != nil {
			return err
		}
		return a.resolver.AssertAny(ctx, judge.RecordScope(req, record), model.CapViewRecordSelf, model.CapViewRecord)

	case family == broadcast.TopicContest && len(parts) == 1:
		_, err := a.contestScope(ctx, req, model.ContestID(parts[0]))
		return err

	case family == broadcast.TopicContest && len(parts) == 3:
		sc, err := a.contestScope(ctx, req, model.ContestID(parts[0]))
		if err != nil {
			return err
		}
		// One contestant's verdicts: the contestant or contest staff
		return a.resolver.AssertAny(ctx, sc.Subject(model.UserID(parts[2])), model.CapViewRecordSelf, model.CapViewRecord)
	}
	return fmt.Errorf("%w: %s", broadcast.ErrInvalidTopic, topic)
}

// contestScope checks the requester can view the contest and returns its scope
func (a *Authorizer) contestScope(ctx context.Context, req model.Requester, id model.ContestID) (scope.Scope, error) {
	contest, err := a.storage.GetContest(ctx, id)
	if err != nil {
		return scope.Scope{}, err
	}
	sc := scope.For(req).Team(contest.TeamID).Contest(id)
	if err := a.resolver.AssertAny(ctx, sc, model.CapViewContest, model.CapViewContestPublic); err != nil {
		return scope.Scope{}, err
	}
	return sc, nil
}

func (a *Authorizer) roomMember(ctx context.Context, req model.Requester, id model.RoomID) error {
	if req.IsAnonymous() {
		return model.ErrUnauthenticated
	}
	if _, err := a.storage.GetRoom(ctx, id); err != nil {
		return err
	}
	member, err := a.storage.IsRoomMember(ctx, id, req.UserID)
	if err != nil {
		return err
	}
	if !member {
		return model.ErrNotRoomMember
	}
	return nil
}
