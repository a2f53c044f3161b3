package broadcast

import (
	"context"

	"github.com/mcoot/judgecore/internal/model"
)

// SubscribeAuthorizer decides whether a requester may subscribe to a topic.
// Publication is always authorized by the writer; this is an optional second gate.
type SubscribeAuthorizer interface {
	AuthorizeSubscribe(ctx context.Context, requester model.Requester, topic string) error
}

// AllowAll admits every subscription. Topic names are not secrets, so with this
// authorizer a client that learns a topic name can listen to it.
type AllowAll struct{}

func (AllowAll) AuthorizeSubscribe(context.Context, model.Requester, string) error {
	return nil
}
