package team

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/judgecore/internal/dependencies/mocks"
	"github.com/mcoot/judgecore/internal/model"
	"github.com/mcoot/judgecore/internal/services/scope"
	"github.com/mcoot/judgecore/internal/storage/memory"
	"github.com/mcoot/judgecore/internal/testutil"
)

var (
	admin    = model.Requester{UserID: "admin", Role: model.SystemRoleAdmin}
	owner    = model.Requester{UserID: "owner", Role: model.SystemRoleUser}
	manager  = model.Requester{UserID: "manager", Role: model.SystemRoleUser}
	member   = model.Requester{UserID: "member", Role: model.SystemRoleUser}
	stranger = model.Requester{UserID: "stranger", Role: model.SystemRoleUser}
	banned   = model.Requester{UserID: "banned", Role: model.SystemRoleBanned}
)

type ServiceSuite struct {
	suite.Suite
	ctx     context.Context
	store   *memory.Storage
	ids     *mocks.MockIDGen
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.New()
	s.ids = mocks.NewMockIDGen()
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.store, scope.NewResolver(scope.NewStoreLookups(s.store), clk), clk, s.ids, testutil.NopLogger())

	for _, r := range []model.Requester{admin, owner, manager, member, stranger, banned} {
		s.Require().NoError(s.store.SaveUser(s.ctx, &model.User{ID: r.UserID, Username: string(r.UserID), Role: r.Role}))
	}
}

// createTeam makes a team owned by owner with manager as Admin and member as Member
func (s *ServiceSuite) createTeam(id model.TeamID, private bool) *model.Team {
	s.ids.Queue(string(id))
	team, err := s.service.Create(s.ctx, owner, CreateInput{Name: "Team " + string(id), Private: private})
	s.Require().NoError(err)
	s.Require().NoError(s.service.SetMember(s.ctx, owner, id, "manager", model.TeamRoleAdmin))
	s.Require().NoError(s.service.SetMember(s.ctx, owner, id, "member", model.TeamRoleMember))
	return team
}

func (s *ServiceSuite) TestCreateMakesCreatorOwner() {
	team := s.createTeam("t1", false)
	s.Equal(model.UserID("owner"), team.CreatedBy)

	role, err := s.store.GetTeamMemberRole(s.ctx, "t1", "owner")
	s.Require().NoError(err)
	s.Equal(model.TeamRoleOwner, role)
}

func (s *ServiceSuite) TestCreateRequiresOperate() {
	_, err := s.service.Create(s.ctx, banned, CreateInput{Name: "x"})
	s.ErrorIs(err, model.ErrForbidden)

	_, err = s.service.Create(s.ctx, model.Anonymous(), CreateInput{Name: "x"})
	s.ErrorIs(err, model.ErrUnauthenticated)

	_, err = s.service.Create(s.ctx, owner, CreateInput{Name: ""})
	s.ErrorIs(err, model.ErrValidationFailed)
}

func (s *ServiceSuite) TestGetVisibility() {
	s.createTeam("open", false)
	s.createTeam("closed", true)

	tests := []struct {
		name    string
		req     model.Requester
		team    model.TeamID
		wantErr error
	}{
		{"stranger sees public team", stranger, "open", nil},
		{"guest sees public team", model.Anonymous(), "open", nil},
		{"member sees private team", member, "closed", nil},
		{"admin sees private team", admin, "closed", nil},
		{"stranger denied private team", stranger, "closed", model.ErrForbidden},
		{"guest denied private team", model.Anonymous(), "closed", model.ErrUnauthenticated},
		{"unknown team", admin, "missing", model.ErrTeamNotFound},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.service.Get(s.ctx, tt.req, tt.team)
			if tt.wantErr == nil {
				s.NoError(err)
				return
			}
			s.ErrorIs(err, tt.wantErr)
		})
	}
}

func (s *ServiceSuite) TestMembers() {
	s.createTeam("t1", true)

	members, err := s.service.Members(s.ctx, member, "t1")
	s.Require().NoError(err)
	s.Len(members, 3)

	_, err = s.service.Members(s.ctx, stranger, "t1")
	s.ErrorIs(err, model.ErrForbidden)
}

func (s *ServiceSuite) TestSetMemberAccess() {
	s.createTeam("t1", false)

	s.ErrorIs(s.service.SetMember(s.ctx, member, "t1", "stranger", model.TeamRoleMember), model.ErrForbidden)
	s.NoError(s.service.SetMember(s.ctx, manager, "t1", "stranger", model.TeamRoleMember))

	// Team admins cannot touch ownership
	s.ErrorIs(s.service.SetMember(s.ctx, manager, "t1", "stranger", model.TeamRoleOwner), model.ErrForbidden)
	s.ErrorIs(s.service.SetMember(s.ctx, manager, "t1", "owner", model.TeamRoleMember), model.ErrForbidden)

	// System admins can
	s.NoError(s.service.SetMember(s.ctx, admin, "t1", "stranger", model.TeamRoleOwner))
}

func (s *ServiceSuite) TestSetMemberRemoves() {
	s.createTeam("t1", true)

	s.Require().NoError(s.service.SetMember(s.ctx, owner, "t1", "member", model.TeamRoleNone))

	_, err := s.service.Get(s.ctx, member, "t1")
	s.ErrorIs(err, model.ErrForbidden)
}

func (s *ServiceSuite) TestSetMemberUnknownUser() {
	s.createTeam("t1", false)
	s.ErrorIs(s.service.SetMember(s.ctx, owner, "t1", "ghost", model.TeamRoleMember), model.ErrUserNotFound)
}
