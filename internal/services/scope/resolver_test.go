package scope

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/judgecore/internal/dependencies/mocks"
	"github.com/mcoot/judgecore/internal/model"
	"github.com/mcoot/judgecore/internal/storage/memory"
)

var (
	suReq       = model.Requester{UserID: "root", Role: model.SystemRoleSu}
	adminReq    = model.Requester{UserID: "admin", Role: model.SystemRoleAdmin}
	userReq     = model.Requester{UserID: "user", Role: model.SystemRoleUser}
	bannedReq   = model.Requester{UserID: "banned", Role: model.SystemRoleBanned}
	strangerReq = model.Requester{UserID: "stranger", Role: model.SystemRoleUser}
	guestReq    = model.Anonymous()
)

type ResolverSuite struct {
	suite.Suite
	store    *memory.Storage
	clock    *mocks.MockClock
	resolver *Resolver
	ctx      context.Context
	begin    time.Time
}

func TestResolverSuite(t *testing.T) {
	suite.Run(t, new(ResolverSuite))
}

func (s *ResolverSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.New()
	s.begin = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.clock = mocks.NewMockClock(s.begin.Add(30 * time.Minute))
	s.resolver = NewResolver(NewStoreLookups(s.store), s.clock)

	s.Require().NoError(s.store.SaveTeam(s.ctx, &model.Team{ID: "team-1", Name: "Org"}))
	s.Require().NoError(s.store.SetTeamMember(s.ctx, "team-1", "owner", model.TeamRoleOwner))

	for _, c := range []struct {
		id      model.ContestID
		private bool
	}{{"public", false}, {"private", true}} {
		s.Require().NoError(s.store.SaveContest(s.ctx, &model.Contest{
			ID:        c.id,
			TeamID:    "team-1",
			Private:   c.private,
			BeginTime: s.begin,
			EndTime:   s.begin.Add(time.Hour),
		}))
	}

	// user and banned participate in the private contest, stranger does not
	s.Require().NoError(s.store.SetParticipant(s.ctx, "private", "user", model.ContestRoleContestant))
	s.Require().NoError(s.store.SetParticipant(s.ctx, "private", "banned", model.ContestRoleJury))
}

func (s *ResolverSuite) canView(r model.Requester, id model.ContestID) bool {
	ok, err := s.resolver.Check(s.ctx, For(r).Team("team-1").Contest(id), model.CapViewContest)
	s.Require().NoError(err)
	if ok {
		return true
	}
	ok, err = s.resolver.Check(s.ctx, For(r).Team("team-1").Contest(id), model.CapViewContestPublic)
	s.Require().NoError(err)
	return ok
}

func (s *ResolverSuite) TestContestVisibilityInEveryPhase() {
	phases := map[string]time.Time{
		"pending": s.begin.Add(-time.Hour),
		"running": s.begin.Add(time.Minute),
		"ended":   s.begin.Add(2 * time.Hour),
	}

	for name, at := range phases {
		s.Run(name, func() {
			s.clock.Set(at)

			for _, r := range []model.Requester{suReq, adminReq, userReq, bannedReq, strangerReq, guestReq} {
				s.True(s.canView(r, "public"), "%s on public", r.UserID)
			}

			s.True(s.canView(suReq, "private"))
			s.True(s.canView(adminReq, "private"))
			s.True(s.canView(userReq, "private"))
			s.True(s.canView(bannedReq, "private"))
			s.False(s.canView(strangerReq, "private"))
			s.False(s.canView(guestReq, "private"))
		})
	}
}

func (s *ResolverSuite) TestOnlySystemRolesCreateContests() {
	for _, r := range []model.Requester{suReq, adminReq} {
		s.NoError(s.resolver.Assert(s.ctx, For(r).Team("team-1"), model.CapCreateContest))
	}
	s.ErrorIs(s.resolver.Assert(s.ctx, For(userReq).Team("team-1"), model.CapCreateContest), model.ErrForbidden)
	s.ErrorIs(s.resolver.Assert(s.ctx, For(bannedReq).Team("team-1"), model.CapCreateContest), model.ErrForbidden)
	s.ErrorIs(s.resolver.Assert(s.ctx, For(guestReq).Team("team-1"), model.CapCreateContest), model.ErrUnauthenticated)
}

func (s *ResolverSuite) TestNotFoundBeforeAuthorization() {
	_, err := s.resolver.Check(s.ctx, For(guestReq).Contest("missing"), model.CapViewContest)
	s.ErrorIs(err, model.ErrContestNotFound)

	err = s.resolver.Assert(s.ctx, For(userReq).Team("missing"), model.CapEditTeam)
	s.ErrorIs(err, model.ErrTeamNotFound)

	_, err = s.resolver.Check(s.ctx, For(userReq).Resource(ResourceProblem, "missing"), model.CapViewProblemPublic)
	s.ErrorIs(err, model.ErrProblemNotFound)
}

func (s *ResolverSuite) TestMalformedIdentifiers() {
	_, err := s.resolver.Check(s.ctx, For(userReq).Contest("no such:contest"), model.CapViewContest)
	s.ErrorIs(err, model.ErrValidationFailed)

	_, err = s.resolver.Check(s.ctx, For(userReq).Team("a/b"), model.CapViewTeam)
	s.ErrorIs(err, model.ErrValidationFailed)
}

func (s *ResolverSuite) TestPhaseComesFromClock() {
	sc := For(userReq).Contest("private")

	s.clock.Set(s.begin.Add(-time.Minute))
	pc, err := s.resolver.Resolve(s.ctx, sc)
	s.Require().NoError(err)
	s.Equal(model.PhasePending, pc.Phase)

	s.clock.Set(s.begin)
	pc, err = s.resolver.Resolve(s.ctx, sc)
	s.Require().NoError(err)
	s.Equal(model.PhaseRunning, pc.Phase)

	s.clock.Set(s.begin.Add(time.Hour))
	pc, err = s.resolver.Resolve(s.ctx, sc)
	s.Require().NoError(err)
	s.Equal(model.PhaseEnded, pc.Phase)
}

func (s *ResolverSuite) TestMembershipChangesApplyImmediately() {
	sc := For(strangerReq).Team("team-1").Contest("private")

	ok, err := s.resolver.Check(s.ctx, sc, model.CapViewContest)
	s.Require().NoError(err)
	s.False(ok)

	s.Require().NoError(s.store.SetParticipant(s.ctx, "private", "stranger", model.ContestRoleMod))

	ok, err = s.resolver.Check(s.ctx, sc, model.CapEditContest)
	s.Require().NoError(err)
	s.True(ok)

	s.Require().NoError(s.store.SetParticipant(s.ctx, "private", "stranger", model.ContestRoleNone))

	ok, err = s.resolver.Check(s.ctx, sc, model.CapViewContest)
	s.Require().NoError(err)
	s.False(ok)
}

func (s *ResolverSuite) TestTeamAndContestScopesCombine() {
	owner := model.Requester{UserID: "owner", Role: model.SystemRoleUser}

	ok, err := s.resolver.Check(s.ctx, For(owner).Contest("private"), model.CapEditContest)
	s.Require().NoError(err)
	s.False(ok)

	ok, err = s.resolver.Check(s.ctx, For(owner).Team("team-1").Contest("private"), model.CapEditContest)
	s.Require().NoError(err)
	s.True(ok)
}

func (s *ResolverSuite) TestCheckAll() {
	got, err := s.resolver.CheckAll(s.ctx, For(userReq).Team("team-1").Contest("private"),
		model.CapViewContest, model.CapEditContest, model.CapSubmitContest, model.CapRegisterContest)
	s.Require().NoError(err)
	s.Equal([]bool{true, false, true, false}, got)
}

func (s *ResolverSuite) TestAssertAny() {
	sc := For(strangerReq).Team("team-1").Contest("public")
	s.NoError(s.resolver.AssertAny(s.ctx, sc, model.CapViewContest, model.CapViewContestPublic))

	sc = For(strangerReq).Team("team-1").Contest("private")
	err := s.resolver.AssertAny(s.ctx, sc, model.CapViewContest, model.CapViewContestPublic)
	s.ErrorIs(err, model.ErrForbidden)
	s.ErrorContains(err, "view-contest|view-contest-public")

	sc = For(guestReq).Team("team-1").Contest("private")
	s.ErrorIs(s.resolver.AssertAny(s.ctx, sc, model.CapViewContest, model.CapViewContestPublic), model.ErrUnauthenticated)
}

func (s *ResolverSuite) TestSelfSubject() {
	ok, err := s.resolver.Check(s.ctx, For(userReq).Subject("user"), model.CapViewRecordSelf)
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.resolver.Check(s.ctx, For(userReq).Subject("someone"), model.CapViewRecordSelf)
	s.Require().NoError(err)
	s.False(ok)
}

func (s *ResolverSuite) TestAssertPrivilege() {
	s.NoError(s.resolver.AssertPrivilege(For(userReq), model.PrivOperate))
	s.ErrorIs(s.resolver.AssertPrivilege(For(bannedReq), model.PrivOperate), model.ErrForbidden)
	s.ErrorIs(s.resolver.AssertPrivilege(For(guestReq), model.PrivOperate), model.ErrUnauthenticated)
}

func (s *ResolverSuite) TestExplicitResourcePrivacy() {
	s.Require().NoError(s.store.SaveProblem(s.ctx, &model.Problem{ID: "secret", TeamID: "team-1", Private: true}))

	// public contest, private problem: the problem's flag applies
	ok, err := s.resolver.Check(s.ctx,
		For(strangerReq).Contest("public").Resource(ResourceProblem, "secret"),
		model.CapViewProblemPublic)
	s.Require().NoError(err)
	s.False(ok)
}

func TestScopeBuilderReturnsCopies(t *testing.T) {
	base := For(userReq)
	withContest := base.Contest("c1")
	replaced := withContest.Contest("c2").Team("t1")

	if base.ContestID() != "" || base.TeamID() != "" {
		t.Fatalf("base scope was modified: %+v", base)
	}
	if withContest.ContestID() != "c1" {
		t.Errorf("expected c1, got %s", withContest.ContestID())
	}
	if replaced.ContestID() != "c2" || replaced.TeamID() != "t1" {
		t.Errorf("expected c2/t1, got %s/%s", replaced.ContestID(), replaced.TeamID())
	}
	if replaced.Requester() != userReq {
		t.Errorf("requester changed: %+v", replaced.Requester())
	}
}
