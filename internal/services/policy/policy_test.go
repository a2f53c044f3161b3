package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/judgecore/internal/model"
)

var (
	su        = model.Requester{UserID: "u-su", Role: model.SystemRoleSu}
	admin     = model.Requester{UserID: "u-admin", Role: model.SystemRoleAdmin}
	user      = model.Requester{UserID: "u-user", Role: model.SystemRoleUser}
	banned    = model.Requester{UserID: "u-banned", Role: model.SystemRoleBanned}
	anonymous = model.Anonymous()

	allPhases = []model.Phase{model.PhaseNone, model.PhasePending, model.PhaseRunning, model.PhaseEnded}
)

// everyContext enumerates scope role, phase and privacy combinations for a requester
func everyContext(r model.Requester) []Context {
	var out []Context
	teamRoles := append([]model.TeamRole{model.TeamRoleNone}, model.TeamRoles...)
	contestRoles := append([]model.ContestRole{model.ContestRoleNone}, model.ContestRoles...)
	for _, tr := range teamRoles {
		for _, cr := range contestRoles {
			for _, ph := range allPhases {
				for _, private := range []bool{false, true} {
					for _, subject := range []model.UserID{"", r.UserID, "someone-else"} {
						out = append(out, Context{
							Requester:   r,
							TeamRole:    tr,
							ContestRole: cr,
							Phase:       ph,
							Private:     private,
							Subject:     subject,
						})
					}
				}
			}
		}
	}
	return out
}

func TestSystemOverrideGrantsEverything(t *testing.T) {
	for _, r := range []model.Requester{su, admin} {
		for _, c := range everyContext(r) {
			for _, capability := range Capabilities() {
				assert.True(t, Evaluate(c, capability), "%s %s %+v", r.Role, capability, c)
			}
		}
	}
}

func TestBannedFailsOperateCapabilities(t *testing.T) {
	for _, capability := range Capabilities() {
		priv, ok := RequiredPrivilege(capability)
		if !ok || priv != model.PrivOperate {
			continue
		}
		for _, c := range everyContext(banned) {
			assert.False(t, Evaluate(c, capability), "%s %+v", capability, c)
		}
	}
}

func TestAnonymousFailsOperateCapabilities(t *testing.T) {
	for _, capability := range Capabilities() {
		if _, ok := RequiredPrivilege(capability); !ok {
			continue
		}
		for _, c := range everyContext(anonymous) {
			assert.False(t, Evaluate(c, capability), "%s %+v", capability, c)
		}
	}
}

func TestPublicVariantFollowsPrivacy(t *testing.T) {
	publicCaps := []model.Capability{
		model.CapViewContestPublic,
		model.CapViewProblemPublic,
		model.CapViewTeamPublic,
	}
	for _, capability := range publicCaps {
		assert.True(t, Evaluate(Context{Requester: anonymous, Private: false}, capability), capability)
		assert.False(t, Evaluate(Context{Requester: anonymous, Private: true}, capability), capability)
		assert.False(t, Evaluate(Context{Requester: user, Private: true}, capability), capability)
	}
}

func TestPrivateContestVisibilityIsPhaseIndependent(t *testing.T) {
	for _, ph := range []model.Phase{model.PhasePending, model.PhaseRunning, model.PhaseEnded} {
		for _, role := range model.ContestRoles {
			c := Context{Requester: user, ContestRole: role, Phase: ph, Private: true}
			assert.True(t, Evaluate(c, model.CapViewContest), "%s in %s", role, ph)
			assert.True(t, Evaluate(c, model.CapViewContestPublic), "%s in %s", role, ph)
		}

		stranger := Context{Requester: user, Phase: ph, Private: true}
		assert.False(t, Evaluate(stranger, model.CapViewContest), ph)
		assert.False(t, Evaluate(stranger, model.CapViewContestPublic), ph)
	}
}

func TestBannedKeepsReadAccessThroughScope(t *testing.T) {
	c := Context{Requester: banned, ContestRole: model.ContestRoleJury, Phase: model.PhaseRunning, Private: true}
	assert.True(t, Evaluate(c, model.CapViewContest))
	assert.False(t, Evaluate(c, model.CapEditContest))
}

func TestScopesComposeByOr(t *testing.T) {
	// Owner on the team, plain contestant in the contest
	c := Context{
		Requester:   user,
		TeamRole:    model.TeamRoleOwner,
		ContestRole: model.ContestRoleContestant,
		Phase:       model.PhaseRunning,
		Private:     true,
	}
	assert.True(t, Evaluate(c, model.CapEditContest))
	assert.True(t, Evaluate(c, model.CapViewRecord))
	assert.True(t, Evaluate(c, model.CapSubmitContest))

	c.TeamRole = model.TeamRoleNone
	assert.False(t, Evaluate(c, model.CapEditContest))
	assert.False(t, Evaluate(c, model.CapViewRecord))
	assert.True(t, Evaluate(c, model.CapSubmitContest))
}

func TestEditContestIsPhaseIndependentForMods(t *testing.T) {
	for _, ph := range []model.Phase{model.PhasePending, model.PhaseRunning, model.PhaseEnded} {
		c := Context{Requester: user, ContestRole: model.ContestRoleMod, Phase: ph}
		assert.True(t, Evaluate(c, model.CapEditContest), ph)

		c.ContestRole = model.ContestRoleJury
		assert.False(t, Evaluate(c, model.CapEditContest), ph)
	}
}

func TestPhaseSensitiveCapabilities(t *testing.T) {
	tests := []struct {
		name       string
		capability model.Capability
		ctx        Context
		want       bool
	}{
		{"register public while pending", model.CapRegisterContestPublic, Context{Requester: user, Phase: model.PhasePending}, true},
		{"register public while running", model.CapRegisterContestPublic, Context{Requester: user, Phase: model.PhaseRunning}, true},
		{"register public after end", model.CapRegisterContestPublic, Context{Requester: user, Phase: model.PhaseEnded}, false},
		{"register public without contest", model.CapRegisterContestPublic, Context{Requester: user}, false},
		{"register private as stranger", model.CapRegisterContest, Context{Requester: user, Phase: model.PhasePending, Private: true}, false},
		{"register private as team member", model.CapRegisterContest, Context{Requester: user, TeamRole: model.TeamRoleMember, Phase: model.PhasePending, Private: true}, true},
		{"register private as team member after end", model.CapRegisterContest, Context{Requester: user, TeamRole: model.TeamRoleMember, Phase: model.PhaseEnded, Private: true}, false},
		{"submit while running", model.CapSubmitContest, Context{Requester: user, ContestRole: model.ContestRoleContestant, Phase: model.PhaseRunning}, true},
		{"submit before start", model.CapSubmitContest, Context{Requester: user, ContestRole: model.ContestRoleContestant, Phase: model.PhasePending}, false},
		{"submit after end", model.CapSubmitContest, Context{Requester: user, ContestRole: model.ContestRoleContestant, Phase: model.PhaseEnded}, false},
		{"submit without registration", model.CapSubmitContest, Context{Requester: user, Phase: model.PhaseRunning}, false},
		{"admin submits after end", model.CapSubmitContest, Context{Requester: admin, Phase: model.PhaseEnded}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.ctx, tt.capability))
		})
	}
}

func TestSelfVariants(t *testing.T) {
	tests := []struct {
		name       string
		capability model.Capability
		ctx        Context
		want       bool
	}{
		{"own record", model.CapViewRecordSelf, Context{Requester: user, Subject: user.UserID}, true},
		{"someone else's record", model.CapViewRecordSelf, Context{Requester: user, Subject: "other"}, false},
		{"anonymous has no self", model.CapViewRecordSelf, Context{Requester: anonymous}, false},
		{"banned views own record", model.CapViewRecordSelf, Context{Requester: banned, Subject: banned.UserID}, true},
		{"banned cannot edit own profile", model.CapEditProfileSelf, Context{Requester: banned, Subject: banned.UserID}, false},
		{"edit own profile", model.CapEditProfileSelf, Context{Requester: user, Subject: user.UserID}, true},
		{"edit other profile", model.CapEditProfile, Context{Requester: user, Subject: "other"}, false},
		{"self never needs scope", model.CapViewUserPMSelf, Context{Requester: user, Subject: user.UserID, Private: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.ctx, tt.capability))
		})
	}
}

func TestSystemOnlyCapabilities(t *testing.T) {
	c := Context{Requester: user, TeamRole: model.TeamRoleOwner, ContestRole: model.ContestRoleMod, Phase: model.PhaseRunning}
	assert.False(t, Evaluate(c, model.CapCreateContest))
	assert.False(t, Evaluate(c, model.CapJudgeRecord))
	assert.False(t, Evaluate(c, model.CapEditProfile))
	assert.True(t, Evaluate(Context{Requester: su}, model.CapCreateContest))
}

func TestUnknownCapabilityDenied(t *testing.T) {
	assert.False(t, Evaluate(Context{Requester: su}, "launch-missiles"))
	assert.False(t, IsKnown("launch-missiles"))
	assert.True(t, IsKnown(model.CapViewContest))
}

func TestEvaluateAll(t *testing.T) {
	c := Context{Requester: user, ContestRole: model.ContestRoleContestant, Phase: model.PhaseRunning, Private: true}
	got := EvaluateAll(c, []model.Capability{model.CapViewContest, model.CapEditContest, model.CapSubmitContest})
	assert.Equal(t, []bool{true, false, true}, got)
}

func TestHasPrivilege(t *testing.T) {
	assert.True(t, HasPrivilege(Context{Requester: su}, model.PrivOperate))
	assert.True(t, HasPrivilege(Context{Requester: user}, model.PrivOperate))
	assert.False(t, HasPrivilege(Context{Requester: banned}, model.PrivOperate))
	assert.False(t, HasPrivilege(Context{Requester: anonymous}, model.PrivOperate))
	assert.False(t, HasPrivilege(Context{Requester: user}, "fly"))
}
