package policy

import "github.com/mcoot/judgecore/internal/model"

// kind selects how a capability is satisfied once the privilege gate,
// system override and phase gate have been applied
type kind int

const (
	// kindSystem is satisfied only by the system-role override
	kindSystem kind = iota
	// kindAuthenticated is satisfied by any identified requester
	kindAuthenticated
	// kindSelf is satisfied when the requester is the attached subject
	kindSelf
	// kindPublic is satisfied by anyone while the resource is not private,
	// and falls back to the scope grants when it is
	kindPublic
	// kindPrivate is satisfied only by the scope grants
	kindPrivate
)

type rule struct {
	kind         kind
	privilege    model.Privilege // empty when no privilege is required
	teamRoles    []model.TeamRole
	contestRoles []model.ContestRole
	phases       []model.Phase // empty means phase-independent
}

var (
	teamElevated     = []model.TeamRole{model.TeamRoleOwner, model.TeamRoleAdmin}
	teamAnyMember    = []model.TeamRole{model.TeamRoleOwner, model.TeamRoleAdmin, model.TeamRoleMember}
	contestStaff     = []model.ContestRole{model.ContestRoleMod, model.ContestRoleJury}
	contestAnyRole   = []model.ContestRole{model.ContestRoleMod, model.ContestRoleJury, model.ContestRoleContestant}
	registrationOpen = []model.Phase{model.PhasePending, model.PhaseRunning}
)

var rules = map[model.Capability]rule{
	// Contests
	model.CapViewContest:       {kind: kindPrivate, teamRoles: teamElevated, contestRoles: contestAnyRole},
	model.CapViewContestPublic: {kind: kindPublic, teamRoles: teamElevated, contestRoles: contestAnyRole},
	model.CapEditContest: {
		kind:         kindPrivate,
		privilege:    model.PrivOperate,
		teamRoles:    teamElevated,
		contestRoles: []model.ContestRole{model.ContestRoleMod},
	},
	model.CapCreateContest: {kind: kindSystem, privilege: model.PrivOperate},
	model.CapRegisterContest: {
		kind:      kindPrivate,
		privilege: model.PrivOperate,
		teamRoles: teamAnyMember,
		phases:    registrationOpen,
	},
	model.CapRegisterContestPublic: {
		kind:      kindPublic,
		privilege: model.PrivOperate,
		teamRoles: teamAnyMember,
		phases:    registrationOpen,
	},
	model.CapSubmitContest: {
		kind:         kindPrivate,
		privilege:    model.PrivOperate,
		contestRoles: contestAnyRole,
		phases:       []model.Phase{model.PhaseRunning},
	},

	// Problems
	model.CapViewProblem:       {kind: kindPrivate, teamRoles: teamAnyMember, contestRoles: contestAnyRole},
	model.CapViewProblemPublic: {kind: kindPublic, teamRoles: teamAnyMember, contestRoles: contestAnyRole},
	model.CapCreateProblem:     {kind: kindPrivate, privilege: model.PrivOperate, teamRoles: teamElevated},

	// Records
	model.CapViewRecord:     {kind: kindPrivate, teamRoles: teamElevated, contestRoles: contestStaff},
	model.CapViewRecordSelf: {kind: kindSelf},
	model.CapJudgeRecord:    {kind: kindSystem, privilege: model.PrivOperate},

	// Teams
	model.CapViewTeam:       {kind: kindPrivate, teamRoles: teamAnyMember},
	model.CapViewTeamPublic: {kind: kindPublic, teamRoles: teamAnyMember},
	model.CapEditTeam:       {kind: kindPrivate, privilege: model.PrivOperate, teamRoles: teamElevated},
	model.CapCreateTeam:     {kind: kindAuthenticated, privilege: model.PrivOperate},

	// Users
	model.CapViewProfile:     {kind: kindPublic},
	model.CapEditProfile:     {kind: kindSystem, privilege: model.PrivOperate},
	model.CapEditProfileSelf: {kind: kindSelf, privilege: model.PrivOperate},
	model.CapViewUserPMSelf:  {kind: kindSelf},
	model.CapSendPM:          {kind: kindAuthenticated, privilege: model.PrivOperate},

	// Chat
	model.CapCreateRoom:     {kind: kindAuthenticated, privilege: model.PrivOperate},
	model.CapJoinRoomPublic: {kind: kindPublic, privilege: model.PrivOperate},
}
