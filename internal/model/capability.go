package model

// Capability names an independently evaluated permission check
type Capability string

const (
	CapViewContest           Capability = "view-contest"
	CapViewContestPublic     Capability = "view-contest-public"
	CapEditContest           Capability = "edit-contest"
	CapCreateContest         Capability = "create-contest"
	CapRegisterContest       Capability = "register-contest"
	CapRegisterContestPublic Capability = "register-contest-public"
	CapSubmitContest         Capability = "submit-contest"

	CapViewProblem       Capability = "view-problem"
	CapViewProblemPublic Capability = "view-problem-public"
	CapCreateProblem     Capability = "create-problem"

	CapViewRecord     Capability = "view-record"
	CapViewRecordSelf Capability = "view-record-self"
	CapJudgeRecord    Capability = "judge-record"

	CapViewTeam       Capability = "view-team"
	CapViewTeamPublic Capability = "view-team-public"
	CapEditTeam       Capability = "edit-team"
	CapCreateTeam     Capability = "create-team"

	CapViewProfile     Capability = "view-profile"
	CapEditProfile     Capability = "edit-profile"
	CapEditProfileSelf Capability = "edit-profile-self"
	CapViewUserPMSelf  Capability = "view-user-pm-self"
	CapSendPM          Capability = "send-pm"

	CapCreateRoom     Capability = "create-room"
	CapJoinRoomPublic Capability = "join-room-public"
)

// Privilege is a coarse precondition checked before capability-specific logic
type Privilege string

const (
	// PrivOperate allows write actions at all. Anonymous and banned requesters lack it.
	PrivOperate Privilege = "operate"
)

// Requester is the identity a request is evaluated for. A zero UserID means anonymous.
type Requester struct {
	UserID UserID
	Role   SystemRole
}

// Anonymous returns a requester with no identity
func Anonymous() Requester {
	return Requester{}
}

// IsAnonymous reports whether the requester has no identity
func (r Requester) IsAnonymous() bool {
	return r.UserID == ""
}
