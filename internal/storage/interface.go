package storage

import (
	"context"

	"github.com/mcoot/judgecore/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// User operations
	SaveUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id model.UserID) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)

	// Team operations
	SaveTeam(ctx context.Context, team *model.Team) error
	GetTeam(ctx context.Context, id model.TeamID) (*model.Team, error)
	// SetTeamMember upserts a membership row; TeamRoleNone removes it
	SetTeamMember(ctx context.Context, teamID model.TeamID, userID model.UserID, role model.TeamRole) error
	// GetTeamMemberRole returns TeamRoleNone for non-members and ErrTeamNotFound for unknown teams
	GetTeamMemberRole(ctx context.Context, teamID model.TeamID, userID model.UserID) (model.TeamRole, error)
	ListTeamMembers(ctx context.Context, teamID model.TeamID) ([]model.TeamMember, error)

	// Contest operations
	SaveContest(ctx context.Context, contest *model.Contest) error
	GetContest(ctx context.Context, id model.ContestID) (*model.Contest, error)
	// SetParticipant upserts a participation row; ContestRoleNone removes it
	SetParticipant(ctx context.Context, contestID model.ContestID, userID model.UserID, role model.ContestRole) error
	// GetParticipantRole returns ContestRoleNone for non-participants and ErrContestNotFound for unknown contests
	GetParticipantRole(ctx context.Context, contestID model.ContestID, userID model.UserID) (model.ContestRole, error)
	ListParticipants(ctx context.Context, contestID model.ContestID) ([]model.Participant, error)

	// Problem operations
	SaveProblem(ctx context.Context, problem *model.Problem) error
	GetProblem(ctx context.Context, id model.ProblemID) (*model.Problem, error)

	// Record operations
	SaveRecord(ctx context.Context, record *model.Record) error
	GetRecord(ctx context.Context, id model.RecordID) (*model.Record, error)
	// ListContestRecords returns a contest's records ordered by submission time, then ID
	ListContestRecords(ctx context.Context, contestID model.ContestID) ([]*model.Record, error)

	// Chat operations
	SaveRoom(ctx context.Context, room *model.Room) error
	GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error)
	AddRoomMember(ctx context.Context, roomID model.RoomID, userID model.UserID) error
	IsRoomMember(ctx context.Context, roomID model.RoomID, userID model.UserID) (bool, error)
	SaveChatMessage(ctx context.Context, msg *model.ChatMessage) error
	ListChatMessages(ctx context.Context, roomID model.RoomID) ([]*model.ChatMessage, error)
	SavePrivateMessage(ctx context.Context, msg *model.PrivateMessage) error
	ListPrivateMessages(ctx context.Context, a, b model.UserID) ([]*model.PrivateMessage, error)
}
