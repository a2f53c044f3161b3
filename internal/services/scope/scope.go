package scope

import "github.com/mcoot/judgecore/internal/model"

// ResourceKind names the kind of entity whose privacy flag is consulted
type ResourceKind string

const (
	ResourceTeam    ResourceKind = "team"
	ResourceContest ResourceKind = "contest"
	ResourceProblem ResourceKind = "problem"
	ResourceRoom    ResourceKind = "room"
)

// Resource identifies an entity carrying a privacy flag
type Resource struct {
	Kind ResourceKind
	ID   string
}

// Scope is the immutable description of what a check is evaluated against.
// Every builder method returns a modified copy; attaching a scope replaces any previous one.
type Scope struct {
	requester model.Requester
	teamID    model.TeamID
	contestID model.ContestID
	resource  Resource
	subject   model.UserID
}

// For starts a scope for the requester with no team or contest attached
func For(r model.Requester) Scope {
	return Scope{requester: r}
}

// Team attaches a team scope
func (s Scope) Team(id model.TeamID) Scope {
	s.teamID = id
	return s
}

// Contest attaches a contest scope
func (s Scope) Contest(id model.ContestID) Scope {
	s.contestID = id
	return s
}

// Resource selects the entity whose privacy flag applies.
// Without it the contest's flag is used, then the team's.
func (s Scope) Resource(kind ResourceKind, id string) Scope {
	s.resource = Resource{Kind: kind, ID: id}
	return s
}

// Subject sets the user a self-variant capability refers to
func (s Scope) Subject(id model.UserID) Scope {
	s.subject = id
	return s
}

// Requester returns the scope's requester
func (s Scope) Requester() model.Requester {
	return s.requester
}

// TeamID returns the attached team, if any
func (s Scope) TeamID() model.TeamID {
	return s.teamID
}

// ContestID returns the attached contest, if any
func (s Scope) ContestID() model.ContestID {
	return s.contestID
}

// privacyResource returns the resource whose flag applies, or false when none does
func (s Scope) privacyResource() (Resource, bool) {
	switch {
	case s.resource.Kind != "":
		return s.resource, true
	case s.contestID != "":
		return Resource{Kind: ResourceContest, ID: string(s.contestID)}, true
	case s.teamID != "":
		return Resource{Kind: ResourceTeam, ID: string(s.teamID)}, true
	}
	return Resource{}, false
}
