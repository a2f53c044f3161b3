package model

import "fmt"

// SystemRole is a user's platform-wide role, ordered from most to least privileged
type SystemRole int

const (
	SystemRoleSu SystemRole = iota + 1
	SystemRoleAdmin
	SystemRoleUser
	SystemRoleBanned
)

// SystemRoles lists every system role in order
var SystemRoles = []SystemRole{SystemRoleSu, SystemRoleAdmin, SystemRoleUser, SystemRoleBanned}

func (r SystemRole) String() string {
	switch r {
	case SystemRoleSu:
		return "Su"
	case SystemRoleAdmin:
		return "Admin"
	case SystemRoleUser:
		return "User"
	case SystemRoleBanned:
		return "Banned"
	}
	return fmt.Sprintf("SystemRole(%d)", int(r))
}

// IsPrivileged reports whether the role overrides every capability check
func (r SystemRole) IsPrivileged() bool {
	switch r {
	case SystemRoleSu, SystemRoleAdmin:
		return true
	case SystemRoleUser, SystemRoleBanned:
		return false
	}
	return false
}

// ParseSystemRole converts a role name into a SystemRole
func ParseSystemRole(s string) (SystemRole, error) {
	for _, r := range SystemRoles {
		if r.String() == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown system role %q", ErrValidationFailed, s)
}

func (r SystemRole) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *SystemRole) UnmarshalText(b []byte) error {
	parsed, err := ParseSystemRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// TeamRole is a user's role within a team. TeamRoleNone means not a member.
type TeamRole int

const (
	TeamRoleNone TeamRole = iota
	TeamRoleOwner
	TeamRoleAdmin
	TeamRoleMember
)

// TeamRoles lists every membership role (excluding TeamRoleNone)
var TeamRoles = []TeamRole{TeamRoleOwner, TeamRoleAdmin, TeamRoleMember}

func (r TeamRole) String() string {
	switch r {
	case TeamRoleNone:
		return ""
	case TeamRoleOwner:
		return "Owner"
	case TeamRoleAdmin:
		return "Admin"
	case TeamRoleMember:
		return "Member"
	}
	return fmt.Sprintf("TeamRole(%d)", int(r))
}

// ParseTeamRole converts a role name into a TeamRole. The empty string is TeamRoleNone.
func ParseTeamRole(s string) (TeamRole, error) {
	if s == "" {
		return TeamRoleNone, nil
	}
	for _, r := range TeamRoles {
		if r.String() == s {
			return r, nil
		}
	}
	return TeamRoleNone, fmt.Errorf("%w: unknown team role %q", ErrValidationFailed, s)
}

func (r TeamRole) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *TeamRole) UnmarshalText(b []byte) error {
	parsed, err := ParseTeamRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ContestRole is a user's role within a contest. ContestRoleNone means no participation.
type ContestRole int

const (
	ContestRoleNone ContestRole = iota
	ContestRoleMod
	ContestRoleJury
	ContestRoleContestant
)

// ContestRoles lists every participation role (excluding ContestRoleNone)
var ContestRoles = []ContestRole{ContestRoleMod, ContestRoleJury, ContestRoleContestant}

func (r ContestRole) String() string {
	switch r {
	case ContestRoleNone:
		return ""
	case ContestRoleMod:
		return "Mod"
	case ContestRoleJury:
		return "Jury"
	case ContestRoleContestant:
		return "Contestant"
	}
	return fmt.Sprintf("ContestRole(%d)", int(r))
}

// ParseContestRole converts a role name into a ContestRole. The empty string is ContestRoleNone.
func ParseContestRole(s string) (ContestRole, error) {
	if s == "" {
		return ContestRoleNone, nil
	}
	for _, r := range ContestRoles {
		if r.String() == s {
			return r, nil
		}
	}
	return ContestRoleNone, fmt.Errorf("%w: unknown contest role %q", ErrValidationFailed, s)
}

func (r ContestRole) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *ContestRole) UnmarshalText(b []byte) error {
	parsed, err := ParseContestRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
