package domain

type UserRole string

const (
	UserRoleMember    UserRole = "MEMBER"
	UserRoleInspector UserRole = "INSPECTOR"
	UserRoleModerator UserRole = "MODERATOR"
	UserRoleAdmin     UserRole = "ADMIN"
)

type User struct {
	ID        int32    `json:"id"`
	Email     string   `json:"email"`
	Name      string   `json:"name"`
	Role      UserRole `json:"role"`
	CreatedOn string   `json:"created_on"`
	UpdatedOn string   `json:"updated_on"`
}

// Actor is the authenticated identity behind a workflow event. The engine
// is stateless with respect to identity: every event handler receives the
// actor explicitly and checks it against the aggregate's participants.
type Actor struct {
	ID   int32
	Role UserRole
}

func (a Actor) IsAdmin() bool {
	return a.Role == UserRoleAdmin
}

func (a Actor) IsModerator() bool {
	return a.Role == UserRoleModerator || a.Role == UserRoleAdmin
}
