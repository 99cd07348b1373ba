package auth

// Role identifies the kind of principal a session belongs to
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// Principal is the authenticated identity carried through a request. It is a
// closed set: sessions belong to either a student or an admin, and
// authorization checks dispatch on the concrete type instead of branching on
// a role flag.
type Principal interface {
	PrincipalID() int64
	PrincipalEmail() string
	Role() Role
}

// StudentPrincipal is a logged-in student
type StudentPrincipal struct {
	ID            int64
	Email         string
	EmailVerified bool
}

func (p StudentPrincipal) PrincipalID() int64     { return p.ID }
func (p StudentPrincipal) PrincipalEmail() string { return p.Email }
func (p StudentPrincipal) Role() Role             { return RoleStudent }

// AdminPrincipal is a logged-in administrator
type AdminPrincipal struct {
	ID    int64
	Email string
}

func (p AdminPrincipal) PrincipalID() int64     { return p.ID }
func (p AdminPrincipal) PrincipalEmail() string { return p.Email }
func (p AdminPrincipal) Role() Role             { return RoleAdmin }

// PrincipalFromClaims rebuilds the typed principal from session claims
func PrincipalFromClaims(claims *SessionClaims) (Principal, error) {
	switch Role(claims.Role) {
	case RoleStudent:
		return StudentPrincipal{
			ID:            claims.UserID,
			Email:         claims.Email,
			EmailVerified: claims.EmailVerified,
		}, nil
	case RoleAdmin:
		return AdminPrincipal{
			ID:    claims.UserID,
			Email: claims.Email,
		}, nil
	default:
		return nil, ErrInvalidToken
	}
}
