package domain

// Role differentiates residents from management.
type Role string

const (
	RoleResident Role = "RESIDENT"
	RoleSyndic   Role = "SYNDIC"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleResident || r == RoleSyndic
}

// Actor is the authenticated caller performing an operation.
type Actor struct {
	ID          string
	Name        string
	Role        Role
	ApartmentID *string
}

// IsSyndic reports whether the actor holds management rights.
func (a Actor) IsSyndic() bool {
	return a.Role == RoleSyndic
}

// SystemActor records changes not attributable to a person.
var SystemActor = Actor{ID: "system", Name: "system", Role: RoleSyndic}
