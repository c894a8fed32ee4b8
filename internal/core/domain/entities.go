package domain

// Role represents user role in the system
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleResident Role = "resident"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleResident
}

// ApplicationStatus is the lifecycle state of a letter application
type ApplicationStatus string

const (
	StatusPending    ApplicationStatus = "pending"
	StatusProcessing ApplicationStatus = "processing"
	StatusApproved   ApplicationStatus = "approved"
	StatusRejected   ApplicationStatus = "rejected"
)

// ApplicationStatuses lists statuses in workflow order
var ApplicationStatuses = []ApplicationStatus{
	StatusPending,
	StatusProcessing,
	StatusApproved,
	StatusRejected,
}

// Valid reports whether s is a known status
func (s ApplicationStatus) Valid() bool {
	for _, known := range ApplicationStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// FormKind selects which citizen form a letter type uses
type FormKind string

const (
	FormGeneral    FormKind = "general"
	FormDomicile   FormKind = "domicile"
	FormRelocation FormKind = "relocation"
)

// Identity is the minimal authenticated principal carried in a session
type Identity struct {
	ID       string `json:"id"`
	Nama     string `json:"nama"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// IsAdmin reports whether the identity carries the admin role
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}
