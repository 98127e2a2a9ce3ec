package types

type Role string

const (
	RoleStaff Role = "staff"
	RoleUser  Role = "usuario"
)

// Identity is the authenticated caller of a request.
type Identity struct {
	UserID   string
	Username string
	Email    string
	Role     Role
}

func (i *Identity) IsStaff() bool {
	return i != nil && i.Role == RoleStaff
}

type Resource string

const (
	ResourceDashboard   Resource = "dashboard"
	ResourceDonations   Resource = "donations"
	ResourceDonors      Resource = "donors"
	ResourceAllocations Resource = "allocations"
	ResourceUsers       Resource = "users"
)

type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)
