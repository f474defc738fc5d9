package user

// Role classifies a shop account for route-level authorization. Identity
// and account management live outside this service; only the role claim is
// consumed here.
type Role string

const (
	RoleOwner   Role = "owner"   // shop owner - full access
	RoleManager Role = "manager" // can approve overtime and run payroll
	RoleStaff   Role = "staff"   // self-service attendance and overtime
)

// CanManage reports whether the role may act on other employees' records.
func (r Role) CanManage() bool {
	return r == RoleOwner || r == RoleManager
}
