package domain

// Capability names a privileged action a page may request.
type Capability string

const (
	CapViewDashboard  Capability = "view_dashboard"
	CapCreateFeedback Capability = "create_feedback"
	CapTriageFeedback Capability = "triage_feedback"
	CapAddComment     Capability = "add_comment"
	CapDeleteFeedback Capability = "delete_feedback"
	CapManageUsers    Capability = "manage_users"
	CapDeleteDemoData Capability = "delete_demo_data"
)

// capabilityMatrix maps roles to the capabilities they hold.
var capabilityMatrix = map[Role]map[Capability]bool{
	RoleCitizen: {
		CapViewDashboard:  true,
		CapCreateFeedback: true,
	},
	RoleStaff: {
		CapViewDashboard:  true,
		CapCreateFeedback: true,
		CapTriageFeedback: true,
		CapAddComment:     true,
	},
	RoleAdmin: {
		CapViewDashboard:  true,
		CapCreateFeedback: true,
		CapTriageFeedback: true,
		CapAddComment:     true,
		CapDeleteFeedback: true,
		CapManageUsers:    true,
		CapDeleteDemoData: true,
	},
}

// Decision is the outcome of a capability check.
type Decision struct {
	Allowed bool
	Reason  string
}

// Authorize checks whether user may perform c. A nil user holds no
// capabilities. The check is advisory: the backend stays the authority.
func Authorize(user *User, c Capability) Decision {
	if user == nil {
		return Decision{Reason: "no session"}
	}
	if capabilityMatrix[user.Role][c] {
		return Decision{Allowed: true}
	}
	return Decision{Reason: string(c) + " requires a higher role than " + string(user.Role)}
}

// RolesWith returns the roles holding c, in display order.
func RolesWith(c Capability) []Role {
	var out []Role
	for _, r := range Roles {
		if capabilityMatrix[r][c] {
			out = append(out, r)
		}
	}
	return out
}
