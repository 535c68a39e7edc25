package member

type InviteRequest struct {
	Handle string `json:"handle" binding:"required"`
	Role   string `json:"role" binding:"required"`
}

type SetRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

type MemberResponse struct {
	ID         string `json:"id"`
	ExternalID string `json:"external_id,omitempty"`
	Handle     string `json:"handle"`
	FullName   string `json:"full_name"`
	Role       string `json:"role"`
	RoleLabel  string `json:"role_label"`
	TeamID     string `json:"team_id"`
}

type MemberWithUsageResponse struct {
	MemberResponse
	UsedDays int `json:"used_days"`
}
