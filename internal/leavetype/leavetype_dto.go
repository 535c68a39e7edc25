package leavetype

type CreateLeaveTypeRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=120"`
	DaysPerYear int    `json:"days_per_year" binding:"required"`
	Description string `json:"description"`
}

// Updates overwrite every field, a PUT in the strict sense.
type UpdateLeaveTypeRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=120"`
	DaysPerYear int    `json:"days_per_year" binding:"required"`
	Description string `json:"description"`
}

type LeaveTypeResponse struct {
	ID          string `json:"id"`
	TeamID      string `json:"team_id"`
	Name        string `json:"name"`
	DaysPerYear int    `json:"days_per_year"`
	Description string `json:"description"`
}
