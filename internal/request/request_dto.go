package request

type SubmitRequest struct {
	LeaveTypeID string `json:"leave_type_id" binding:"required,uuid"`
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date" binding:"required"`
	Comment     string `json:"comment"`
}

type RequestResponse struct {
	ID           string `json:"id"`
	Number       int64  `json:"number"`
	TeamID       string `json:"team_id"`
	UserID       string `json:"user_id"`
	OwnerName    string `json:"owner_name,omitempty"`
	LeaveTypeID  string `json:"leave_type_id"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	TotalDays    int    `json:"total_days"`
	Comment      string `json:"comment,omitempty"`
	AdminComment string `json:"admin_comment,omitempty"`
	Status       string `json:"status"`
}
