package forbidden

type AddRangeRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Note      string `json:"note"`
}

type RemoveDateRequest struct {
	Date string `json:"date" binding:"required"`
}

type ForbiddenDateResponse struct {
	Date string `json:"date"`
	Note string `json:"note,omitempty"`
}
