package team

type RegisterTeamRequest struct {
	Name string `json:"name" binding:"required,min=1,max=120"`
	Role string `json:"role" binding:"required"`
}

type TeamResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type UpdateSettingsRequest struct {
	AnnualQuota   *int    `json:"annual_quota"`
	PerRequestCap *int    `json:"per_request_cap"`
	OverlapPolicy *string `json:"overlap_policy"`
}

type SettingsResponse struct {
	AnnualQuota   int    `json:"annual_quota"`
	PerRequestCap int    `json:"per_request_cap"`
	OverlapPolicy string `json:"overlap_policy"`
}
