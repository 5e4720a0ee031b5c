package api

// registerRequest carries a new account registration.
type registerRequest struct {
	Email    string `binding:"required,email"         json:"email"`
	Password string `binding:"required,min=8,max=128" json:"password"`
}

// loginRequest carries login credentials.
type loginRequest struct {
	Email    string `binding:"required,email" json:"email"`
	Password string `binding:"required"       json:"password"`
}

// tokenResponse carries an issued access token.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// createProjectRequest carries a new project definition.
type createProjectRequest struct {
	Name        string  `binding:"required,min=2,max=100" json:"name"`
	BaseURL     string  `binding:"required,url"           json:"base_url"`
	NotifyEmail *string `binding:"omitempty,email"        json:"notify_email"`
}

// startAuditRequest carries an on-demand audit trigger.
type startAuditRequest struct {
	ProjectID string `binding:"required"     json:"project_id"`
	URL       string `binding:"required,url" json:"url"`
}

// createScheduleRequest carries a recurring audit definition. The slot
// fields are pointers because zero is a valid value for each of them
// (weekday 0 is Monday, hour 0 is midnight).
type createScheduleRequest struct {
	ProjectID string `binding:"required"              json:"project_id"`
	URL       string `binding:"required,url"          json:"url"`
	Weekday   *int   `binding:"required,min=0,max=6"  json:"weekday"`
	HourUTC   *int   `binding:"required,min=0,max=23" json:"hour_utc"`
	MinuteUTC *int   `binding:"required,min=0,max=59" json:"minute_utc"`
	Enabled   *bool  `json:"enabled"`
}
