package transfer

type GenerateRequest struct {
	ClientID int64  `json:"client_id"`
	Month    string `json:"month"`
	Timezone string `json:"timezone"`
	// Images optionally attaches one image URL per platform; every
	// draft generated for that platform carries it.
	Images map[string]string `json:"images,omitempty"`
	DryRun bool              `json:"dry_run"`
}

type ReviewRequest struct {
	ClientID   int64  `json:"client_id"`
	Month      string `json:"month"`
	DryRun     bool   `json:"dry_run"`
	RubricPath string `json:"rubric_path"`
}

// ConnectionRequest is the payload the OAuth exchange hands over once
// it has a credential: redirect mechanics live outside this service.
type ConnectionRequest struct {
	ClientID     int64  `json:"client_id"`
	Platform     string `json:"platform"`
	PageID       string `json:"page_id"`
	PageName     string `json:"page_name"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    string `json:"expires_at"`
}
