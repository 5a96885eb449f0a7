package transfer

// Facebook Graph API shapes.

type GraphPostResponse struct {
	ID     string `json:"id"`
	PostID string `json:"post_id"`
}

type GraphErrorResponse struct {
	Error struct {
		Message      string `json:"message"`
		Type         string `json:"type"`
		Code         int    `json:"code"`
		ErrorSubcode int    `json:"error_subcode"`
		FbtraceID    string `json:"fbtrace_id"`
	} `json:"error"`
}

// Instagram Content Publishing API shapes.

type MediaContainerResponse struct {
	ID string `json:"id"`
}

// Google Business Profile shapes.

type LocalPostResponse struct {
	Name  string `json:"name"`
	State string `json:"state"`
}

type GoogleTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}
