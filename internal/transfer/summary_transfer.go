package transfer

// PlatformBatch is one platform's slice of a generation run.
type PlatformBatch struct {
	Platform string   `json:"platform"`
	Posts    []string `json:"posts"`
	Error    string   `json:"error,omitempty"`
}

type GenerationResult struct {
	ClientID  int64           `json:"client_id"`
	Month     string          `json:"month"`
	SlotCount int             `json:"slot_count"`
	Batches   []PlatformBatch `json:"batches"`
	Inserted  int             `json:"inserted"`
	DryRun    bool            `json:"dry_run"`
}

type ReviewSummary struct {
	ClientID     int64   `json:"client_id"`
	Month        string  `json:"month"`
	Reviewed     int     `json:"reviewed"`
	Approved     int     `json:"approved"`
	Rewritten    int     `json:"rewritten"`
	Skipped      int     `json:"skipped"`
	AverageScore float64 `json:"average_score"`
	DryRun       bool    `json:"dry_run"`
}

type DispatchSummary struct {
	Due     int `json:"due"`
	Posted  int `json:"posted"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}
