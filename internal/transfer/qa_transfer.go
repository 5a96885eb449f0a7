package transfer

type QAScores struct {
	HookStrength     float64 `json:"hook_strength"`
	LocalSpecificity float64 `json:"local_specificity"`
	ValueDelivery    float64 `json:"value_delivery"`
	CTAClarity       float64 `json:"cta_clarity"`
	PlatformFit      float64 `json:"platform_fit"`
	Authenticity     float64 `json:"authenticity"`
}

func (s QAScores) Average() float64 {
	return (s.HookStrength + s.LocalSpecificity + s.ValueDelivery +
		s.CTAClarity + s.PlatformFit + s.Authenticity) / 6
}

// QAResult is the JSON document the scoring model returns for one
// draft. Verdict and Average are recomputed server-side and never
// trusted as returned.
type QAResult struct {
	Scores          QAScores `json:"scores"`
	Average         float64  `json:"average"`
	Verdict         string   `json:"verdict"`
	Issues          []string `json:"issues"`
	ImprovedVersion string   `json:"improved_version"`
}
