package models

// Preferences are the user-editable connection and guardrail settings.
type Preferences struct {
	NightscoutURL string `json:"nightscout_url"`
	APISecret     string `json:"api_secret,omitempty"`
	// AdjustmentLimit caps, in percent, how much a single update may change Loop settings.
	AdjustmentLimit float64 `json:"adjustment_limit"`
}
