package models

// LoopSettingsSnapshot is what could be inferred from a freeaps_settings.json file.
type LoopSettingsSnapshot struct {
	NightscoutURL string   `json:"nightscout_url,omitempty"`
	APISecret     string   `json:"-"`
	HasAPISecret  bool     `json:"has_api_secret"`
	BasalSchedule []string `json:"basal_schedule"`
	FileLocation  string   `json:"file_location"`
	RawJSON       string   `json:"raw_json"`
}
