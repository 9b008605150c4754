package usersettings

// SecurityView is the typed security settings view. The embedded whitelist
// and blacklist arrays are managed through the filter list endpoints and are
// not part of the settings response.
type SecurityView struct {
	RealTimeProtection bool     `json:"realTimeProtection"`
	AutoUpdate         bool     `json:"autoUpdate"`
	SpeedLimit         int      `json:"speedLimit"`
	CustomFilters      []string `json:"customFilters"`
	VPNEnabled         bool     `json:"vpnEnabled"`
}

// PrivacyView is the typed privacy settings view.
type PrivacyView struct {
	DataSharing     bool `json:"dataSharing"`
	Analytics       bool `json:"analytics"`
	CrashReports    bool `json:"crashReports"`
	PersonalizedAds bool `json:"personalizedAds"`
}

// View is the complete, default-filled settings view returned to callers.
type View struct {
	Security      SecurityView `json:"security"`
	Privacy       PrivacyView  `json:"privacy"`
	Notifications bool         `json:"notifications"`
	Language      string       `json:"language"`
	Theme         string       `json:"theme"`
}

// SecurityUpdate carries a partial security update. Nil fields are left
// unchanged.
type SecurityUpdate struct {
	RealTimeProtection *bool     `json:"realTimeProtection"`
	AutoUpdate         *bool     `json:"autoUpdate"`
	SpeedLimit         *int      `json:"speedLimit"`
	CustomFilters      *[]string `json:"customFilters"`
	VPNEnabled         *bool     `json:"vpnEnabled"`
}

func (u *SecurityUpdate) apply(m map[string]any) {
	if u.RealTimeProtection != nil {
		m["realTimeProtection"] = *u.RealTimeProtection
	}

	if u.AutoUpdate != nil {
		m["autoUpdate"] = *u.AutoUpdate
	}

	if u.SpeedLimit != nil {
		m["speedLimit"] = float64(*u.SpeedLimit)
	}

	if u.CustomFilters != nil {
		m["customFilters"] = *u.CustomFilters
	}

	if u.VPNEnabled != nil {
		m["vpnEnabled"] = *u.VPNEnabled
	}
}

// PrivacyUpdate carries a partial privacy update. Nil fields are left
// unchanged.
type PrivacyUpdate struct {
	DataSharing     *bool `json:"dataSharing"`
	Analytics       *bool `json:"analytics"`
	CrashReports    *bool `json:"crashReports"`
	PersonalizedAds *bool `json:"personalizedAds"`
}

func (u *PrivacyUpdate) apply(m map[string]any) {
	if u.DataSharing != nil {
		m["dataSharing"] = *u.DataSharing
	}

	if u.Analytics != nil {
		m["analytics"] = *u.Analytics
	}

	if u.CrashReports != nil {
		m["crashReports"] = *u.CrashReports
	}

	if u.PersonalizedAds != nil {
		m["personalizedAds"] = *u.PersonalizedAds
	}
}

// UpdatePayload is the partial settings update shape accepted by the API.
type UpdatePayload struct {
	Security      *SecurityUpdate `json:"security"`
	Privacy       *PrivacyUpdate  `json:"privacy"`
	Notifications *bool           `json:"notifications"`
	Language      *string         `json:"language"`
	Theme         *string         `json:"theme"`
}
