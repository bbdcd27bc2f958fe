package dashboard

import "github.com/ja-alumni/erp/internal/member"

// RegionalStats is the dashboard of one region
type RegionalStats struct {
	Region         string                 `json:"region"`
	TotalMembers   int                    `json:"total_members"`
	NewMembers     int                    `json:"new_members"`
	UpcomingEvents int                    `json:"upcoming_events"`
	Members        []*member.FullResponse `json:"members"`
}

// RegionCount is the member count of one region
type RegionCount struct {
	Region  string `json:"region"`
	Members int    `json:"members"`
}

// GlobalStats is the network-wide dashboard
type GlobalStats struct {
	TotalMembers     int           `json:"total_members"`
	NewMembers       int           `json:"new_members"`
	RegionalContacts int           `json:"regional_contacts"`
	CommitteeMembers int           `json:"committee_members"`
	UpcomingEvents   int           `json:"upcoming_events"`
	Regions          []RegionCount `json:"regions"`
}
