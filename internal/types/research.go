//nolint:revive // types is a standard Go package name pattern
package types

// ResearchProfile carries company data gathered by the external research
// agents before the interview starts. Every field is optional; seeding must
// tolerate an entirely empty profile.
type ResearchProfile struct {
	CompanyName  string   `json:"company_name,omitempty"`
	Website      string   `json:"website,omitempty"`
	Industry     string   `json:"industry,omitempty"`
	EmployeeBand string   `json:"employee_band,omitempty"` // e.g. "11-50"
	Location     string   `json:"location,omitempty"`
	TechStack    []string `json:"tech_stack,omitempty"` // detected tools, e.g. "HubSpot"
	Competitors  []string `json:"competitors,omitempty"`
	NewsSummary  string   `json:"news_summary,omitempty"`
	FundingStage string   `json:"funding_stage,omitempty"`
}

// IsEmpty reports whether the profile carries no seedable data at all.
func (p *ResearchProfile) IsEmpty() bool {
	if p == nil {
		return true
	}
	return p.CompanyName == "" && p.Website == "" && p.Industry == "" &&
		p.EmployeeBand == "" && p.Location == "" && len(p.TechStack) == 0 &&
		len(p.Competitors) == 0 && p.NewsSummary == "" && p.FundingStage == ""
}
