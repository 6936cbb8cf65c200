package entity

import "time"

// Company is a partner organization offering internship opportunities.
type Company struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Industry  string    `json:"industry"`
	Location  string    `json:"location"`
	Website   string    `json:"website"`
	CreatedAt time.Time `json:"created_at"`
}

// CompanyPatch is a partial update for Company.
type CompanyPatch struct {
	Name     *string `json:"name,omitempty"`
	Industry *string `json:"industry,omitempty"`
	Location *string `json:"location,omitempty"`
	Website  *string `json:"website,omitempty"`
}

// Opportunity is an internship opening posted under a company.
//
// Applicants is a denormalized counter maintained by the store: creating an
// Application for this opportunity increments it inside the same logical
// transaction.
type Opportunity struct {
	ID          int       `json:"id"`
	CompanyID   int       `json:"company_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Stipend     string    `json:"stipend"`
	Deadline    string    `json:"deadline"`
	Applicants  int       `json:"applicants"`
	PostedAt    time.Time `json:"posted_at"`
}

// OpportunityPatch is a partial update for Opportunity. The Applicants
// counter is engine-managed and deliberately absent.
type OpportunityPatch struct {
	CompanyID   *int    `json:"company_id,omitempty"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Location    *string `json:"location,omitempty"`
	Stipend     *string `json:"stipend,omitempty"`
	Deadline    *string `json:"deadline,omitempty"`
}
