package domain

import (
	"time"
)

// CleanedProject is the canonical unit of analysis: one flood-control
// contract that survived validation, with derived metrics attached.
type CleanedProject struct {
	FundingYear         int        `json:"funding_year" db:"funding_year" validate:"required,min=2021,max=2023"`
	ApprovedBudget      float64    `json:"approved_budget" db:"approved_budget" validate:"required,gt=0"`
	ContractCost        float64    `json:"contract_cost" db:"contract_cost" validate:"required,gt=0"`
	StartDate           *time.Time `json:"start_date,omitempty" db:"start_date"`
	CompletionDate      *time.Time `json:"completion_date,omitempty" db:"completion_date"`
	Region              string     `json:"region" db:"region"`
	Province            string     `json:"province" db:"province"`
	MainIsland          string     `json:"main_island" db:"main_island"`
	Contractor          string     `json:"contractor" db:"contractor"`
	TypeOfWork          string     `json:"type_of_work" db:"type_of_work"`
	Latitude            float64    `json:"latitude,omitempty" db:"latitude"`
	Longitude           float64    `json:"longitude,omitempty" db:"longitude"`
	HasCoordinates      bool       `json:"has_coordinates" db:"has_coordinates"`
	CostSavings         float64    `json:"cost_savings" db:"cost_savings"`
	CompletionDelayDays int        `json:"completion_delay_days" db:"completion_delay_days"`
}

// Overran reports whether the contract cost exceeded the approved budget.
func (p CleanedProject) Overran() bool {
	return p.CostSavings < 0
}

// LoadReport summarizes one cleaning pass over a raw sheet.
type LoadReport struct {
	TotalRows              int `json:"total_rows"`
	Accepted               int `json:"accepted"`
	RejectedYear           int `json:"rejected_year"`
	RejectedBudget         int `json:"rejected_budget"`
	RejectedCost           int `json:"rejected_cost"`
	ImputedCompletionDates int `json:"imputed_completion_dates"`
	ImputedCoordinates     int `json:"imputed_coordinates"`
}

// Rejected returns the total number of rows dropped by the cleaner.
func (r LoadReport) Rejected() int {
	return r.RejectedYear + r.RejectedBudget + r.RejectedCost
}
