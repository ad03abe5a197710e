package domain

// RawRecord is one row of the source sheet, keyed by column name. Values are
// untyped strings exactly as read; the cleaner owns all parsing.
type RawRecord map[string]string

// Column names of the DPWH flood-control export. Readers map header cells to
// these keys verbatim.
const (
	ColMainIsland                 = "MainIsland"
	ColRegion                     = "Region"
	ColProvince                   = "Province"
	ColTypeOfWork                 = "TypeOfWork"
	ColFundingYear                = "FundingYear"
	ColApprovedBudgetForContract  = "ApprovedBudgetForContract"
	ColContractCost               = "ContractCost"
	ColActualCompletionDate       = "ActualCompletionDate"
	ColContractor                 = "Contractor"
	ColStartDate                  = "StartDate"
	ColProjectLatitude            = "ProjectLatitude"
	ColProjectLongitude           = "ProjectLongitude"
	ColProvincialCapitalLatitude  = "ProvincialCapitalLatitude"
	ColProvincialCapitalLongitude = "ProvincialCapitalLongitude"
)

// RequiredColumns are the headers a source sheet must carry to be loadable.
// The coordinate columns are optional; their absence only disables
// geographic enrichment.
var RequiredColumns = []string{
	ColRegion,
	ColMainIsland,
	ColFundingYear,
	ColApprovedBudgetForContract,
	ColContractCost,
	ColContractor,
	ColTypeOfWork,
}
