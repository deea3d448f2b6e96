package domain

// CompanySettings holds the per-company switches the ledger consults.
type CompanySettings struct {
	CompanyID            string `json:"companyID"`
	AllowNegativeBalance bool   `json:"allowNegativeBalance"`
}
