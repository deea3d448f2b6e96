package dto

import "github.com/SscSPs/docledger/internal/core/domain"

// UpdateCompanySettingsRequest changes company switches.
type UpdateCompanySettingsRequest struct {
	AllowNegativeBalance *bool `json:"allowNegativeBalance" binding:"required"`
}

// CompanySettingsResponse defines the data returned for company settings.
type CompanySettingsResponse struct {
	CompanyID            string `json:"companyID"`
	AllowNegativeBalance bool   `json:"allowNegativeBalance"`
}

// ToCompanySettingsResponse converts domain.CompanySettings.
func ToCompanySettingsResponse(s *domain.CompanySettings) CompanySettingsResponse {
	return CompanySettingsResponse{CompanyID: s.CompanyID, AllowNegativeBalance: s.AllowNegativeBalance}
}
