package dto

import "github.com/SscSPs/docledger/internal/core/domain"

// NextNumberResponse carries a freshly issued document number.
type NextNumberResponse struct {
	Number string `json:"number"`
}

// ResetSequenceRequest sets a day's counter. The next number issued is Value+1.
type ResetSequenceRequest struct {
	Value *int64 `json:"value" binding:"required,min=0"`
}

// SequenceValueResponse reports a counter value.
type SequenceValueResponse struct {
	DocumentType domain.DocumentType `json:"documentType"`
	DateKey      string              `json:"dateKey"`
	Value        int64               `json:"value"`
}
