package handlers

import (
	"fmt"
	"sync"

	"github.com/SscSPs/docledger/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerValidatorsOnce sync.Once

// RegisterValidators adds the document binding tags to gin's validator.
// It is safe to call more than once.
func RegisterValidators() error {
	var err error
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("unexpected binding validator engine %T", binding.Validator.Engine())
			return
		}
		if err = v.RegisterValidation("doctype", validateDocumentType); err != nil {
			return
		}
		err = v.RegisterValidation("docstatus", validateDocumentStatus)
	})
	return err
}

func validateDocumentType(fl validator.FieldLevel) bool {
	return domain.DocumentType(fl.Field().String()).Valid()
}

func validateDocumentStatus(fl validator.FieldLevel) bool {
	return domain.DocumentStatus(fl.Field().String()).Valid()
}
