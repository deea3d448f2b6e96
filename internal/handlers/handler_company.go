package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/docledger/internal/core/domain"
	portssvc "github.com/SscSPs/docledger/internal/core/ports/services"
	"github.com/SscSPs/docledger/internal/dto"
	"github.com/SscSPs/docledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// companyHandler serves company settings, company-wide balance checks and numbering.
type companyHandler struct {
	companyService  portssvc.CompanySvcFacade
	accountService  portssvc.AccountSvcFacade
	sequenceService portssvc.SequenceSvcFacade
}

func registerCompanyRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := &companyHandler{
		companyService:  services.Company,
		accountService:  services.Account,
		sequenceService: services.Sequence,
	}

	companies := rg.Group("/companies/:companyID")
	{
		companies.GET("/settings", h.getSettings)
		companies.PUT("/settings", h.updateSettings)
		companies.GET("/balances/verify", h.verifyAllBalances)

		sequences := companies.Group("/sequences/:type")
		sequences.POST("/next", h.nextNumber)
		sequences.GET("/:date", h.currentSequence)
		sequences.PUT("/:date", h.resetSequence)
	}
}

// getSettings godoc
// @Summary Get company settings
// @Description Returns the ledger switches of a company. Unknown companies get the defaults.
// @Tags companies
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Success 200 {object} dto.CompanySettingsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to retrieve settings"
// @Security BearerAuth
// @Router /companies/{companyID}/settings [get]
func (h *companyHandler) getSettings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("company_id", c.Param("companyID")))

	settings, err := h.companyService.GetSettings(c.Request.Context(), c.Param("companyID"))
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve settings")
		return
	}
	c.JSON(http.StatusOK, dto.ToCompanySettingsResponse(settings))
}

// updateSettings godoc
// @Summary Update company settings
// @Tags companies
// @Accept  json
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   settings body dto.UpdateCompanySettingsRequest true "Settings"
// @Success 200 {object} dto.CompanySettingsResponse
// @Failure 400 {object} map[string]string "Invalid input format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to update settings"
// @Security BearerAuth
// @Router /companies/{companyID}/settings [put]
func (h *companyHandler) updateSettings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("company_id", c.Param("companyID")))
	var req dto.UpdateCompanySettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, logger, err)
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	settings, err := h.companyService.UpdateSettings(c.Request.Context(), c.Param("companyID"), req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to update settings")
		return
	}
	logger.Info("Company settings updated", slog.String("user_id", userID), slog.Bool("allow_negative_balance", settings.AllowNegativeBalance))
	c.JSON(http.StatusOK, dto.ToCompanySettingsResponse(settings))
}

// verifyAllBalances godoc
// @Summary Verify every account balance of a company
// @Tags companies
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Success 200 {array} dto.BalanceCheckResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to verify balances"
// @Security BearerAuth
// @Router /companies/{companyID}/balances/verify [get]
func (h *companyHandler) verifyAllBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("company_id", c.Param("companyID")))

	checks, err := h.accountService.VerifyAllBalances(c.Request.Context(), c.Param("companyID"))
	if err != nil {
		respondWithError(c, logger, err, "Failed to verify balances")
		return
	}
	res := make([]dto.BalanceCheckResponse, len(checks))
	for i := range checks {
		res[i] = dto.ToBalanceCheckResponse(&checks[i])
	}
	c.JSON(http.StatusOK, res)
}

// nextNumber godoc
// @Summary Issue the next document number
// @Description Consumes a serial from the day's counter. Numbers issued here are never reused.
// @Tags sequences
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   type path string true "Document type"
// @Success 200 {object} dto.NextNumberResponse
// @Failure 400 {object} map[string]string "Unknown document type"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to issue number"
// @Security BearerAuth
// @Router /companies/{companyID}/sequences/{type}/next [post]
func (h *companyHandler) nextNumber(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("company_id", c.Param("companyID")))
	docType, ok := bindDocumentType(c, logger)
	if !ok {
		return
	}

	number, err := h.sequenceService.NextDocumentNumber(c.Request.Context(), c.Param("companyID"), docType)
	if err != nil {
		respondWithError(c, logger, err, "Failed to issue number")
		return
	}
	c.JSON(http.StatusOK, dto.NextNumberResponse{Number: number})
}

// currentSequence godoc
// @Summary Read a day's counter
// @Tags sequences
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   type path string true "Document type"
// @Param   date path string true "Date key (YYYYMMDD)"
// @Success 200 {object} dto.SequenceValueResponse
// @Failure 400 {object} map[string]string "Invalid document type or date"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /companies/{companyID}/sequences/{type}/{date} [get]
func (h *companyHandler) currentSequence(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("company_id", c.Param("companyID")))
	docType, ok := bindDocumentType(c, logger)
	if !ok {
		return
	}

	value, err := h.sequenceService.CurrentSequence(c.Request.Context(), c.Param("companyID"), docType, c.Param("date"))
	if err != nil {
		respondWithError(c, logger, err, "Failed to read sequence")
		return
	}
	c.JSON(http.StatusOK, dto.SequenceValueResponse{DocumentType: docType, DateKey: c.Param("date"), Value: value})
}

// resetSequence godoc
// @Summary Reset a day's counter
// @Description Administrative. Setting a counter below an issued serial will make numbers collide with existing documents.
// @Tags sequences
// @Accept  json
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   type path string true "Document type"
// @Param   date path string true "Date key (YYYYMMDD)"
// @Param   value body dto.ResetSequenceRequest true "New counter value"
// @Success 200 {object} dto.SequenceValueResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /companies/{companyID}/sequences/{type}/{date} [put]
func (h *companyHandler) resetSequence(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("company_id", c.Param("companyID")))
	docType, ok := bindDocumentType(c, logger)
	if !ok {
		return
	}
	var req dto.ResetSequenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, logger, err)
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	if err := h.sequenceService.ResetSequence(c.Request.Context(), c.Param("companyID"), docType, c.Param("date"), *req.Value); err != nil {
		respondWithError(c, logger, err, "Failed to reset sequence")
		return
	}
	logger.Warn("Sequence reset through API", slog.String("user_id", userID), slog.String("document_type", string(docType)), slog.Int64("value", *req.Value))
	c.JSON(http.StatusOK, dto.SequenceValueResponse{DocumentType: docType, DateKey: c.Param("date"), Value: *req.Value})
}

func bindDocumentType(c *gin.Context, logger *slog.Logger) (domain.DocumentType, bool) {
	docType, err := domain.ParseDocumentType(c.Param("type"))
	if err != nil {
		logger.Warn("Invalid document type in path", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return docType, true
}
