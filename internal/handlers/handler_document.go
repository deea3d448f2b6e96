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

// documentHandler handles HTTP requests related to documents and their ledger effects.
type documentHandler struct {
	documentService portssvc.DocumentSvcFacade
	ledgerService   portssvc.LedgerSvcFacade
}

func newDocumentHandler(ds portssvc.DocumentSvcFacade, ls portssvc.LedgerSvcFacade) *documentHandler {
	return &documentHandler{documentService: ds, ledgerService: ls}
}

// registerDocumentRoutes registers routes related to documents.
func registerDocumentRoutes(rg *gin.RouterGroup, documentService portssvc.DocumentSvcFacade, ledgerService portssvc.LedgerSvcFacade) {
	h := newDocumentHandler(documentService, ledgerService)

	documents := rg.Group("/documents")
	{
		documents.POST("", h.createDocument)
		documents.GET("/:id", h.getDocument)
		documents.PATCH("/:id", h.editDocument)
		documents.DELETE("/:id", h.deleteDocument)
		documents.POST("/:id/status", h.changeStatus)
		documents.POST("/:id/ledger/apply", h.applyLedger)
		documents.POST("/:id/ledger/reverse", h.reverseLedger)
	}
}

// createDocument godoc
// @Summary Create a document
// @Description Registers an invoice, receipt, payment voucher or statement of payment. The document number is issued by the sequence generator.
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   document body dto.CreateDocumentRequest true "Document details"
// @Success 201 {object} dto.DocumentResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account or linked document not found"
// @Failure 500 {object} map[string]string "Failed to create document"
// @Security BearerAuth
// @Router /documents [post]
func (h *documentHandler) createDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, logger, err)
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("company_id", req.CompanyID), slog.String("document_type", string(req.Type)))
	doc, err := h.documentService.CreateDocument(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create document")
		return
	}

	logger.Info("Document created", slog.String("document_id", doc.DocumentID), slog.String("number", doc.Number))
	c.JSON(http.StatusCreated, dto.ToDocumentResponse(doc))
}

// getDocument godoc
// @Summary Get a document by ID
// @Tags documents
// @Produce  json
// @Param   id path string true "Document ID"
// @Success 200 {object} dto.DocumentResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 500 {object} map[string]string "Failed to retrieve document"
// @Security BearerAuth
// @Router /documents/{id} [get]
func (h *documentHandler) getDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("document_id", c.Param("id")))

	doc, err := h.documentService.GetDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve document")
		return
	}
	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

// changeStatus godoc
// @Summary Change a document's status
// @Description Applies an explicit status transition. Completing a receipt or statement of payment posts a ledger entry; leaving completed reverses it. Linked invoices and vouchers are updated in the same unit of work.
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   id path string true "Document ID"
// @Param   change body dto.ChangeStatusRequest true "Status pair"
// @Success 200 {object} dto.ChangeResultResponse
// @Failure 400 {object} map[string]string "Invalid transition or ledger rule violation"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 409 {object} map[string]string "Document status has changed"
// @Failure 422 {object} map[string]string "Insufficient balance"
// @Failure 503 {object} map[string]string "Lock not acquired in time, retry"
// @Security BearerAuth
// @Router /documents/{id}/status [post]
func (h *documentHandler) changeStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("document_id", c.Param("id")))
	var req dto.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, logger, err)
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	res, err := h.documentService.ChangeStatus(c.Request.Context(), domain.StatusChange{
		DocumentID: c.Param("id"),
		From:       req.FromStatus,
		To:         req.ToStatus,
		Initiator:  domain.InitiatorUser,
		ActorID:    userID,
	})
	if err != nil {
		respondWithError(c, logger, err, "Failed to change document status")
		return
	}
	c.JSON(http.StatusOK, dto.ToChangeResultResponse(res))
}

// editDocument godoc
// @Summary Edit a document
// @Description Changes the account, currency, amount, total deducted or link of a document. A completed document is reversed and re-applied when its ledger effect changes.
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   id path string true "Document ID"
// @Param   edit body dto.EditDocumentRequest true "Fields to change"
// @Success 200 {object} dto.ChangeResultResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 422 {object} map[string]string "Insufficient balance"
// @Failure 503 {object} map[string]string "Lock not acquired in time, retry"
// @Security BearerAuth
// @Router /documents/{id} [patch]
func (h *documentHandler) editDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("document_id", c.Param("id")))
	var req dto.EditDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, logger, err)
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	res, err := h.documentService.EditDocument(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to edit document")
		return
	}
	c.JSON(http.StatusOK, dto.ToChangeResultResponse(res))
}

// deleteDocument godoc
// @Summary Delete a document
// @Description Soft-deletes a document, reversing its ledger entry first when it is completed.
// @Tags documents
// @Produce  json
// @Param   id path string true "Document ID"
// @Success 200 {object} dto.ChangeResultResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 503 {object} map[string]string "Lock not acquired in time, retry"
// @Security BearerAuth
// @Router /documents/{id} [delete]
func (h *documentHandler) deleteDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("document_id", c.Param("id")))

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	res, err := h.documentService.DeleteDocument(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to delete document")
		return
	}
	logger.Info("Document deleted")
	c.JSON(http.StatusOK, dto.ToChangeResultResponse(res))
}

// applyLedger godoc
// @Summary Apply a completed document to its account
// @Description Idempotent. Returns already_applied when an unreversed entry exists.
// @Tags ledger
// @Produce  json
// @Param   id path string true "Document ID"
// @Success 200 {object} dto.LedgerEntryResult
// @Failure 400 {object} map[string]string "Ledger rule violation"
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 422 {object} map[string]string "Insufficient balance"
// @Failure 503 {object} map[string]string "Lock not acquired in time, retry"
// @Security BearerAuth
// @Router /documents/{id}/ledger/apply [post]
func (h *documentHandler) applyLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("document_id", c.Param("id")))

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	res, err := h.ledgerService.ApplyOnCompletion(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to apply document")
		return
	}
	c.JSON(http.StatusOK, dto.ToLedgerEntryResult(*res))
}

// reverseLedger godoc
// @Summary Reverse a document's ledger entry
// @Description Idempotent. Returns already_reversed when the latest entry has been reversed.
// @Tags ledger
// @Produce  json
// @Param   id path string true "Document ID"
// @Success 200 {object} dto.LedgerEntryResult
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 500 {object} map[string]string "Ledger integrity error"
// @Failure 503 {object} map[string]string "Lock not acquired in time, retry"
// @Security BearerAuth
// @Router /documents/{id}/ledger/reverse [post]
func (h *documentHandler) reverseLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("document_id", c.Param("id")))

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	res, err := h.ledgerService.ReverseOnUncompletion(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to reverse document")
		return
	}
	c.JSON(http.StatusOK, dto.ToLedgerEntryResult(*res))
}
