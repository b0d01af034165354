package handler

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"portfoliohub/internal/repository"
	"portfoliohub/internal/service/progress"
	"portfoliohub/internal/service/storage"
	"portfoliohub/internal/util"
	"portfoliohub/pkg/apperrors"
	"portfoliohub/pkg/metrics"
)

const signedURLTTLSeconds = 3600

type DeliverableHandler struct {
	progress  *progress.Service
	documents *repository.DocumentRepository
	storage   *storage.Client
	logger    *zap.Logger
}

func NewDeliverableHandler(
	progressSvc *progress.Service,
	documents *repository.DocumentRepository,
	storageClient *storage.Client,
	logger *zap.Logger,
) *DeliverableHandler {
	return &DeliverableHandler{
		progress:  progressSvc,
		documents: documents,
		storage:   storageClient,
		logger:    logger,
	}
}

// GetProgress returns the derived current state of a deliverable.
func (h *DeliverableHandler) GetProgress(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, apperrors.Validation("invalid deliverable id", []string{"id must be an integer"}))
		return
	}

	state, err := h.progress.DeriveCurrentState(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "current state derived", state)
}

// PatchProgress applies a merge-patch to the deliverable's progress row.
// Fields absent from the body keep their stored values.
func (h *DeliverableHandler) PatchProgress(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, apperrors.Validation("invalid deliverable id", []string{"id must be an integer"}))
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondError(c, apperrors.Validation("invalid request body", []string{"failed to read body"}))
		return
	}

	patch, violations := progress.ParsePatch(body)
	if len(violations) > 0 {
		respondError(c, apperrors.Validation("invalid progress patch", violations))
		return
	}

	row, err := h.progress.UpsertManual(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "progress updated", row)
}

// UploadDocument stores the file in object storage and only then records the
// document row. A failed upload returns a storage error and writes nothing,
// so no metadata ever points at a missing object.
func (h *DeliverableHandler) UploadDocument(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, apperrors.Validation("invalid deliverable id", []string{"id must be an integer"}))
		return
	}

	docType := c.PostForm("document_type")
	in := progress.DocumentInput{DocumentType: docType}

	var violations []string
	if raw := c.PostForm("invoice_amount"); raw != "" {
		cents, parseErr := util.ParseAmountCents(raw)
		if parseErr != nil {
			violations = append(violations, parseErr.Error())
		} else {
			in.InvoiceAmountCents = &cents
		}
	}
	if pct, ok := parsePercentForm(c, "related_scope_percentage", &violations); ok {
		in.RelatedScopePercentage = pct
	}
	if pct, ok := parsePercentForm(c, "related_payment_percentage", &violations); ok {
		in.RelatedPaymentPercentage = pct
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		violations = append(violations, "file is required")
	} else {
		defer file.Close()
	}
	if len(violations) > 0 {
		respondError(c, apperrors.Validation("invalid document upload", violations))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(c, apperrors.Wrap(err, apperrors.CodeInternal, "failed to read uploaded file"))
		return
	}

	objectPath := fmt.Sprintf("deliverables/%d/%d_%s", id, time.Now().UnixNano(), filepath.Base(header.Filename))
	storagePath, err := h.storage.Put(c.Request.Context(), objectPath, data, header.Header.Get("Content-Type"))
	if err != nil {
		metrics.IncrementDocumentUpload(docType, "storage_failed")
		respondError(c, err)
		return
	}
	in.StoragePath = storagePath

	doc, err := h.progress.RecordDocument(c.Request.Context(), id, in)
	if err != nil {
		metrics.IncrementDocumentUpload(docType, "failed")
		respondError(c, err)
		return
	}

	metrics.IncrementDocumentUpload(docType, "success")
	h.logger.Info("Document uploaded",
		zap.Int("deliverable_id", id),
		zap.Int("document_id", doc.ID),
		zap.String("document_type", docType),
	)
	respondSuccess(c, http.StatusCreated, "document recorded", doc)
}

// ListDocuments returns the deliverable's document history, newest first.
func (h *DeliverableHandler) ListDocuments(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, apperrors.Validation("invalid deliverable id", []string{"id must be an integer"}))
		return
	}

	docs, err := h.documents.ListByDeliverable(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "documents listed", docs)
}

// DocumentURL returns a time-limited download URL for a stored document.
func (h *DeliverableHandler) DocumentURL(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, apperrors.Validation("invalid document id", []string{"id must be an integer"}))
		return
	}

	doc, err := h.documents.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	signed, err := h.storage.SignedURL(c.Request.Context(), doc.StoragePath, signedURLTTLSeconds)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "signed url generated", gin.H{
		"url":        signed,
		"expires_in": signedURLTTLSeconds,
	})
}

func parsePercentForm(c *gin.Context, field string, violations *[]string) (*float64, bool) {
	raw := c.PostForm(field)
	if raw == "" {
		return nil, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*violations = append(*violations, fmt.Sprintf("%s %q is not a number", field, raw))
		return nil, false
	}
	return &v, true
}
