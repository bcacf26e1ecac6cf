package httpapi

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ticketstory/story-server/internal/config"
	"github.com/ticketstory/story-server/internal/ingest"
	"github.com/ticketstory/story-server/internal/pipeline"
	"github.com/ticketstory/story-server/internal/service"
)

const (
	uploadFieldName   = "file"
	exportDateLayout  = "2006-01-02 15:04"
	displayDateLayout = "January 2, 2006"
)

// Handlers exposes the pipeline over HTTP: one endpoint processing an upload
// into phase narratives plus analytics, and one exporting the cleaned table.
type Handlers struct {
	summaries      SummaryService
	logger         *zap.Logger
	maxUploadBytes int64
}

// NewHandlers initializes the HTTP handlers.
func NewHandlers(summaries SummaryService, logger *zap.Logger, maxUploadBytes int64) *Handlers {
	if summaries == nil {
		panic("nil SummaryService provided to NewHandlers")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxUploadBytes <= 0 {
		maxUploadBytes = 32 << 20
	}
	return &Handlers{
		summaries:      summaries,
		logger:         logger.Named("http-handler"),
		maxUploadBytes: maxUploadBytes,
	}
}

// Routes mounts the API endpoints.
func (h *Handlers) Routes(r chi.Router) {
	r.Post("/v1/summaries", h.CreateSummaries)
	r.Post("/v1/tickets/export", h.ExportProcessed)
}

// CreateSummaries ingests one ticket file and returns per-group phase
// narratives plus dataset analytics.
func (h *Handlers) CreateSummaries(w http.ResponseWriter, r *http.Request) {
	table, ok := h.readUploadedTable(w, r)
	if !ok {
		return
	}

	result, err := h.summaries.Run(r.Context(), table)
	if err != nil {
		h.writeServiceError(w, "CreateSummaries", err)
		return
	}

	WriteJSON(w, http.StatusOK, newRunResponse(result))
}

// ExportProcessed ingests one ticket file and returns the cleaned, normalized
// table as a CSV download.
func (h *Handlers) ExportProcessed(w http.ResponseWriter, r *http.Request) {
	table, ok := h.readUploadedTable(w, r)
	if !ok {
		return
	}

	tickets, _, err := h.summaries.Clean(table)
	if err != nil {
		h.writeServiceError(w, "ExportProcessed", err)
		return
	}

	filename := fmt.Sprintf("processed_tickets_%s.csv", time.Now().Format("20060102_1504"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)

	if err := writeTicketsCSV(w, tickets); err != nil {
		h.logger.Error("csv export write failed", zap.Error(err))
	}
}

func (h *Handlers) readUploadedTable(w http.ResponseWriter, r *http.Request) (*ingest.Table, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	file, header, err := r.FormFile(uploadFieldName)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "MISSING_FILE", "multipart field \"file\" is required")
		return nil, false
	}
	defer file.Close()

	table, err := ingest.ReadTable(file, header.Filename)
	if err != nil {
		h.logger.Warn("upload decode failed", zap.String("filename", header.Filename), zap.Error(err))
		WriteError(w, http.StatusBadRequest, "UNREADABLE_FILE", err.Error())
		return nil, false
	}

	return table, true
}

func (h *Handlers) writeServiceError(w http.ResponseWriter, op string, err error) {
	var schemaErr *ingest.SchemaError
	switch {
	case errors.As(err, &schemaErr):
		h.logger.Info("schema validation failed", zap.String("op", op), zap.Strings("missing", schemaErr.Missing))
		WriteError(w, http.StatusBadRequest, "SCHEMA_ERROR", schemaErr.Error())
	case errors.Is(err, service.ErrNoTickets):
		h.logger.Info("no valid tickets", zap.String("op", op))
		WriteError(w, http.StatusUnprocessableEntity, "NO_VALID_TICKETS", "no valid tickets remain after filtering")
	default:
		h.logger.Error("unexpected error", zap.String("op", op), zap.Error(err))
		WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "processing failed")
	}
}

func writeTicketsCSV(w http.ResponseWriter, tickets []pipeline.Ticket) error {
	cw := csv.NewWriter(w)

	headers := []string{
		config.ColOrderNumber,
		config.ColAcceptanceTime,
		config.ColCompletionTime,
		config.ColCustomerCompletionTime,
		config.ColCustomerNumber,
		config.ColOrderType,
		config.ColProcessingStatus,
		config.ColServiceCategory,
		config.ColOrderDescription1,
		config.ColOrderDescription2,
		config.ColCompletionResult,
		config.ColNoteMaximum,
		config.ColProduct,
	}
	if err := cw.Write(headers); err != nil {
		return err
	}

	for _, t := range tickets {
		record := []string{
			t.OrderNumber,
			formatExportTime(t.AcceptanceTime),
			formatExportTime(t.CompletionTime),
			formatExportTime(t.CustomerCompletionTime),
			t.CustomerNumber,
			t.OrderType,
			t.ProcessingStatus,
			t.CategoryCode,
			t.Description1,
			t.Description2,
			t.ResolutionNotes,
			t.AdditionalNotes,
			t.Product,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatExportTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(exportDateLayout)
}
