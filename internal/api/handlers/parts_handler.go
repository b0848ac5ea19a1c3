// internal/api/handlers/parts_handler.go
package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Roxeraf/pfep/internal/domain"
	"github.com/Roxeraf/pfep/internal/ingest"
	"github.com/Roxeraf/pfep/internal/service"
	"github.com/Roxeraf/pfep/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type PartsHandler struct {
	service *service.CatalogService
	archive storage.ObjectStorage // nil when archiving is disabled
}

func NewPartsHandler(service *service.CatalogService, archive storage.ObjectStorage) *PartsHandler {
	return &PartsHandler{service: service, archive: archive}
}

// ListParts returns the whole catalog in insertion order.
func (h *PartsHandler) ListParts(c *gin.Context) {
	snapshot := h.service.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"items": snapshot,
		"total": len(snapshot),
	})
}

// GetPart returns one record by part number.
func (h *PartsHandler) GetPart(c *gin.Context) {
	partNumber := strings.TrimSpace(c.Param("part_number"))
	rec, ok := h.service.Get(partNumber)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "part not found", "part_number": partNumber})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// UpsertPart creates or replaces the record with the body's part number.
// LastUpdated is stamped server-side, never taken from the client.
func (h *PartsHandler) UpsertPart(c *gin.Context) {
	var rec domain.PartRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid part payload", "details": err.Error()})
		return
	}

	if pathPN := strings.TrimSpace(c.Param("part_number")); pathPN != "" {
		rec.PartNumber = pathPN
	}

	saved, err := h.service.Upsert(c.Request.Context(), rec)
	if err != nil {
		if saved.PartNumber == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		// Saved in memory, persistence failed: report but do not lose the edit.
		c.JSON(http.StatusOK, gin.H{"part": saved, "warning": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"part": saved})
}

// DeletePart removes one record.
func (h *PartsHandler) DeletePart(c *gin.Context) {
	partNumber := strings.TrimSpace(c.Param("part_number"))

	existed, err := h.service.Delete(c.Request.Context(), partNumber)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete part", "details": err.Error()})
		return
	}
	if !existed {
		c.JSON(http.StatusNotFound, gin.H{"error": "part not found", "part_number": partNumber})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": partNumber})
}

// UploadParts ingests an XLSX or CSV table. mode=replace swaps the whole
// catalog for the upload; the default merges by part number.
func (h *PartsHandler) UploadParts(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing upload file", "details": err.Error()})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open upload", "details": err.Error()})
		return
	}
	defer file.Close()

	header, rows, err := ingest.ReadTable(file, fileHeader.Filename)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to parse upload", "details": err.Error()})
		return
	}

	replace := strings.EqualFold(c.DefaultQuery("mode", "merge"), "replace")

	total, issues, err := h.service.ImportTable(c.Request.Context(), header, rows, replace)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to import upload", "details": err.Error()})
		return
	}

	if issues == nil {
		issues = []ingest.RowIssue{}
	}
	c.JSON(http.StatusOK, gin.H{
		"filename": fileHeader.Filename,
		"total":    total,
		"issues":   issues,
	})
}

// ExportParts streams the catalog as an XLSX workbook. With ?archive=true
// and an archive bucket configured, a copy is pushed to object storage.
func (h *PartsHandler) ExportParts(c *gin.Context) {
	data, err := h.service.Export()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export catalog", "details": err.Error()})
		return
	}

	if c.Query("archive") == "true" && h.archive != nil {
		key := fmt.Sprintf("exports/pfep_%s.xlsx", time.Now().Format("20060102_150405"))
		if err := h.archive.UploadObject(c.Request.Context(), key, data); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("export archive failed")
		} else {
			log.Info().Str("key", key).Msg("export archived")
		}
	}

	c.Header("Content-Disposition", `attachment; filename="pfep_data.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}
