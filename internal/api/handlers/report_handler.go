// internal/api/handlers/report_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/andresuchdata/deliveryperf/backend-go/internal/report"
	"github.com/andresuchdata/deliveryperf/backend-go/internal/service"
	"github.com/andresuchdata/deliveryperf/backend-go/internal/table"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type ReportHandler struct {
	service *service.ReportService
}

func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

// GetViews lists the available views with their column contracts.
func (h *ReportHandler) GetViews(c *gin.Context) {
	names := h.service.ViewNames()
	schemas := make([]report.ViewSchema, 0, len(names))
	for _, name := range names {
		if s, ok := report.Schema(name); ok {
			schemas = append(schemas, s)
		}
	}
	c.JSON(http.StatusOK, gin.H{"views": schemas})
}

// GetView computes (or serves from cache) one named view.
func (h *ReportHandler) GetView(c *gin.Context) {
	view := c.Param("view")
	if _, ok := report.Schema(view); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown view " + view})
		return
	}

	result, err := h.service.View(c.Request.Context(), view)
	if err != nil {
		h.renderError(c, view, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetReports computes a batch of views over one load of the inputs.
// ?views=a,b selects a subset; the default is every view.
func (h *ReportHandler) GetReports(c *gin.Context) {
	var views []string
	if q := c.Query("views"); q != "" {
		for _, v := range strings.Split(q, ",") {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			if _, ok := report.Schema(v); !ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "unknown view " + v})
				return
			}
			views = append(views, v)
		}
	}

	results, err := h.service.Batch(c.Request.Context(), views)
	if err != nil {
		h.renderError(c, "batch", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": results})
}

// InvalidateCache drops every cached view, forcing recomputation.
func (h *ReportHandler) InvalidateCache(c *gin.Context) {
	if err := h.service.Invalidate(c.Request.Context()); err != nil {
		h.renderError(c, "invalidate", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// renderError maps schema problems in the source data to 422 and
// everything else to 500. A schema error means the dataset, not the
// request, is unprocessable.
func (h *ReportHandler) renderError(c *gin.Context, view string, err error) {
	var schemaErr *table.SchemaError
	if errors.As(err, &schemaErr) {
		log.Warn().Err(err).Str("view", view).Msg("report rejected by schema validation")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": schemaErr.Error()})
		return
	}
	log.Error().Err(err).Str("view", view).Msg("report computation failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "report computation failed"})
}
