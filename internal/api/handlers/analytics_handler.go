// internal/api/handlers/analytics_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Roxeraf/pfep/internal/analytics"
	"github.com/Roxeraf/pfep/internal/domain"
	"github.com/Roxeraf/pfep/internal/service"
	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	service *service.AnalyticsService
}

func NewAnalyticsHandler(service *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// parseFilter reads supplier/part filters from the query string. Both
// repeated params and comma-separated values are supported:
//
//	?suppliers=Acme&suppliers=Borealis
//	?suppliers=Acme,Borealis
func (h *AnalyticsHandler) parseFilter(c *gin.Context) domain.Filter {
	parseList := func(param string) []string {
		raw := c.QueryArray(param)
		if len(raw) == 0 {
			if single := strings.TrimSpace(c.Query(param)); single != "" {
				raw = []string{single}
			}
		}

		var values []string
		for _, v := range raw {
			for _, part := range strings.Split(v, ",") {
				part = strings.TrimSpace(part)
				if part != "" {
					values = append(values, part)
				}
			}
		}
		return values
	}

	return domain.Filter{
		Suppliers:   parseList("suppliers"),
		PartNumbers: parseList("part_numbers"),
	}
}

// GetSupplierRatings returns the ranked supplier table.
func (h *AnalyticsHandler) GetSupplierRatings(c *gin.Context) {
	filter := h.parseFilter(c)

	report, err := h.service.SupplierRatings(c.Request.Context(), filter)
	if err != nil {
		if errors.Is(err, analytics.ErrEmptyCatalog) {
			c.JSON(http.StatusOK, gin.H{
				"suppliers": []domain.SupplierMetrics{},
				"message":   "catalog is empty, nothing to report",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute supplier ratings", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetInventoryAlerts returns understock/overstock alert lists along with the
// active overstock rule so clients can display its literal definition.
func (h *AnalyticsHandler) GetInventoryAlerts(c *gin.Context) {
	filter := h.parseFilter(c)

	report, err := h.service.InventoryAlerts(c.Request.Context(), filter)
	if err != nil {
		if errors.Is(err, analytics.ErrEmptyCatalog) {
			c.JSON(http.StatusOK, gin.H{
				"understocked":      []domain.StockAlert{},
				"overstock_flagged": []domain.StockAlert{},
				"overstock_rule":    h.service.OverstockRuleName(),
				"message":           "catalog is empty, nothing to report",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to classify inventory", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"understocked":      report.Understocked,
		"overstock_flagged": report.OverstockFlagged,
		"overstock_rule":    h.service.OverstockRuleName(),
	})
}

// GetForecast fits and projects the usage trend of one part. Insufficient
// history is an explicit empty result, not a server fault.
func (h *AnalyticsHandler) GetForecast(c *gin.Context) {
	partNumber := strings.TrimSpace(c.Param("part_number"))
	horizon, _ := strconv.Atoi(c.DefaultQuery("horizon", "0"))

	series, err := h.service.Forecast(c.Request.Context(), partNumber, horizon)
	if err != nil {
		switch {
		case errors.Is(err, analytics.ErrInsufficientData):
			c.JSON(http.StatusOK, gin.H{
				"part_number":       partNumber,
				"insufficient_data": true,
				"message":           "at least 2 usage observations are required to fit a trend",
			})
		case errors.Is(err, analytics.ErrEmptyCatalog):
			c.JSON(http.StatusOK, gin.H{
				"part_number": partNumber,
				"message":     "catalog is empty, nothing to report",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute forecast", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, series)
}
