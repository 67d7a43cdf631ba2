package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jgoulah/loadanalyzer/internal/ledger"
	"github.com/jgoulah/loadanalyzer/pkg/models"
)

// Archiver stores analysis reports
type Archiver interface {
	InsertReport(r *models.Report) error
}

// ApplianceHandler exposes one ledger over HTTP
type ApplianceHandler struct {
	Ledger        *ledger.Ledger
	Archive       Archiver      // optional
	AnalysisDelay time.Duration // optional pause before analysis results
	Logger        *zap.Logger
}

// Register mounts the ledger routes under /api
func (h *ApplianceHandler) Register(r *gin.Engine) {
	group := r.Group("/api")
	group.GET("/appliances", h.list)
	group.POST("/appliances", h.add)
	group.DELETE("/appliances", h.clear)
	group.DELETE("/appliances/:id", h.remove)
	group.GET("/analysis", h.analyze)
	group.GET("/chart", h.chart)
}

// rawField accepts either a JSON string or a bare JSON number, keeping the
// literal text so the ledger performs the numeric parsing
type rawField string

func (f *rawField) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = rawField(s)
		return nil
	}
	*f = rawField(b)
	return nil
}

type addRequest struct {
	Name     rawField `json:"name"`
	Power    rawField `json:"power"`
	Quantity rawField `json:"quantity"`
	Hours    rawField `json:"hours"`
}

type issueDTO struct {
	Code    ledger.Issue `json:"code"`
	Message string       `json:"message"`
}

type analysisDTO struct {
	Summary models.Summary      `json:"summary"`
	Chart   []models.ChartPoint `json:"chart"`
}

func (h *ApplianceHandler) list(c *gin.Context) {
	records := h.Ledger.Records()
	Ok(c, records, map[string]any{"count": len(records)})
}

func (h *ApplianceHandler) add(c *gin.Context) {
	var req addRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body", map[string]any{"error": err.Error()})
		return
	}

	appliance, err := h.Ledger.Add(string(req.Name), string(req.Power), string(req.Quantity), string(req.Hours))
	if err != nil {
		var verr *ledger.ValidationError
		if errors.As(err, &verr) {
			issues := make([]issueDTO, 0, len(verr.Issues))
			for _, i := range verr.Issues {
				issues = append(issues, issueDTO{Code: i, Message: i.Message()})
			}
			Error(c, http.StatusUnprocessableEntity, "validation failed", map[string]any{"issues": issues})
			return
		}
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	h.Logger.Debug("appliance added",
		zap.String("id", appliance.ID),
		zap.String("name", appliance.Name),
		zap.Float64("kwh_per_day", appliance.EnergyKWhPerDay),
	)
	Created(c, appliance)
}

func (h *ApplianceHandler) remove(c *gin.Context) {
	id := c.Param("id")
	if !h.Ledger.Remove(id) {
		Error(c, http.StatusNotFound, "appliance not found", map[string]any{"id": id})
		return
	}
	h.Logger.Debug("appliance removed", zap.String("id", id))
	Ok(c, gin.H{"id": id}, nil)
}

func (h *ApplianceHandler) clear(c *gin.Context) {
	removed := h.Ledger.Len()
	h.Ledger.Clear()
	h.Logger.Debug("ledger cleared", zap.Int("removed", removed))
	Ok(c, nil, map[string]any{"removed": removed})
}

func (h *ApplianceHandler) chart(c *gin.Context) {
	Ok(c, h.Ledger.ChartSeries(), nil)
}

func (h *ApplianceHandler) analyze(c *gin.Context) {
	summary, series, err := h.Ledger.Analysis()
	if errors.Is(err, ledger.ErrEmptyLedger) {
		Error(c, http.StatusConflict, err.Error(), nil)
		return
	}
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	if h.AnalysisDelay > 0 {
		timer := time.NewTimer(h.AnalysisDelay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-c.Request.Context().Done():
			c.Abort()
			return
		}
	}

	if h.Archive != nil {
		if err := h.Archive.InsertReport(models.NewReport(summary, time.Now())); err != nil {
			h.Logger.Warn("archiving report failed", zap.Error(err))
		}
	}

	Ok(c, analysisDTO{Summary: summary, Chart: series}, nil)
}
