package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/sigmaforge/SixSigmaCharter/src/engine"
	"github.com/sigmaforge/SixSigmaCharter/src/logging"
	"github.com/sigmaforge/SixSigmaCharter/src/sixsigma"
)

// maxNameLen bounds the opaque process label; no character-set restriction.
const maxNameLen = 256

// chartQuery binds the single-process query parameters. Fails is a pointer
// so that 0 (the zero-defect case) survives the required check. Name length
// is checked against maxNameLen after binding, same as the batch path.
type chartQuery struct {
	Tests int    `form:"tests" binding:"required,gt=0"`
	Fails *int   `form:"fails" binding:"required,gte=0"`
	Name  string `form:"name"`
}

// processSpec is one element of the batch request body.
type processSpec struct {
	Tests int    `json:"tests"`
	Fails int    `json:"fails"`
	Name  string `json:"name"`
}

// HealthHandler reports liveness.
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ChartHandler renders a single process given as query parameters and
// returns the PNG with each record field mirrored into Process-* headers.
func ChartHandler(eng *engine.Engine, m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q chartQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			m.RendersTotal.WithLabelValues("chart", "invalid").Inc()
			c.JSON(http.StatusUnprocessableEntity, bindingErrorBody(err))
			return
		}
		if len(q.Name) > maxNameLen {
			m.RendersTotal.WithLabelValues("chart", "invalid").Inc()
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"field":      "name",
				"constraint": "max",
				"error":      "name exceeds " + strconv.Itoa(maxNameLen) + " characters",
			})
			return
		}
		spec := sixsigma.Process{Tests: q.Tests, Fails: *q.Fails, Name: q.Name}

		start := time.Now()
		res, err := eng.Run([]sixsigma.Process{spec})
		if err != nil {
			respondEngineError(c, m, "chart", err)
			return
		}
		m.RenderSeconds.WithLabelValues("chart").Observe(time.Since(start).Seconds())
		m.RendersTotal.WithLabelValues("chart", "ok").Inc()
		m.BatchSize.Observe(1)

		rec := res.Records[0]
		h := c.Writer.Header()
		h.Set("Content-Disposition", "inline; filename=chart.png")
		h.Set("Process-Tests", strconv.Itoa(rec.Tests))
		h.Set("Process-Fails", strconv.Itoa(rec.Fails))
		if rec.Name != nil {
			h.Set("Process-Name", *rec.Name)
		}
		h.Set("Process-Defect-Rate", strconv.FormatFloat(rec.DefectRate, 'f', -1, 64))
		h.Set("Process-Sigma", sixsigma.FormatSigma(float64(rec.Sigma), -1))
		h.Set("Process-Label", rec.Label)
		c.Data(http.StatusOK, "image/png", res.PNG)
	}
}

// ChartsHandler renders an ordered batch posted as a JSON array and returns
// the composite PNG with the metadata records in the Process-List header.
func ChartsHandler(eng *engine.Engine, m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var specs []processSpec
		if err := c.ShouldBindJSON(&specs); err != nil {
			m.RendersTotal.WithLabelValues("charts", "invalid").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body: " + err.Error()})
			return
		}
		if len(specs) == 0 {
			m.RendersTotal.WithLabelValues("charts", "invalid").Inc()
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "at least one process is required"})
			return
		}
		procs := make([]sixsigma.Process, 0, len(specs))
		for i, s := range specs {
			if len(s.Name) > maxNameLen {
				m.RendersTotal.WithLabelValues("charts", "invalid").Inc()
				c.JSON(http.StatusUnprocessableEntity, gin.H{
					"field":      "name",
					"constraint": "max",
					"error":      "process " + strconv.Itoa(i) + ": name exceeds " + strconv.Itoa(maxNameLen) + " characters",
				})
				return
			}
			procs = append(procs, sixsigma.Process{Tests: s.Tests, Fails: s.Fails, Name: s.Name})
		}

		start := time.Now()
		res, err := eng.Run(procs)
		if err != nil {
			respondEngineError(c, m, "charts", err)
			return
		}
		m.RenderSeconds.WithLabelValues("charts").Observe(time.Since(start).Seconds())
		m.RendersTotal.WithLabelValues("charts", "ok").Inc()
		m.BatchSize.Observe(float64(len(res.Records)))

		list, err := json.Marshal(res.Records)
		if err != nil {
			// Records marshal to plain JSON types; this cannot happen for a
			// valid batch.
			respondEngineError(c, m, "charts", err)
			return
		}
		h := c.Writer.Header()
		h.Set("Content-Disposition", "inline; filename=plot.png")
		h.Set("Process-List", string(list))
		c.Data(http.StatusOK, "image/png", res.PNG)
	}
}

// respondEngineError maps evaluation failures to 422; anything else is
// unexpected and maps to 500.
func respondEngineError(c *gin.Context, m *Metrics, endpoint string, err error) {
	var verr *sixsigma.ValidationError
	if errors.As(err, &verr) {
		m.RendersTotal.WithLabelValues(endpoint, "invalid").Inc()
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"field":      verr.Field,
			"constraint": verr.Constraint,
			"error":      err.Error(),
		})
		return
	}
	m.RendersTotal.WithLabelValues(endpoint, "error").Inc()
	logging.Errorf("%s render failed: %v request_id=%s", endpoint, err, c.GetString(requestIDKey))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

// bindingErrorBody extracts the first failing field and constraint from a
// gin binding error.
func bindingErrorBody(err error) gin.H {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return gin.H{
			"field":      strings.ToLower(fe.Field()),
			"constraint": fe.Tag(),
			"error":      fe.Error(),
		}
	}
	return gin.H{"error": err.Error()}
}
