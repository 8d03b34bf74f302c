package server

import (
	"bytes"
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Resanso/smart-office/internal/export"
	"github.com/Resanso/smart-office/internal/metrics"
	"github.com/Resanso/smart-office/internal/simulation"
)

const requestIDHeader = "X-Request-ID"

// TextGenerator answers a prompt. *llm.Client satisfies it.
type TextGenerator interface {
	GenerateText(ctx context.Context, systemPrompt string, userParts ...string) (string, error)
}

// Dependencies groups objects the HTTP layer needs.
type Dependencies struct {
	Dataset *simulation.Dataset
	RunID   string
	LLM     TextGenerator
	Metrics *metrics.Metrics
	Logger  *zap.Logger
}

type readingDTO struct {
	Timestamp string  `json:"timestamp"`
	SensorID  string  `json:"sensor_id"`
	Type      string  `json:"tipo"`
	Value     float64 `json:"valor"`
}

// NewRouter configures all HTTP routes over an already generated dataset.
func NewRouter(deps Dependencies) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestID(), accessLog(deps.Logger, deps.Metrics))
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:    []string{"Origin", "Content-Type", requestIDHeader},
		ExposeHeaders:   []string{requestIDHeader, "Content-Disposition"},
		MaxAge:          12 * time.Hour,
	}))

	r.GET("/api/health", func(c *gin.Context) {
		if deps.Dataset == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "no dataset"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"runId":    deps.RunID,
			"readings": deps.Dataset.Len(),
		})
	})

	api := r.Group("/api/dataset", requireDataset(deps))
	api.GET("", func(c *gin.Context) { handleReadings(c, deps) })
	api.GET("/summary", func(c *gin.Context) { handleSummary(c, deps) })
	api.GET("/export/:format", func(c *gin.Context) { handleExport(c, deps) })

	r.POST("/api/chat", requireDataset(deps), func(c *gin.Context) { HandleChatQuery(c, deps) })

	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	return r
}

func requireDataset(deps Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps.Dataset == nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "dataset not generated"})
			return
		}
		c.Next()
	}
}

func handleReadings(c *gin.Context, deps Dependencies) {
	var sensorType *simulation.SensorType
	if raw := strings.TrimSpace(c.Query("tipo")); raw != "" {
		st, err := simulation.ParseSensorType(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		sensorType = &st
	}

	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = v
	}

	readings := deps.Dataset.Filter(strings.TrimSpace(c.Query("sensor_id")), sensorType)
	total := len(readings)
	if limit > 0 && limit < total {
		readings = readings[:limit]
	}

	out := make([]readingDTO, len(readings))
	for i, r := range readings {
		out[i] = readingDTO{
			Timestamp: r.FormattedTimestamp(),
			SensorID:  r.SensorID,
			Type:      r.Type.String(),
			Value:     r.Value,
		}
	}
	c.JSON(http.StatusOK, gin.H{"total": total, "count": len(out), "readings": out})
}

func handleSummary(c *gin.Context, deps Dependencies) {
	w := deps.Dataset.Window()
	c.JSON(http.StatusOK, gin.H{
		"window": gin.H{
			"start":           w.Start.Format(simulation.TimestampLayout),
			"end":             w.End.Format(simulation.TimestampLayout),
			"intervalMinutes": w.IntervalMinutes,
			"instants":        w.Count(),
		},
		"readings": deps.Dataset.Len(),
		"sensors":  deps.Dataset.Summary(),
	})
}

func handleExport(c *gin.Context, deps Dependencies) {
	format := export.Format(strings.ToLower(c.Param("format")))
	switch format {
	case export.FormatCSV, export.FormatXLSX, export.FormatLineProtocol:
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown export format"})
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, deps.Dataset); err != nil {
		deps.Logger.Error("dataset export failed", zap.String("format", string(format)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="smart_office_data.`+string(format)+`"`)
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("requestId", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func accessLog(log *zap.Logger, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		log.Info("http_request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("requestId", c.GetString("requestId")),
		)
		m.ObserveRequest(route, status, duration)
	}
}
