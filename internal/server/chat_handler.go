package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Resanso/smart-office/internal/simulation"
)

const (
	chatTimeout          = 45 * time.Second
	analysisSystemPrompt = "You are a facilities analyst for a smart office. Answer using only the sensor summary provided. Temperatures are in °C, illuminance in lux, occupancy is the share of samples with presence detected. If the summary cannot answer the question, say so."
)

type chatQueryRequest struct {
	Question string `json:"question"`
}

// HandleChatQuery answers a free-form question about the generated dataset
// using its per-sensor summary as context.
func HandleChatQuery(c *gin.Context, deps Dependencies) {
	if deps.LLM == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "LLM client not configured"})
		return
	}

	var req chatQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), chatTimeout)
	defer cancel()

	summary := buildSummaryContext(deps.Dataset)
	answer, err := deps.LLM.GenerateText(ctx, analysisSystemPrompt, summary, "Question: "+question)
	if err != nil {
		if deps.Logger != nil {
			deps.Logger.Warn("llm analysis failed", zap.Error(err))
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to answer question"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"answer":  strings.TrimSpace(answer),
		"context": summary,
	})
}

func buildSummaryContext(ds *simulation.Dataset) string {
	w := ds.Window()
	var sb strings.Builder
	fmt.Fprintf(&sb, "Window: %s to %s, every %d minutes (%d instants, %d readings).\n",
		w.Start.Format(simulation.TimestampLayout),
		w.End.Format(simulation.TimestampLayout),
		w.IntervalMinutes, w.Count(), ds.Len())
	sb.WriteString("sensor_id,tipo,unit,count,min,max,mean\n")
	for _, s := range ds.Summary() {
		fmt.Fprintf(&sb, "%s,%s,%s,%d,%.2f,%.2f,%.2f\n", s.SensorID, s.Type, s.Unit, s.Count, s.Min, s.Max, s.Mean)
	}
	return sb.String()
}
