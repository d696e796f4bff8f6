package obituary

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"memorial-app/config"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

var providerClient = &http.Client{Timeout: 30 * time.Second}

type generateRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	BirthDate string `json:"birth_date"`
	DeathDate string `json:"death_date"`
	Tone      string `json:"tone"`
	Facts     string `json:"facts"`
}

// GenerateObituary asks the text provider for a draft obituary and
// returns the scrubbed result. Nothing is written to the memorial; the
// studio decides whether to keep the text.
func GenerateObituary(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "First and last name are required"})
		return
	}

	if config.OBITUARY_API_URL == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Obituary generation is not configured"})
		return
	}

	payload, err := json.Marshal(req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build request"})
		return
	}

	httpReq, err := http.NewRequestWithContext(c.Request.Context(),
		http.MethodPost, config.OBITUARY_API_URL, bytes.NewReader(payload))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build request"})
		return
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if config.OBITUARY_API_KEY != "" {
		httpReq.Header.Set("Authorization", "Bearer "+config.OBITUARY_API_KEY)
	}

	resp, err := providerClient.Do(httpReq)
	if err != nil {
		log.Error().Err(err).Msg("obituary provider unreachable")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Obituary service is unavailable"})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Error().Int("status", resp.StatusCode).Msg("obituary provider returned an error")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Obituary service is unavailable"})
		return
	}

	var out struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		log.Error().Err(err).Msg("obituary provider response unreadable")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Obituary service is unavailable"})
		return
	}

	text := Scrub(out.Text)
	if strings.TrimSpace(text) == "" {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Obituary service returned no text"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"obituary": text})
}
