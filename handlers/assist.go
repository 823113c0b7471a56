package handlers

import (
	"net/http"

	"nexusschedule/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type assistRequest struct {
	Message string `json:"message" binding:"required"`
}

// AssistHandler extracts a structured intent from free text and, when the
// intent is a fully specified booking, runs it through the conflict resolver
// in the same request.
func (hb *HandlerBundle) AssistHandler(c *gin.Context) {
	var req assistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assist payload: " + err.Error()})
		return
	}

	extracted, err := hb.Intent.Extract(c.Request.Context(), req.Message)
	if err != nil {
		getLogger(c).Error("intent extraction failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	resp := gin.H{"intent": extracted}

	if extracted.Intent == models.IntentBook && bookable(extracted) {
		outcome, err := hb.Resolver.RequestSlot(c.Request.Context(), models.BookingRequest{
			ClientID:       c.GetString("userID"),
			ProviderID:     extracted.ProviderID,
			Service:        extracted.Service,
			Date:           extracted.Date,
			Time:           extracted.Time,
			TimePreference: extracted.TimePreference,
			Urgency:        extracted.Urgency,
		})
		if err != nil {
			respondEngineError(c, err)
			return
		}
		resp["outcome"] = outcome
	} else {
		resp["missing"] = missingBookingFields(extracted)
	}

	c.JSON(http.StatusOK, resp)
}

// bookable reports whether the intent carries everything a booking needs.
func bookable(in models.BookingIntent) bool {
	return in.ProviderID != "" && in.Service != "" && in.Date != "" && in.Time != ""
}

func missingBookingFields(in models.BookingIntent) []string {
	var missing []string
	if in.Intent != models.IntentBook {
		return missing
	}
	if in.ProviderID == "" {
		missing = append(missing, "providerId")
	}
	if in.Service == "" {
		missing = append(missing, "service")
	}
	if in.Date == "" {
		missing = append(missing, "date")
	}
	if in.Time == "" {
		missing = append(missing, "time")
	}
	return missing
}
