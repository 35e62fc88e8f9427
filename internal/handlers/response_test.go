package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/openride/rideshare-backend/internal/models"
)

func TestRespondDomainError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"Not found", models.ErrNotFound, http.StatusNotFound},
		{"Not owner", models.ErrNotOwner, http.StatusForbidden},
		{"Seats unavailable", models.ErrSeatsUnavailable, http.StatusBadRequest},
		{"Seat reduction", models.ErrSeatReduction, http.StatusBadRequest},
		{"Invalid transition", models.ErrInvalidTransition, http.StatusBadRequest},
		{"Ride not editable", models.ErrRideNotEditable, http.StatusBadRequest},
		{"Duplicate feedback", models.ErrDuplicateFeedback, http.StatusBadRequest},
		{"Feedback not eligible", models.ErrFeedbackNotEligible, http.StatusForbidden},
		{"Insufficient balance", models.ErrInsufficientBalance, http.StatusBadRequest},
		{"Payment completed", models.ErrPaymentCompleted, http.StatusBadRequest},
		{"Documents unverified", models.ErrDocumentsUnverified, http.StatusForbidden},
		{"Duplicate email", models.ErrDuplicateEmail, http.StatusBadRequest},
		{"Booking not pending", models.ErrBookingNotPending, http.StatusBadRequest},
		{"Booking final", models.ErrBookingFinal, http.StatusBadRequest},
		{"Unknown error", errors.New("connection reset"), http.StatusInternalServerError},
		{"Wrapped sentinel", fmt.Errorf("confirm booking: %w", models.ErrSeatsUnavailable), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondDomainError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), `"success":false`)
		})
	}
}

func TestRespondSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("With message and data", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		respondSuccess(c, http.StatusCreated, "Ride created", gin.H{"id": "abc"})

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"success":true`)
		assert.Contains(t, w.Body.String(), "Ride created")
		assert.Contains(t, w.Body.String(), `"id":"abc"`)
	})

	t.Run("Omits empty message and nil data", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		respondSuccess(c, http.StatusOK, "", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "message")
		assert.NotContains(t, w.Body.String(), "data")
	})
}
