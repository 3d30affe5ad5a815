package booking

import (
	"net/http"
	"time"

	"fitstudio/internal/api"
	"fitstudio/internal/apperr"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
	now     func() time.Time
}

func NewHandler(service Service, now func() time.Time) *Handler {
	return &Handler{service: service, now: now}
}

// Create godoc
// @Summary      Book group workout
// @Description  Reserves a spot. Credits are debited on attendance.
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        id path integer true "Workout ID"
// @Param        request body CreateBookingRequest true "Booking client"
// @Success      201 {object} Booking
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      422 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /workouts/{id}/bookings [post]
func (h *Handler) Create(c *gin.Context) {
	workoutID, ok := api.ParseID(c, "id")
	if !ok {
		return
	}

	var req CreateBookingRequest
	if !api.BindJSON(c, &req) {
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), req.ClientID, workoutID, h.now())
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, b)
}

// Get godoc
// @Summary      Get booking
// @Tags         bookings
// @Produce      json
// @Param        id path integer true "Booking ID"
// @Success      200 {object} Booking
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /bookings/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := api.ParseID(c, "id")
	if !ok {
		return
	}

	b, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

// Attend godoc
// @Summary      Mark booking attended
// @Description  A failed deduction is reported as a warning next to the recorded attendance.
// @Tags         bookings
// @Produce      json
// @Param        id path integer true "Booking ID"
// @Success      200 {object} AttendanceResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /bookings/{id}/attend [post]
func (h *Handler) Attend(c *gin.Context) {
	id, ok := api.ParseID(c, "id")
	if !ok {
		return
	}

	result, err := h.service.MarkAttended(c.Request.Context(), id, h.now())
	if err != nil {
		api.RespondError(c, err)
		return
	}

	resp := AttendanceResponse{
		Booking:         result.Booking,
		AlreadyAttended: result.AlreadyAttended,
	}
	if result.DeductionErr != nil {
		resp.Warning = result.DeductionErr.Error()
		resp.WarningCode = apperr.CodeOf(result.DeductionErr)
	}

	c.JSON(http.StatusOK, resp)
}

// Cancel godoc
// @Summary      Cancel booking
// @Description  Refunds the credit when one was deducted.
// @Tags         bookings
// @Produce      json
// @Param        id path integer true "Booking ID"
// @Success      200 {object} CancelBookingResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /bookings/{id} [delete]
func (h *Handler) Cancel(c *gin.Context) {
	id, ok := api.ParseID(c, "id")
	if !ok {
		return
	}

	refunded, err := h.service.CancelBooking(c.Request.Context(), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, CancelBookingResponse{
		Message:  "Booking cancelled successfully",
		Refunded: refunded,
	})
}

// ListByWorkout godoc
// @Summary      List workout bookings
// @Tags         bookings
// @Produce      json
// @Param        id path integer true "Workout ID"
// @Success      200 {array} BookingWithDetails
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /workouts/{id}/bookings [get]
func (h *Handler) ListByWorkout(c *gin.Context) {
	workoutID, ok := api.ParseID(c, "id")
	if !ok {
		return
	}

	bookings, err := h.service.ListByWorkout(c.Request.Context(), workoutID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// ListByClient godoc
// @Summary      List client bookings
// @Tags         bookings
// @Produce      json
// @Param        id path integer true "Client ID"
// @Success      200 {array} BookingWithDetails
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /clients/{id}/bookings [get]
func (h *Handler) ListByClient(c *gin.Context) {
	clientID, ok := api.ParseID(c, "id")
	if !ok {
		return
	}

	bookings, err := h.service.ListByClient(c.Request.Context(), clientID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, bookings)
}
