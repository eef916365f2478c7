package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sm8ta/webike_rental_microservice/internal/core/domain"
	"github.com/sm8ta/webike_rental_microservice/internal/core/ports"
)

const (
	rentalEventStarted = "started"
	rentalEventEnded   = "ended"
	rentalEventPaid    = "paid"
)

type RentalHandler struct {
	rentalService  ports.RentalService
	paymentService ports.PaymentService
	logger         ports.LoggerPort
	metrics        ports.MetricsPort
}

// StartRentalRequest accepts rental_end and total_cost only to reject them;
// both are computed by the server.
type StartRentalRequest struct {
	CustomerID string           `json:"customer_id" binding:"required" example:"123e4567-e89b-12d3-a456-426614174000"`
	BikeID     string           `json:"bike_id" binding:"required" example:"9b2f0c1e-3d4a-4b5c-8d9e-0f1a2b3c4d5e"`
	RentalEnd  *time.Time       `json:"rental_end,omitempty" swaggerignore:"true"`
	TotalCost  *decimal.Decimal `json:"total_cost,omitempty" swaggerignore:"true"`
}

func NewRentalHandler(
	rentalService ports.RentalService,
	paymentService ports.PaymentService,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *RentalHandler {
	return &RentalHandler{
		rentalService:  rentalService,
		paymentService: paymentService,
		logger:         logger,
		metrics:        metrics,
	}
}

// @Summary Начать аренду
// @Description Открывает аренду байка для клиента. У клиента может быть только одна открытая аренда
// @Tags rentals
// @Accept json
// @Produce json
// @Param request body StartRentalRequest true "Клиент и байк"
// @Success 201 {object} successResponse "Аренда начата"
// @Failure 400 {object} errorResponse "Неверный запрос"
// @Failure 404 {object} errorResponse "Клиент или байк не найден"
// @Failure 409 {object} errorResponse "Открытая аренда уже есть или байк занят"
// @Router /rentals [post]
func (h *RentalHandler) StartRental(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	var req StartRentalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed JSON parse in start rental", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid customer ID")
		return
	}
	bikeID, err := uuid.Parse(req.BikeID)
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid bike ID")
		return
	}

	rental := &domain.Rental{
		CustomerID: customerID,
		BikeID:     bikeID,
		End:        req.RentalEnd,
	}
	if req.TotalCost != nil {
		rental.TotalCost = decimal.NewNullDecimal(*req.TotalCost)
	}

	created, err := h.rentalService.Start(c.Request.Context(), rental)
	if err != nil {
		h.logger.Warn("Rental start rejected", map[string]interface{}{
			"error":       err.Error(),
			"customer_id": req.CustomerID,
			"bike_id":     req.BikeID,
		})
		handleServiceError(c, err)
		return
	}

	h.metrics.RecordRentalEvent(rentalEventStarted)
	newSuccessResponse(c, http.StatusCreated, "Rental started", created)
}

// @Summary Завершить аренду
// @Description Закрывает аренду и рассчитывает стоимость
// @Tags rentals
// @Param id path string true "ID аренды"
// @Success 204 "Аренда завершена"
// @Failure 404 {object} errorResponse "Аренда не найдена"
// @Failure 409 {object} errorResponse "Аренда уже завершена"
// @Router /rentals/{id} [put]
func (h *RentalHandler) EndRental(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	ended, err := h.rentalService.End(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logger.Warn("Rental end rejected", map[string]interface{}{
			"error":     err.Error(),
			"rental_id": c.Param("id"),
		})
		handleServiceError(c, err)
		return
	}

	h.metrics.RecordRentalEvent(rentalEventEnded)
	h.metrics.RecordRevenue(ended.TotalCost.Decimal)
	c.Status(http.StatusNoContent)
}

// @Summary Оплатить аренду
// @Description Отмечает завершенную аренду оплаченной. Повторный вызов ничего не меняет
// @Tags rentals
// @Param id path string true "ID аренды"
// @Success 204 "Аренда оплачена"
// @Failure 404 {object} errorResponse "Аренда не найдена"
// @Failure 409 {object} errorResponse "Аренда изменена параллельно"
// @Router /rentals/{id}/pay [put]
func (h *RentalHandler) PayRental(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	_, settled, err := h.paymentService.Pay(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if settled {
		h.metrics.RecordRentalEvent(rentalEventPaid)
	}
	c.Status(http.StatusNoContent)
}

// @Summary Список аренд
// @Description С paid=false возвращает неоплаченные завершенные аренды с данными клиента
// @Tags rentals
// @Produce json
// @Param paid query string false "только false"
// @Param customerId query string false "ID клиента"
// @Param bikeId query string false "ID байка"
// @Param open query bool false "только открытые"
// @Success 200 {object} successResponse "Список аренд"
// @Failure 400 {object} errorResponse "Неверный фильтр"
// @Failure 500 {object} errorResponse "Внутренняя ошибка сервера"
// @Router /rentals [get]
func (h *RentalHandler) ListRentals(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	if paid, ok := c.GetQuery("paid"); ok {
		if paid != "false" {
			newErrorResponse(c, http.StatusBadRequest, "paid filter supports only false")
			return
		}
		unpaid, err := h.rentalService.ListUnpaid(c.Request.Context())
		if err != nil {
			handleServiceError(c, err)
			return
		}
		newSuccessResponse(c, http.StatusOK, "Unpaid rentals", unpaid)
		return
	}

	var filter domain.RentalFilter
	if customerID := c.Query("customerId"); customerID != "" {
		id, err := uuid.Parse(customerID)
		if err != nil {
			newErrorResponse(c, http.StatusBadRequest, "Invalid customer ID")
			return
		}
		filter.CustomerID = id
	}
	if bikeID := c.Query("bikeId"); bikeID != "" {
		id, err := uuid.Parse(bikeID)
		if err != nil {
			newErrorResponse(c, http.StatusBadRequest, "Invalid bike ID")
			return
		}
		filter.BikeID = id
	}
	filter.OpenOnly = c.Query("open") == "true"

	rentals, err := h.rentalService.ListRentals(c.Request.Context(), filter)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	newSuccessResponse(c, http.StatusOK, "Rentals", rentals)
}

// @Summary Получить аренду
// @Tags rentals
// @Produce json
// @Param id path string true "ID аренды"
// @Success 200 {object} successResponse "Аренда найдена"
// @Failure 404 {object} errorResponse "Аренда не найдена"
// @Router /rentals/{id} [get]
func (h *RentalHandler) GetRental(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	rental, err := h.rentalService.GetRentalByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	newSuccessResponse(c, http.StatusOK, "Rental found", rental)
}

// @Summary Удалить аренду
// @Tags rentals
// @Produce json
// @Param id path string true "ID аренды"
// @Success 200 {object} successResponse "Аренда удалена"
// @Failure 404 {object} errorResponse "Аренда не найдена"
// @Router /rentals/{id} [delete]
func (h *RentalHandler) DeleteRental(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	if err := h.rentalService.DeleteRental(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}

	newSuccessResponse(c, http.StatusOK, "Rental deleted successfully", nil)
}
