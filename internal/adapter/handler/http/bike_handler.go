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

type BikeHandler struct {
	bikeService ports.BikeService
	logger      ports.LoggerPort
	metrics     ports.MetricsPort
}

type BikeRequest struct {
	Brand                string          `json:"brand" binding:"required" example:"Gazelle"`
	PurchaseDate         time.Time       `json:"purchase_date" binding:"required" example:"2023-03-01T00:00:00Z"`
	LastService          *time.Time      `json:"last_service,omitempty" example:"2024-02-01T00:00:00Z"`
	Category             string          `json:"category" binding:"required" example:"trekking"`
	Notes                string          `json:"notes,omitempty" example:"child seat mount"`
	PriceFirstHour       decimal.Decimal `json:"price_first_hour" swaggertype:"string" example:"4.00"`
	PriceAdditionalHours decimal.Decimal `json:"price_additional_hours" swaggertype:"string" example:"2.00"`
}

type UpdateBike struct {
	Brand                *string          `json:"brand,omitempty" example:"Gazelle"`
	PurchaseDate         *time.Time       `json:"purchase_date,omitempty" example:"2023-03-01T00:00:00Z"`
	LastService          *time.Time       `json:"last_service,omitempty" example:"2024-02-01T00:00:00Z"`
	Category             *string          `json:"category,omitempty" example:"ebike"`
	Notes                *string          `json:"notes,omitempty" example:"new brakes"`
	PriceFirstHour       *decimal.Decimal `json:"price_first_hour,omitempty" swaggertype:"string" example:"5.00"`
	PriceAdditionalHours *decimal.Decimal `json:"price_additional_hours,omitempty" swaggertype:"string" example:"2.50"`
}

func NewBikeHandler(
	bikeService ports.BikeService,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *BikeHandler {
	return &BikeHandler{
		bikeService: bikeService,
		logger:      logger,
		metrics:     metrics,
	}
}

// @Summary Доступные байки
// @Description Байки без открытой или неоплаченной аренды
// @Tags bikes
// @Produce json
// @Param sortBy query string false "PriceOfFirstHour, PriceOfAdditionalHours или PurchaseDate"
// @Success 200 {object} successResponse "Список байков"
// @Failure 500 {object} errorResponse "Внутренняя ошибка сервера"
// @Router /bikes [get]
func (h *BikeHandler) ListAvailableBikes(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	sortBy := domain.SortKey(c.Query("sortBy"))

	bikes, err := h.bikeService.ListAvailableBikes(c.Request.Context(), sortBy)
	if err != nil {
		h.logger.Error("Failed to list available bikes", map[string]interface{}{
			"error":   err.Error(),
			"sort_by": string(sortBy),
		})
		handleServiceError(c, err)
		return
	}

	newSuccessResponse(c, http.StatusOK, "Available bikes", bikes)
}

// @Summary Все байки
// @Description Полный каталог байков
// @Tags bikes
// @Produce json
// @Success 200 {object} successResponse "Список байков"
// @Failure 500 {object} errorResponse "Внутренняя ошибка сервера"
// @Router /bikes/all [get]
func (h *BikeHandler) ListBikes(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	bikes, err := h.bikeService.ListBikes(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	newSuccessResponse(c, http.StatusOK, "Bikes", bikes)
}

// @Summary Создать байк
// @Description Добавление байка в каталог
// @Tags bikes
// @Accept json
// @Produce json
// @Param request body BikeRequest true "Данные байка"
// @Success 201 {object} successResponse "Байк создан"
// @Failure 400 {object} errorResponse "Неверный запрос"
// @Router /bikes [post]
func (h *BikeHandler) CreateBike(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	var req BikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed JSON parse in create bike", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	bike := &domain.Bike{
		Brand:                req.Brand,
		PurchaseDate:         req.PurchaseDate,
		LastService:          req.LastService,
		Category:             domain.BikeCategory(req.Category),
		Notes:                req.Notes,
		PriceFirstHour:       req.PriceFirstHour,
		PriceAdditionalHours: req.PriceAdditionalHours,
	}

	createdBike, err := h.bikeService.CreateBike(c.Request.Context(), bike)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	newSuccessResponse(c, http.StatusCreated, "Bike created successfully", createdBike)
}

// @Summary Получить байк
// @Description Получение информации о байке по ID
// @Tags bikes
// @Produce json
// @Param id path string true "ID байка"
// @Success 200 {object} successResponse "Байк найден"
// @Failure 400 {object} errorResponse "Неверный ID"
// @Failure 404 {object} errorResponse "Байк не найден"
// @Router /bikes/{id} [get]
func (h *BikeHandler) GetBike(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	bike, err := h.bikeService.GetBikeByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	newSuccessResponse(c, http.StatusOK, "Bike found", bike)
}

// @Summary Обновить байк
// @Description Частичное обновление байка, переданы только изменяемые поля
// @Tags bikes
// @Accept json
// @Produce json
// @Param id path string true "ID байка"
// @Param request body UpdateBike true "Новые данные"
// @Success 200 {object} successResponse "Байк обновлен"
// @Failure 400 {object} errorResponse "Неверный запрос"
// @Failure 404 {object} errorResponse "Байк не найден"
// @Router /bikes/{id} [put]
func (h *BikeHandler) UpdateBike(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	bikeID := c.Param("id")
	if _, err := uuid.Parse(bikeID); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid bike ID")
		return
	}

	var req UpdateBike
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed JSON parse in update bike", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	bike, err := h.bikeService.GetBikeByID(c.Request.Context(), bikeID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if req.Brand != nil {
		bike.Brand = *req.Brand
	}
	if req.PurchaseDate != nil {
		bike.PurchaseDate = *req.PurchaseDate
	}
	if req.LastService != nil {
		bike.LastService = req.LastService
	}
	if req.Category != nil {
		bike.Category = domain.BikeCategory(*req.Category)
	}
	if req.Notes != nil {
		bike.Notes = *req.Notes
	}
	if req.PriceFirstHour != nil {
		bike.PriceFirstHour = *req.PriceFirstHour
	}
	if req.PriceAdditionalHours != nil {
		bike.PriceAdditionalHours = *req.PriceAdditionalHours
	}

	updatedBike, err := h.bikeService.UpdateBike(c.Request.Context(), bike)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	newSuccessResponse(c, http.StatusOK, "Bike updated successfully", updatedBike)
}

// @Summary Удалить байк
// @Description Удаление байка вместе с его арендами
// @Tags bikes
// @Produce json
// @Param id path string true "ID байка"
// @Success 200 {object} successResponse "Байк удален"
// @Failure 404 {object} errorResponse "Байк не найден"
// @Router /bikes/{id} [delete]
func (h *BikeHandler) DeleteBike(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	if err := h.bikeService.DeleteBike(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}

	newSuccessResponse(c, http.StatusOK, "Bike deleted successfully", nil)
}
