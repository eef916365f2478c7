package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sm8ta/webike_rental_microservice/internal/core/domain"
	"github.com/sm8ta/webike_rental_microservice/internal/core/ports"
)

type CustomerHandler struct {
	customerService ports.CustomerService
	logger          ports.LoggerPort
	metrics         ports.MetricsPort
}

type CustomerRequest struct {
	Gender      string    `json:"gender,omitempty" example:"female"`
	FirstName   string    `json:"first_name" binding:"required" example:"Grace"`
	LastName    string    `json:"last_name" binding:"required" example:"Hopper"`
	Birthday    time.Time `json:"birthday" example:"1906-12-09T00:00:00Z"`
	Street      string    `json:"street,omitempty" example:"Main Street"`
	HouseNumber string    `json:"house_number,omitempty" example:"7a"`
	ZipCode     string    `json:"zip_code,omitempty" example:"10115"`
	Town        string    `json:"town,omitempty" example:"Berlin"`
}

type UpdateCustomer struct {
	Gender      *string    `json:"gender,omitempty" example:"female"`
	FirstName   *string    `json:"first_name,omitempty" example:"Grace"`
	LastName    *string    `json:"last_name,omitempty" example:"Hopper"`
	Birthday    *time.Time `json:"birthday,omitempty" example:"1906-12-09T00:00:00Z"`
	Street      *string    `json:"street,omitempty" example:"Main Street"`
	HouseNumber *string    `json:"house_number,omitempty" example:"7a"`
	ZipCode     *string    `json:"zip_code,omitempty" example:"10115"`
	Town        *string    `json:"town,omitempty" example:"Berlin"`
}

func NewCustomerHandler(
	customerService ports.CustomerService,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		logger:          logger,
		metrics:         metrics,
	}
}

// @Summary Список клиентов
// @Description Все клиенты или клиенты с указанной фамилией
// @Tags customers
// @Produce json
// @Param lastName query string false "Фамилия"
// @Success 200 {object} successResponse "Список клиентов"
// @Failure 500 {object} errorResponse "Внутренняя ошибка сервера"
// @Router /customers [get]
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	customers, err := h.customerService.ListCustomers(c.Request.Context(), c.Query("lastName"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	newSuccessResponse(c, http.StatusOK, "Customers", customers)
}

// @Summary Создать клиента
// @Tags customers
// @Accept json
// @Produce json
// @Param request body CustomerRequest true "Данные клиента"
// @Success 201 {object} successResponse "Клиент создан"
// @Failure 400 {object} errorResponse "Неверный запрос"
// @Router /customers [post]
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed JSON parse in create customer", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	customer := &domain.Customer{
		Gender:      domain.Gender(req.Gender),
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Birthday:    req.Birthday,
		Street:      req.Street,
		HouseNumber: req.HouseNumber,
		ZipCode:     req.ZipCode,
		Town:        req.Town,
	}

	createdCustomer, err := h.customerService.CreateCustomer(c.Request.Context(), customer)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	newSuccessResponse(c, http.StatusCreated, "Customer created successfully", createdCustomer)
}

// @Summary Получить клиента
// @Tags customers
// @Produce json
// @Param id path string true "ID клиента"
// @Success 200 {object} successResponse "Клиент найден"
// @Failure 404 {object} errorResponse "Клиент не найден"
// @Router /customers/{id} [get]
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	customer, err := h.customerService.GetCustomerByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	newSuccessResponse(c, http.StatusOK, "Customer found", customer)
}

// @Summary Обновить клиента
// @Tags customers
// @Accept json
// @Produce json
// @Param id path string true "ID клиента"
// @Param request body UpdateCustomer true "Новые данные"
// @Success 200 {object} successResponse "Клиент обновлен"
// @Failure 400 {object} errorResponse "Неверный запрос"
// @Failure 404 {object} errorResponse "Клиент не найден"
// @Router /customers/{id} [put]
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	customerID := c.Param("id")
	if _, err := uuid.Parse(customerID); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid customer ID")
		return
	}

	var req UpdateCustomer
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed JSON parse in update customer", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	customer, err := h.customerService.GetCustomerByID(c.Request.Context(), customerID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if req.Gender != nil {
		customer.Gender = domain.Gender(*req.Gender)
	}
	if req.FirstName != nil {
		customer.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		customer.LastName = *req.LastName
	}
	if req.Birthday != nil {
		customer.Birthday = *req.Birthday
	}
	if req.Street != nil {
		customer.Street = *req.Street
	}
	if req.HouseNumber != nil {
		customer.HouseNumber = *req.HouseNumber
	}
	if req.ZipCode != nil {
		customer.ZipCode = *req.ZipCode
	}
	if req.Town != nil {
		customer.Town = *req.Town
	}

	updatedCustomer, err := h.customerService.UpdateCustomer(c.Request.Context(), customer)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	newSuccessResponse(c, http.StatusOK, "Customer updated successfully", updatedCustomer)
}

// @Summary Удалить клиента
// @Description Удаление клиента вместе с его арендами
// @Tags customers
// @Produce json
// @Param id path string true "ID клиента"
// @Success 200 {object} successResponse "Клиент удален"
// @Failure 404 {object} errorResponse "Клиент не найден"
// @Router /customers/{id} [delete]
func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	if err := h.customerService.DeleteCustomer(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}

	newSuccessResponse(c, http.StatusOK, "Customer deleted successfully", nil)
}

// @Summary Аренды клиента
// @Description Все аренды клиента по дате начала
// @Tags customers
// @Produce json
// @Param id path string true "ID клиента"
// @Success 200 {object} successResponse "Список аренд"
// @Failure 404 {object} errorResponse "Клиент не найден"
// @Router /customers/{id}/rentals [get]
func (h *CustomerHandler) GetCustomerRentals(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	rentals, err := h.customerService.GetCustomerRentals(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	newSuccessResponse(c, http.StatusOK, "Customer rentals", rentals)
}
