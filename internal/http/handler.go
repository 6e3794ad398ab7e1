package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/monline/billing/internal/models"
	"github.com/monline/billing/internal/repository"
	"github.com/monline/billing/internal/service"
)

type Handler struct {
	authService     *service.AuthService
	userService     *service.UserService
	packageService  *service.PackageService
	customerService *service.CustomerService
	billingService  *service.BillingService
}

func NewHandler(
	authService *service.AuthService,
	userService *service.UserService,
	packageService *service.PackageService,
	customerService *service.CustomerService,
	billingService *service.BillingService,
) *Handler {
	return &Handler{
		authService:     authService,
		userService:     userService,
		packageService:  packageService,
		customerService: customerService,
		billingService:  billingService,
	}
}

// respondError maps the well-known service and repository errors onto
// status codes; everything else is a 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
	case errors.Is(err, repository.ErrInUse):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrPhoneTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrFreeCustomer),
		errors.Is(err, service.ErrAlreadyPaid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// boolQuery parses an optional true/false query parameter. Absent or
// malformed values return nil so the filter is skipped entirely.
func boolQuery(c *gin.Context, name string) *bool {
	switch c.Query(name) {
	case "true", "1":
		v := true
		return &v
	case "false", "0":
		v := false
		return &v
	}
	return nil
}

// int64Query parses an optional numeric query parameter; absent or
// malformed values return 0 so the filter is skipped.
func int64Query(c *gin.Context, name string) int64 {
	v, _ := strconv.ParseInt(c.Query(name), 10, 64)
	return v
}

// ==================== Auth ====================

// Login verifies credentials and returns a token pair with the profile.
func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req.Phone, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Refresh exchanges a refresh token for a new access token.
func (h *Handler) Refresh(c *gin.Context) {
	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Register creates a self-service customer account.
func (h *Handler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// ==================== Users ====================

func (h *Handler) ListUsers(c *gin.Context) {
	page, pageSize := parsePage(c)
	users, count, err := h.userService.List(c.Request.Context(), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pageEnvelope(c, users, count, page, pageSize))
}

func (h *Handler) GetUser(c *gin.Context) {
	user, err := h.userService.Get(c.Request.Context(), c.Param("uid"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) CreateUser(c *gin.Context) {
	var input models.UserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.Create(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *Handler) UpdateUser(c *gin.Context) {
	var input models.UserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.Update(c.Request.Context(), c.Param("uid"), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) DeleteUser(c *gin.Context) {
	if err := h.userService.Delete(c.Request.Context(), c.Param("uid")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Me returns the authenticated user's own profile.
func (h *Handler) Me(c *gin.Context) {
	user, err := h.userService.Me(c.Request.Context(), c.GetInt64("userID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateMe updates the authenticated user's own profile.
func (h *Handler) UpdateMe(c *gin.Context) {
	var input models.UserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.UpdateMe(c.Request.Context(), c.GetInt64("userID"), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// ==================== Packages ====================

func (h *Handler) ListPackages(c *gin.Context) {
	page, pageSize := parsePage(c)
	packages, count, err := h.packageService.List(c.Request.Context(), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pageEnvelope(c, packages, count, page, pageSize))
}

func (h *Handler) GetPackage(c *gin.Context) {
	pkg, err := h.packageService.Get(c.Request.Context(), c.Param("uid"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pkg)
}

func (h *Handler) CreatePackage(c *gin.Context) {
	var input models.PackageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pkg, err := h.packageService.Create(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, pkg)
}

func (h *Handler) UpdatePackage(c *gin.Context) {
	var input models.PackageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pkg, err := h.packageService.Update(c.Request.Context(), c.Param("uid"), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pkg)
}

func (h *Handler) DeletePackage(c *gin.Context) {
	if err := h.packageService.Delete(c.Request.Context(), c.Param("uid")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListPackageCustomers returns the subscribers of one package.
func (h *Handler) ListPackageCustomers(c *gin.Context) {
	page, pageSize := parsePage(c)
	customers, count, err := h.customerService.ListByPackage(c.Request.Context(), c.Param("uid"), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pageEnvelope(c, customers, count, page, pageSize))
}

// ==================== Customers ====================

func (h *Handler) ListCustomers(c *gin.Context) {
	page, pageSize := parsePage(c)
	filter := repository.CustomerFilter{
		Name:       c.Query("name"),
		Username:   c.Query("username"),
		Phone:      c.Query("phone"),
		PackageUID: c.Query("package"),
		UserID:     int64Query(c, "user_id"),
		PackageID:  int64Query(c, "package_id"),
		IsActive:   boolQuery(c, "is_active"),
		IsFree:     boolQuery(c, "is_free"),
	}

	customers, count, err := h.customerService.List(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pageEnvelope(c, customers, count, page, pageSize))
}

func (h *Handler) GetCustomer(c *gin.Context) {
	customer, err := h.customerService.Get(c.Request.Context(), c.Param("uid"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *Handler) CreateCustomer(c *gin.Context) {
	var input models.CustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer, err := h.customerService.Create(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (h *Handler) UpdateCustomer(c *gin.Context) {
	var input models.CustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer, err := h.customerService.Update(c.Request.Context(), c.Param("uid"), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *Handler) DeleteCustomer(c *gin.Context) {
	if err := h.customerService.Delete(c.Request.Context(), c.Param("uid")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListCustomerPayments returns the payment history of one customer.
func (h *Handler) ListCustomerPayments(c *gin.Context) {
	page, pageSize := parsePage(c)
	payments, count, err := h.billingService.ListCustomerPayments(c.Request.Context(), c.Param("uid"), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pageEnvelope(c, payments, count, page, pageSize))
}

// CreateCustomerPayment records a collection against the customer named in
// the path; any customer_id in the body is ignored.
func (h *Handler) CreateCustomerPayment(c *gin.Context) {
	var input models.PaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer, err := h.customerService.Get(c.Request.Context(), c.Param("uid"))
	if err != nil {
		respondError(c, err)
		return
	}
	input.CustomerID = &customer.ID

	payment, err := h.billingService.CreatePayment(c.Request.Context(), &input, c.GetInt64("userID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

// GenerateBills creates pending bills for the given (or current) month.
func (h *Handler) GenerateBills(c *gin.Context) {
	resp, err := h.billingService.GenerateBills(c.Request.Context(), c.Query("month"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ToggleStatus flips a customer's connection by PPPoE username.
func (h *Handler) ToggleStatus(c *gin.Context) {
	var req models.StatusToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.billingService.ToggleStatus(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ==================== Payments ====================

func (h *Handler) ListPayments(c *gin.Context) {
	page, pageSize := parsePage(c)
	filter := repository.PaymentFilter{
		CustomerName:  c.Query("customer_name"),
		CustomerPhone: c.Query("customer_phone"),
		CollectedBy:   c.Query("collected_by"),
		Month:         c.Query("month"),
		Paid:          boolQuery(c, "paid"),
	}

	payments, count, err := h.billingService.ListPayments(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pageEnvelope(c, payments, count, page, pageSize))
}

func (h *Handler) GetPayment(c *gin.Context) {
	payment, err := h.billingService.GetPayment(c.Request.Context(), c.Param("uid"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

func (h *Handler) CreatePayment(c *gin.Context) {
	var input models.PaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := h.billingService.CreatePayment(c.Request.Context(), &input, c.GetInt64("userID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

func (h *Handler) UpdatePayment(c *gin.Context) {
	var input models.PaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := h.billingService.UpdatePayment(c.Request.Context(), c.Param("uid"), &input, c.GetInt64("userID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

func (h *Handler) DeletePayment(c *gin.Context) {
	if err := h.billingService.DeletePayment(c.Request.Context(), c.Param("uid")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ==================== Dashboard ====================

// Dashboard returns the aggregate summary counters.
func (h *Handler) Dashboard(c *gin.Context) {
	stats, err := h.billingService.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
