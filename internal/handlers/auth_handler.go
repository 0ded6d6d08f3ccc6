package handlers

import (
	"net/http"

	"freework_backend/internal/middleware"
	"freework_backend/internal/models"
	"freework_backend/internal/services"
	"freework_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	*BaseHandler
	registrationService services.RegistrationService
	accountService      services.AccountService
	jwtSecret           string
}

func NewAuthHandler(
	base *BaseHandler,
	registrationService services.RegistrationService,
	accountService services.AccountService,
	jwtSecret string,
) *AuthHandler {
	return &AuthHandler{
		BaseHandler:         base,
		registrationService: registrationService,
		accountService:      accountService,
		jwtSecret:           jwtSecret,
	}
}

// RegisterRoutes регистрирует симметричные группы маршрутов для обеих ролей:
// /api/freelancer/... и /api/business/...
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	for _, role := range []models.AccountRole{models.RoleFreelancer, models.RoleBusiness} {
		group := rg.Group("/" + string(role))
		{
			group.POST("/signup", h.Signup(role))
			group.POST("/verify-email", h.VerifyEmail)
			group.POST("/login", h.Login)
		}

		protected := group.Group("")
		protected.Use(middleware.AuthMiddleware(h.jwtSecret))
		{
			protected.PUT("/complete-profile", h.CompleteProfile)
			protected.GET("/me", h.Me)
		}
	}
}

// Signup возвращает обработчик регистрации для конкретной роли.
// Клиент получает только подтверждение отправки - не сам код.
func (h *AuthHandler) Signup(role models.AccountRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.SignupRequest
		if !h.BindAndValidate_JSON(c, &req) {
			return
		}

		db := h.GetDB(c)

		if err := h.registrationService.InitiateSignup(db, role, &req); err != nil {
			h.HandleServiceError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "Signup successful. A verification code has been sent to your email.",
		})
	}
}

func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req dto.VerifyEmailRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	response, err := h.registrationService.VerifyEmail(db, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	response, err := h.registrationService.Login(db, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *AuthHandler) CompleteProfile(c *gin.Context) {
	accountID, ok := h.GetAndAuthorizeAccountID(c)
	if !ok {
		return
	}

	var req dto.CompleteProfileRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	if err := h.registrationService.CompleteProfile(db, accountID, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile completed successfully",
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	accountID, ok := h.GetAndAuthorizeAccountID(c)
	if !ok {
		return
	}

	db := h.GetDB(c)

	account, err := h.accountService.GetAccount(db, accountID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, account)
}
