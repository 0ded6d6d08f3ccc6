package handlers

import (
	"net/http"

	"freework_backend/internal/middleware"
	"freework_backend/internal/models"
	"freework_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// AdminHandler - ручная проверка аккаунтов администратором.
// Это отдельный, поздний гейт: на машину состояний регистрации не влияет.
type AdminHandler struct {
	*BaseHandler
	accountService services.AccountService
	jwtSecret      string
}

func NewAdminHandler(base *BaseHandler, accountService services.AccountService, jwtSecret string) *AdminHandler {
	return &AdminHandler{
		BaseHandler:    base,
		accountService: accountService,
		jwtSecret:      jwtSecret,
	}
}

func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(h.jwtSecret))
	admin.Use(middleware.RequireRoles(models.RoleAdmin))
	{
		admin.PUT("/accounts/:id/verify", h.VerifyAccount)
	}
}

func (h *AdminHandler) VerifyAccount(c *gin.Context) {
	accountID := c.Param("id")

	db := h.GetDB(c)

	account, err := h.accountService.AdminVerify(db, accountID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, account)
}
