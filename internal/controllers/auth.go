package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/twobolsos/backend/internal/auth"
	"github.com/twobolsos/backend/internal/httputil"
	"github.com/twobolsos/backend/internal/models"
)

// RegisterAuthRoutes registers the routes for user registration and login.
func (co Controller) RegisterAuthRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/register", httputil.OptionsPost)
	r.POST("/register", co.Register)

	r.OPTIONS("/token", httputil.OptionsPost)
	r.POST("/token", co.CreateToken)

	r.OPTIONS("/me", httputil.OptionsGet)
	r.GET("/me", auth.Middleware(co.Issuer), co.GetMe)
}

type RegisterEditable struct {
	Username string `json:"username" example:"ana"`
	Password string `json:"password" example:"correct horse battery staple"`
	Email    string `json:"email" example:"ana@example.com"`
}

type tokenForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

// Register creates a user.
func (co Controller) Register(c *gin.Context) {
	var editable RegisterEditable
	if err := httputil.BindData(c, &editable); err != nil {
		return
	}

	user, err := co.Auth.Register(c.Request.Context(), editable.Username, editable.Password, editable.Email)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// CreateToken exchanges form encoded credentials for an access token.
func (co Controller) CreateToken(c *gin.Context) {
	var form tokenForm
	if err := c.ShouldBind(&form); err != nil {
		handleError(c, httputil.ErrInvalidBody)
		return
	}

	if form.Username == "" || form.Password == "" {
		handleError(c, models.Validation("username and password must be set"))
		return
	}

	session, err := co.Auth.Login(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		c.Header("WWW-Authenticate", "Bearer")
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// GetMe returns the authenticated user.
func (co Controller) GetMe(c *gin.Context) {
	user, err := co.Auth.User(c.Request.Context(), auth.UserID(c))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
