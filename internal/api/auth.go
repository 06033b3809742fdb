package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/cookbook/backend/internal/logger"
	"github.com/pageza/cookbook/backend/internal/middleware"
	"github.com/pageza/cookbook/backend/internal/models"
	"github.com/pageza/cookbook/backend/internal/service"
	"github.com/pageza/cookbook/backend/internal/validation"
)

const defaultNext = "/recipes/"

// MsgInvalidLogin is shown for an unknown email or a wrong password
const MsgInvalidLogin = "Please enter a correct email and password."

type AuthHandler struct {
	auth service.IAuthService
	log  *logger.Logger
}

func NewAuthHandler(auth service.IAuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, log: log}
}

func (h *AuthHandler) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/auth")
	{
		g.GET("/login", h.LoginForm)
		g.POST("/login", h.Login)
		g.GET("/register", h.RegisterForm)
		g.POST("/register", h.Register)
		g.POST("/logout", h.Logout)
	}
}

type loginView struct {
	Form   validation.LoginInput  `json:"form"`
	Errors validation.FieldErrors `json:"errors,omitempty"`
}

type registerView struct {
	Form   validation.RegistrationInput `json:"form"`
	Errors validation.FieldErrors       `json:"errors,omitempty"`
}

// sessionResponse is the JSON body of a successful login or registration
type sessionResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// safeNext keeps redirects on this site
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return defaultNext
	}
	return next
}

func (h *AuthHandler) LoginForm(c *gin.Context) {
	render(c, http.StatusOK, "login.html", loginView{Form: validation.LoginInput{Next: c.Query("next")}})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var in validation.LoginInput
	if err := c.ShouldBind(&in); err != nil {
		renderBadRequest(c, "The submitted form could not be read.")
		return
	}
	in, res := validation.ValidateLogin(in)
	form := validation.LoginInput{Email: in.Email, Next: in.Next}
	if !res.Valid {
		render(c, http.StatusBadRequest, "login.html", loginView{Form: form, Errors: res.FieldErrors})
		return
	}

	user, token, err := h.auth.Login(c.Request.Context(), in.Email, in.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		h.log.Info("Failed login", "email", in.Email)
		errs := validation.FieldErrors{}
		errs.Add("form", MsgInvalidLogin)
		render(c, http.StatusBadRequest, "login.html", loginView{Form: form, Errors: errs})
		return
	}
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	h.startSession(c, http.StatusOK, user, token, safeNext(in.Next))
}

func (h *AuthHandler) RegisterForm(c *gin.Context) {
	render(c, http.StatusOK, "register.html", registerView{})
}

// Register creates an account and signs the new user in
func (h *AuthHandler) Register(c *gin.Context) {
	var in validation.RegistrationInput
	if err := c.ShouldBind(&in); err != nil {
		renderBadRequest(c, "The submitted form could not be read.")
		return
	}

	user, res, err := h.auth.Register(c.Request.Context(), in)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	if !res.Valid {
		form := validation.RegistrationInput{Name: in.Name, Email: in.Email}
		render(c, http.StatusBadRequest, "register.html", registerView{Form: form, Errors: res.FieldErrors})
		return
	}

	token, err := h.auth.GenerateToken(user)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	h.log.Info("User registered", "user_id", user.ID)
	h.startSession(c, http.StatusCreated, user, token, defaultNext)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	middleware.ClearSessionCookie(c)
	if middleware.WantsJSON(c) {
		c.Status(http.StatusNoContent)
		return
	}
	redirect(c, defaultNext)
}

// startSession sets the session cookie, then answers JSON clients with the
// token and everyone else with a redirect
func (h *AuthHandler) startSession(c *gin.Context, status int, user *models.User, token, next string) {
	middleware.SetSessionCookie(c, token, int(service.DefaultTokenTTL.Seconds()))
	if middleware.WantsJSON(c) {
		c.JSON(status, sessionResponse{Token: token, User: user})
		return
	}
	redirect(c, next)
}
