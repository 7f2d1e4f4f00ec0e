package user

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aymenmusic/todo-list-2025/internal/apperr"
	"github.com/aymenmusic/todo-list-2025/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type UserController struct {
	userService UserServiceInterface
}

func NewUserController(userService UserServiceInterface) *UserController {
	return &UserController{
		userService: userService,
	}
}

// SetupRoutes registers the auth routes on rg. Logout is only mounted when
// token revocation is available.
func (a *UserController) SetupRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc, logoutEnabled bool) {
	rg.POST("/register", a.Register)
	rg.POST("/login", a.Login)
	rg.GET("/me", authMiddleware, a.Me)
	rg.DELETE("/me", authMiddleware, a.DeleteMe)
	if logoutEnabled {
		rg.POST("/logout", authMiddleware, a.Logout)
	}
}

type registerRequest struct {
	Username string `json:"username" binding:"required,max=64"`
	Email    string `json:"email" binding:"required,max=120"`
	Password string `json:"password" binding:"required"`
}

// An empty username or password counts as missing, same as an absent key.
type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register handles user registration
func (a *UserController) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, bindError(err, ErrMissingFields))
		return
	}

	user, err := a.userService.Register(c.Request.Context(), RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    user,
	})
}

// Login handles user login and returns an access token
func (a *UserController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, bindError(err, ErrMissingCredentials))
		return
	}

	result, err := a.userService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": result.Token.Token,
		"token_type":   "Bearer",
		"expires_in":   result.ExpiresIn,
		"user":         result.User,
	})
}

// Me returns the authenticated user
func (a *UserController) Me(c *gin.Context) {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		apperr.Respond(c, auth.ErrInvalidToken)
		return
	}

	user, err := a.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteMe deletes the authenticated user's account and todos
func (a *UserController) DeleteMe(c *gin.Context) {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		apperr.Respond(c, auth.ErrInvalidToken)
		return
	}
	claims, _ := auth.GetClaimsFromContext(c)

	if err := a.userService.DeleteUser(c.Request.Context(), userID, claims); err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// Logout revokes the presented token
func (a *UserController) Logout(c *gin.Context) {
	claims, err := auth.GetClaimsFromContext(c)
	if err != nil {
		apperr.Respond(c, auth.ErrInvalidToken)
		return
	}

	if err := a.userService.Logout(c.Request.Context(), claims); err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

// bindError turns a binding failure into an API error. Any missing field
// yields missing; other validation failures name the offending field.
func bindError(err error, missing *apperr.Error) error {
	if errors.Is(err, io.EOF) {
		return missing
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.ErrInvalidBody
	}

	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return missing
		}
	}

	field := strings.ToLower(verrs[0].Field())
	if verrs[0].Tag() == "max" {
		return apperr.Validation(
			fmt.Sprintf("Invalid %s", field),
			fmt.Sprintf("%s must be at most %s characters", field, verrs[0].Param()),
		)
	}
	return apperr.Validation(fmt.Sprintf("Invalid %s", field), verrs[0].Error())
}
