package auth

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/MSMelok/FlixHiringManagement/internal/database"
	"github.com/MSMelok/FlixHiringManagement/internal/model"
	"github.com/MSMelok/FlixHiringManagement/internal/pipeline"
	"github.com/MSMelok/FlixHiringManagement/internal/utilities"
)

// LocalAuthHandler holds DB reference for handler methods.
type LocalAuthHandler struct {
	DB *database.DBinstanceStruct
}

// NewLocalAuthHandler creates a new instance of LocalAuthHandler with the provided database connection.
func NewLocalAuthHandler(db *database.DBinstanceStruct) *LocalAuthHandler {
	return &LocalAuthHandler{
		DB: db,
	}
}

type registerInfo struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=admin recruiter"`
}

type loginInfo struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LocalRegisterHandler creates a new staff account with username, email and password
// @Summary Register a staff account
// @Description Username must not already exist and password must be at least 8 characters long. Admin only.
// @Tags Auth
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Info body registerInfo true "role can be only 'admin' or 'recruiter'"
// @Success 201 {object} model.UserResponse "Account created"
// @Failure 400 {object} utilities.ErrorResponse "Info provided not met the condition"
// @Failure 500 {object} utilities.ErrorResponse "Database or password hashing error"
// @Router /auth/register [post]
func (lh *LocalAuthHandler) LocalRegisterHandler(c *gin.Context) {
	var info registerInfo

	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Username, email, password, and Role (Only 'admin' or 'recruiter') must be provided",
		})
		return
	}

	if err := pipeline.ValidateEmail(info.Email); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Please enter a valid email address",
		})
		return
	}

	var user model.User
	err := lh.DB.Where("username = ?", info.Username).First(&user).Error

	switch {
	case err == nil:
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Username already exist",
		})
		return

	case errors.Is(err, gorm.ErrRecordNotFound):
		// Do nothing

	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	if len(info.Password) < 8 {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Password should longer or equal to 8 characters",
		})
		return
	}

	hashedPassword, err := utilities.HashPassword(info.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed hash password: %s", err.Error()),
		})
		return
	}

	newUser := model.User{
		Username: info.Username,
		Email:    info.Email,
		Password: hashedPassword,
		Role:     info.Role,
	}
	if err := lh.DB.Create(&newUser).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create user: %s", err.Error()),
		})
		return
	}

	accessToken, _, err := GenerateStandardToken(newUser.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to generate access token: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusCreated, model.UserResponse{
		User:        newUser,
		AccessToken: accessToken,
	})
}

// LocalLoginHandler checks staff credentials and issues an access token
// @Summary Handles local login by receiving username and password
// @Description Username must exist and password match
// @Tags Auth
// @Accept json
// @Produce json
// @Param Info body loginInfo true "Credentials for login"
// @Success 200 {object} model.UserResponse "Login success"
// @Failure 400 {object} utilities.ErrorResponse "Info provided not met the condition"
// @Failure 401 {object} utilities.ErrorResponse "Username not exist or password incorrect"
// @Failure 500 {object} utilities.ErrorResponse "Database or password hashing error"
// @Router /auth/login [post]
func (lh *LocalAuthHandler) LocalLoginHandler(c *gin.Context) {
	var info loginInfo

	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Username or password is not provided",
		})
		return
	}

	var user model.User
	err := lh.DB.Where("username = ?", info.Username).First(&user).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{
			Error: "Username or password is incorrect",
		})
		return

	case err == nil:
		// Do nothing

	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	// Google-only accounts carry no local password
	if user.Password == "" {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{
			Error: "Username or password is incorrect",
		})
		return
	}

	if !utilities.VerifyPassword(info.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{
			Error: "Username or password is incorrect",
		})
		return
	}

	accessToken, _, err := GenerateStandardToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to generate access token: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, model.UserResponse{
		User:        user,
		AccessToken: accessToken,
	})
}
