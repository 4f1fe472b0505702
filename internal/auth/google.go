package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	// Auto load .env file
	_ "github.com/joho/godotenv/autoload"
	"golang.org/x/oauth2"
	"gorm.io/gorm"

	"github.com/MSMelok/FlixHiringManagement/internal/database"
	"github.com/MSMelok/FlixHiringManagement/internal/model"
	"github.com/MSMelok/FlixHiringManagement/internal/utilities"
)

// OauthLoginHandler struct holds the database connection and OAuth2 configuration for handling OAuth login.
type OauthLoginHandler struct {
	DB               *database.DBinstanceStruct
	OauthConfig      *oauth2.Config
	UserInfoEndpoint string
}

type code struct {
	Code string `json:"code" binding:"required"`
}

// NewOauthLoginHandler creates a new instance of OauthLoginHandler with the provided database connection and OAuth2 configuration.
func NewOauthLoginHandler(db *database.DBinstanceStruct, oauthConfig *oauth2.Config, userInfoEndpoint string) *OauthLoginHandler {
	return &OauthLoginHandler{
		DB:               db,
		OauthConfig:      oauthConfig,
		UserInfoEndpoint: userInfoEndpoint,
	}
}

func (h *OauthLoginHandler) getUserInfo(c *gin.Context) (model.GoogleUserInfo, error) {

	var code code
	var uInfo model.GoogleUserInfo

	// check does body has code
	if err := c.ShouldBindJSON(&code); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("No authorization code provided: %v", err.Error()),
		})
		return uInfo, err
	}

	// Exchange code with google and get userinfo
	token, err := h.OauthConfig.Exchange(
		context.Background(),
		code.Code,
	)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to receive token: %v", err.Error()),
		})
		return uInfo, err
	}

	client := h.OauthConfig.Client(context.Background(), token)
	resp, err := client.Get(h.UserInfoEndpoint)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch user information: %v", err.Error()),
		})
		return uInfo, err
	}
	if resp.StatusCode != http.StatusOK {
		var bodyBytes []byte
		if resp.Body != nil {
			bodyBytes, _ = io.ReadAll(resp.Body)
		}
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch user information: status=%d body=%s", resp.StatusCode, string(bodyBytes)),
		})
		return uInfo, fmt.Errorf("userinfo endpoint returned status %d", resp.StatusCode)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("Failed to close response body: %v", err)
		}
	}()

	err = json.NewDecoder(resp.Body).Decode(&uInfo)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to decode user info: %v", err.Error()),
		})
		return uInfo, err
	}
	if uInfo.GID == "" {
		log.Printf("warning: decoded Google user info has empty GID: %+v", uInfo)
	}
	return uInfo, nil
}

// GoogleLoginHandler handles Google login authentication for HR staff, exchanges code for user
// info, checks and creates user in the database, generates an access token, and returns user
// information with the access token.
// @Summary Handles Google login authentication for HR staff
// @Description Checks and creates user in the database, generates an access token
// @Tags Auth
// @Accept json
// @Produce json
// @Param Code body code true "Authentication code from google"
// @Success 200 {object} model.UserResponse "Login success"
// @Success 201 {object} model.UserResponse "Register success"
// @Failure 400 {object} utilities.ErrorResponse "Fail to receive token or fetch user info"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /auth/google [post]
func (h *OauthLoginHandler) GoogleLoginHandler(c *gin.Context) {

	uInfo, err := h.getUserInfo(c)
	if err != nil {
		return
	}

	var user model.User
	respStatus := http.StatusOK

	err = h.DB.Where("google_id = ?", uInfo.GID).First(&user).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		// New Google accounts come in as recruiters; an admin promotes
		// them later if needed.
		user = model.User{
			Username: uInfo.Email,
			Email:    uInfo.Email,
			GoogleID: uInfo.GID,
			Role:     model.RoleRecruiter,
		}
		if err := h.DB.Create(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to create user: %v", err.Error()),
			})
			return
		}
		respStatus = http.StatusCreated

	case err == nil:
		// Existing account, fall through to token generation

	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %v", err.Error()),
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

	c.JSON(respStatus, model.UserResponse{
		User:        user,
		AccessToken: accessToken,
	})
}
