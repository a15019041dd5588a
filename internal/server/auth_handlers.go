package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nutribattle/nutribattle/internal/api"
	"github.com/nutribattle/nutribattle/internal/auth"
	"github.com/nutribattle/nutribattle/internal/models"
)

const invalidCredentials = "Invalid username or password"

func (s *Server) issueToken(c *gin.Context, user *models.User) {
	token, err := auth.GenerateToken(user.ID, user.Username, user.Role, s.tokenTTL)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to generate token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	c.JSON(http.StatusOK, authResponse(user, token))
}

// login exchanges a username and password for a token. Unknown users,
// wrong passwords and disabled accounts get the same answer.
func (s *Server) login(c *gin.Context) {
	var req api.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.APIMessage{Success: false, Message: "Username and password are required"})
		return
	}

	var user models.User
	err := s.db.Where("username = ?", req.Username).First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error().Err(err).Msg("Failed to query user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if err != nil || !user.Enabled || !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.logger.Warn().Str("username", req.Username).Msg("Failed login attempt")
		c.JSON(http.StatusUnauthorized, api.APIMessage{Success: false, Message: invalidCredentials})
		return
	}

	now := s.now()
	user.LastLoginAt = &now
	if err := s.db.Model(&user).Update("last_login_at", now).Error; err != nil {
		s.logger.Warn().Err(err).Msg("Failed to record last login")
	}

	s.issueToken(c, &user)
}

func (s *Server) signup(c *gin.Context) {
	var req api.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.APIMessage{Success: false, Message: err.Error()})
		return
	}

	taken, err := s.exists("username", req.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if taken {
		c.JSON(http.StatusBadRequest, api.APIMessage{Success: false, Message: "Username is already taken!"})
		return
	}
	if taken, err = s.exists("email", req.Email); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if taken {
		c.JSON(http.StatusBadRequest, api.APIMessage{Success: false, Message: "Email is already in use!"})
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
		FullName:     req.FullName,
		Role:         models.RoleUser,
		Enabled:      true,
	}
	defaults := api.NutritionalGoals{}
	defaults.Defaults()
	setUserGoals(user, defaults)

	if err := s.db.Create(user).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	s.logger.Info().Str("username", user.Username).Msg("User signed up")
	s.issueToken(c, user)
}

func (s *Server) exists(column, value string) (bool, error) {
	var count int64
	if err := s.db.Model(&models.User{}).Where(column+" = ?", value).Count(&count).Error; err != nil {
		s.logger.Error().Err(err).Str("column", column).Msg("Failed to count users")
		return false, err
	}
	return count > 0, nil
}

func (s *Server) checkUsername(c *gin.Context) {
	username := c.Query("username")
	if err := s.validator.Var(username, "required,min=3,max=50"); err != nil {
		c.JSON(http.StatusBadRequest, api.APIMessage{Success: false, Message: "Username must be 3 to 50 characters"})
		return
	}

	taken, err := s.exists("username", username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if taken {
		c.JSON(http.StatusOK, api.APIMessage{Success: false, Message: "Username is already taken"})
		return
	}
	c.JSON(http.StatusOK, api.APIMessage{Success: true, Message: "Username is available"})
}

func (s *Server) checkEmail(c *gin.Context) {
	email := c.Query("email")
	if err := s.validator.Var(email, "required,email"); err != nil {
		c.JSON(http.StatusBadRequest, api.APIMessage{Success: false, Message: "Email address is not valid"})
		return
	}

	taken, err := s.exists("email", email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if taken {
		c.JSON(http.StatusOK, api.APIMessage{Success: false, Message: "Email is already in use"})
		return
	}
	c.JSON(http.StatusOK, api.APIMessage{Success: true, Message: "Email is available"})
}
