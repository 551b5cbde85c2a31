package handlers

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/coverstar/backend/internal/models"
)

// referralBonusVotes is credited to the referrer once per referred
// signup.
const referralBonusVotes = 10

type AuthHandler struct {
	db *gorm.DB
}

func NewAuthHandler(db *gorm.DB) *AuthHandler {
	return &AuthHandler{db: db}
}

var jwtSecret = []byte(os.Getenv("JWT_SECRET"))

func signToken(user models.User, profileID int) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":    user.ID,
		"profile_id": profileID,
		"is_admin":   user.IsAdmin,
		"exp":        time.Now().Add(7 * 24 * time.Hour).Unix(),
	})
	return token.SignedString(jwtSecret)
}

// Register creates an account plus its profile, and credits the
// referrer when a valid referral code is supplied.
func (h *AuthHandler) Register(c *gin.Context) {
	var input models.RegisterRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if input.Username == "" || input.Email == "" || len(input.Password) < 8 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username, email and a password of at least 8 characters are required"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		Username: input.Username,
		Email:    strings.ToLower(input.Email),
		Password: string(hashedPassword),
		Name:     input.Name,
	}

	var profile models.Profile
	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		displayName := input.Name
		if displayName == "" {
			displayName = input.Username
		}
		profile = models.Profile{
			UserID:       user.ID,
			DisplayName:  displayName,
			ReferralCode: uuid.NewString(),
		}
		if err := tx.Create(&profile).Error; err != nil {
			return err
		}

		if input.ReferralCode != "" {
			if err := applyReferral(tx, input.ReferralCode, user.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Username or email already taken"})
		return
	}

	tokenString, err := signToken(user, profile.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, models.AuthResponse{
		Token:   tokenString,
		User:    user,
		Profile: profile,
		Message: "Account created",
	})
}

// applyReferral records the referral and credits the referrer's vote
// balance. An unknown code is ignored rather than failing the signup.
func applyReferral(tx *gorm.DB, code string, referredUserID int) error {
	var referrer models.Profile
	err := tx.Where("referral_code = ?", code).First(&referrer).Error
	if notFound(err) {
		return nil
	}
	if err != nil {
		return err
	}

	referral := models.Referral{
		ReferrerProfileID: referrer.ID,
		ReferredUserID:    referredUserID,
		Code:              code,
		BonusVotes:        referralBonusVotes,
	}
	if err := tx.Create(&referral).Error; err != nil {
		return err
	}

	return tx.Model(&models.Profile{}).
		Where("id = ?", referrer.ID).
		Update("available_votes", gorm.Expr("available_votes + ?", referralBonusVotes)).Error
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input models.LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var user models.User
	if err := h.db.Where("email = ?", strings.ToLower(input.Email)).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	var profile models.Profile
	if err := h.db.Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Profile missing for account"})
		return
	}

	tokenString, err := signToken(user, profile.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, models.AuthResponse{
		Token:   tokenString,
		User:    user,
		Profile: profile,
		Message: "Logged in",
	})
}

// GetMe returns the authenticated account and profile.
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var profile models.Profile
	if err := h.db.Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "profile": profile})
}
