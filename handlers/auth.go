package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"clubci-checkin/auth"
	"clubci-checkin/models"
)

type AuthHandler struct {
	db     *pgxpool.Pool
	secret string
	ttl    time.Duration
}

func NewAuthHandler(db *pgxpool.Pool, secret string, ttl time.Duration) *AuthHandler {
	return &AuthHandler{db: db, secret: secret, ttl: ttl}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Check if username is taken
	var exists bool
	err := h.db.QueryRow(c, "SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(username) = LOWER($1))", req.Username).Scan(&exists)
	if err != nil {
		log.Printf("Error checking username: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if exists {
		c.JSON(http.StatusConflict, gin.H{"error": "Username already taken"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	user := models.User{
		ID:        uuid.New(),
		Username:  req.Username,
		FullName:  req.FullName,
		CreatedAt: time.Now(),
	}

	query := `
		INSERT INTO users (id, username, password_hash, full_name, email, is_admin, created_at)
		VALUES ($1, $2, $3, $4, $5, false, $6)
		RETURNING email
	`
	err = h.db.QueryRow(c, query, user.ID, user.Username, string(hash), user.FullName, nullIfEmpty(req.Email), user.CreatedAt).Scan(&user.Email)
	if err != nil {
		log.Printf("Error creating user %s: %v", req.Username, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	token, err := auth.CreateAccessToken(h.secret, user.Username, false, h.ttl)
	if err != nil {
		log.Printf("Error creating token for %s: %v", user.Username, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	var hash string
	query := `
		SELECT id, username, password_hash, full_name, email, is_admin, created_at
		FROM users
		WHERE LOWER(username) = LOWER($1)
	`
	err := h.db.QueryRow(c, query, req.Username).Scan(
		&user.ID,
		&user.Username,
		&hash,
		&user.FullName,
		&user.Email,
		&user.IsAdmin,
		&user.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}
	if err != nil {
		log.Printf("Error fetching user %s: %v", req.Username, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	token, err := auth.CreateAccessToken(h.secret, user.Username, user.IsAdmin, h.ttl)
	if err != nil {
		log.Printf("Error creating token for %s: %v", user.Username, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create token"})
		return
	}

	log.Printf("User logged in: %s (admin=%v)", user.Username, user.IsAdmin)
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
