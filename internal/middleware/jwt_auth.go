package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"marketplace_api/internal/api/dto"
)

// ==================== JWT config ====================

type JWTConfig struct {
	SecretKey      string
	AccessTokenTTL time.Duration
	Issuer         string
}

func DefaultJWTConfig() *JWTConfig {
	return &JWTConfig{
		SecretKey:      "marketplace-secret-change-in-production",
		AccessTokenTTL: 2 * time.Hour,
		Issuer:         "marketplace-api",
	}
}

var jwtConfig = DefaultJWTConfig()

// SetJWTConfig replaces the process-wide signing settings. Call it once at startup.
func SetJWTConfig(cfg *JWTConfig) {
	jwtConfig = cfg
}

// ==================== Claims ====================

// SellerClaims identifies the authenticated seller.
type SellerClaims struct {
	SellerID int64  `json:"seller_id"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

const tokenSubjectAccess = "access"

// GenerateAccessToken signs an access token for the seller and returns its expiry.
func GenerateAccessToken(sellerID int64, email string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(jwtConfig.AccessTokenTTL)
	claims := &SellerClaims{
		SellerID: sellerID,
		Email:    email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    jwtConfig.Issuer,
			Subject:   tokenSubjectAccess,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(jwtConfig.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func ParseToken(tokenString string) (*SellerClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SellerClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(jwtConfig.SecretKey), nil
	}, jwt.WithIssuer(jwtConfig.Issuer))

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*SellerClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// ==================== Gin middleware ====================

const (
	ContextKeySellerID = "seller_id"
	ContextKeyClaims   = "claims"
)

// JWTAuth rejects requests without a valid "Bearer <token>" header.
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Not authenticated")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthorized(c, "Authorization header must be Bearer {token}")
			return
		}

		claims, err := ParseToken(parts[1])
		if err != nil || claims.Subject != tokenSubjectAccess {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(ContextKeySellerID, claims.SellerID)
		c.Set(ContextKeyClaims, claims)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, detail string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
		Detail:    detail,
		ErrorCode: "NOT_AUTHENTICATED",
	})
}

// GetSellerID returns the authenticated seller, or 0 outside JWTAuth.
func GetSellerID(c *gin.Context) int64 {
	if id, exists := c.Get(ContextKeySellerID); exists {
		return id.(int64)
	}
	return 0
}

func GetSellerClaims(c *gin.Context) *SellerClaims {
	if claims, exists := c.Get(ContextKeyClaims); exists {
		return claims.(*SellerClaims)
	}
	return nil
}
