package kioskapi

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const claimsContextKey = "staff_claims"

// staffClaims is the JWT payload for one kiosk operator session.
type staffClaims struct {
	StaffID   string `json:"staff_id"`
	StaffName string `json:"staff_name"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// checkCredentials compares the submitted staff credentials against the
// configured static pair. There is no real authentication backend.
func checkCredentials(cfg Config, staffID string, password string) bool {
	idMatch := subtle.ConstantTimeCompare([]byte(staffID), []byte(cfg.StaffID))
	passwordMatch := subtle.ConstantTimeCompare([]byte(password), []byte(cfg.StaffPassword))
	return idMatch == 1 && passwordMatch == 1
}

func issueSessionToken(cfg Config, now time.Time) (string, error) {
	claims := staffClaims{
		StaffID:   cfg.StaffID,
		StaffName: cfg.StaffName,
		Role:      defaultStaffRole,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    cfg.SessionIssuer,
			Subject:   cfg.StaffID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.SessionTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.SessionSigningKey))
}

func parseSessionToken(cfg Config, raw string) (*staffClaims, error) {
	claims := &staffClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(cfg.SessionSigningKey), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(cfg.SessionIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// sessionMiddleware gates the API behind a valid session cookie.
func sessionMiddleware(cfg Config) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		raw, err := ctx.Cookie(cfg.SessionCookieName)
		if err != nil || raw == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse("unauthorized", "missing session"))
			return
		}
		claims, err := parseSessionToken(cfg, raw)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse("unauthorized", "invalid session"))
			return
		}
		ctx.Set(claimsContextKey, claims)
		ctx.Next()
	}
}

func getClaims(ctx *gin.Context) *staffClaims {
	claimsValue, ok := ctx.Get(claimsContextKey)
	if !ok {
		return nil
	}
	claims, _ := claimsValue.(*staffClaims)
	return claims
}
