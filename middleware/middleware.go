package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"

	"merchant/globals"
	"merchant/utils"
)

// JWT claims
type Claims struct {
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	UserType string `json:"user_type"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 token for the user valid for ttl.
func IssueToken(secret []byte, userID, email, userType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   userID,
		Email:    email,
		UserType: userType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ValidateJWT parses a raw token (no "Bearer " prefix).
func ValidateJWT(secret []byte, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// Authenticate rejects requests without a bearer token with 401 and
// requests whose token is invalid or expired with 403. Clients treat 403 as
// "session expired".
func Authenticate(secret []byte, next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		header := r.Header.Get("Authorization")
		if header == "" {
			utils.RespondWithError(w, http.StatusUnauthorized, "Missing token")
			return
		}
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid token format")
			return
		}

		claims, err := ValidateJWT(secret, tokenString)
		if err != nil {
			utils.RespondWithError(w, http.StatusForbidden, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), globals.UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, globals.UserTypeKey, claims.UserType)
		next(w, r.WithContext(ctx), ps)
	}
}

// MerchantOnly must wrap an Authenticate'd handler.
func MerchantOnly(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if utils.GetUserTypeFromRequest(r) != "merchant" {
			utils.RespondWithError(w, http.StatusForbidden, "Merchant access required")
			return
		}
		next(w, r, ps)
	}
}
