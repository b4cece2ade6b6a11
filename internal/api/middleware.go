package api

import (
	"clinigoal/backend/internal/service"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Context keys set by AuthMiddleware.
const (
	ContextSubjectIDKey = "subjectID"
	ContextKindKey      = "identityKind"
)

// jwtClaims mirrors the payload produced by authService.generateJWT.
type jwtClaims struct {
	SubjectID string               `json:"uid"`
	Kind      service.IdentityKind `json:"kind"`
	jwt.RegisteredClaims
}

// AuthMiddleware creates a Gin middleware for JWT authentication.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header is missing")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}

		claims := &jwtClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortWithError(c, http.StatusUnauthorized, "Token has expired")
			} else {
				abortWithError(c, http.StatusUnauthorized, "Invalid token")
			}
			return
		}
		if !token.Valid || claims.SubjectID == "" || claims.Kind == "" {
			abortWithError(c, http.StatusUnauthorized, "Invalid token or missing claims")
			return
		}

		c.Set(ContextSubjectIDKey, claims.SubjectID)
		c.Set(ContextKindKey, claims.Kind)
		c.Next()
	}
}

// AdminMiddleware restricts a route to admin tokens. Must run after
// AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		kindRaw, exists := c.Get(ContextKindKey)
		if !exists {
			abortWithError(c, http.StatusInternalServerError, "Identity kind not found in context")
			return
		}
		kind, ok := kindRaw.(service.IdentityKind)
		if !ok {
			abortWithError(c, http.StatusInternalServerError, "Invalid identity kind type in context")
			return
		}
		if kind != service.IdentityAdmin {
			abortWithError(c, http.StatusForbidden, "Admin access required")
			return
		}
		c.Next()
	}
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// getSubjectID returns the authenticated subject's ObjectID from context.
func getSubjectID(c *gin.Context) (primitive.ObjectID, error) {
	idRaw, exists := c.Get(ContextSubjectIDKey)
	if !exists {
		return primitive.NilObjectID, errors.New("subject ID not found in context")
	}
	idStr, ok := idRaw.(string)
	if !ok {
		return primitive.NilObjectID, errors.New("invalid subject ID type in context")
	}
	return primitive.ObjectIDFromHex(idStr)
}

// parseHexID converts a hex string from a request body or form to an ObjectID.
func parseHexID(s string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(s)
}

// parseIDParam converts a path parameter to an ObjectID.
func parseIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid %s format", name))
		return primitive.NilObjectID, false
	}
	return id, true
}
