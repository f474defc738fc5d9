package http

import (
	"net/http"

	"github.com/shopworks/shop-erp-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
)

// shopIDFromClaims reads the tenant scope from the verified token. Every
// authenticated route requires it.
func shopIDFromClaims(r *http.Request) (string, error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "", user.ErrInvalidToken
	}

	shopID, ok := claims["shop_id"].(string)
	if !ok || shopID == "" {
		return "", user.ErrMissingShopContext
	}

	return shopID, nil
}

// employeeIDFromClaims reads the caller's employee identity. Present only on
// tokens issued to staff linked to an employee record.
func employeeIDFromClaims(r *http.Request) (string, error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "", user.ErrInvalidToken
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return "", user.ErrInvalidToken
	}

	return employeeID, nil
}
