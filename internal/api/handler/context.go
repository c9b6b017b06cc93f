package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxIdentity extracts the identity injected by the Auth middleware. A missing
// user id means the middleware did not run or the token carried no identity;
// both are rejected before any service call.
func ctxIdentity(c echo.Context) (userID, email string, err error) {
	userID, _ = c.Get("user_id").(string)
	if userID == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	email, _ = c.Get("email").(string)
	return userID, email, nil
}
