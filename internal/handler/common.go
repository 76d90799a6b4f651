package handler // handler defines the HTTP handlers

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/yhajali/aqari-backend/internal/repository"
)

const (
	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// getAccountID extracts the caller's account id injected by the JWT
// middleware and converts it to uint64.
func getAccountID(c echo.Context) (uint64, error) {
	v := c.Get("account_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid account_id in context")
}

// reqCtx bounds a handler's store calls to five seconds.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

func validEmail(s string) bool { return emailRe.MatchString(s) }

func validDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

func validMonth(s string) bool {
	_, err := time.Parse(monthLayout, s)
	return err == nil
}

// parseID parses the :id path parameter.
func parseID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// notFoundOrDBError maps a repository error on a scoped read to the API
// response: ErrNotFound (which covers rows owned by other accounts) renders
// as 404, anything else as a 500.
func notFoundOrDBError(c echo.Context, err error, what string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": what + " not found"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
}
