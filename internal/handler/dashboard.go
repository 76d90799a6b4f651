package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/yhajali/aqari-backend/internal/repository"
)

// DashboardHandler serves the per-account summary view.
type DashboardHandler struct {
	Dashboard *repository.DashboardRepo
}

func NewDashboardHandler(d *repository.DashboardRepo) *DashboardHandler {
	return &DashboardHandler{Dashboard: d}
}

// Summary handles GET /api/dashboard. The month defaults to the current
// UTC month; ?month=YYYY-MM overrides it.
func (h *DashboardHandler) Summary(c echo.Context) error {
	accountID, err := getAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	month := c.QueryParam("month")
	if month == "" {
		month = time.Now().UTC().Format(monthLayout)
	} else if !validMonth(month) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "month must be YYYY-MM"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.Dashboard.Summarize(ctx, accountID, month)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, s)
}
