package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/aDevMister/my-assesment/internal/config"
	"github.com/aDevMister/my-assesment/internal/dashboard"
	"github.com/aDevMister/my-assesment/internal/export"
	"github.com/aDevMister/my-assesment/internal/users"
	"github.com/aDevMister/my-assesment/pkg/logger"
	"github.com/gin-gonic/gin"
)

// Store is what the console reads and mutates. *users.Store satisfies it.
type Store interface {
	dashboard.Store
	Loaded() bool
	ClearFailure()
}

// Console serves the HTML dashboard and the JSON users API over one Store.
type Console struct {
	store       Store
	exporter    *export.Exporter
	pageSize    int
	searchDelay time.Duration
	log         *logger.Component
}

func NewConsole(store Store, exporter *export.Exporter, cfg config.ViewConfig) *Console {
	return &Console{
		store:       store,
		exporter:    exporter,
		pageSize:    cfg.PageSize,
		searchDelay: cfg.SearchDebounce,
		log:         logger.Named("console"),
	}
}

// session builds a per-request controller from the query string.
func (h *Console) session(q url.Values) *dashboard.Controller {
	ctl := dashboard.New(h.store, h.pageSize, dashboard.WithSearchDelay(h.searchDelay))
	ctl.Restore(q)
	return ctl
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, dashboard.ErrInvalidInput), errors.Is(err, users.ErrInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, dashboard.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, export.ErrDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, users.ErrRemote):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func pathID(c *gin.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, users.ErrInvalidID
	}
	return id, nil
}
