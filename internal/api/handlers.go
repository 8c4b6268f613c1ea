package api

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/leengari/memtable/internal/engine"
)

// Handler exposes the four query templates and point access over HTTP. The
// engine itself is single-threaded, so a single mutex serializes every
// request that touches it.
type Handler struct {
	mu    sync.Mutex
	table engine.Table
}

func NewHandler(table engine.Table) *Handler {
	return &Handler{table: table}
}

// SetTable swaps in a loaded table; until then requests get 503.
func (h *Handler) SetTable(table engine.Table) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.table = table
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api")
	api.GET("/sum", h.GetColumnSum)
	api.GET("/sum/filtered", h.GetPredicatedColumnSum)
	api.GET("/sum/rows", h.GetPredicatedAllColumnsSum)
	api.POST("/update", h.PostPredicatedUpdate)
	api.GET("/rows/:row/fields/:col", h.GetField)
	api.PUT("/rows/:row/fields/:col", h.PutField)
}

func thresholdParam(c echo.Context, name string) (int32, error) {
	v, err := strconv.ParseInt(c.QueryParam(name), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid threshold "+name)
	}
	return int32(v), nil
}

func pathIndex(c echo.Context, name string) (int, error) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return v, nil
}

// checkReady must be called with the mutex held.
func (h *Handler) checkReady() error {
	if h.table == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "table still loading")
	}
	return nil
}

func (h *Handler) GetColumnSum(c echo.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.checkReady(); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]int64{"sum": h.table.ColumnSum()})
}

func (h *Handler) GetPredicatedColumnSum(c echo.Context) error {
	t1, err := thresholdParam(c, "t1")
	if err != nil {
		return err
	}
	t2, err := thresholdParam(c, "t2")
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.checkReady(); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]int64{"sum": h.table.PredicatedColumnSum(t1, t2)})
}

func (h *Handler) GetPredicatedAllColumnsSum(c echo.Context) error {
	t, err := thresholdParam(c, "t")
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.checkReady(); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]int64{"sum": h.table.PredicatedAllColumnsSum(t)})
}

func (h *Handler) PostPredicatedUpdate(c echo.Context) error {
	t, err := thresholdParam(c, "t")
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.checkReady(); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]int{"rows_updated": h.table.PredicatedUpdate(t)})
}

func (h *Handler) GetField(c echo.Context) error {
	row, err := pathIndex(c, "row")
	if err != nil {
		return err
	}
	col, err := pathIndex(c, "col")
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.checkReady(); err != nil {
		return err
	}
	v, err := h.table.GetIntField(row, col)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]int32{"value": v})
}

type putFieldRequest struct {
	Value int32 `json:"value"`
}

func (h *Handler) PutField(c echo.Context) error {
	row, err := pathIndex(c, "row")
	if err != nil {
		return err
	}
	col, err := pathIndex(c, "col")
	if err != nil {
		return err
	}
	var req putFieldRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.checkReady(); err != nil {
		return err
	}
	if err := h.table.PutIntField(row, col, req.Value); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
