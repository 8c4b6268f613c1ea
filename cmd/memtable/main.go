package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	json "github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/leengari/memtable/internal/api"
	"github.com/leengari/memtable/internal/domain/schema"
	"github.com/leengari/memtable/internal/engine"
	"github.com/leengari/memtable/internal/logging"
	"github.com/leengari/memtable/internal/storage/loader"
)

// jsonSerializer plugs goccy/go-json into echo.
type jsonSerializer struct{}

func (jsonSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := json.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (jsonSerializer) Deserialize(c echo.Context, i interface{}) error {
	if err := json.NewDecoder(c.Request().Body).Decode(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func main() {
	var (
		dataPath = flag.String("data", "", "path to an integer CSV file to load")
		binPath  = flag.String("bin", "", "path to a raw fixed-width row file to load")
		numCols  = flag.Int("cols", 4, "column count for -bin input")
		mode     = flag.String("table", "indexed", "table kind: indexed, row, or column")
		listen   = flag.String("listen", "", "serve the HTTP API on this address instead of running the demo queries")
	)
	flag.Parse()

	logger, closeFn := logging.SetupLogger()
	defer closeFn()
	slog.SetDefault(logger)

	slog.Info("Starting memtable...")

	src, err := openLoader(*dataPath, *binPath, *numCols)
	if err != nil {
		slog.Error("failed to open data source", "error", err)
		closeFn()
		os.Exit(1)
	}

	tbl, err := buildTable(*mode)
	if err != nil {
		slog.Error("failed to build table", "error", err)
		closeFn()
		os.Exit(1)
	}

	if *listen != "" {
		serve(*listen, tbl, src)
		return
	}

	start := time.Now()
	if err := tbl.Load(src); err != nil {
		slog.Error("load failed", "error", err)
		closeFn()
		os.Exit(1)
	}
	slog.Info("table loaded", "elapsed", time.Since(start))

	runDemoQueries(tbl)
}

func openLoader(dataPath, binPath string, numCols int) (loader.DataLoader, error) {
	switch {
	case dataPath != "":
		return loader.NewCSVLoader(dataPath)
	case binPath != "":
		f, err := os.Open(binPath)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return loader.NewBinaryLoader(f, numCols)
	default:
		return nil, fmt.Errorf("one of -data or -bin is required")
	}
}

func buildTable(mode string) (engine.Table, error) {
	s := schema.Canonical()
	switch mode {
	case "indexed":
		tbl, err := engine.NewIndexedTable(s)
		if err != nil {
			return nil, err
		}
		tbl.AddObserver(engine.NewLoggingObserver())
		return tbl, nil
	case "row":
		return engine.NewRowTable(s)
	case "column":
		return engine.NewColumnTable(s)
	default:
		return nil, fmt.Errorf("unknown table kind %q", mode)
	}
}

func runDemoQueries(tbl engine.Table) {
	slog.Info("column sum", "sum", tbl.ColumnSum())
	slog.Info("predicated column sum", "t1", 0, "t2", 3, "sum", tbl.PredicatedColumnSum(0, 3))
	slog.Info("predicated all columns sum", "t", 3, "sum", tbl.PredicatedAllColumnsSum(3))
	slog.Info("predicated update", "t", 7, "rows_updated", tbl.PredicatedUpdate(7))
}

func serve(addr string, tbl engine.Table, src loader.DataLoader) {
	e := echo.New()
	e.HideBanner = true
	e.JSONSerializer = jsonSerializer{}
	e.Use(middleware.Recover())

	// Requests arriving before the load finishes get 503.
	h := api.NewHandler(nil)
	h.RegisterRoutes(e)

	go func() {
		start := time.Now()
		if err := tbl.Load(src); err != nil {
			slog.Error("background load failed", "error", err)
			return
		}
		h.SetTable(tbl)
		slog.Info("table loaded, API ready", "elapsed", time.Since(start))
	}()

	slog.Info("serving HTTP API", "addr", addr)
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
