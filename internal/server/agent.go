package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mohammad-safakhou/newsagent/internal/agent/core"
)

// AgentHandler exposes the orchestrator over HTTP.
type AgentHandler struct {
	Orch *core.Orchestrator
}

// Register mounts the agent routes on the given group.
func (h *AgentHandler) Register(g *echo.Group) {
	g.POST("/run", h.run)
	g.GET("/status", h.status)
	g.GET("/result", h.result)
	g.POST("/cancel", h.cancel)
}

type runRequest struct {
	Query string `json:"query"`
}

// run starts a background run and answers 202 with its ID, or 409 while
// another run is active.
func (h *AgentHandler) run(c echo.Context) error {
	var req runRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	runID, err := h.Orch.TriggerRun(req.Query)
	if err != nil {
		if errors.Is(err, core.ErrRunInProgress) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return err
	}
	return c.JSON(http.StatusAccepted, map[string]string{"run_id": runID})
}

// status reports run progress. Without a run_id parameter it reports the
// most recently started run, or the idle state before any run.
func (h *AgentHandler) status(c echo.Context) error {
	st, err := h.Orch.GetStatus(c.QueryParam("run_id"))
	if err != nil {
		if errors.Is(err, core.ErrRunNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return err
	}
	return c.JSON(http.StatusOK, st)
}

// result returns the terminal run result, 404 when the run is unknown or
// still in flight.
func (h *AgentHandler) result(c echo.Context) error {
	res, err := h.Orch.Result(c.QueryParam("run_id"))
	if err != nil {
		if errors.Is(err, core.ErrRunNotFound) || errors.Is(err, core.ErrRunNotFinished) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// cancel requests cooperative cancellation of the active run.
func (h *AgentHandler) cancel(c echo.Context) error {
	if err := h.Orch.Cancel(c.QueryParam("run_id")); err != nil {
		if errors.Is(err, core.ErrRunNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "cancelling"})
}
