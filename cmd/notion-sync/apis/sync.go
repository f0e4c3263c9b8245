package apis

import (
	"context"
	"net/http"
	"notion-sync-backend/cmd/notion-sync/model"
	syncpkg "notion-sync-backend/cmd/notion-sync/sync"

	"github.com/labstack/echo/v4"
)

type IDriver interface {
	Status() syncpkg.Status
	RunOnce(ctx context.Context)
}

// SyncAPI exposes the driver for operators: inspect the last run, or
// trigger one outside the schedule. A manual trigger while a run is in
// flight is dropped by the driver's re-entrancy guard.
type SyncAPI struct {
	driver IDriver
}

func NewSyncAPI(driver IDriver) *SyncAPI {

	return &SyncAPI{
		driver: driver,
	}
}

func (a *SyncAPI) Setup(g *echo.Group) {
	g.GET("/sync/status", a.status)
	g.POST("/sync/run", a.run)
}

func (a *SyncAPI) status(c echo.Context) error {

	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: "success",
			Data:    a.driver.Status(),
		},
	)
}

func (a *SyncAPI) run(c echo.Context) error {

	// Detached from the request context: the run must outlive the request.
	go a.driver.RunOnce(context.Background())

	return c.JSON(
		http.StatusAccepted,
		model.BaseResponse{
			Message: "sync triggered",
		},
	)
}
