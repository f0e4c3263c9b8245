package apis

import (
	"context"
	"net/http"
	"notion-sync-backend/cmd/notion-sync/model"

	"github.com/labstack/echo/v4"
)

type IEventRepo interface {
	ListEvents(ctx context.Context) ([]model.Event, error)
}

// EventAPI exposes the mirrored events table. The table is written only
// by the sync cycle; this surface is read-only.
type EventAPI struct {
	eventRepo IEventRepo
}

func NewEventAPI(eventRepo IEventRepo) *EventAPI {

	return &EventAPI{
		eventRepo: eventRepo,
	}
}

func (a *EventAPI) Setup(g *echo.Group) {
	g.GET("/events", a.listEvents)
}

func (a *EventAPI) listEvents(c echo.Context) error {

	ctx := c.Request().Context()

	events, err := a.eventRepo.ListEvents(ctx)
	if err != nil {
		return c.JSON(
			http.StatusInternalServerError,
			model.BaseResponse{
				Message: err.Error(),
			},
		)
	}

	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: "success",
			Data:    events,
		},
	)
}
