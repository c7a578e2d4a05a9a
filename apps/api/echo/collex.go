package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/surveyops/respops/core"
	"github.com/surveyops/respops/core/collex"
)

type collexApi struct {
	svc *collex.Service
}

func registerCollexAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *collex.Service) {
	api := collexApi{svc: svc}

	cg := g.Group("/collection-exercises", jwt, opsMiddleware())
	cg.GET("/:id", api.retrieve)
	cg.GET("/:id/next-key-date", api.nextKeyDate)

	// event mutations need the surveys role
	eg := cg.Group("/:id/events", eventEditorMiddleware())
	eg.PUT("/:tag", api.submitEvent)
	eg.DELETE("/:tag", api.deleteEvent)
}

// Handlers

func (api *collexApi) retrieve(ctx echo.Context) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	view, err := api.svc.ExerciseView(ctx.Request().Context(), id, claims.CanEditEvents)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, view)
}

func (api *collexApi) nextKeyDate(ctx echo.Context) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}

	next, ok, err := api.svc.NextKeyDate(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	if !ok {
		return ctx.NoContent(http.StatusNoContent)
	}
	return ctx.JSON(http.StatusOK, next)
}

func (api *collexApi) submitEvent(ctx echo.Context) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}

	var data SubmitEventRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SubmitEventRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	tag := collex.Tag(ctx.Param("tag"))
	if err := api.svc.SubmitEvent(ctx.Request().Context(), id, tag, data.Timestamp); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *collexApi) deleteEvent(ctx echo.Context) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}
	if err := api.svc.DeleteEvent(ctx.Request().Context(), id, collex.Tag(ctx.Param("tag"))); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

type SubmitEventRequest struct {
	Timestamp time.Time `json:"timestamp" validate:"required"`
}

func (sr *SubmitEventRequest) Validate() error { return core.Validate.Struct(sr) }
