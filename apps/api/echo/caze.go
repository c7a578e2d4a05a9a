package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/surveyops/respops/core"
	"github.com/surveyops/respops/core/caze"
)

type caseApi struct {
	svc *caze.Service
}

func registerCaseAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *caze.Service) {
	api := caseApi{svc: svc}

	cg := g.Group("/case-groups", jwt, opsMiddleware())
	cg.GET("/:id", api.retrieve)
	cg.GET("/:id/status-changes", api.statusChanges)
	cg.PUT("/:id/status", api.changeStatus)
}

// Handlers

func (api *caseApi) retrieve(ctx echo.Context) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}

	group, err := api.svc.GetCaseGroup(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, group)
}

func (api *caseApi) statusChanges(ctx echo.Context) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}

	groups, err := api.svc.AvailableStatusChanges(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	if groups == nil {
		groups = []caze.CategoryGroup{}
	}
	return ctx.JSON(http.StatusOK, groups)
}

func (api *caseApi) changeStatus(ctx echo.Context) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}

	var data ChangeStatusRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ChangeStatusRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	if err := api.svc.ChangeStatus(ctx.Request().Context(), id, data.Event); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

type ChangeStatusRequest struct {
	Event string `json:"event" validate:"required"`
}

func (cr *ChangeStatusRequest) Validate() error {
	cr.Event = core.CleanString(cr.Event)
	return core.Validate.Struct(cr)
}
