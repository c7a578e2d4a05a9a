package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/surveyops/respops/core/banner"
)

type bannerApi struct {
	svc *banner.Service
}

func registerBannerAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *banner.Service) {
	api := bannerApi{svc: svc}

	// any signed-in user sees the banner; only admins manage it
	bg := g.Group("/banner", jwt)
	bg.GET("", api.active)
	bg.POST("", api.publish, adminMiddleware())
	bg.DELETE("", api.remove, adminMiddleware())

	tg := bg.Group("/templates", adminMiddleware())
	tg.GET("", api.queryTemplates)
	tg.POST("", api.createTemplate)
	tg.GET("/:id", api.retrieveTemplate)
	tg.DELETE("/:id", api.destroyTemplate)
}

// Handlers

func (api *bannerApi) active(ctx echo.Context) error {
	b, err := api.svc.Active(ctx.Request().Context())
	if err != nil {
		if errors.Cause(err) == banner.ErrNoActiveBanner {
			return ctx.NoContent(http.StatusNoContent)
		}
		return err
	}
	return ctx.JSON(http.StatusOK, b)
}

func (api *bannerApi) publish(ctx echo.Context) error {
	var data banner.NewBanner
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewBanner")
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	b, err := api.svc.Publish(ctx.Request().Context(), data, claims.Username)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, b)
}

func (api *bannerApi) remove(ctx echo.Context) error {
	if err := api.svc.Remove(ctx.Request().Context()); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *bannerApi) queryTemplates(ctx echo.Context) error {
	templates, err := api.svc.QueryTemplates(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying banner templates")
	}
	if templates == nil {
		templates = []banner.Template{}
	}
	return ctx.JSON(http.StatusOK, templates)
}

func (api *bannerApi) createTemplate(ctx echo.Context) error {
	var data banner.NewTemplate
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTemplate")
	}

	t, err := api.svc.CreateTemplate(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, t)
}

func (api *bannerApi) retrieveTemplate(ctx echo.Context) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}

	t, err := api.svc.GetTemplate(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *bannerApi) destroyTemplate(ctx echo.Context) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}
	if err := api.svc.DeleteTemplate(ctx.Request().Context(), id); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
