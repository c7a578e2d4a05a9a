package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/surveyops/respops/core/collex"
	"github.com/surveyops/respops/core/survey"
)

type surveyApi struct {
	svc       *survey.Service
	collexSvc *collex.Service
}

func registerSurveyAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *survey.Service, collexSvc *collex.Service) {
	api := surveyApi{svc: svc, collexSvc: collexSvc}

	sg := g.Group("/surveys", jwt, opsMiddleware())
	sg.GET("", api.query)
	sg.GET("/shortname/:shortName", api.retrieveByShortName)
	sg.GET("/ref/:ref", api.retrieveByRef)
	sg.POST("/refresh", api.refresh, adminMiddleware())
}

// SurveyDetail is a survey plus its collection exercise overview.
type SurveyDetail struct {
	Survey          survey.Survey               `json:"survey"`
	Exercises       []collex.CollectionExercise `json:"exercises"`
	CurrentExercise *collex.CollectionExercise  `json:"current_exercise,omitempty"`
	NextKeyDate     *collex.FormattedEvent      `json:"next_key_date,omitempty"`
}

// Handlers

func (api *surveyApi) query(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.svc.QueryAll(ctx.Request().Context()))
}

func (api *surveyApi) retrieveByShortName(ctx echo.Context) error {
	s, err := api.svc.GetByShortName(ctx.Request().Context(), ctx.Param("shortName"))
	if err != nil {
		return err
	}
	return api.detail(ctx, s)
}

func (api *surveyApi) retrieveByRef(ctx echo.Context) error {
	s, err := api.svc.GetByRef(ctx.Request().Context(), ctx.Param("ref"))
	if err != nil {
		return err
	}
	return api.detail(ctx, s)
}

func (api *surveyApi) detail(ctx echo.Context, s survey.Survey) error {
	reqCtx := ctx.Request().Context()

	exercises, err := api.collexSvc.Exercises(reqCtx, s.ID)
	if err != nil {
		return errors.Wrap(err, "getting survey exercises")
	}

	detail := SurveyDetail{Survey: s, Exercises: exercises}
	if current, ok := api.collexSvc.Current(exercises); ok {
		detail.CurrentExercise = &current
		if next, ok, err := api.collexSvc.NextKeyDate(reqCtx, current.ID); err == nil && ok {
			detail.NextKeyDate = &next
		}
	}
	return ctx.JSON(http.StatusOK, detail)
}

func (api *surveyApi) refresh(ctx echo.Context) error {
	if err := api.svc.RefreshCache(ctx.Request().Context()); err != nil {
		return errors.Wrap(err, "refreshing survey cache")
	}
	return ctx.NoContent(http.StatusNoContent)
}
