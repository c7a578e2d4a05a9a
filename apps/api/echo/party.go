package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/surveyops/respops/core"
	"github.com/surveyops/respops/core/caze"
	"github.com/surveyops/respops/core/party"
)

type partyApi struct {
	svc     *party.Service
	caseSvc *caze.Service
}

func registerPartyAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *party.Service, caseSvc *caze.Service) {
	api := partyApi{svc: svc, caseSvc: caseSvc}

	bg := g.Group("/businesses", jwt, opsMiddleware())
	bg.GET("/search", api.searchBusinesses)
	bg.GET("/:id", api.retrieveBusiness)

	rg := g.Group("/respondents", jwt, opsMiddleware())
	rg.GET("/:id", api.retrieveRespondent)
	rg.POST("/email", api.retrieveRespondentByEmail)
	rg.PUT("/:id/status", api.changeRespondentStatus, adminMiddleware())
	rg.PUT("/enrolment", api.changeEnrolmentStatus)
}

// Handlers

func (api *partyApi) searchBusinesses(ctx echo.Context) error {
	businesses, err := api.svc.SearchBusinesses(ctx.Request().Context(), ctx.QueryParam("query"))
	if err != nil {
		return err
	}
	if businesses == nil {
		businesses = []party.Business{}
	}
	return ctx.JSON(http.StatusOK, businesses)
}

// BusinessDetail is a business plus its case groups, one per collection
// exercise the business was sampled for.
type BusinessDetail struct {
	Business   party.Business   `json:"business"`
	CaseGroups []caze.CaseGroup `json:"case_groups"`
}

func (api *partyApi) retrieveBusiness(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	business, err := api.svc.GetBusiness(reqCtx, ctx.Param("id"))
	if err != nil {
		return err
	}
	groups, err := api.caseSvc.QueryByParty(reqCtx, business.ID)
	if err != nil {
		return errors.Wrap(err, "getting business case groups")
	}
	if groups == nil {
		groups = []caze.CaseGroup{}
	}
	return ctx.JSON(http.StatusOK, BusinessDetail{Business: business, CaseGroups: groups})
}

func (api *partyApi) retrieveRespondent(ctx echo.Context) error {
	resp, err := api.svc.GetRespondent(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (api *partyApi) retrieveRespondentByEmail(ctx echo.Context) error {
	var data RespondentEmailRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RespondentEmailRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	resp, err := api.svc.GetRespondentByEmail(ctx.Request().Context(), data.Email)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (api *partyApi) changeRespondentStatus(ctx echo.Context) error {
	var data RespondentStatusRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RespondentStatusRequest")
	}

	err := api.svc.ChangeRespondentStatus(ctx.Request().Context(), ctx.Param("id"), party.RespondentStatus(data.Status))
	if err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *partyApi) changeEnrolmentStatus(ctx echo.Context) error {
	var data EnrolmentStatusRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EnrolmentStatusRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	err := api.svc.ChangeEnrolmentStatus(
		ctx.Request().Context(),
		data.RespondentID, data.BusinessID, data.SurveyID,
		party.EnrolmentStatus(data.Status),
	)
	if err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

type (
	RespondentEmailRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	RespondentStatusRequest struct {
		Status string `json:"status"`
	}

	EnrolmentStatusRequest struct {
		RespondentID string `json:"respondent_id" validate:"required"`
		BusinessID   string `json:"business_id" validate:"required"`
		SurveyID     string `json:"survey_id" validate:"required"`
		Status       string `json:"status"`
	}
)

func (rr *RespondentEmailRequest) Validate() error {
	rr.Email = core.CleanString(rr.Email, true /* lower */)
	return core.Validate.Struct(rr)
}

func (er *EnrolmentStatusRequest) Validate() error { return core.Validate.Struct(er) }
