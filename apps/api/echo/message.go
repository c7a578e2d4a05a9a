package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/surveyops/respops/core/message"
)

type messageApi struct {
	svc *message.Service
}

func registerMessageAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *message.Service) {
	api := messageApi{svc: svc}

	mg := g.Group("/messages", jwt, opsMiddleware())
	mg.GET("/count", api.countUnread)
	mg.POST("", api.send, messagingMiddleware())
	mg.PUT("/:id/read", api.markRead)

	tg := g.Group("/threads", jwt, opsMiddleware())
	tg.GET("", api.queryThreads)
	tg.GET("/:id", api.retrieveThread)
}

// Handlers

func (api *messageApi) send(ctx echo.Context) error {
	var data message.NewMessage
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMessage")
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	sent, err := api.svc.Send(ctx.Request().Context(), data, claims.Username)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, sent)
}

func (api *messageApi) queryThreads(ctx echo.Context) error {
	var filter message.ThreadFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to ThreadFilter")
	}

	threads, err := api.svc.QueryThreads(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying threads")
	}
	if threads == nil {
		threads = []message.SecureMessage{}
	}
	return ctx.JSON(http.StatusOK, threads)
}

func (api *messageApi) retrieveThread(ctx echo.Context) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}

	msgs, err := api.svc.Thread(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, msgs)
}

func (api *messageApi) countUnread(ctx echo.Context) error {
	count, err := api.svc.CountUnread(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "counting unread messages")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"total": count})
}

func (api *messageApi) markRead(ctx echo.Context) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}
	if err := api.svc.MarkRead(ctx.Request().Context(), id); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
