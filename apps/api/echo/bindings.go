package echoapi

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/surveyops/respops/core"
)

// uuidParam parses a path parameter as a UUID; a malformed value is a
// validation error, not a 404, so the caller can tell the two apart.
func uuidParam(ctx echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		return uuid.UUID{}, core.NewValidationError(err, core.FieldError{Field: name, Error: "invalid " + name})
	}
	return id, nil
}
