package handlers

import (
	"fmt"
	"net/http"

	"taskboard/internal/apperrors"
	"taskboard/internal/common"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// pathID reads a UUID path parameter. Malformed values are a 400.
func pathID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := common.ValidateUUID(c.Param(name), name)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%v: %w", err, apperrors.ErrBadRequest)
	}
	return id, nil
}

func bindJSON(c echo.Context, dst any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, dst); err != nil {
		return fmt.Errorf("invalid request body: %w", apperrors.ErrBadRequest)
	}
	return nil
}

// query returns a reader over the request query string.
func query(c echo.Context) *common.QueryReader {
	return common.NewQueryReader(c.QueryParams())
}

func respond(c echo.Context, status int, payload any) error {
	return c.JSON(status, common.DataEnvelope(payload))
}

func ok(c echo.Context, payload any) error {
	return respond(c, http.StatusOK, payload)
}

func created(c echo.Context, payload any) error {
	return respond(c, http.StatusCreated, payload)
}
