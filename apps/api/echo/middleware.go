package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const contextOwnerKey = "owner"

// ownerMiddleware rejects tokens without a subject and exposes the owner ID to the handlers.
func ownerMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			id, err := ownerID(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			ctx.Set(contextOwnerKey, id)
			return next(ctx)
		}
	}
}

func getOwner(ctx echo.Context) string {
	id, _ := ctx.Get(contextOwnerKey).(string)
	return id
}
