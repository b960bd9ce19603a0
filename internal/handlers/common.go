package handlers

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/gridbase/gridbase/internal/types"
	"github.com/gridbase/gridbase/internal/utils"
)

// paramID parses a numeric path parameter.
func paramID(c *fiber.Ctx, name string) (uint64, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, types.InvalidInputf("invalid %s %q", name, raw)
	}
	return id, nil
}

// serviceError maps a service-layer error onto the response envelope.
// NotFound covers unowned targets too; nothing in the body distinguishes
// them.
func serviceError(c *fiber.Ctx, err error, op string) error {
	switch {
	case errors.Is(err, types.ErrNotFound):
		return utils.NotFoundResponse(c, fmt.Sprintf("%s: target not found", op))
	case errors.Is(err, types.ErrInvalidInput):
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, op)
	case errors.Is(err, types.ErrUnauthorized):
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, op)
	case errors.Is(err, types.ErrConflict):
		return utils.ErrorResponse(c, err.Error(), fiber.StatusConflict, op)
	}
	log.Error().Err(err).Str("op", op).Msg("request failed")
	return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, op)
}
