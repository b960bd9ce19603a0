package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/gridbase/gridbase/internal/middleware"
	"github.com/gridbase/gridbase/internal/services"
	"github.com/gridbase/gridbase/internal/types"
	"github.com/gridbase/gridbase/internal/utils"
)

// CatalogHandler handles column catalog routes.
type CatalogHandler struct {
	DB *gorm.DB
}

type columnInput struct {
	Name string           `json:"name"`
	Type types.ColumnType `json:"type"`
}

type columnTypeInput struct {
	Type types.ColumnType `json:"type"`
}

// CreateColumn handles POST /api/tables/:tableId/columns
// @Summary Create a column
// @Description Append a column and retrofit every record with a blank cell for it
// @Tags Columns
// @Accept json
// @Produce json
// @Param tableId path int true "Table ID"
// @Param body body columnInput true "Column name and optional type (default TEXT)"
// @Success 201 {object} models.Column
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /tables/{tableId}/columns [post]
func (h *CatalogHandler) CreateColumn(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return serviceError(c, err, "createColumn")
	}
	tableID, err := paramID(c, "tableId")
	if err != nil {
		return serviceError(c, err, "createColumn")
	}

	var input columnInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, "malformed body", fiber.StatusBadRequest, "createColumn")
	}

	column, err := services.CreateColumn(h.DB, userID, tableID, input.Name, input.Type)
	if err != nil {
		return serviceError(c, err, "createColumn")
	}
	return c.Status(fiber.StatusCreated).JSON(column)
}

// RenameColumn handles PUT /api/columns/:columnId
// @Summary Rename a column
// @Description Rename touches the display name only; record data keys are ids
// @Tags Columns
// @Accept json
// @Produce json
// @Param columnId path int true "Column ID"
// @Param body body nameInput true "New name"
// @Success 200 {object} models.Column
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /columns/{columnId} [put]
func (h *CatalogHandler) RenameColumn(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return serviceError(c, err, "renameColumn")
	}
	columnID, err := paramID(c, "columnId")
	if err != nil {
		return serviceError(c, err, "renameColumn")
	}

	var input nameInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, "malformed body", fiber.StatusBadRequest, "renameColumn")
	}

	column, err := services.RenameColumn(h.DB, userID, columnID, input.Name)
	if err != nil {
		return serviceError(c, err, "renameColumn")
	}
	return c.Status(fiber.StatusOK).JSON(column)
}

// UpdateColumnType handles PUT /api/columns/:columnId/type
// @Summary Change a column's type
// @Description Lossy one-way migration of every cell under the column
// @Tags Columns
// @Accept json
// @Produce json
// @Param columnId path int true "Column ID"
// @Param body body columnTypeInput true "New type: TEXT or NUMBER"
// @Success 200 {object} models.Column
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /columns/{columnId}/type [put]
func (h *CatalogHandler) UpdateColumnType(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return serviceError(c, err, "updateColumnType")
	}
	columnID, err := paramID(c, "columnId")
	if err != nil {
		return serviceError(c, err, "updateColumnType")
	}

	var input columnTypeInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, "malformed body", fiber.StatusBadRequest, "updateColumnType")
	}

	column, err := services.UpdateColumnType(h.DB, userID, columnID, input.Type)
	if err != nil {
		return serviceError(c, err, "updateColumnType")
	}
	return c.Status(fiber.StatusOK).JSON(column)
}

// DeleteColumn handles DELETE /api/columns/:columnId
// @Summary Delete a column
// @Description Remove the column and strip its key from every record atomically
// @Tags Columns
// @Produce json
// @Param columnId path int true "Column ID"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /columns/{columnId} [delete]
func (h *CatalogHandler) DeleteColumn(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return serviceError(c, err, "deleteColumn")
	}
	columnID, err := paramID(c, "columnId")
	if err != nil {
		return serviceError(c, err, "deleteColumn")
	}

	if err := services.DeleteColumn(h.DB, userID, columnID); err != nil {
		return serviceError(c, err, "deleteColumn")
	}
	return utils.MessageResponse(c, "Column deleted")
}
