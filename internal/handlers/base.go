package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/gridbase/gridbase/internal/middleware"
	"github.com/gridbase/gridbase/internal/services"
	"github.com/gridbase/gridbase/internal/utils"
)

// BaseHandler handles base and table routes.
type BaseHandler struct {
	DB *gorm.DB
}

type nameInput struct {
	Name string `json:"name"`
}

// CreateBase handles POST /api/bases
// @Summary Create a base
// @Description Create a base with a default table and Name/Notes columns
// @Tags Bases
// @Accept json
// @Produce json
// @Param body body nameInput false "Optional base name"
// @Success 201 {object} models.Base
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /bases [post]
func (h *BaseHandler) CreateBase(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return serviceError(c, err, "createBase")
	}

	var input nameInput
	_ = c.BodyParser(&input) // empty body means default name

	base, err := services.CreateBase(h.DB, userID, input.Name)
	if err != nil {
		return serviceError(c, err, "createBase")
	}
	return c.Status(fiber.StatusCreated).JSON(base)
}

// GetBases handles GET /api/bases
// @Summary List bases
// @Description List the caller's bases with tables and columns
// @Tags Bases
// @Produce json
// @Success 200 {array} models.Base
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /bases [get]
func (h *BaseHandler) GetBases(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return serviceError(c, err, "getBases")
	}

	bases, err := services.GetBases(h.DB, userID)
	if err != nil {
		return serviceError(c, err, "getBases")
	}
	return c.Status(fiber.StatusOK).JSON(bases)
}

// GetBase handles GET /api/bases/:baseId
// @Summary Get a base
// @Description Get a base with ordered columns and the first page of records per table
// @Tags Bases
// @Produce json
// @Param baseId path int true "Base ID"
// @Success 200 {object} models.Base
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /bases/{baseId} [get]
func (h *BaseHandler) GetBase(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return serviceError(c, err, "getBase")
	}
	baseID, err := paramID(c, "baseId")
	if err != nil {
		return serviceError(c, err, "getBase")
	}

	base, err := services.GetBaseByID(h.DB, userID, baseID)
	if err != nil {
		return serviceError(c, err, "getBase")
	}
	return c.Status(fiber.StatusOK).JSON(base)
}

// RenameBase handles PUT /api/bases/:baseId
// @Summary Rename a base
// @Tags Bases
// @Accept json
// @Produce json
// @Param baseId path int true "Base ID"
// @Param body body nameInput true "New name"
// @Success 200 {object} models.Base
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /bases/{baseId} [put]
func (h *BaseHandler) RenameBase(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return serviceError(c, err, "renameBase")
	}
	baseID, err := paramID(c, "baseId")
	if err != nil {
		return serviceError(c, err, "renameBase")
	}

	var input nameInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, "malformed body", fiber.StatusBadRequest, "renameBase")
	}

	base, err := services.RenameBase(h.DB, userID, baseID, input.Name)
	if err != nil {
		return serviceError(c, err, "renameBase")
	}
	return c.Status(fiber.StatusOK).JSON(base)
}

// DeleteBase handles DELETE /api/bases/:baseId
// @Summary Delete a base
// @Description Delete a base and everything under it
// @Tags Bases
// @Produce json
// @Param baseId path int true "Base ID"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /bases/{baseId} [delete]
func (h *BaseHandler) DeleteBase(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return serviceError(c, err, "deleteBase")
	}
	baseID, err := paramID(c, "baseId")
	if err != nil {
		return serviceError(c, err, "deleteBase")
	}

	if err := services.DeleteBase(h.DB, userID, baseID); err != nil {
		return serviceError(c, err, "deleteBase")
	}
	return utils.MessageResponse(c, "Base deleted successfully")
}

// CreateTable handles POST /api/bases/:baseId/tables
// @Summary Create a table
// @Description Create a table seeded with Name/Notes columns and 3 blank rows
// @Tags Tables
// @Accept json
// @Produce json
// @Param baseId path int true "Base ID"
// @Param body body nameInput false "Optional table name"
// @Success 201 {object} models.Table
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /bases/{baseId}/tables [post]
func (h *BaseHandler) CreateTable(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return serviceError(c, err, "createTable")
	}
	baseID, err := paramID(c, "baseId")
	if err != nil {
		return serviceError(c, err, "createTable")
	}

	var input nameInput
	_ = c.BodyParser(&input)

	table, err := services.CreateTable(h.DB, userID, baseID, input.Name)
	if err != nil {
		return serviceError(c, err, "createTable")
	}
	return c.Status(fiber.StatusCreated).JSON(table)
}

// GetTable handles GET /api/tables/:tableId
// @Summary Get a table
// @Description Get a table with its columns in display order
// @Tags Tables
// @Produce json
// @Param tableId path int true "Table ID"
// @Success 200 {object} models.Table
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /tables/{tableId} [get]
func (h *BaseHandler) GetTable(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return serviceError(c, err, "getTable")
	}
	tableID, err := paramID(c, "tableId")
	if err != nil {
		return serviceError(c, err, "getTable")
	}

	table, err := services.GetTableByID(h.DB, userID, tableID)
	if err != nil {
		return serviceError(c, err, "getTable")
	}
	return c.Status(fiber.StatusOK).JSON(table)
}

// RenameTable handles PUT /api/tables/:tableId
// @Summary Rename a table
// @Tags Tables
// @Accept json
// @Produce json
// @Param tableId path int true "Table ID"
// @Param body body nameInput true "New name"
// @Success 200 {object} models.Table
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /tables/{tableId} [put]
func (h *BaseHandler) RenameTable(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return serviceError(c, err, "renameTable")
	}
	tableID, err := paramID(c, "tableId")
	if err != nil {
		return serviceError(c, err, "renameTable")
	}

	var input nameInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, "malformed body", fiber.StatusBadRequest, "renameTable")
	}

	table, err := services.RenameTable(h.DB, userID, tableID, input.Name)
	if err != nil {
		return serviceError(c, err, "renameTable")
	}
	return c.Status(fiber.StatusOK).JSON(table)
}

// DeleteTable handles DELETE /api/tables/:tableId
// @Summary Delete a table
// @Tags Tables
// @Produce json
// @Param tableId path int true "Table ID"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /tables/{tableId} [delete]
func (h *BaseHandler) DeleteTable(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return serviceError(c, err, "deleteTable")
	}
	tableID, err := paramID(c, "tableId")
	if err != nil {
		return serviceError(c, err, "deleteTable")
	}

	if err := services.DeleteTable(h.DB, userID, tableID); err != nil {
		return serviceError(c, err, "deleteTable")
	}
	return utils.MessageResponse(c, "Table deleted")
}
