package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/gridbase/gridbase/internal/middleware"
	"github.com/gridbase/gridbase/internal/services"
	"github.com/gridbase/gridbase/internal/types"
	"github.com/gridbase/gridbase/internal/utils"
)

// RecordHandler handles record routes.
type RecordHandler struct {
	DB *gorm.DB
}

type updateRecordInput struct {
	Values map[string]interface{} `json:"values"`
}

type bulkInput struct {
	Count types.FlexUint64 `json:"count"`
}

// CreateRecord handles POST /api/tables/:tableId/records
// @Summary Create a record
// @Description Append a blank record seeded with one empty cell per column
// @Tags Records
// @Produce json
// @Param tableId path int true "Table ID"
// @Success 201 {object} models.Record
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /tables/{tableId}/records [post]
func (h *RecordHandler) CreateRecord(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return serviceError(c, err, "createRecord")
	}
	tableID, err := paramID(c, "tableId")
	if err != nil {
		return serviceError(c, err, "createRecord")
	}

	record, err := services.CreateRecord(h.DB, userID, tableID)
	if err != nil {
		return serviceError(c, err, "createRecord")
	}
	return c.Status(fiber.StatusCreated).JSON(record)
}

// DeleteRecord handles DELETE /api/records/:recordId
// @Summary Delete a record
// @Description Hard delete; repeating the delete answers NotFound
// @Tags Records
// @Produce json
// @Param recordId path int true "Record ID"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /records/{recordId} [delete]
func (h *RecordHandler) DeleteRecord(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return serviceError(c, err, "deleteRecord")
	}
	recordID, err := paramID(c, "recordId")
	if err != nil {
		return serviceError(c, err, "deleteRecord")
	}

	if err := services.DeleteRecord(h.DB, userID, recordID); err != nil {
		return serviceError(c, err, "deleteRecord")
	}
	return utils.MessageResponse(c, "Record deleted")
}

// UpdateRecord handles PATCH /api/records/:recordId
// @Summary Update record cells
// @Description Shallow merge; keys not naming a live column are dropped silently
// @Tags Records
// @Accept json
// @Produce json
// @Param recordId path int true "Record ID"
// @Param body body updateRecordInput true "Partial cell values keyed by column id"
// @Success 200 {object} models.Record
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /records/{recordId} [patch]
func (h *RecordHandler) UpdateRecord(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return serviceError(c, err, "updateRecord")
	}
	recordID, err := paramID(c, "recordId")
	if err != nil {
		return serviceError(c, err, "updateRecord")
	}

	var input updateRecordInput
	if err := c.BodyParser(&input); err != nil || input.Values == nil {
		return utils.ErrorResponse(c, "malformed value map", fiber.StatusBadRequest, "updateRecord")
	}

	record, err := services.UpdateRecord(h.DB, userID, recordID, input.Values)
	if err != nil {
		return serviceError(c, err, "updateRecord")
	}
	return c.Status(fiber.StatusOK).JSON(record)
}

// ListRecords handles GET /api/tables/:tableId/records
// @Summary List records
// @Description Cursor pagination in ascending record id order
// @Tags Records
// @Produce json
// @Param tableId path int true "Table ID"
// @Param cursor query int false "Cursor from previous page's nextCursor"
// @Param limit query int false "Page size, 1..1000" default(1000)
// @Success 200 {object} services.RecordPage
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /tables/{tableId}/records [get]
func (h *RecordHandler) ListRecords(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return serviceError(c, err, "listRecords")
	}
	tableID, err := paramID(c, "tableId")
	if err != nil {
		return serviceError(c, err, "listRecords")
	}

	var cursor uint64
	if raw := c.Query("cursor"); raw != "" {
		cursor, err = strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return utils.ErrorResponse(c, "invalid cursor", fiber.StatusBadRequest, "listRecords")
		}
	}
	limit := c.QueryInt("limit", services.ListLimitDefault)

	page, err := services.ListRecords(h.DB, userID, tableID, cursor, limit)
	if err != nil {
		return serviceError(c, err, "listRecords")
	}
	return c.Status(fiber.StatusOK).JSON(page)
}

// AddManyRecords handles POST /api/tables/:tableId/records/bulk
// @Summary Bulk insert blank records
// @Description Batched, best-effort bulk; a partial result reports the committed count
// @Tags Records
// @Accept json
// @Produce json
// @Param tableId path int true "Table ID"
// @Param body body bulkInput true "Row count, 1..100000"
// @Success 200 {object} services.BulkResult
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /tables/{tableId}/records/bulk [post]
func (h *RecordHandler) AddManyRecords(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return serviceError(c, err, "addManyRecords")
	}
	tableID, err := paramID(c, "tableId")
	if err != nil {
		return serviceError(c, err, "addManyRecords")
	}

	var input bulkInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, "malformed body", fiber.StatusBadRequest, "addManyRecords")
	}

	result, err := services.AddManyRecords(h.DB, userID, tableID, int(input.Count.Uint64()))
	if err != nil {
		return serviceError(c, err, "addManyRecords")
	}
	return c.Status(fiber.StatusOK).JSON(result)
}
