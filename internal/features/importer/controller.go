package importer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"chainsync/internal/config"
	"chainsync/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type ImportController struct {
	ImportService ImportService
	UploadDir     string
}

func NewImportController(importService ImportService, cfg *config.Config) *ImportController {
	if _, err := os.Stat(cfg.UploadDir); os.IsNotExist(err) {
		os.MkdirAll(cfg.UploadDir, 0755)
	}
	return &ImportController{
		ImportService: importService,
		UploadDir:     cfg.UploadDir,
	}
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrStoreNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrInvalidTransition):
		return fiber.StatusConflict
	case errors.Is(err, ErrUnsupportedFormat),
		errors.Is(err, ErrStoreRequired),
		errors.Is(err, ErrMappingIncomplete),
		errors.Is(err, ErrNothingToImport),
		errors.Is(err, ErrNoValidation):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// CreateSession godoc
// @Summary Start an import session
// @Description Upload a CSV/Excel file and get suggested column mappings
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Import File"
// @Param dataType formData string true "Data Type (inventory or loyalty)"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/import/sessions [post]
func (c *ImportController) CreateSession(ctx *fiber.Ctx) error {
	dataType := DataType(ctx.FormValue("dataType"))
	if dataType == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "dataType is required"})
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required"})
	}

	// Keep the original upload on disk; the retention sweep removes it
	// after the session TTL.
	originalName := filepath.Base(fileHeader.Filename)
	uniqueName := fmt.Sprintf("%d_%s", time.Now().UnixNano(), originalName)
	uniqueName = strings.ReplaceAll(uniqueName, " ", "_")
	dstPath := filepath.Join(c.UploadDir, uniqueName)
	if err := ctx.SaveFile(fileHeader, dstPath); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error saving file"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to open file"})
	}
	defer file.Close()

	session, analysis, err := c.ImportService.CreateSession(ctx.UserContext(), file, fileHeader.Filename, dataType)
	if err != nil {
		os.Remove(dstPath)
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"session":  session,
		"analysis": analysis,
	})
}

// GetSession godoc
// @Summary Get import session
// @Tags import
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} Session
// @Failure 404 {object} map[string]interface{}
// @Router /api/import/sessions/{id} [get]
func (c *ImportController) GetSession(ctx *fiber.Ctx) error {
	session, err := c.ImportService.GetSession(ctx.Params("id"))
	if err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(session)
}

// GetMapping godoc
// @Summary Get column mappings
// @Tags import
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {array} ColumnMapping
// @Failure 404 {object} map[string]interface{}
// @Router /api/import/sessions/{id}/mapping [get]
func (c *ImportController) GetMapping(ctx *fiber.Ctx) error {
	mappings, err := c.ImportService.GetMapping(ctx.Params("id"))
	if err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(mappings)
}

// UpdateMapping godoc
// @Summary Replace column mappings
// @Description Accept or correct the suggested mappings before validation
// @Tags import
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param mappings body []ColumnMapping true "Column Mappings"
// @Success 200 {object} Session
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/import/sessions/{id}/mapping [put]
func (c *ImportController) UpdateMapping(ctx *fiber.Ctx) error {
	var mappings []ColumnMapping
	if err := ctx.BodyParser(&mappings); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid mapping payload"})
	}

	session, err := c.ImportService.SetMapping(ctx.Params("id"), mappings)
	if err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(session)
}

// Validate godoc
// @Summary Validate mapped rows
// @Tags import
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} ValidationResult
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/import/sessions/{id}/validate [post]
func (c *ImportController) Validate(ctx *fiber.Ctx) error {
	result, err := c.ImportService.Validate(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(result)
}

// ExecuteRequest names the destination store for the import pass.
type ExecuteRequest struct {
	StoreID string `json:"storeId"`
}

// Execute godoc
// @Summary Execute the import
// @Description Merge validated rows into the selected store's catalog or loyalty base
// @Tags import
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param body body ExecuteRequest true "Destination Store"
// @Success 200 {object} ImportResult
// @Failure 400 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/import/sessions/{id}/import [post]
func (c *ImportController) Execute(ctx *fiber.Ctx) error {
	var req ExecuteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid import payload"})
	}

	if claims, ok := ctx.Locals(utils.UserClaimsKey).(*utils.UserClaims); ok && !claims.AllowsStore(req.StoreID) {
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "not authorized for this store"})
	}

	result, err := c.ImportService.Import(ctx.UserContext(), ctx.Params("id"), req.StoreID)
	if err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(result)
}

// Back godoc
// @Summary Step back one stage
// @Tags import
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} Session
// @Failure 409 {object} map[string]interface{}
// @Router /api/import/sessions/{id}/back [post]
func (c *ImportController) Back(ctx *fiber.Ctx) error {
	session, err := c.ImportService.Back(ctx.Params("id"))
	if err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(session)
}

// Reset godoc
// @Summary Reset the session
// @Description Start over with fresh suggestions; a completed session is discarded
// @Tags import
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} Session
// @Failure 404 {object} map[string]interface{}
// @Router /api/import/sessions/{id}/reset [post]
func (c *ImportController) Reset(ctx *fiber.Ctx) error {
	session, err := c.ImportService.Reset(ctx.Params("id"))
	if err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	if session == nil {
		return ctx.JSON(fiber.Map{"discarded": true})
	}
	return ctx.JSON(session)
}

// ErrorReport godoc
// @Summary Download validation errors as CSV
// @Tags import
// @Produce text/csv
// @Param id path string true "Session ID"
// @Success 200 {string} string "CSV content"
// @Failure 400 {object} map[string]interface{}
// @Router /api/import/sessions/{id}/error-report [get]
func (c *ImportController) ErrorReport(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	report, err := c.ImportService.ErrorReport(id)
	if err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	ctx.Set(fiber.HeaderContentType, "text/csv")
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", "import-errors-"+id+".csv"))
	return ctx.Send(report)
}
