package handler

import (
	"github.com/gofiber/fiber/v2"

	"docstore/internal/state"
)

type documentTypeBody struct {
	Name string `json:"name"`
}

// ListDocumentTypes godoc
// @Summary List document types
// @Description The default types are created on the first call against an empty store.
// @Tags document-types
// @Produce json
// @Success 200 {array} model.DocumentType
// @Router /document-types [get]
func ListDocumentTypes(types *state.DocumentTypeState) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := types.Load(c.UserContext()); err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(types.Types())
	}
}

// GetDocumentType godoc
// @Summary Get a document type
// @Tags document-types
// @Produce json
// @Param id path string true "Document type ID"
// @Success 200 {object} model.DocumentType
// @Failure 404 {object} errorPayload
// @Router /document-types/{id} [get]
func GetDocumentType(types *state.DocumentTypeState) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dt, err := types.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeUseCaseError(c, err, "document type")
		}
		return c.JSON(dt)
	}
}

// CreateDocumentType godoc
// @Summary Create a document type
// @Tags document-types
// @Accept json
// @Produce json
// @Success 201 {object} model.DocumentType
// @Failure 400 {object} errorPayload
// @Router /document-types [post]
func CreateDocumentType(types *state.DocumentTypeState) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body documentTypeBody
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		dt, err := types.Add(c.UserContext(), body.Name)
		if err != nil {
			return writeUseCaseError(c, err, "document type")
		}
		return c.Status(fiber.StatusCreated).JSON(dt)
	}
}

// RenameDocumentType godoc
// @Summary Rename a document type
// @Tags document-types
// @Accept json
// @Produce json
// @Param id path string true "Document type ID"
// @Success 200 {object} model.DocumentType
// @Router /document-types/{id} [put]
func RenameDocumentType(types *state.DocumentTypeState) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body documentTypeBody
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		dt, err := types.Rename(c.UserContext(), c.Params("id"), body.Name)
		if err != nil {
			return writeUseCaseError(c, err, "document type")
		}
		return c.JSON(dt)
	}
}

// DeleteDocumentType godoc
// @Summary Delete a document type
// @Description Documents pointing at the type keep the dangling reference.
// @Tags document-types
// @Param id path string true "Document type ID"
// @Success 204
// @Failure 500 {object} errorPayload
// @Router /document-types/{id} [delete]
func DeleteDocumentType(types *state.DocumentTypeState) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := types.Delete(c.UserContext(), c.Params("id")); err != nil {
			return writeUseCaseError(c, err, "document type")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
