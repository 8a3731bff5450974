package handler

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"docstore/internal/model"
	"docstore/internal/service"
	"docstore/internal/state"
)

type documentList struct {
	Items []model.DocumentView `json:"items"`
	Total int                  `json:"total"`
}

type mutationResult struct {
	Notification model.Notification `json:"notification"`
}

func view(doc model.Document, types *state.DocumentTypeState) model.DocumentView {
	return model.DocumentView{Document: doc, DocumentTypeName: types.NameOf(doc.DocumentTypeID)}
}

// respondMutation turns the notification of a document mutation into a
// response. Error outcomes carry the notification message.
func respondMutation(c *fiber.Ctx, n model.Notification, okStatus int) error {
	if n.Outcome == model.OutcomeError {
		return writeError(c, fiber.StatusInternalServerError, "OPERATION_FAILED", n.Message)
	}
	return c.Status(okStatus).JSON(mutationResult{Notification: n})
}

// ListDocuments godoc
// @Summary List documents
// @Tags documents
// @Produce json
// @Param status query string false "active or deleted"
// @Success 200 {object} documentList
// @Router /documents [get]
func ListDocuments(docs *state.DocumentState, types *state.DocumentTypeState) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status := model.Status(c.Query("status"))
		if status != "" && !status.Valid() {
			return writeError(c, fiber.StatusBadRequest, "INVALID_STATUS", "status must be active or deleted")
		}
		ctx := c.UserContext()
		if err := types.Load(ctx); err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		if err := docs.Load(ctx); err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		filtered := service.FilterByStatus(docs.Documents(), status)
		res := documentList{Items: make([]model.DocumentView, 0, len(filtered)), Total: len(filtered)}
		for _, d := range filtered {
			res.Items = append(res.Items, view(d, types))
		}
		return c.JSON(res)
	}
}

// GetDocument godoc
// @Summary Get a document
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} model.DocumentView
// @Failure 404 {object} errorPayload
// @Router /documents/{id} [get]
func GetDocument(docs *state.DocumentState, types *state.DocumentTypeState) fiber.Handler {
	return func(c *fiber.Ctx) error {
		doc, err := docs.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeUseCaseError(c, err, "document")
		}
		return c.JSON(view(*doc, types))
	}
}

// DownloadDocument godoc
// @Summary Download a document's file
// @Description Decodes the stored data URI and sends it as an attachment.
// @Tags documents
// @Produce octet-stream
// @Param id path string true "Document ID"
// @Success 200 {file} file
// @Failure 404 {object} errorPayload
// @Failure 422 {object} errorPayload
// @Router /documents/{id}/file [get]
func DownloadDocument(docs *state.DocumentState) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f, err := docs.Download(c.UserContext(), c.Params("id"))
		switch {
		case err == nil:
		case errors.Is(err, service.ErrNoAttachment):
			return writeError(c, fiber.StatusNotFound, "NO_FILE", "document has no attached file")
		case errors.Is(err, service.ErrInvalidDataURI):
			return writeError(c, fiber.StatusUnprocessableEntity, "INVALID_FILE", "stored file content is not a valid data URI")
		default:
			return writeUseCaseError(c, err, "document")
		}
		c.Attachment(f.Name)
		c.Set(fiber.HeaderContentType, f.ContentType)
		return c.Send(f.Data)
	}
}

// CreateDocument godoc
// @Summary Create a document
// @Description Accepts JSON with a data URI in fileContent, or multipart/form-data with a "file" part.
// @Tags documents
// @Accept json,mpfd
// @Produce json
// @Success 201 {object} mutationResult
// @Failure 400 {object} errorPayload
// @Router /documents [post]
func CreateDocument(docs *state.DocumentState) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in model.DocumentInput
		if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
			parsed, err := inputFromForm(c)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
			}
			in = parsed
		} else if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		n, err := docs.Add(c.UserContext(), in)
		if err != nil {
			return writeUseCaseError(c, err, "document")
		}
		return respondMutation(c, n, fiber.StatusCreated)
	}
}

// inputFromForm reads the document fields of a multipart form and embeds
// the optional "file" part as a data URI.
func inputFromForm(c *fiber.Ctx) (model.DocumentInput, error) {
	in := model.DocumentInput{
		Name:           c.FormValue("name"),
		DocumentTypeID: c.FormValue("documentTypeId"),
		CreationDate:   c.FormValue("creationDate"),
		Description:    c.FormValue("description"),
	}
	fh, err := c.FormFile("file")
	if err != nil {
		// Missing file is reported by validation.
		return in, nil
	}
	f, err := fh.Open()
	if err != nil {
		return in, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return in, err
	}
	ct := fh.Header.Get(fiber.HeaderContentType)
	if ct == "" {
		ct = "application/octet-stream"
	}
	in.FileName = fh.Filename
	in.FileType = ct
	in.FileContent = service.EncodeDataURI(ct, data)
	return in, nil
}

// UpdateDocument godoc
// @Summary Update a document
// @Tags documents
// @Accept json
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} mutationResult
// @Router /documents/{id} [put]
func UpdateDocument(docs *state.DocumentState) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var doc model.Document
		if err := c.BodyParser(&doc); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		doc.ID = c.Params("id")
		if _, err := docs.Get(c.UserContext(), doc.ID); err != nil {
			return writeUseCaseError(c, err, "document")
		}

		n, err := docs.Update(c.UserContext(), doc)
		if err != nil {
			return writeUseCaseError(c, err, "document")
		}
		return respondMutation(c, n, fiber.StatusOK)
	}
}

// DeleteDocument godoc
// @Summary Logically delete a document
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} mutationResult
// @Router /documents/{id} [delete]
func DeleteDocument(docs *state.DocumentState) fiber.Handler {
	return statusChange(docs, (*state.DocumentState).Delete)
}

// ReactivateDocument godoc
// @Summary Reactivate a deleted document
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} mutationResult
// @Router /documents/{id}/reactivate [post]
func ReactivateDocument(docs *state.DocumentState) fiber.Handler {
	return statusChange(docs, (*state.DocumentState).Reactivate)
}

type statusMutator func(*state.DocumentState, context.Context, string) (model.Notification, error)

func statusChange(docs *state.DocumentState, apply statusMutator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := docs.Get(c.UserContext(), id); err != nil {
			return writeUseCaseError(c, err, "document")
		}
		n, err := apply(docs, c.UserContext(), id)
		if err != nil {
			return writeUseCaseError(c, err, "document")
		}
		return respondMutation(c, n, fiber.StatusOK)
	}
}

// GetNotification godoc
// @Summary Get the current notification
// @Tags notification
// @Produce json
// @Success 200 {object} model.Notification
// @Router /notification [get]
func GetNotification(docs *state.DocumentState) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(docs.Notification())
	}
}

// DismissNotification godoc
// @Summary Dismiss the current notification
// @Tags notification
// @Produce json
// @Success 200 {object} model.Notification
// @Router /notification [delete]
func DismissNotification(docs *state.DocumentState) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(docs.Dismiss())
	}
}
