package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"docstore/internal/http/middleware"
	"docstore/internal/model"
	"docstore/internal/repository/kvstore"
	"docstore/internal/service"
	"docstore/internal/state"
	"docstore/internal/storage"
	"docstore/internal/testutil"
)

type fixture struct {
	app   *fiber.App
	store *testutil.FailingStore
	docs  *state.DocumentState
	types *state.DocumentTypeState
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testutil.NewFailingStore()
	c := testutil.FixedClock()
	ids := testutil.NewStubIDGenerator()

	docRepo := kvstore.NewDocumentStore(store, c, zap.NewNop())
	typeRepo := kvstore.NewDocumentTypeStore(store, zap.NewNop())
	docs := state.NewDocumentState(service.NewDocumentService(docRepo, ids, c), state.NewNotifier(0, c, nil), zap.NewNop())
	types := state.NewDocumentTypeState(service.NewDocumentTypeService(typeRepo, ids), zap.NewNop())

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Use(middleware.RequestID())
	RegisterRoutes(app, store, docs, types, prometheus.NewRegistry())

	return &fixture{app: app, store: store, docs: docs, types: types}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func validInput() model.DocumentInput {
	return model.DocumentInput{
		Name:           "Recibo luz",
		DocumentTypeID: "4",
		CreationDate:   "2024-01-10",
		FileContent:    service.EncodeDataURI("text/plain", []byte("pagado")),
		FileName:       "recibo.txt",
		FileType:       "text/plain",
		Description:    "enero",
	}
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(storage.NewSQL(db, storage.Postgres)))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "SERVICE_UNAVAILABLE", body.Error.Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDocumentTypes(t *testing.T) {
	f := newFixture(t)

	t.Run("list seeds defaults", func(t *testing.T) {
		resp := f.do(t, http.MethodGet, "/document-types", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, model.DefaultDocumentTypes(), decode[[]model.DocumentType](t, resp))
	})

	t.Run("create", func(t *testing.T) {
		resp := f.do(t, http.MethodPost, "/document-types", documentTypeBody{Name: "Acta"})
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		dt := decode[model.DocumentType](t, resp)
		assert.Equal(t, "id-1", dt.ID)
		assert.Len(t, f.types.Types(), 6)
	})

	t.Run("create blank name", func(t *testing.T) {
		resp := f.do(t, http.MethodPost, "/document-types", documentTypeBody{Name: " "})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "VALIDATION_ERROR", decode[errorPayload](t, resp).Error.Code)
	})

	t.Run("rename", func(t *testing.T) {
		resp := f.do(t, http.MethodPut, "/document-types/id-1", documentTypeBody{Name: "Acta firmada"})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Acta firmada", decode[model.DocumentType](t, resp).Name)
	})

	t.Run("rename missing", func(t *testing.T) {
		resp := f.do(t, http.MethodPut, "/document-types/nope", documentTypeBody{Name: "x"})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decode[errorPayload](t, resp).Error.Code)
	})

	t.Run("get and delete", func(t *testing.T) {
		resp := f.do(t, http.MethodGet, "/document-types/2", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Contrato", decode[model.DocumentType](t, resp).Name)

		resp = f.do(t, http.MethodDelete, "/document-types/2", nil)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp = f.do(t, http.MethodGet, "/document-types/2", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestCreateDocument(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		f := newFixture(t)
		resp := f.do(t, http.MethodPost, "/documents", validInput())

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		res := decode[mutationResult](t, resp)
		assert.Equal(t, model.OutcomeSuccess, res.Notification.Outcome)
		assert.Equal(t, "Document added successfully.", res.Notification.Message)

		resp = f.do(t, http.MethodGet, "/documents", nil)
		list := decode[documentList](t, resp)
		require.Equal(t, 1, list.Total)
		assert.Equal(t, "Recibo", list.Items[0].DocumentTypeName)
		assert.Equal(t, model.StatusActive, list.Items[0].Status)
	})

	t.Run("missing field", func(t *testing.T) {
		f := newFixture(t)
		in := validInput()
		in.Description = ""
		resp := f.do(t, http.MethodPost, "/documents", in)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decode[errorPayload](t, resp)
		assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
		assert.Equal(t, "description is required", body.Error.Message)
		assert.Equal(t, model.PhaseIdle, f.docs.Notification().Phase)
	})

	t.Run("invalid body", func(t *testing.T) {
		f := newFixture(t)
		req := httptest.NewRequest(http.MethodPost, "/documents", bytes.NewBufferString("{"))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := f.app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_BODY", decode[errorPayload](t, resp).Error.Code)
	})

	t.Run("multipart upload then download", func(t *testing.T) {
		f := newFixture(t)
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		writer.WriteField("name", "Nota")
		writer.WriteField("documentTypeId", "5")
		writer.WriteField("description", "texto plano")
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", `form-data; name="file"; filename="nota.txt"`)
		h.Set("Content-Type", "text/plain")
		part, _ := writer.CreatePart(h)
		part.Write([]byte("hello world"))
		writer.Close()

		req := httptest.NewRequest(http.MethodPost, "/documents", body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		resp, _ := f.app.Test(req)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		docs := f.docs.Documents()
		require.Len(t, docs, 1)
		assert.Equal(t, "2024-01-15", docs[0].CreationDate)
		assert.Equal(t, "nota.txt", docs[0].FileName)

		resp = f.do(t, http.MethodGet, "/documents/"+docs[0].ID+"/file", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "text/plain", resp.Header.Get("Content-Type"))
		assert.Contains(t, resp.Header.Get("Content-Disposition"), "nota.txt")
		data, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "hello world", string(data))
	})

	t.Run("multipart without file", func(t *testing.T) {
		f := newFixture(t)
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		writer.WriteField("name", "Nota")
		writer.WriteField("documentTypeId", "5")
		writer.WriteField("description", "x")
		writer.Close()

		req := httptest.NewRequest(http.MethodPost, "/documents", body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		resp, _ := f.app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "fileContent is required", decode[errorPayload](t, resp).Error.Message)
	})

	t.Run("storage failure", func(t *testing.T) {
		f := newFixture(t)
		f.store.SetFailures(false, true)
		resp := f.do(t, http.MethodPost, "/documents", validInput())

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		body := decode[errorPayload](t, resp)
		assert.Equal(t, "OPERATION_FAILED", body.Error.Code)
		assert.Equal(t, "Error adding document.", body.Error.Message)
		assert.Equal(t, model.OutcomeError, f.docs.Notification().Outcome)
	})
}

func TestDocumentLifecycle(t *testing.T) {
	f := newFixture(t)
	resp := f.do(t, http.MethodPost, "/documents", validInput())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := f.docs.Documents()[0].ID

	t.Run("delete is logical", func(t *testing.T) {
		resp := f.do(t, http.MethodDelete, "/documents/"+id, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, model.OutcomeWarning, decode[mutationResult](t, resp).Notification.Outcome)

		resp = f.do(t, http.MethodGet, "/documents/"+id, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, model.StatusDeleted, decode[model.DocumentView](t, resp).Status)

		resp = f.do(t, http.MethodGet, "/documents?status=deleted", nil)
		assert.Equal(t, 1, decode[documentList](t, resp).Total)
		resp = f.do(t, http.MethodGet, "/documents?status=active", nil)
		assert.Equal(t, 0, decode[documentList](t, resp).Total)
	})

	t.Run("reactivate", func(t *testing.T) {
		resp := f.do(t, http.MethodPost, "/documents/"+id+"/reactivate", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		n := decode[mutationResult](t, resp).Notification
		assert.Equal(t, model.OutcomeNotice, n.Outcome)
		assert.Equal(t, "Document reactivated successfully.", n.Message)
	})

	t.Run("notification", func(t *testing.T) {
		resp := f.do(t, http.MethodGet, "/notification", nil)
		assert.Equal(t, model.PhaseNotifying, decode[model.Notification](t, resp).Phase)

		resp = f.do(t, http.MethodDelete, "/notification", nil)
		assert.Equal(t, model.PhaseIdle, decode[model.Notification](t, resp).Phase)
	})

	t.Run("update to dangling type and drop attachment", func(t *testing.T) {
		doc := f.docs.Documents()[0]
		doc.DocumentTypeID = "99"
		doc.FileContent = ""
		doc.FileName = ""
		resp := f.do(t, http.MethodPut, "/documents/"+id, doc)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		resp = f.do(t, http.MethodGet, "/documents/"+id, nil)
		assert.Equal(t, model.UnknownDocumentTypeName, decode[model.DocumentView](t, resp).DocumentTypeName)

		resp = f.do(t, http.MethodGet, "/documents/"+id+"/file", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NO_FILE", decode[errorPayload](t, resp).Error.Code)
	})

	t.Run("update with bad status", func(t *testing.T) {
		doc := f.docs.Documents()[0]
		doc.Status = "archived"
		resp := f.do(t, http.MethodPut, "/documents/"+id, doc)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "VALIDATION_ERROR", decode[errorPayload](t, resp).Error.Code)
	})

	t.Run("missing document", func(t *testing.T) {
		for _, tc := range []struct{ method, path string }{
			{http.MethodGet, "/documents/missing"},
			{http.MethodDelete, "/documents/missing"},
			{http.MethodPost, "/documents/missing/reactivate"},
			{http.MethodGet, "/documents/missing/file"},
		} {
			resp := f.do(t, tc.method, tc.path, nil)
			assert.Equal(t, http.StatusNotFound, resp.StatusCode, tc.path)
		}
	})

	t.Run("invalid status filter", func(t *testing.T) {
		resp := f.do(t, http.MethodGet, "/documents?status=archived", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_STATUS", decode[errorPayload](t, resp).Error.Code)
	})
}

func TestRouting(t *testing.T) {
	f := newFixture(t)

	t.Run("not found route", func(t *testing.T) {
		resp := f.do(t, http.MethodGet, "/non-existent", nil)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
		assert.NotEmpty(t, res.RequestID)
	})

	t.Run("method not allowed", func(t *testing.T) {
		// Health endpoint only allows GET
		resp := f.do(t, http.MethodPost, "/health", nil)

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "METHOD_NOT_ALLOWED", res.Error.Code)
	})

	t.Run("metrics", func(t *testing.T) {
		resp := f.do(t, http.MethodGet, "/metrics", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
