package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"

	"docstore/internal/state"
	"docstore/internal/storage"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, store storage.Store, docs *state.DocumentState, types *state.DocumentTypeState, metrics prometheus.Gatherer) {
	app.Get("/health", HealthCheck(store))
	app.Get("/healthz", LivenessProbe())
	if metrics != nil {
		app.Get("/metrics", Metrics(metrics))
	}

	app.Get("/document-types", ListDocumentTypes(types))
	app.Get("/document-types/:id", GetDocumentType(types))
	app.Post("/document-types", CreateDocumentType(types))
	app.Put("/document-types/:id", RenameDocumentType(types))
	app.Delete("/document-types/:id", DeleteDocumentType(types))

	app.Get("/documents", ListDocuments(docs, types))
	app.Post("/documents", CreateDocument(docs))
	app.Get("/documents/:id", GetDocument(docs, types))
	app.Get("/documents/:id/file", DownloadDocument(docs))
	app.Put("/documents/:id", UpdateDocument(docs))
	app.Delete("/documents/:id", DeleteDocument(docs))
	app.Post("/documents/:id/reactivate", ReactivateDocument(docs))

	app.Get("/notification", GetNotification(docs))
	app.Delete("/notification", DismissNotification(docs))
}
