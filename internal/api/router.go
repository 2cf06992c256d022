package api

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/backoffice/internal/export"
	"github.com/erazemk/backoffice/internal/model"
	"github.com/erazemk/backoffice/internal/store"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string, opts export.Options) http.Handler {
	mux := http.NewServeMux()
	records := store.SQLRecords{DB: db}

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	usersHandler := &UsersHandler{DB: db}
	consignmentsHandler := &ConsignmentsHandler{Records: records, DB: db, Export: opts}
	itemsHandler := &ItemsHandler{Records: records, DB: db}
	imagesHandler := &ImagesHandler{DB: db}
	summaryHandler := &SummaryHandler{Records: records}
	exportHandler := &ExportHandler{Records: records, Options: opts}
	shopHandler := &ShopHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)
	requireManager := RequireRole(model.RoleManager)

	// Public: login.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated routes.
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("GET /api/auth/me", authMW(http.HandlerFunc(authHandler.Me)))

	// Users (manager only).
	mux.Handle("GET /api/users", authMW(requireManager(http.HandlerFunc(usersHandler.List))))
	mux.Handle("POST /api/users", authMW(requireManager(http.HandlerFunc(usersHandler.Create))))
	mux.Handle("GET /api/users/{id}", authMW(requireManager(http.HandlerFunc(usersHandler.Get))))
	mux.Handle("PUT /api/users/{id}", authMW(requireManager(http.HandlerFunc(usersHandler.Update))))
	mux.Handle("PUT /api/users/{id}/password", authMW(requireManager(http.HandlerFunc(usersHandler.ResetPassword))))
	mux.Handle("DELETE /api/users/{id}", authMW(requireManager(http.HandlerFunc(usersHandler.Delete))))

	// Consignments: all roles; edit and delete checked per record.
	mux.Handle("GET /api/consignments", authMW(http.HandlerFunc(consignmentsHandler.List)))
	mux.Handle("POST /api/consignments", authMW(http.HandlerFunc(consignmentsHandler.Create)))
	mux.Handle("GET /api/consignments/{id}", authMW(http.HandlerFunc(consignmentsHandler.Get)))
	mux.Handle("PUT /api/consignments/{id}", authMW(http.HandlerFunc(consignmentsHandler.Update)))
	mux.Handle("DELETE /api/consignments/{id}", authMW(http.HandlerFunc(consignmentsHandler.Delete)))
	mux.Handle("GET /api/consignments/{id}/label.pdf", authMW(http.HandlerFunc(consignmentsHandler.Label)))

	// Items: all roles; changes checked per record.
	mux.Handle("GET /api/items", authMW(http.HandlerFunc(itemsHandler.List)))
	mux.Handle("GET /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Get)))
	mux.Handle("PATCH /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Update)))
	mux.Handle("PUT /api/items/{id}/status", authMW(http.HandlerFunc(itemsHandler.SetStatus)))
	mux.Handle("GET /api/items/{id}/transitions", authMW(http.HandlerFunc(itemsHandler.Transitions)))
	mux.Handle("GET /api/items/{id}/history", authMW(http.HandlerFunc(itemsHandler.History)))
	mux.Handle("POST /api/items/{id}/images/{kind}", authMW(http.HandlerFunc(itemsHandler.AddImage)))

	// Images.
	mux.Handle("POST /api/images", authMW(http.HandlerFunc(imagesHandler.Upload)))
	mux.Handle("GET /api/images/{key}", authMW(http.HandlerFunc(imagesHandler.Get)))

	// Dashboard and lookups.
	mux.Handle("GET /api/summary/{name}", authMW(http.HandlerFunc(summaryHandler.Get)))
	mux.Handle("GET /api/statuses", authMW(http.HandlerFunc(Statuses)))

	// Exports.
	mux.Handle("GET /api/export/items.xlsx", authMW(http.HandlerFunc(exportHandler.Spreadsheet)))
	mux.Handle("GET /api/export/items.pdf", authMW(http.HandlerFunc(exportHandler.PDF)))

	// Shop profile: read (all), write (manager).
	mux.Handle("GET /api/shop", authMW(http.HandlerFunc(shopHandler.Get)))
	mux.Handle("PUT /api/shop", authMW(requireManager(http.HandlerFunc(shopHandler.Update))))

	return mux
}
