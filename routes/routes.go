package routes

import (
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"

	"github.com/formforge/formforge/app"
	"github.com/formforge/formforge/routes/middlewares"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.Logger, middleware.Recoverer)

	root.Mount("/api", apiRouter(app))

	root.
		With(middlewares.CookieAuth(app.BearerServer), middlewares.Admin(app.Config)).
		Mount("/admin", servePrivateFiles("/admin"))
	root.Mount("/", servePublicFiles())

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()

	api.Get("/public/forms/{slug}", PublicGetForm(app))
	api.With(RateLimit(app.Limiter)).
		Post("/public/forms/{slug}/submit", PublicSubmitForm(app))

	api.Route("/admin", func(r chi.Router) {
		r.Use(middlewares.Admin(app.Config))

		// CRUD form
		r.Post("/forms", CreateForm(app))
		r.Get("/forms", ListForms(app))

		r.Route(`/forms/{id:^\d+$}`, func(r chi.Router) {
			r.Get("/", GetForm(app))
			r.Put("/", UpdateForm(app))
			r.Delete("/", DeleteForm(app))

			// lifecycle
			r.Post("/publish", PublishForm(app))
			r.Post("/draft", CreateDraft(app))
			r.Post("/archive", ArchiveForm(app))

			// field set
			r.Get("/fields", ListFields(app))
			r.Post("/fields", CreateField(app))
			r.Put("/fields/reorder", ReorderFields(app))
			r.Put(`/fields/{fieldId:^\d+$}`, UpdateField(app))
			r.Delete(`/fields/{fieldId:^\d+$}`, DeleteField(app))

			// responses
			r.Get("/responses", ListResponses(app))
			r.Get("/responses/export", ExportResponses(app))
			r.Get(`/responses/{responseId:^\d+$}`, GetResponse(app))
			r.Delete(`/responses/{responseId:^\d+$}`, DeleteResponse(app))
			r.Post(`/responses/{responseId:^\d+$}/flag`, FlagResponse(app))
		})
	})

	api.Post("/login", Login(app))
	api.Post("/refresh", Refresh(app))

	return api
}

func servePublicFiles() http.Handler {
	return http.FileServer(http.Dir("public"))
}

func servePrivateFiles(path string) http.Handler {
	return http.StripPrefix(path, http.FileServer(http.Dir("private")))
}
