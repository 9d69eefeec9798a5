package handler

import (
	"blog-admin/internal/auth"
	"blog-admin/internal/logger"
	mw "blog-admin/internal/middleware"
	"blog-admin/internal/service"
	"blog-admin/internal/session"
	"blog-admin/internal/view"
	"blog-admin/web"
	"net/http"

	"github.com/casbin/casbin/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Dependencies are the collaborators the admin routes are built from.
type Dependencies struct {
	View       *view.View
	Sessions   session.Manager
	Enforcer   casbin.IEnforcer
	Log        logger.Logger
	PerPage    int
	Users      service.UserServicer
	Blogs      service.BlogServicer
	Comments   service.CommentServicer
	Categories service.CategoryServicer
	Places     service.PlaceServicer
	// SSO is nil when single sign-on is disabled.
	SSO *auth.Authenticator
}

// NewRouter creates and configures a new chi router.
func NewRouter(d Dependencies) *chi.Mux {
	b := newBase(d.View, d.Sessions, d.Log, d.PerPage)
	authHandler := NewAuthHandler(b, d.Users, d.SSO)
	blogHandler := NewBlogHandler(b, d.Blogs, d.Categories)
	commentHandler := NewCommentHandler(b, d.Comments, d.Blogs)
	categoryHandler := NewCategoryHandler(b, d.Categories)
	placeHandler := NewPlaceHandler(b, d.Places)
	errMw := mw.Error(d.Log, d.View)

	r := chi.NewRouter()

	// A good base middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(logger.RequestFormatter(d.Log)))
	r.Use(middleware.Recoverer)
	r.Use(d.Sessions.LoadAndSave)

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(web.Static()))))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/admin/", http.StatusFound)
	})

	r.Route("/admin", func(r chi.Router) {
		// Authentication routes
		r.Method(http.MethodGet, "/login", errMw(authHandler.handleLoginForm))
		r.Method(http.MethodPost, "/login", errMw(authHandler.handleLogin))
		r.Method(http.MethodGet, "/auth/login", errMw(authHandler.handleSSOLogin))
		r.Method(http.MethodGet, "/auth/callback", errMw(authHandler.handleSSOCallback))

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(mw.Authorizer(d.Enforcer, d.Sessions, d.Users, d.Log))

			r.Method(http.MethodGet, "/", errMw(b.handleIndex))
			r.Method(http.MethodPost, "/logout", errMw(authHandler.handleLogout))

			r.Route("/blogs", func(r chi.Router) {
				r.Method(http.MethodGet, "/", errMw(blogHandler.handleList))
				r.Method(http.MethodPost, "/", errMw(blogHandler.handleAction))
				r.Method(http.MethodGet, "/add", errMw(blogHandler.handleAdd))
				r.Method(http.MethodPost, "/add", errMw(blogHandler.handleCreate))
				r.Method(http.MethodGet, "/{id}", errMw(blogHandler.handleEdit))
				r.Method(http.MethodPost, "/{id}", errMw(blogHandler.handleUpdate))
				r.Handle("/{id}/delete", errMw(blogHandler.handleDelete))
			})

			r.Route("/comments", func(r chi.Router) {
				r.Method(http.MethodGet, "/", errMw(commentHandler.handleList))
				r.Method(http.MethodPost, "/", errMw(commentHandler.handleAction))
				r.Method(http.MethodGet, "/export", errMw(commentHandler.handleExport))
				r.Method(http.MethodGet, "/import", errMw(commentHandler.handleImportForm))
				r.Method(http.MethodPost, "/import", errMw(commentHandler.handleImport))
				r.Method(http.MethodGet, "/add", errMw(commentHandler.handleAdd))
				r.Method(http.MethodPost, "/add", errMw(commentHandler.handleCreate))
				r.Method(http.MethodGet, "/{id}", errMw(commentHandler.handleEdit))
				r.Method(http.MethodPost, "/{id}", errMw(commentHandler.handleUpdate))
				r.Method(http.MethodPost, "/{id}/delete", errMw(commentHandler.handleDelete))
			})

			r.Route("/categories", func(r chi.Router) {
				r.Method(http.MethodGet, "/", errMw(categoryHandler.handleList))
				r.Method(http.MethodPost, "/", errMw(categoryHandler.handleAction))
				r.Method(http.MethodGet, "/add", errMw(categoryHandler.handleAdd))
				r.Method(http.MethodPost, "/add", errMw(categoryHandler.handleCreate))
				r.Method(http.MethodGet, "/{id}", errMw(categoryHandler.handleEdit))
				r.Method(http.MethodPost, "/{id}", errMw(categoryHandler.handleUpdate))
				r.Method(http.MethodPost, "/{id}/delete", errMw(categoryHandler.handleDelete))
			})

			r.Route("/places", func(r chi.Router) {
				r.Method(http.MethodGet, "/", errMw(placeHandler.handleList))
				r.Method(http.MethodPost, "/", errMw(placeHandler.handleAction))
				r.Method(http.MethodGet, "/add", errMw(placeHandler.handleAdd))
				r.Method(http.MethodPost, "/add", errMw(placeHandler.handleCreate))
				r.Method(http.MethodGet, "/{id}", errMw(placeHandler.handleEdit))
				r.Method(http.MethodPost, "/{id}", errMw(placeHandler.handleUpdate))
				r.Method(http.MethodPost, "/{id}/delete", errMw(placeHandler.handleDelete))
			})
		})
	})

	return r
}
