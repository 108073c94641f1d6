package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(withGZip)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/user/register", h.register)
		r.Post("/api/user/login", h.login)
	})

	// routes behind the JWT + session-key middleware
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Post("/api/user/logout", h.logout)
		r.Post("/api/user/change-password", h.changePassword)
		r.Delete("/api/user", h.deleteAccount)

		r.Post("/api/cards", h.uploadCard)
		r.Get("/api/cards", h.listCards)
		r.Get("/api/cards/{cardID}", h.downloadCard)
		r.Delete("/api/cards/{cardID}", h.deleteCard)

		r.Post("/api/wallets", h.createWallet)
		r.Get("/api/wallets", h.listWallets)
		r.Delete("/api/wallets/{walletID}", h.softDeleteWallet)
		r.Post("/api/wallets/{walletID}/restore", h.restoreWallet)
		r.Delete("/api/wallets/{walletID}/purge", h.purgeWallet)

		r.Post("/api/admin/users/{userID}/ban", h.banUser)
	})

	return router
}
