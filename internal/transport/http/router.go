package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"moodring/internal/handler"
	"moodring/internal/httputil"
	authmw "moodring/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler         *handler.AuthHandler
	UserHandler         *handler.UserHandler
	FollowHandler       *handler.FollowHandler
	FeedHandler         *handler.FeedHandler
	PostHandler         *handler.PostHandler
	LikeHandler         *handler.LikeHandler
	CommentHandler      *handler.CommentHandler
	MediaHandler        *handler.MediaHandler
	NotificationHandler *handler.NotificationHandler
	JWTSecret           string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		// Public auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", cfg.AuthHandler.Register)
			r.Post("/login", cfg.AuthHandler.Login)
			r.Post("/refresh", cfg.AuthHandler.Refresh)
			r.Post("/logout", cfg.AuthHandler.Logout)

			r.Group(func(r chi.Router) {
				r.Use(authmw.AuthMiddleware(cfg.JWTSecret))
				r.Post("/logout-all", cfg.AuthHandler.LogoutAll)
				r.Get("/me", cfg.AuthHandler.Me)
			})
		})

		// Public reads with optional authentication: an authenticated
		// viewer gets like/follow state, anonymous viewers get the
		// plain resource.
		r.Group(func(r chi.Router) {
			r.Use(authmw.OptionalAuthMiddleware(cfg.JWTSecret))

			r.Get("/users/search", cfg.UserHandler.Search)
			r.Get("/users/username/{username}", cfg.UserHandler.GetProfileByUsername)
			r.Get("/users/{id}", cfg.UserHandler.GetProfile)

			r.Get("/posts", cfg.PostHandler.List)
			r.Get("/posts/{id}", cfg.PostHandler.GetByID)
			r.Get("/posts/user/{userId}", cfg.PostHandler.GetUserPosts)
			r.Get("/posts/{id}/comments", cfg.CommentHandler.List)

			r.Get("/likes/post/{postId}", cfg.LikeHandler.GetLikers)

			r.Get("/follows/user/{userId}/followers", cfg.FollowHandler.GetFollowers)
			r.Get("/follows/user/{userId}/following", cfg.FollowHandler.GetFollowing)
		})

		// Protected routes - require authentication
		r.Group(func(r chi.Router) {
			r.Use(authmw.AuthMiddleware(cfg.JWTSecret))

			r.Put("/users/me", cfg.UserHandler.UpdateMe)

			r.Get("/feed", cfg.FeedHandler.GetFeed)

			r.Post("/posts", cfg.PostHandler.Create)
			r.Put("/posts/{id}", cfg.PostHandler.Update)
			r.Delete("/posts/{id}", cfg.PostHandler.Delete)

			r.Post("/posts/{id}/comments", cfg.CommentHandler.Create)
			r.Put("/posts/{id}/comments/{commentId}", cfg.CommentHandler.Update)
			r.Delete("/posts/{id}/comments/{commentId}", cfg.CommentHandler.Delete)

			r.Post("/likes/post/{postId}", cfg.LikeHandler.Like)
			r.Delete("/likes/post/{postId}", cfg.LikeHandler.Unlike)
			r.Get("/likes/post/{postId}/check", cfg.LikeHandler.Check)

			r.Post("/follows/user/{userId}", cfg.FollowHandler.Follow)
			r.Delete("/follows/user/{userId}", cfg.FollowHandler.Unfollow)
			r.Get("/follows/user/{userId}/check", cfg.FollowHandler.Check)

			r.Route("/notifications", func(r chi.Router) {
				r.Post("/device-token", cfg.NotificationHandler.RegisterToken)
				r.Delete("/device-token", cfg.NotificationHandler.RemoveToken)
				r.Post("/test", cfg.NotificationHandler.SendTest)
			})

			r.Post("/media/avatar/presign", cfg.MediaHandler.PresignAvatarUpload)
		})
	})

	return r
}
