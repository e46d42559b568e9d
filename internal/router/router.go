// Package router wires URL paths to handlers and applies the
// authentication and authorization middleware per route group.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/tudduke/ministry-platform/internal/access"
	"github.com/tudduke/ministry-platform/internal/handler"
	"github.com/tudduke/ministry-platform/internal/middleware"
)

// Handlers collects every handler the router mounts.
type Handlers struct {
	Auth       *handler.AuthHandler
	Sermons    *handler.SermonHandler
	Resources  *handler.ResourceHandler
	Events     *handler.EventHandler
	Lessons    *handler.LessonHandler
	Comments   *handler.CommentHandler
	Engagement *handler.EngagementHandler
	Kids       *handler.KidsHandler
	Browse     *handler.BrowseHandler
	Admin      *handler.AdminHandler
	Donations  *handler.DonationHandler
}

// Register mounts all routes. publicMW (response cache) is applied to the
// unauthenticated browse group only; authenticated and admin traffic is
// never cached.
func Register(e *echo.Echo, h Handlers, jwtSecret string, publicMW ...echo.MiddlewareFunc) {
	e.GET("/healthz", handler.Health)

	// Session endpoints. Logout works with either a refresh token in the
	// body or an access token in the header, so it sits outside the
	// authenticated group.
	authGroup := e.Group("/v1/auth")
	authGroup.POST("/register", h.Auth.Register)
	authGroup.POST("/login", h.Auth.Login)
	authGroup.POST("/refresh", h.Auth.Refresh)
	authGroup.POST("/refresh-access", h.Auth.RefreshAccess)
	authGroup.POST("/logout", h.Auth.Logout, middleware.OptionalJWT(jwtSecret))

	// Public browse: approved content only, no identity required.
	pub := e.Group("/v1", publicMW...)
	pub.GET("/sermons", h.Browse.ListSermons)
	pub.GET("/sermons/:id", h.Browse.GetSermon)
	pub.GET("/sermons/:id/comments", h.Comments.ListBySermon)
	pub.GET("/resources", h.Browse.ListResources)
	pub.GET("/events", h.Browse.ListEvents)
	pub.GET("/lessons", h.Browse.ListLessons)
	pub.GET("/kids/verse", h.Browse.DailyVerse)
	pub.GET("/kids/verses", h.Browse.ListVerses)
	pub.GET("/kids/quiz", h.Browse.ListQuizQuestions)

	// View counting accepts anonymous traffic but records the viewer when
	// a token is present. These mutate counters, so they bypass the cache.
	e.POST("/v1/sermons/:id/view", h.Engagement.ViewSermon, middleware.OptionalJWT(jwtSecret))
	e.POST("/v1/resources/:id/view", h.Engagement.ViewResource, middleware.OptionalJWT(jwtSecret))
	e.POST("/v1/lessons/:id/view", h.Engagement.ViewLesson, middleware.OptionalJWT(jwtSecret))

	// Public community forms.
	e.POST("/v1/donations", h.Donations.CreateDonation)
	e.POST("/v1/contact", h.Donations.CreateMessage)

	// Authenticated routes. Each mutating group additionally carries the
	// role gate for its operation; ownership is checked in the handler
	// against the loaded row.
	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", h.Auth.Me)

	auth.POST("/sermons", h.Sermons.Create, middleware.Require(access.OpCreateSermon))
	auth.PUT("/sermons/:id", h.Sermons.Update, middleware.Require(access.OpUpdateSermon))
	auth.DELETE("/sermons/:id", h.Sermons.Delete, middleware.Require(access.OpDeleteSermon))
	auth.GET("/me/sermons", h.Sermons.ListMine)

	auth.POST("/resources", h.Resources.Create, middleware.Require(access.OpUploadResource))
	auth.PUT("/resources/:id", h.Resources.Update, middleware.Require(access.OpUpdateResource))
	auth.DELETE("/resources/:id", h.Resources.Delete, middleware.Require(access.OpDeleteResource))
	auth.GET("/me/resources", h.Resources.ListMine)

	auth.POST("/events", h.Events.Create, middleware.Require(access.OpCreateEvent))
	auth.PUT("/events/:id", h.Events.Update, middleware.Require(access.OpUpdateEvent))
	auth.DELETE("/events/:id", h.Events.Delete, middleware.Require(access.OpDeleteEvent))
	auth.GET("/me/events", h.Events.ListMine)

	auth.POST("/lessons", h.Lessons.Create, middleware.Require(access.OpCreateLesson))
	auth.PUT("/lessons/:id", h.Lessons.Update, middleware.Require(access.OpUpdateLesson))
	auth.DELETE("/lessons/:id", h.Lessons.Delete, middleware.Require(access.OpDeleteLesson))

	auth.POST("/sermons/:id/comments", h.Comments.Create, middleware.Require(access.OpCreateComment))
	auth.POST("/sermons/:id/like", h.Engagement.LikeSermon, middleware.Require(access.OpLikeSermon))

	auth.POST("/kids/quiz/submit", h.Engagement.SubmitQuiz, middleware.Require(access.OpSubmitQuiz))
	auth.GET("/me/quiz-attempts", h.Engagement.MyQuizAttempts, middleware.Require(access.OpSubmitQuiz))

	// Kids corner authoring. Verses and questions skip moderation; the
	// role gate is the whole control, and retirement replaces deletion.
	auth.GET("/kids/verses/all", h.Kids.ListVerses, middleware.Require(access.OpManageVerses))
	auth.POST("/kids/verses", h.Kids.CreateVerse, middleware.Require(access.OpManageVerses))
	auth.PUT("/kids/verses/:id", h.Kids.UpdateVerse, middleware.Require(access.OpManageVerses))
	auth.PATCH("/kids/verses/:id/active", h.Kids.SetVerseActive, middleware.Require(access.OpManageVerses))
	auth.GET("/kids/quiz/all", h.Kids.ListQuestions, middleware.Require(access.OpManageQuiz))
	auth.POST("/kids/quiz", h.Kids.CreateQuestion, middleware.Require(access.OpManageQuiz))
	auth.PUT("/kids/quiz/:id", h.Kids.UpdateQuestion, middleware.Require(access.OpManageQuiz))
	auth.PATCH("/kids/quiz/:id/active", h.Kids.SetQuestionActive, middleware.Require(access.OpManageQuiz))

	auth.GET("/me/classes", h.Admin.MyClasses, middleware.Require(access.OpListClasses))

	// Admin surface.
	admin := e.Group("/v1/admin", middleware.JWTAuth(jwtSecret))
	admin.GET("/users", h.Admin.ListUsers, middleware.Require(access.OpListUsers))
	admin.POST("/users/:id/verify", h.Admin.VerifyUser, middleware.Require(access.OpVerifyUser))
	admin.GET("/content", h.Admin.ContentQueue, middleware.Require(access.OpVerifyContent))
	admin.POST("/content/:type/:id/verify", h.Admin.VerifyContent, middleware.Require(access.OpVerifyContent))
	admin.GET("/stats", h.Admin.Stats, middleware.Require(access.OpViewStats))
	admin.GET("/classes", h.Admin.ListClasses, middleware.Require(access.OpManageClasses))
	admin.GET("/donations", h.Donations.ListDonations, middleware.Require(access.OpListDonations))
	admin.GET("/messages", h.Donations.ListMessages, middleware.Require(access.OpListMessages))
}
