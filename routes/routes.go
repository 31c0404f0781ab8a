package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/kmalikov/competition-system/handlers"
	"github.com/kmalikov/competition-system/middleware"
	"github.com/kmalikov/competition-system/models"
)

// SetupRoutes собирает все маршруты приложения.
func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	competitionHandler *handlers.CompetitionHandler,
	enrollmentHandler *handlers.EnrollmentHandler,
	teamAssignmentHandler *handlers.TeamAssignmentHandler,
	golfCourseHandler *handlers.GolfCourseHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate([]byte(jwtSecret))
	adminOnly := middleware.Authorize(models.RoleAdmin)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Аутентификация
	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)
	router.Get("/confirm-email", authHandler.ConfirmEmail)

	// Пользователи
	router.Route("/users", func(r chi.Router) {
		r.Get("/{userID}", userHandler.GetByID)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/me/logo", userHandler.UploadLogo)
		})
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(adminOnly)
			r.Put("/{userID}/handicap", userHandler.UpdateHandicap)
		})
	})

	// Гольф-поля
	router.Route("/golf-courses", func(r chi.Router) {
		r.Get("/", golfCourseHandler.List)
		r.Get("/{golfCourseID}", golfCourseHandler.GetByID)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/", golfCourseHandler.Create)
			r.Post("/{golfCourseID}/photo", golfCourseHandler.UploadPhoto)
		})
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(adminOnly)
			r.Post("/{golfCourseID}/approve", golfCourseHandler.Approve)
		})
	})

	// Соревнования
	router.Route("/competitions", func(r chi.Router) {
		r.Get("/", competitionHandler.List)
		r.Get("/{competitionID}", competitionHandler.GetByID)
		r.Get("/{competitionID}/enrollments", enrollmentHandler.List)
		r.Get("/{competitionID}/assignment", teamAssignmentHandler.GetByCompetition)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Post("/", competitionHandler.Create)
			r.Put("/{competitionID}/status", competitionHandler.ChangeStatus)
			r.Post("/{competitionID}/golf-courses", competitionHandler.AddGolfCourse)
			r.Post("/{competitionID}/logo", competitionHandler.UploadLogo)

			r.Post("/{competitionID}/enrollments", enrollmentHandler.Request)
			r.Post("/{competitionID}/invites", enrollmentHandler.Invite)

			r.Post("/{competitionID}/assignment", teamAssignmentHandler.Assign)
		})
	})

	// Заявки (переходы жизненного цикла)
	router.Route("/enrollments", func(r chi.Router) {
		r.Use(authenticate)

		r.Post("/{enrollmentID}/approve", enrollmentHandler.Approve)
		r.Post("/{enrollmentID}/reject", enrollmentHandler.Reject)
		r.Post("/{enrollmentID}/cancel", enrollmentHandler.Cancel)
		r.Post("/{enrollmentID}/withdraw", enrollmentHandler.Withdraw)
		r.Put("/{enrollmentID}/handicap", enrollmentHandler.SetCustomHandicap)
	})

	// WebSocket: живые обновления по соревнованию
	router.Get("/ws/competitions/{competitionID}", webSocketHandler.ServeWs)
}
