package httpapi

import (
	"context"
	"net/http"
	"time"

	"flightline-backend-go/internal/config"
	"flightline-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	DB         *sqlx.DB
	Config     config.Config
	Tokens     services.TokenService
	MetricsHub *services.MetricsHub
}

func NewServer(db *sqlx.DB, cfg config.Config, hub *services.MetricsHub) *Server {
	tokens := services.TokenService{
		Secret:     []byte(cfg.JWTSecret),
		Issuer:     cfg.JWTIssuer,
		AccessTTL:  time.Duration(cfg.AccessTTLSeconds) * time.Second,
		RefreshTTL: time.Duration(cfg.RefreshTTLSeconds) * time.Second,
	}
	return &Server{
		DB:         db,
		Config:     cfg,
		Tokens:     tokens,
		MetricsHub: hub,
	}
}

func (s *Server) Router(ctx context.Context) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogger)
	if len(s.Config.CorsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.Config.CorsOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/register", s.Register)
		api.Post("/auth/login", s.Login)
		api.Post("/auth/refresh", s.Refresh)
		api.Post("/auth/logout", s.Logout)

		api.Route("/me", func(me chi.Router) {
			me.Use(WithAuth(s.Tokens))
			me.Get("/", s.Me)
			me.Post("/ping", s.Ping)
		})

		api.Route("/student", func(student chi.Router) {
			student.Use(WithAuth(s.Tokens))
			student.Use(RequireRole("STUDENT"))

			student.Route("/logbook", func(logbook chi.Router) {
				logbook.Get("/", s.StudentListLogbook)
				logbook.Post("/", s.StudentCreateLogbookEntry)
				logbook.Get("/totals", s.StudentLogbookTotals)
				logbook.Get("/{entryId}", s.StudentGetLogbookEntry)
				logbook.Put("/{entryId}", s.StudentUpdateLogbookEntry)
				logbook.Delete("/{entryId}", s.StudentDeleteLogbookEntry)
				logbook.Post("/{entryId}/signature", s.StudentSignEntry)
				logbook.Post("/{entryId}/signature/verify", s.StudentVerifySignature)
			})

			student.Get("/requirements", s.StudentRequirements)
			student.Get("/requirements/progress", s.StudentProgress)

			student.Route("/documents", func(documents chi.Router) {
				documents.Get("/", s.ListDocuments)
				documents.Post("/", s.UploadDocument)
				documents.Delete("/{documentId}", s.DeleteDocument)
			})
		})

		api.With(WithAuth(s.Tokens)).Get("/documents/{documentId}/content", s.DownloadDocument)

		api.Route("/instructor", func(instructor chi.Router) {
			instructor.Use(WithAuth(s.Tokens))
			instructor.Use(RequireAnyRole("INSTRUCTOR", "ADMIN"))

			instructor.Route("/students/{studentId}", func(students chi.Router) {
				students.Post("/enroll", s.InstructorEnrollStudent)
				students.Get("/requirements", s.InstructorStudentRequirements)
				students.Get("/logbook", s.InstructorStudentLogbook)
			})
			instructor.Post("/requirements/{id}/verify", s.InstructorVerifyRequirement)

			instructor.Route("/logbook/{entryId}", func(logbook chi.Router) {
				logbook.Post("/signature", s.InstructorSignEntry)
				logbook.Post("/signature/verify", s.InstructorVerifySignature)
				logbook.Post("/status", s.InstructorSetEntryStatus)
				logbook.Get("/audit", s.InstructorEntryAudit)
			})

			instructor.Get("/aircraft", s.ListAircraft)
		})

		api.Route("/admin", func(admin chi.Router) {
			admin.Use(WithAuth(s.Tokens))
			admin.Use(RequireRole("ADMIN"))
			admin.Get("/metrics/history", s.MetricsHistory)
			admin.Route("/users", func(users chi.Router) {
				users.Get("/", s.ListUsers)
				users.Post("/{userId}/roles", s.AssignRole)
				users.Delete("/{userId}/roles/{role}", s.RemoveRole)
			})
			admin.Route("/requirements", func(requirements chi.Router) {
				requirements.Get("/", s.ListRequirements)
				requirements.Post("/", s.CreateRequirement)
				requirements.Get("/{id}", s.GetRequirement)
				requirements.Put("/{id}", s.UpdateRequirement)
				requirements.Delete("/{id}", s.DeleteRequirement)
			})
			admin.Route("/aircraft", func(aircraft chi.Router) {
				aircraft.Get("/", s.ListAircraft)
				aircraft.Post("/", s.CreateAircraft)
				aircraft.Delete("/{id}", s.RetireAircraft)
			})
		})
	})

	r.Get("/ws/metrics", s.MetricsSocket)
	return r
}
