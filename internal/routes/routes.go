package routes

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/AuMigoPet/petshop-scheduler/internal/audit"
	"github.com/AuMigoPet/petshop-scheduler/internal/cache"
	"github.com/AuMigoPet/petshop-scheduler/internal/config"
	domain "github.com/AuMigoPet/petshop-scheduler/internal/domain/scheduling"
	"github.com/AuMigoPet/petshop-scheduler/internal/handlers"
	infraRepo "github.com/AuMigoPet/petshop-scheduler/internal/infra/repository"
	"github.com/AuMigoPet/petshop-scheduler/internal/middleware"
	"github.com/AuMigoPet/petshop-scheduler/internal/notify"
	"github.com/AuMigoPet/petshop-scheduler/internal/storage"
	ucScheduling "github.com/AuMigoPet/petshop-scheduler/internal/usecase/scheduling"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	schedulingRepo := infraRepo.NewSchedulingGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	notifyDispatcher := notify.NewDispatcher(notify.LogNotifier{})

	photoStore := storage.NewPhotoStore(cfg)

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	statsCache := cache.NewStatsCache(rdb, time.Duration(cfg.StatsCacheTTLSecs)*time.Second)

	// ======================================================
	// 📅 NÚCLEO DE AGENDA
	// ======================================================
	calendar := domain.NewCalendar(domain.DefaultWindows)
	ledger := domain.NewLedger(cfg.MaxPerSlot)
	locks := domain.NewLockMap()
	detector := domain.NewConflictDetector(
		schedulingRepo,
		domain.ParseConflictScope(cfg.ConflictScope),
	)

	hydrateLedger(schedulingRepo, ledger)

	// ======================================================
	// 🧠 USE CASES — AGENDAMENTOS
	// ======================================================
	scheduleUC := ucScheduling.NewScheduleAppointment(
		schedulingRepo,
		calendar,
		ledger,
		locks,
		detector,
		auditDispatcher,
		notifyDispatcher,
	)

	cancelUC := ucScheduling.NewCancelAppointment(
		schedulingRepo,
		ledger,
		auditDispatcher,
	)

	confirmUC := ucScheduling.NewConfirmAppointment(
		schedulingRepo,
		auditDispatcher,
	)

	completeUC := ucScheduling.NewCompleteAppointment(
		schedulingRepo,
		auditDispatcher,
	)

	listByDateUC := ucScheduling.NewListAppointmentsByDate(schedulingRepo)
	listByMonthUC := ucScheduling.NewListAppointmentsByMonth(schedulingRepo)

	availabilityUC := ucScheduling.NewGetAvailability(
		schedulingRepo,
		calendar,
		ledger,
	)

	// ======================================================
	// 🧠 USE CASES — ASSINATURAS
	// ======================================================
	createSubscriptionUC := ucScheduling.NewCreateSubscription(
		schedulingRepo,
		auditDispatcher,
	)

	expandSubscriptionUC := ucScheduling.NewExpandSubscription(
		schedulingRepo,
		scheduleUC,
		auditDispatcher,
		cfg.RecurrenceHorizonMonths,
		cfg.SubscriptionOverrides,
	)

	markPaidUC := ucScheduling.NewMarkSubscriptionPaid(
		schedulingRepo,
		auditDispatcher,
	)

	cancelSubscriptionUC := ucScheduling.NewCancelSubscription(
		schedulingRepo,
		ledger,
		auditDispatcher,
	)

	// ======================================================
	// 🧠 USE CASES — RELATÓRIOS
	// ======================================================
	statsUC := ucScheduling.NewGetStats(schedulingRepo, statsCache)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	petshopHandler := handlers.NewPetshopHandler(db)

	ownerHandler := handlers.NewOwnerHandler(db)
	petHandler := handlers.NewPetHandler(db, photoStore)

	appointmentHandler := handlers.NewAppointmentHandler(
		scheduleUC,
		cancelUC,
		confirmUC,
		completeUC,
		listByDateUC,
		listByMonthUC,
		availabilityUC,
	)

	subscriptionHandler := handlers.NewSubscriptionHandler(
		createSubscriptionUC,
		expandSubscriptionUC,
		markPaidUC,
		cancelSubscriptionUC,
		schedulingRepo,
	)

	statsHandler := handlers.NewStatsHandler(statsUC)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			secured.GET("/me/petshop", petshopHandler.GetMePetshop)
			secured.PATCH("/me/petshop", petshopHandler.UpdateMePetshop)

			// ------------------------------
			// OWNERS / PETS
			// ------------------------------
			secured.GET("/me/owners", ownerHandler.List)
			secured.POST("/me/owners", ownerHandler.Create)
			secured.GET("/me/owners/:id/pets", ownerHandler.ListPets)

			secured.POST("/me/pets", petHandler.Create)
			secured.PATCH("/me/pets/:id", petHandler.Update)
			secured.PUT("/me/pets/:id/photo", petHandler.UploadPhoto)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.POST("/me/appointments", appointmentHandler.Create)
			secured.GET("/me/appointments", appointmentHandler.ListByDate)
			secured.GET("/me/appointments/month", appointmentHandler.ListByMonth)
			secured.GET("/me/availability", appointmentHandler.Availability)
			secured.PATCH("/me/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/me/appointments/:id/confirm", appointmentHandler.Confirm)
			secured.PATCH("/me/appointments/:id/complete", appointmentHandler.Complete)

			// ------------------------------
			// SUBSCRIPTIONS
			// ------------------------------
			secured.POST("/me/subscriptions", subscriptionHandler.Create)
			secured.GET("/me/subscriptions", subscriptionHandler.List)
			secured.POST("/me/subscriptions/:id/expand", subscriptionHandler.Expand)
			secured.PATCH("/me/subscriptions/:id/payment", subscriptionHandler.MarkPaid)
			secured.PATCH("/me/subscriptions/:id/cancel", subscriptionHandler.Cancel)

			// ------------------------------
			// STATS
			// ------------------------------
			secured.GET("/me/stats/daily", statsHandler.Daily)
			secured.GET("/me/stats/weekly", statsHandler.Weekly)
			secured.GET("/me/stats/monthly", statsHandler.Monthly)

			secured.GET("/me/audit-logs", auditLogsHandler.List)
		}
	}
}

// hydrateLedger recarrega a ocupação persistida para a memória no boot.
// O ledger em memória é a fonte da admissão; sem isso um restart
// liberaria slots já vendidos.
func hydrateLedger(repo domain.Repository, ledger *domain.Ledger) {
	records, err := repo.LoadCapacityRecords(context.Background())
	if err != nil {
		log.Printf("⚠️ falha ao hidratar ledger de capacidade: %v", err)
		return
	}

	counts := make(map[domain.LedgerKey]int, len(records))
	for _, rec := range records {
		key := domain.LedgerKey{
			PetshopID: rec.PetshopID,
			Service:   domain.ServiceType(rec.Service),
			Date:      rec.Date,
			StartHour: rec.StartHour,
		}
		counts[key] = rec.Count
	}

	ledger.Hydrate(counts)

	log.Printf("📅 ledger de capacidade hidratado com %d slots", len(counts))
}
