package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/swipehq/interview-assistant/config"
	"github.com/swipehq/interview-assistant/internal/api/handlers"
	"github.com/swipehq/interview-assistant/internal/api/middleware"
	"github.com/swipehq/interview-assistant/internal/api/routes"
	"github.com/swipehq/interview-assistant/internal/cache"
	"github.com/swipehq/interview-assistant/internal/countdown"
	"github.com/swipehq/interview-assistant/internal/events"
	"github.com/swipehq/interview-assistant/internal/logger"
	"github.com/swipehq/interview-assistant/internal/models"
	"github.com/swipehq/interview-assistant/internal/providers/llm"
	"github.com/swipehq/interview-assistant/internal/questions"
	mongorepo "github.com/swipehq/interview-assistant/internal/repositories/mongo"
	pgrepo "github.com/swipehq/interview-assistant/internal/repositories/postgres"
	"github.com/swipehq/interview-assistant/internal/resume"
	"github.com/swipehq/interview-assistant/internal/services"
	"github.com/swipehq/interview-assistant/internal/storage"
	"github.com/swipehq/interview-assistant/internal/workers"
)

func main() {
	_ = godotenv.Load()
	ctx := context.Background()

	l := logger.New()

	// Init PostgreSQL
	if err := config.InitPostgres(); err != nil {
		log.Fatalf("PostgreSQL init error: %v", err)
	}
	if err := config.PostgresDB.AutoMigrate(&models.CandidateRecord{}, &models.ResumeFile{}); err != nil {
		log.Fatalf("PostgreSQL migrate error: %v", err)
	}
	l.Info("PostgreSQL connected")

	// Init MongoDB
	if err := config.InitMongo(); err != nil {
		log.Fatalf("MongoDB init error: %v", err)
	}
	l.Info("MongoDB connected")

	// Init Redis
	if err := config.InitRedis(); err != nil {
		log.Fatalf("Redis init error: %v", err)
	}
	l.Info("Redis connected")

	mongoDBName := os.Getenv("MONGO_DB")
	if mongoDBName == "" {
		mongoDBName = "interview_assistant"
	}
	sessionStore := mongorepo.NewSessionStore(config.MongoClient.Database(mongoDBName))

	candidateRepo := pgrepo.NewCandidateRepo(config.PostgresDB)
	resumeFileRepo := pgrepo.NewResumeFileRepo(config.PostgresDB)
	redisCache := cache.NewRedisCache(config.RedisClient)
	publisher := events.NewRedisPublisher(config.RedisClient)

	// Gemini is optional: without project config the static question bank and
	// summary-less flow take over.
	var generator llm.Provider
	if project := os.Getenv("GOOGLE_CLOUD_PROJECT"); project != "" {
		location := os.Getenv("GOOGLE_CLOUD_LOCATION")
		if location == "" {
			location = "us-central1"
		}
		gem, err := llm.NewVertexGemini(ctx, project, location, os.Getenv("GEMINI_MODEL"))
		if err != nil {
			log.Fatalf("Vertex init error: %v", err)
		}
		defer gem.Close()
		generator = gem
		l.Info("Vertex Gemini connected")
	} else {
		l.Warn("GOOGLE_CLOUD_PROJECT not set; using static question bank")
	}

	var uploader storage.Uploader
	if bucket := os.Getenv("GCS_BUCKET"); bucket != "" {
		gcsUploader, err := storage.NewGCSUploader(ctx, bucket)
		if err != nil {
			log.Fatalf("GCS init error: %v", err)
		}
		defer gcsUploader.Close()
		uploader = gcsUploader
	} else {
		dir := os.Getenv("RESUME_DIR")
		if dir == "" {
			dir = "./data/resumes"
		}
		localUploader, err := storage.NewLocalUploader(dir)
		if err != nil {
			log.Fatalf("local storage init error: %v", err)
		}
		uploader = localUploader
	}

	candidateSvc := services.NewCandidateService(candidateRepo, resumeFileRepo, redisCache, l)
	if err := candidateSvc.Hydrate(ctx); err != nil {
		log.Fatalf("candidate hydrate error: %v", err)
	}

	worker := workers.NewCountdownWorker(publisher, l, countdown.DefaultInterval)

	interviewSvc := services.NewInterviewService(services.InterviewDeps{
		Questions:  questions.NewSource(generator, l),
		Summarizer: resume.NewSummarizer(generator, l),
		Tracker:    worker,
		Store:      sessionStore,
		Files:      resumeFileRepo,
		Uploader:   uploader,
		Candidates: candidateSvc,
		Publisher:  publisher,
		Logger:     l,
	})
	worker.OnExpire = interviewSvc.HandleExpiry

	if err := interviewSvc.Restore(ctx); err != nil {
		l.WithError(err).Warn("session restore failed")
	}
	worker.Start(ctx)
	worker.Poll() // a restored countdown may already be past its deadline

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(l))

	routes.RegisterRoutes(r, routes.Deps{
		Interview: handlers.NewInterviewHandler(interviewSvc),
		Candidate: handlers.NewCandidateHandler(candidateSvc, interviewSvc),
		WS:        handlers.NewWSHandler(interviewSvc, config.RedisClient),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
