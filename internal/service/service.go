package service

import (
	"github.com/anisossss/mining-ops/internal/config"
	"github.com/anisossss/mining-ops/internal/repository"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Services bundles the application services.
type Services struct {
	Auth      *AuthService
	Analytics *AnalyticsService
	Export    *ReportExportService
}

func NewServices(db *gorm.DB, repos *repository.Repositories, rdb *redis.Client, cfg *config.Config, logger *zap.Logger) *Services {
	// Object storage is optional; reports stay local without it.
	var minioClient *minio.Client
	if cfg.MinIO.Endpoint != "" {
		var err error
		minioClient, err = minio.New(cfg.MinIO.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
			Secure: cfg.MinIO.UseSSL,
		})
		if err != nil {
			logger.Warn("MinIO client init failed, continuing without object storage", zap.Error(err))
			minioClient = nil
		}
	}

	return &Services{
		Auth:      NewAuthService(repos.User, cfg),
		Analytics: NewAnalyticsService(db, rdb),
		Export:    NewReportExportService(cfg.Jobs.ExportDir, minioClient, cfg.MinIO.Bucket, logger),
	}
}
