package services

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"eschool_go/config"
	"eschool_go/database"
	"eschool_go/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ReportArchiveService flushes cached activity logs and ships finance
// exports and old activity logs to S3.
type ReportArchiveService struct {
	redisClient *redis.Client
	awsConfig   aws.Config
}

// archivedLog is the exported representation stored inside archives
type archivedLog struct {
	ID         uint           `json:"id"`
	UserID     uint           `json:"user_id"`
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	ResourceID uint           `json:"resource_id"`
	Details    map[string]any `json:"details"`
	IPAddress  string         `json:"ip_address"`
	UserAgent  string         `json:"user_agent"`
	CreatedAt  *time.Time     `json:"created_at"`
	Username   string         `json:"username,omitempty"`
	UserRole   string         `json:"user_role,omitempty"`
}

// ledgerRow is one payment line inside a finance export
type ledgerRow struct {
	ID            uint       `json:"id"`
	StudentID     uint       `json:"student_id"`
	StudentNumber string     `json:"student_number,omitempty"`
	PaymentType   string     `json:"payment_type"`
	TotalAmount   float64    `json:"total_amount"`
	AmountPaid    float64    `json:"amount_paid"`
	Status        string     `json:"status"`
	DueDate       time.Time  `json:"due_date"`
	PaymentDate   *time.Time `json:"payment_date,omitempty"`
	AcademicYear  string     `json:"academic_year"`
}

// NewReportArchiveService creates a new service instance
func NewReportArchiveService() *ReportArchiveService {
	cfg, err := awscfg.LoadDefaultConfig(context.Background(), awscfg.WithRegion(config.AppConfig.AWSRegion))
	if err != nil {
		logrus.WithError(err).Warn("Failed to load AWS config; S3 operations will fail until configured")
	}

	return &ReportArchiveService{
		redisClient: database.GetRedisClient(),
		awsConfig:   cfg,
	}
}

// FlushCachedLogsToDatabase moves activity logs from the Redis cache to the database
func (ras *ReportArchiveService) FlushCachedLogsToDatabase() error {
	if ras.redisClient == nil {
		return fmt.Errorf("redis client not available")
	}

	ctx := context.Background()
	cutoffTime := time.Now().Add(-24 * time.Hour)

	expiredLogs, err := ras.redisClient.ZRangeByScore(ctx, "logs:queue", &redis.ZRangeBy{
		Min: "0",
		Max: fmt.Sprintf("%d", cutoffTime.Unix()),
	}).Result()

	if err != nil {
		return fmt.Errorf("failed to get expired logs: %v", err)
	}

	logrus.Infof("Processing %d expired cached logs", len(expiredLogs))

	var processedCount int
	var errorCount int

	for _, logKey := range expiredLogs {
		logData, err := ras.redisClient.Get(ctx, logKey).Result()
		if err != nil {
			if err != redis.Nil {
				logrus.WithError(err).Errorf("Failed to get log data for key: %s", logKey)
				errorCount++
			}
			continue
		}

		var activityLog models.ActivityLog
		if err := json.Unmarshal([]byte(logData), &activityLog); err != nil {
			logrus.WithError(err).Errorf("Failed to unmarshal log data for key: %s", logKey)
			errorCount++
			continue
		}

		if err := database.DB.Create(&activityLog).Error; err != nil {
			logrus.WithError(err).Errorf("Failed to save log to database: %v", activityLog)
			errorCount++
			continue
		}

		pipeline := ras.redisClient.Pipeline()
		pipeline.Del(ctx, logKey)
		pipeline.ZRem(ctx, "logs:queue", logKey)
		if _, err := pipeline.Exec(ctx); err != nil {
			logrus.WithError(err).Errorf("Failed to remove log from cache: %s", logKey)
		}

		processedCount++
	}

	logrus.Infof("Flushed %d logs to database, %d errors", processedCount, errorCount)
	return nil
}

// ExportMonthlyLedger archives all payments of the given month to S3 as a ZIP
// (JSON plus CSV) and records the export in report_archives.
func (ras *ReportArchiveService) ExportMonthlyLedger(year int, month time.Month) error {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	var payments []models.Payment
	err := database.DB.
		Preload("Student").
		Where("due_date >= ? AND due_date < ?", start, end).
		Order("due_date ASC, id ASC").
		Find(&payments).Error
	if err != nil {
		return fmt.Errorf("failed to fetch payments for export: %v", err)
	}

	if len(payments) == 0 {
		logrus.Infof("No payments to export for %04d-%02d", year, int(month))
		return nil
	}

	rows := make([]ledgerRow, 0, len(payments))
	for _, p := range payments {
		row := ledgerRow{
			ID:           p.ID,
			StudentID:    p.StudentID,
			PaymentType:  p.PaymentType,
			TotalAmount:  p.TotalAmount,
			AmountPaid:   p.AmountPaid,
			Status:       p.Status,
			DueDate:      p.DueDate,
			PaymentDate:  p.PaymentDate,
			AcademicYear: p.AcademicYear,
		}
		if p.Student.ID > 0 {
			row.StudentNumber = p.Student.StudentNumber
		}
		rows = append(rows, row)
	}

	fileName := fmt.Sprintf("payment_ledger_%04d-%02d.zip", year, int(month))
	buf, err := ras.createLedgerArchive(rows, fileName)
	if err != nil {
		return fmt.Errorf("failed to create ledger archive: %v", err)
	}

	s3Key := fmt.Sprintf("reports/ledger/%04d/%02d/%s", year, int(month), fileName)
	archive := models.ReportArchive{
		FileName:    fileName,
		S3Key:       s3Key,
		StartDate:   start,
		EndDate:     end,
		RecordCount: len(rows),
		FileSize:    int64(buf.Len()),
		Status:      "pending",
	}
	if err := database.DB.Create(&archive).Error; err != nil {
		return fmt.Errorf("failed to record export: %v", err)
	}

	if err := ras.uploadToS3(s3Key, buf); err != nil {
		database.DB.Model(&archive).Updates(map[string]interface{}{
			"status": "failed",
			"error":  err.Error(),
		})
		return fmt.Errorf("failed to upload ledger to S3: %v", err)
	}

	database.DB.Model(&archive).Update("status", "completed")
	logrus.Infof("Exported %d payments for %04d-%02d to %s", len(rows), year, int(month), s3Key)
	return nil
}

// ArchiveOldLogs archives logs older than specified days to S3 and removes them from database
func (ras *ReportArchiveService) ArchiveOldLogs(daysOld int) error {
	if daysOld < 7 {
		return fmt.Errorf("minimum archive age is 7 days for safety")
	}

	cutoffDate := time.Now().AddDate(0, 0, -daysOld)

	batchSize := 1000
	var allLogs []archivedLog

	for offset := 0; ; offset += batchSize {
		var logs []models.ActivityLog

		err := database.DB.
			Preload("User").
			Where("created_at < ?", cutoffDate).
			Limit(batchSize).
			Offset(offset).
			Find(&logs).Error
		if err != nil {
			return fmt.Errorf("failed to fetch logs for archiving: %v", err)
		}
		if len(logs) == 0 {
			break
		}

		for _, log := range logs {
			entry := archivedLog{
				ID:         log.ID,
				UserID:     log.UserID,
				Action:     log.Action,
				Resource:   log.Resource,
				ResourceID: log.ResourceID,
				IPAddress:  log.IPAddress,
				UserAgent:  log.UserAgent,
				CreatedAt:  &log.CreatedAt,
			}

			if len(log.Details) > 0 {
				var details map[string]any
				if err := json.Unmarshal(log.Details, &details); err == nil {
					entry.Details = details
				}
			}

			if log.User.ID > 0 {
				entry.Username = log.User.Username
				entry.UserRole = log.User.Role
			}

			allLogs = append(allLogs, entry)
		}
	}

	if len(allLogs) == 0 {
		logrus.Info("No logs to archive")
		return nil
	}
	logrus.Infof("Archiving %d logs older than %s", len(allLogs), cutoffDate.Format("2006-01-02"))

	fileName := fmt.Sprintf("activity_logs_%s.zip", cutoffDate.Format("2006-01-02"))
	buf, err := ras.createLogArchive(allLogs, fileName)
	if err != nil {
		return fmt.Errorf("failed to create ZIP archive: %v", err)
	}

	s3Key := fmt.Sprintf("logs/archived/%d/%02d/%s", cutoffDate.Year(), cutoffDate.Month(), fileName)
	if err := ras.uploadToS3(s3Key, buf); err != nil {
		return fmt.Errorf("failed to upload archive to S3: %v", err)
	}
	logrus.Infof("Successfully uploaded archive to S3: %s", s3Key)

	result := database.DB.Where("created_at < ?", cutoffDate).Delete(&models.ActivityLog{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete archived logs from database: %v", result.Error)
	}
	logrus.Infof("Deleted %d archived logs from database", result.RowsAffected)

	metadata := models.ReportArchive{
		FileName:    fileName,
		S3Key:       s3Key,
		StartDate:   time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     cutoffDate,
		RecordCount: len(allLogs),
		FileSize:    int64(buf.Len()),
		Status:      "completed",
	}
	if err := database.DB.Create(&metadata).Error; err != nil {
		logrus.WithError(err).Error("Failed to save archive metadata")
	}

	return nil
}

func (ras *ReportArchiveService) createLedgerArchive(rows []ledgerRow, fileName string) (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	zipWriter := zip.NewWriter(buf)

	jsonFile, err := zipWriter.Create("payment_ledger.json")
	if err != nil {
		return nil, fmt.Errorf("failed to create ledger file in ZIP: %v", err)
	}

	encoder := json.NewEncoder(jsonFile)
	encoder.SetIndent("", "  ")
	export := map[string]any{
		"export_date":    time.Now().UTC(),
		"record_count":   len(rows),
		"format_version": "1.0",
		"payments":       rows,
	}
	if err := encoder.Encode(export); err != nil {
		return nil, fmt.Errorf("failed to encode ledger to JSON: %v", err)
	}

	csvFile, err := zipWriter.Create("payment_ledger.csv")
	if err != nil {
		return nil, fmt.Errorf("failed to create CSV file in ZIP: %v", err)
	}

	csvFile.Write([]byte("ID,Student ID,Student Number,Payment Type,Total Amount,Amount Paid,Status,Due Date,Payment Date,Academic Year\n"))
	for _, r := range rows {
		paidAt := ""
		if r.PaymentDate != nil {
			paidAt = r.PaymentDate.Format("2006-01-02")
		}
		line := fmt.Sprintf("%d,%d,%s,%s,%.2f,%.2f,%s,%s,%s,%s\n",
			r.ID,
			r.StudentID,
			r.StudentNumber,
			r.PaymentType,
			r.TotalAmount,
			r.AmountPaid,
			r.Status,
			r.DueDate.Format("2006-01-02"),
			paidAt,
			r.AcademicYear,
		)
		csvFile.Write([]byte(line))
	}

	if err := zipWriter.Close(); err != nil {
		return nil, fmt.Errorf("failed to close ZIP writer: %v", err)
	}
	return buf, nil
}

// createLogArchive creates a ZIP file containing the logs as JSON and CSV
func (ras *ReportArchiveService) createLogArchive(logs []archivedLog, fileName string) (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	zipWriter := zip.NewWriter(buf)

	logsFile, err := zipWriter.Create("activity_logs.json")
	if err != nil {
		return nil, fmt.Errorf("failed to create logs file in ZIP: %v", err)
	}

	encoder := json.NewEncoder(logsFile)
	encoder.SetIndent("", "  ")
	logData := map[string]any{
		"export_date":    time.Now().UTC(),
		"record_count":   len(logs),
		"format_version": "1.0",
		"logs":           logs,
	}
	if err := encoder.Encode(logData); err != nil {
		return nil, fmt.Errorf("failed to encode logs to JSON: %v", err)
	}

	metadataFile, err := zipWriter.Create("metadata.json")
	if err != nil {
		return nil, fmt.Errorf("failed to create metadata file in ZIP: %v", err)
	}

	metadata := map[string]any{
		"file_name":    fileName,
		"created_at":   time.Now().UTC(),
		"record_count": len(logs),
		"date_range": map[string]any{
			"start": logs[0].CreatedAt,
			"end":   logs[len(logs)-1].CreatedAt,
		},
		"schema_version": "1.0",
		"description":    "eSchool Activity Logs Archive",
	}
	metadataEncoder := json.NewEncoder(metadataFile)
	if err := metadataEncoder.Encode(metadata); err != nil {
		return nil, fmt.Errorf("failed to encode metadata to JSON: %v", err)
	}

	csvFile, err := zipWriter.Create("activity_logs.csv")
	if err != nil {
		return nil, fmt.Errorf("failed to create CSV file in ZIP: %v", err)
	}

	csvFile.Write([]byte("ID,User ID,Username,Role,Action,Resource,Resource ID,IP Address,User Agent,Created At,Details\n"))
	for _, log := range logs {
		details := ""
		if log.Details != nil {
			if detailsBytes, err := json.Marshal(log.Details); err == nil {
				details = strings.ReplaceAll(string(detailsBytes), "\"", "\"\"")
			}
		}

		created := ""
		if log.CreatedAt != nil {
			created = log.CreatedAt.Format("2006-01-02 15:04:05")
		}

		line := fmt.Sprintf("%d,%d,%s,%s,%s,%s,%d,%s,%s,%s,\"%s\"\n",
			log.ID,
			log.UserID,
			log.Username,
			log.UserRole,
			log.Action,
			log.Resource,
			log.ResourceID,
			log.IPAddress,
			log.UserAgent,
			created,
			details,
		)
		csvFile.Write([]byte(line))
	}

	if err := zipWriter.Close(); err != nil {
		return nil, fmt.Errorf("failed to close ZIP writer: %v", err)
	}
	return buf, nil
}

func (ras *ReportArchiveService) uploadToS3(key string, data *bytes.Buffer) error {
	if ras.awsConfig.Region == "" {
		return fmt.Errorf("AWS not configured")
	}

	s3Client := s3.NewFromConfig(ras.awsConfig)
	bucketName := config.AppConfig.S3BucketName

	_, err := s3Client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket:      &bucketName,
		Key:         &key,
		Body:        bytes.NewReader(data.Bytes()),
		ContentType: aws.String("application/zip"),
	})

	return err
}

func (ras *ReportArchiveService) downloadFromS3(key string) (io.ReadCloser, error) {
	if ras.awsConfig.Region == "" {
		return nil, fmt.Errorf("AWS not configured")
	}

	s3Client := s3.NewFromConfig(ras.awsConfig)
	bucketName := config.AppConfig.S3BucketName

	result, err := s3Client.GetObject(context.Background(), &s3.GetObjectInput{
		Bucket: &bucketName,
		Key:    &key,
	})
	if err != nil {
		return nil, err
	}
	return result.Body, nil
}

// GetArchives retrieves the list of recorded exports
func (ras *ReportArchiveService) GetArchives() ([]models.ReportArchive, error) {
	var archives []models.ReportArchive

	err := database.DB.
		Order("created_at DESC").
		Find(&archives).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve archives: %v", err)
	}

	return archives, nil
}

// DownloadArchive downloads a specific archive from S3
func (ras *ReportArchiveService) DownloadArchive(archiveID uint) (io.ReadCloser, string, error) {
	var archive models.ReportArchive

	err := database.DB.First(&archive, archiveID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("failed to retrieve archive: %v", err)
	}

	reader, err := ras.downloadFromS3(archive.S3Key)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download archive from S3: %v", err)
	}

	return reader, archive.FileName, nil
}

// StartMaintenanceScheduler flushes cached logs hourly and archives old
// logs plus the previous month's ledger.
func (ras *ReportArchiveService) StartMaintenanceScheduler() {
	go func() {
		if err := ras.FlushCachedLogsToDatabase(); err != nil {
			logrus.WithError(err).Warn("initial FlushCachedLogsToDatabase failed")
		}
		if err := ras.ArchiveOldLogs(30); err != nil {
			logrus.WithError(err).Warn("initial ArchiveOldLogs failed")
		}

		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		lastExported := ""
		for range ticker.C {
			if err := ras.FlushCachedLogsToDatabase(); err != nil {
				logrus.WithError(err).Warn("periodic FlushCachedLogsToDatabase failed")
			}
			if err := ras.ArchiveOldLogs(30); err != nil {
				logrus.WithError(err).Warn("periodic ArchiveOldLogs failed")
			}

			prev := time.Now().UTC().AddDate(0, -1, 0)
			tag := prev.Format("2006-01")
			if tag != lastExported {
				if err := ras.ExportMonthlyLedger(prev.Year(), prev.Month()); err != nil {
					logrus.WithError(err).Warn("monthly ledger export failed")
				} else {
					lastExported = tag
				}
			}
		}
	}()
}
