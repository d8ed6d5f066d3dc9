package services

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"eschool_go/config"
	"eschool_go/database"
	"eschool_go/models"
	"eschool_go/services/notifications"
)

// OverdueScheduler flips past-due fee items to overdue on a daily cron and
// notifies the affected student and parent portals. Persisting the flip keeps
// summary counters and notifications consistent instead of deriving overdue
// on every read.
type OverdueScheduler struct {
	db   *gorm.DB
	cron *cron.Cron
}

// NewOverdueScheduler creates the scheduler bound to the shared DB handle
func NewOverdueScheduler() *OverdueScheduler {
	return &OverdueScheduler{
		db:   database.DB,
		cron: cron.New(),
	}
}

// Start registers the sweep on the configured cron spec and runs one sweep
// immediately so a restarted service catches up.
func (sch *OverdueScheduler) Start() {
	spec := "0 1 * * *"
	if config.AppConfig != nil && config.AppConfig.OverdueSweepSpec != "" {
		spec = config.AppConfig.OverdueSweepSpec
	}

	if _, err := sch.cron.AddFunc(spec, func() {
		if _, err := sch.SweepOverdue(time.Now()); err != nil {
			logrus.WithError(err).Error("Overdue sweep failed")
		}
	}); err != nil {
		logrus.WithError(err).Error("Failed to register overdue sweep cron")
		return
	}
	sch.cron.Start()

	go func() {
		if _, err := sch.SweepOverdue(time.Now()); err != nil {
			logrus.WithError(err).Error("Initial overdue sweep failed")
		}
	}()

	logrus.WithField("spec", spec).Info("Overdue payment scheduler started")
}

// Stop halts the cron loop
func (sch *OverdueScheduler) Stop() {
	if sch.cron != nil {
		sch.cron.Stop()
	}
}

// SweepOverdue marks every pending/partial fee item whose due date has passed
// as overdue and queues a notification per affected student.
func (sch *OverdueScheduler) SweepOverdue(now time.Time) (int, error) {
	today := StartOfDay(now)

	var due []models.Payment
	if err := sch.db.
		Where("status IN ? AND due_date < ?", []string{"pending", "partial"}, today).
		Find(&due).Error; err != nil {
		return 0, err
	}
	if len(due) == 0 {
		return 0, nil
	}

	ids := make([]uint, 0, len(due))
	for _, p := range due {
		ids = append(ids, p.ID)
	}
	if err := sch.db.Model(&models.Payment{}).
		Where("id IN ?", ids).
		Update("status", "overdue").Error; err != nil {
		return 0, err
	}

	logrus.WithField("count", len(due)).Info("Marked past-due fee items overdue")

	sch.notifyOverdue(due)
	return len(due), nil
}

// notifyOverdue tells each affected student (and linked parent) about newly
// overdue charges. Failures here never roll back the sweep.
func (sch *OverdueScheduler) notifyOverdue(items []models.Payment) {
	notifService := notifications.NewService()

	for _, p := range items {
		var student models.Student
		if err := sch.db.First(&student, p.StudentID).Error; err != nil {
			continue
		}

		userIDs := []uint{student.UserID}
		if student.ParentUserID != nil && *student.ParentUserID != 0 {
			userIDs = append(userIDs, *student.ParentUserID)
		}

		title := "Payment overdue"
		message := fmt.Sprintf("%s fee of %.2f due on %s is now overdue.",
			p.PaymentType, p.Outstanding(), p.DueDate.Format("2006-01-02"))

		n := notifications.QueuedWithData(title, message, "warning", map[string]interface{}{
			"payment_id":   p.ID,
			"student_id":   p.StudentID,
			"payment_type": p.PaymentType,
			"outstanding":  p.Outstanding(),
			"due_date":     p.DueDate.Format("2006-01-02"),
		})

		if err := notifService.EnqueueOrCreate(userIDs, n); err != nil {
			logrus.WithError(err).WithField("payment_id", p.ID).Warn("Failed to queue overdue notification")
		}
	}
}
