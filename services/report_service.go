package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/mesaja/seating/models"
)

const dateLayout = "2006-01-02"

// Dashboard is the live summary shown to staff.
type Dashboard struct {
	Waiting        int64 `json:"waiting"`
	CancelledToday int64 `json:"cancelled_today"`
	Promotions     int64 `json:"promotions"`
}

// Report summarizes the queue activity of a range of calendar days.
type Report struct {
	From               string              `json:"from"`
	To                 string              `json:"to"`
	Total              int                 `json:"total"`
	Served             int                 `json:"served"`
	Cancelled          int                 `json:"cancelled"`
	Waiting            int                 `json:"waiting"`
	AverageWaitMinutes int                 `json:"average_wait_minutes"`
	Entries            []models.QueueEntry `json:"entries"`
}

// ReportService derives counts and wait statistics from the queue history.
// It never writes.
type ReportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// QueueDepth counts the parties currently waiting.
func (s *ReportService) QueueDepth(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.QueueEntry{}).
		Where("status = ?", models.QueueWaiting).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count waiting parties: %w", err)
	}
	return count, nil
}

// CancelledOn counts parties that arrived on day and gave up.
func (s *ReportService) CancelledOn(ctx context.Context, day time.Time) (int64, error) {
	start, end := dayRange(day, day)
	var count int64
	err := s.db.WithContext(ctx).Model(&models.QueueEntry{}).
		Where("status = ?", models.QueueCancelled).
		Where("arrival_time >= ? AND arrival_time < ?", start, end).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count cancellations: %w", err)
	}
	return count, nil
}

func (s *ReportService) PromotionCount(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Promotion{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count promotions: %w", err)
	}
	return count, nil
}

func (s *ReportService) Dashboard(ctx context.Context, day time.Time) (*Dashboard, error) {
	waiting, err := s.QueueDepth(ctx)
	if err != nil {
		return nil, err
	}
	cancelled, err := s.CancelledOn(ctx, day)
	if err != nil {
		return nil, err
	}
	promotions, err := s.PromotionCount(ctx)
	if err != nil {
		return nil, err
	}
	return &Dashboard{
		Waiting:        waiting,
		CancelledToday: cancelled,
		Promotions:     promotions,
	}, nil
}

// Report covers every entry that arrived between the calendar days of from
// and to, both included.
func (s *ReportService) Report(ctx context.Context, from, to time.Time) (*Report, error) {
	start, end := dayRange(from, to)
	if !start.Before(end) {
		return nil, &ValidationError{Field: "from", Message: "must not be after to"}
	}

	var entries []models.QueueEntry
	err := s.db.WithContext(ctx).
		Where("arrival_time >= ? AND arrival_time < ?", start, end).
		Order("arrival_time asc").
		Order("id asc").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load report entries: %w", err)
	}

	report := &Report{
		From:               start.Format(dateLayout),
		To:                 end.AddDate(0, 0, -1).Format(dateLayout),
		Total:              len(entries),
		AverageWaitMinutes: AverageWaitMinutes(entries),
		Entries:            entries,
	}
	for _, entry := range entries {
		switch entry.Status {
		case models.QueueServed:
			report.Served++
		case models.QueueCancelled:
			report.Cancelled++
		case models.QueueWaiting:
			report.Waiting++
		}
	}
	return report, nil
}

func (s *ReportService) Daily(ctx context.Context, day time.Time) (*Report, error) {
	return s.Report(ctx, day, day)
}

// Weekly covers the seven days ending on day.
func (s *ReportService) Weekly(ctx context.Context, day time.Time) (*Report, error) {
	return s.Report(ctx, day.AddDate(0, 0, -6), day)
}

// AverageWaitMinutes is the mean wait of the served entries in whole
// minutes, rounded to nearest. Entries without a served time are skipped.
func AverageWaitMinutes(entries []models.QueueEntry) int {
	var total time.Duration
	var served int
	for i := range entries {
		wait, ok := entries[i].Wait()
		if !ok {
			continue
		}
		total += wait
		served++
	}
	if served == 0 {
		return 0
	}
	mean := total.Seconds() / float64(served)
	return int(math.Round(mean / 60))
}

// dayRange returns the half open interval from the start of from's day to
// the start of the day after to.
func dayRange(from, to time.Time) (time.Time, time.Time) {
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	end := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, to.Location()).AddDate(0, 0, 1)
	return start, end
}

// ParseDay parses a YYYY-MM-DD date in local time.
func ParseDay(value string) (time.Time, error) {
	day, err := time.ParseInLocation(dateLayout, value, time.Local)
	if err != nil {
		return time.Time{}, &ValidationError{Field: "date", Message: fmt.Sprintf("%q is not a YYYY-MM-DD date", value)}
	}
	return day, nil
}
