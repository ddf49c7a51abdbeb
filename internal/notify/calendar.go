package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/lead-intake/internal/model"
)

// Scheduler books a meeting with a lead.
type Scheduler interface {
	Schedule(ctx context.Context, sub model.Submission, cfg model.ScheduleConfig, mc model.MeetingContext) (string, error)
}

// event is the calendar payload a real integration would create.
type event struct {
	Summary     string
	Description string
	Attendees   []string
	Start       time.Time
	End         time.Time
	Timezone    string
}

// LogScheduler builds the calendar event and logs it instead of booking.
// Real calendar integration is out of scope for this deployment.
type LogScheduler struct {
	investorEmail string
	timezone      string
	now           func() time.Time
}

// NewLogScheduler creates a log-only scheduler. The investor address is
// added as the second attendee on every event.
func NewLogScheduler(investorEmail, timezone string) *LogScheduler {
	zap.L().Info("calendar initialized in logging mode")
	return &LogScheduler{
		investorEmail: investorEmail,
		timezone:      timezone,
		now:           time.Now,
	}
}

// Schedule logs the would-be calendar event and returns a generated
// event id. The slot is the next hour boundary convention from the
// original flow: now+1h for the configured duration.
func (s *LogScheduler) Schedule(_ context.Context, sub model.Submission, cfg model.ScheduleConfig, mc model.MeetingContext) (string, error) {
	start := s.now().Add(time.Hour)
	end := start.Add(time.Duration(cfg.DurationMinutes) * time.Minute)

	ev := event{
		Summary: fmt.Sprintf("Meeting with %s - %s", sub.FullName(), sub.Company),
		Description: fmt.Sprintf("Meeting with %s from %s.\nType: %s\nContext:\n%s",
			sub.FullName(), sub.Company, cfg.MeetingType, mc.FormatText()),
		Attendees: []string{sub.Email, s.investorEmail},
		Start:     start,
		End:       end,
		Timezone:  s.timezone,
	}

	eventID := uuid.NewString()
	zap.L().Info("calendar event would be created",
		zap.String("event_id", eventID),
		zap.String("summary", ev.Summary),
		zap.Strings("attendees", ev.Attendees),
		zap.Time("start", ev.Start),
		zap.Time("end", ev.End),
		zap.String("timezone", ev.Timezone),
	)

	return eventID, nil
}
