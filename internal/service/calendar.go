package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/atinyakov/homehub/internal/models"
	"go.uber.org/zap"
)

// SourceICal marks kids events imported from an iCalendar feed.
const SourceICal = "ical"

// ErrFeedUnavailable wraps every failure to download or parse a feed.
var ErrFeedUnavailable = errors.New("calendar feed unavailable")

const eventTimeLayout = "15:04"

// KidsEventRepository is the persistence needed by CalendarService.
type KidsEventRepository interface {
	List(ctx context.Context) ([]models.KidsEvent, error)
	Create(ctx context.Context, in models.KidsEventInput) (models.KidsEvent, error)
	Update(ctx context.Context, id int64, p models.KidsEventPatch) (*models.KidsEvent, error)
	GetBySource(ctx context.Context, source, sourceID string) (*models.KidsEvent, error)
}

// ImportResult counts what an import did.
type ImportResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// CalendarService imports kids events from iCalendar feeds and exports
// them as one.
type CalendarService struct {
	repo KidsEventRepository
	log  *zap.Logger

	// Client downloads feeds.
	Client *http.Client
	// Location is used for timed events.
	Location *time.Location
	// Now stamps exported events.
	Now func() time.Time
	// MaxFeedBytes bounds a downloaded feed; larger feeds fail the import.
	MaxFeedBytes int64
}

// DefaultMaxFeedBytes is the feed size limit set by NewCalendarService.
const DefaultMaxFeedBytes = 5 << 20

// NewCalendarService constructs a CalendarService with a 10 second HTTP
// timeout in the local time zone.
func NewCalendarService(repo KidsEventRepository, log *zap.Logger) *CalendarService {
	return &CalendarService{
		repo:     repo,
		log:      log,
		Client:   &http.Client{Timeout: 10 * time.Second},
		Location: time.Local,
		Now:      time.Now,

		MaxFeedBytes: DefaultMaxFeedBytes,
	}
}

// Import downloads the feed at url and upserts its events by UID. Events
// already imported are updated in place; user-only fields (child name,
// reminder) are kept.
func (s *CalendarService) Import(ctx context.Context, url string) (ImportResult, error) {
	var result ImportResult

	cal, err := s.fetch(ctx, url)
	if err != nil {
		return result, err
	}

	for _, e := range cal.Events() {
		in, err := s.toInput(e)
		if err != nil {
			s.log.Warn("skipping calendar event", zap.String("url", url), zap.Error(err))
			result.Skipped++
			continue
		}

		existing, err := s.repo.GetBySource(ctx, SourceICal, *in.SourceID)
		if err != nil {
			return result, fmt.Errorf("look up event %q: %w", *in.SourceID, err)
		}
		if existing == nil {
			if _, err := s.repo.Create(ctx, in.WithDefaults()); err != nil {
				return result, fmt.Errorf("create event %q: %w", *in.SourceID, err)
			}
			result.Created++
			continue
		}

		patch := models.KidsEventPatch{
			Title:       &in.Title,
			EventDate:   &in.EventDate,
			EventTime:   optionalOf(in.EventTime),
			Location:    optionalOf(in.Location),
			Description: optionalOf(in.Description),
		}
		if _, err := s.repo.Update(ctx, existing.ID, patch); err != nil {
			return result, fmt.Errorf("update event %q: %w", *in.SourceID, err)
		}
		result.Updated++
	}

	s.log.Info("calendar imported",
		zap.String("url", url),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

func (s *CalendarService) fetch(ctx context.Context, url string) (*ical.Calendar, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFeedUnavailable, err)
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: http get: %v", ErrFeedUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrFeedUnavailable, resp.StatusCode)
	}

	body := &cappedReader{r: io.LimitReader(resp.Body, s.MaxFeedBytes+1), left: s.MaxFeedBytes}
	cal, err := ical.ParseCalendar(body)
	if body.exceeded {
		return nil, fmt.Errorf("%w: feed exceeds %d bytes", ErrFeedUnavailable, s.MaxFeedBytes)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: parsing ical: %v", ErrFeedUnavailable, err)
	}
	return cal, nil
}

// cappedReader passes through at most left bytes and records whether the
// source had more.
type cappedReader struct {
	r        io.Reader
	left     int64
	exceeded bool
}

func (c *cappedReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if int64(n) > c.left {
		c.exceeded = true
		n = int(c.left)
	}
	c.left -= int64(n)
	if c.exceeded {
		return n, io.EOF
	}
	return n, err
}

func (s *CalendarService) toInput(e *ical.VEvent) (models.KidsEventInput, error) {
	var in models.KidsEventInput

	uid := propertyValue(e, ical.ComponentPropertyUniqueId)
	if uid == "" {
		return in, errors.New("missing UID")
	}

	in.Title = propertyValue(e, ical.ComponentPropertySummary)
	if in.Title == "" {
		in.Title = "(No title)"
	}

	start := e.GetProperty(ical.ComponentPropertyDtStart)
	if start == nil {
		return in, fmt.Errorf("missing DTSTART for event %q", in.Title)
	}

	if isAllDay(start) {
		t, err := e.GetAllDayStartAt()
		if err != nil {
			return in, fmt.Errorf("parsing DTSTART for event %q: %w", in.Title, err)
		}
		in.EventDate = models.DateOf(t)
	} else {
		t, err := e.GetStartAt()
		if err != nil {
			return in, fmt.Errorf("parsing DTSTART for event %q: %w", in.Title, err)
		}
		t = t.In(s.location())
		in.EventDate = models.DateOf(t)
		clock := t.Format(eventTimeLayout)
		in.EventTime = &clock
	}

	in.Location = stringPtr(propertyValue(e, ical.ComponentPropertyLocation))
	in.Description = stringPtr(propertyValue(e, ical.ComponentPropertyDescription))
	in.Source = SourceICal
	in.SourceID = &uid
	return in, in.Validate()
}

// Export writes every kids event as a VCALENDAR document.
func (s *CalendarService) Export(ctx context.Context, w io.Writer) error {
	events, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("list kids events: %w", err)
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//HomeHub//Kids Events//EN")
	cal.SetName("Kids events")

	stamp := s.Now().UTC()
	for _, ev := range events {
		day, err := ev.EventDate.Time()
		if err != nil {
			s.log.Warn("skipping kids event with bad date", zap.Int64("id", ev.ID), zap.Error(err))
			continue
		}

		vevent := cal.AddEvent(exportUID(ev))
		vevent.SetDtStampTime(stamp)
		vevent.SetSummary(ev.Title)
		if ev.Location != nil {
			vevent.SetLocation(*ev.Location)
		}
		if ev.Description != nil {
			vevent.SetDescription(*ev.Description)
		}

		clock, timed := parseClock(ev.EventTime)
		if !timed {
			vevent.SetAllDayStartAt(day)
			vevent.SetAllDayEndAt(day.AddDate(0, 0, 1))
			continue
		}
		start := time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, s.location())
		vevent.SetStartAt(start)
		vevent.SetEndAt(start.Add(time.Hour))
	}

	if _, err := io.WriteString(w, cal.Serialize()); err != nil {
		return fmt.Errorf("write calendar: %w", err)
	}
	return nil
}

func (s *CalendarService) location() *time.Location {
	if s.Location == nil {
		return time.Local
	}
	return s.Location
}

func exportUID(ev models.KidsEvent) string {
	if ev.Source == SourceICal && ev.SourceID != nil {
		return *ev.SourceID
	}
	return fmt.Sprintf("kids-event-%d@homehub", ev.ID)
}

// parseClock accepts "HH:MM"; anything else means an all-day event.
func parseClock(s *string) (time.Time, bool) {
	if s == nil {
		return time.Time{}, false
	}
	t, err := time.Parse(eventTimeLayout, strings.TrimSpace(*s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func propertyValue(e *ical.VEvent, p ical.ComponentProperty) string {
	if prop := e.GetProperty(p); prop != nil {
		return strings.TrimSpace(prop.Value)
	}
	return ""
}

func isAllDay(prop *ical.IANAProperty) bool {
	for _, values := range prop.ICalParameters {
		for _, v := range values {
			if strings.EqualFold(v, "DATE") {
				return true
			}
		}
	}
	return len(strings.TrimSpace(prop.Value)) == 8
}

func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optionalOf(v *string) models.Optional[string] {
	if v == nil {
		return models.Null[string]()
	}
	return models.Some(*v)
}
