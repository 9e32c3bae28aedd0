package booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	bookingRepo "junkbutler/database/repository/bookings"
	"junkbutler/models"
	"junkbutler/services/tasks"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Tuesday.
var refNow = time.Date(2025, time.June, 10, 15, 4, 0, 0, time.UTC)

func validRecord() models.BookingRecord {
	return models.BookingRecord{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		Phone:     "(650) 253-0000",
		Address:   "123 Main St",
		City:      "Springfield",
		State:     "IL",
		ZipCode:   "62701",
		Date:      "2025-06-11",
		TimeSlot:  "12:00 PM - 2:00 PM",
		Items:     []string{"Furniture"},
		Price:     75,
	}
}

type fakeRepo struct {
	mu       sync.Mutex
	bookings []models.Booking
	fromDate string
	err      error
}

func (r *fakeRepo) Create(ctx context.Context, b models.Booking) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return "", r.err
	}
	r.bookings = append(r.bookings, b)
	return "internal-1", nil
}

func (r *fakeRepo) GetByBookingID(ctx context.Context, bookingID string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.bookings {
		if r.bookings[i].BookingID == bookingID {
			b := r.bookings[i]
			return &b, nil
		}
	}
	return nil, bookingRepo.ErrBookingNotFound
}

func (r *fakeRepo) ListUpcoming(ctx context.Context, fromDate string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fromDate = fromDate
	return r.bookings, nil
}

func (r *fakeRepo) MarkConfirmed(ctx context.Context, bookingID string, at time.Time) error {
	return nil
}

type fakeQueue struct {
	tasks []*asynq.Task
	err   error
}

func (q *fakeQueue) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if q.err != nil {
		return nil, q.err
	}
	q.tasks = append(q.tasks, task)
	return &asynq.TaskInfo{ID: "task-1", Type: task.Type()}, nil
}

type failingSubmitter struct{ err error }

func (f failingSubmitter) Name() string { return "failing" }

func (f failingSubmitter) Submit(ctx context.Context, rec models.BookingRecord) (*Submission, error) {
	return nil, f.err
}

func newTestService(sub Submitter) (*DefaultBookingService, *fakeRepo, *fakeQueue) {
	repo := &fakeRepo{}
	queue := &fakeQueue{}
	svc := NewBookingService(sub, repo, queue, ServiceArea{Prefixes: []string{"627"}}, time.UTC, zap.NewNop())
	svc.Now = func() time.Time { return refNow }
	return svc, repo, queue
}

func TestCreateWithMockSubmitter(t *testing.T) {
	svc, repo, queue := newTestService(&MockSubmitter{})

	res, err := svc.Create(context.Background(), validRecord())
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Regexp(t, `^B\d{1,5}$`, res.BookingID)
	assert.Equal(t, "Booking successfully created (Mock)", res.Message)

	require.Len(t, repo.bookings, 1)
	stored := repo.bookings[0]
	assert.Equal(t, res.BookingID, stored.BookingID)
	assert.Equal(t, "mock", stored.Provider)
	assert.Equal(t, models.BookingStatusScheduled, stored.Status)
	assert.Equal(t, "+16502530000", stored.Record.Phone)

	require.Len(t, queue.tasks, 1)
	p, err := tasks.ParseBookingConfirmation(queue.tasks[0])
	require.NoError(t, err)
	assert.Equal(t, res.BookingID, p.BookingID)
	assert.Equal(t, "jane@example.com", p.Email)
}

func TestCreateRejectsInvalidRecord(t *testing.T) {
	svc, repo, _ := newTestService(&MockSubmitter{})

	rec := validRecord()
	rec.Email = "not-an-email"
	rec.TimeSlot = "6:00 PM - 8:00 PM"
	rec.Items = nil

	_, err := svc.Create(context.Background(), rec)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	fields := map[string]string{}
	for _, f := range verr.Fields {
		fields[f.Field] = f.Rule
	}
	assert.Equal(t, "email", fields["email"])
	assert.Equal(t, "timeslot", fields["timeSlot"])
	assert.Equal(t, "required", fields["items"])
	assert.Empty(t, repo.bookings)
}

func TestValidateCalendarRules(t *testing.T) {
	v := NewValidator(time.UTC)
	cases := []struct {
		date string
		rule string
	}{
		{"2025-06-10", ""},
		{"2025-06-11", ""},
		{"2025-06-09", "future"},
		{"2025-06-15", "not_sunday"},
	}
	for _, tc := range cases {
		t.Run(tc.date, func(t *testing.T) {
			rec := validRecord()
			rec.Date = tc.date
			err := v.Validate(rec, refNow)
			if tc.rule == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, []FieldError{{Field: "date", Rule: tc.rule}}, verr.Fields)
		})
	}
}

func TestCreateSubmissionFailure(t *testing.T) {
	svc, repo, queue := newTestService(failingSubmitter{err: errors.New("upstream down")})

	_, err := svc.Create(context.Background(), validRecord())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream down")
	assert.Empty(t, repo.bookings)
	assert.Empty(t, queue.tasks)
}

func TestCreateKeepsBookingWhenStorageFails(t *testing.T) {
	svc, repo, queue := newTestService(&MockSubmitter{})
	repo.err = errors.New("mongo unavailable")
	queue.err = errors.New("redis unavailable")

	res, err := svc.Create(context.Background(), validRecord())
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestUpcomingPickupsStartsToday(t *testing.T) {
	svc, repo, _ := newTestService(&MockSubmitter{})
	_, err := svc.UpcomingPickups(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2025-06-10", repo.fromDate)
}

func TestWorkizSubmitter(t *testing.T) {
	var got workizJobRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/jobs", r.URL.Path)
		auth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"job_id":"WZ-42"}`))
	}))
	defer srv.Close()

	sub, err := NewWorkizSubmitter(srv.URL+"/", "secret", srv.Client())
	require.NoError(t, err)

	rec := validRecord()
	rec.Items = []string{"Furniture", "Appliances"}
	rec.SpecialInstructions = "Side gate"
	res, err := sub.Submit(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, "WZ-42", res.BookingID)
	assert.Equal(t, "Booking successfully created in Workiz", res.Message)

	assert.Equal(t, "Bearer secret", auth)
	assert.Equal(t, "Jane", got.Client.FirstName)
	assert.Equal(t, "62701", got.Client.Address.Zip)
	assert.Equal(t, "Junk Removal", got.Job.ServiceType)
	assert.Equal(t, "Items: Furniture, Appliances\nSpecial Instructions: Side gate", got.Job.Description)
	assert.Equal(t, "scheduled", got.Job.Status)
	assert.Equal(t, 75.0, got.Job.EstimatedPrice)
}

func TestWorkizSubmitterErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Header.Get("Authorization") {
		case "Bearer bad":
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Invalid API key"}`))
		default:
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`<html>bad gateway</html>`))
		}
	}))
	defer srv.Close()

	sub, err := NewWorkizSubmitter(srv.URL, "bad", srv.Client())
	require.NoError(t, err)
	_, err = sub.Submit(context.Background(), validRecord())
	require.EqualError(t, err, "Invalid API key")

	sub, err = NewWorkizSubmitter(srv.URL, "other", srv.Client())
	require.NoError(t, err)
	_, err = sub.Submit(context.Background(), validRecord())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to create booking in Workiz")

	_, err = NewWorkizSubmitter(srv.URL, " ", nil)
	assert.Error(t, err)
}

func TestDraftFromEstimate(t *testing.T) {
	est := models.CompletedEstimate{
		SessionID:      "dlg-1",
		Items:          []string{"furniture", "old piano"},
		Photos:         []string{"local://dlg-1/couch.jpg"},
		Price:          180,
		Address:        models.Address{Street: "123 Main St", City: "Springfield", State: "IL", Zip: "62701"},
		AccessNotes:    "Second floor, no elevator",
		PickupDate:     "2025-06-11",
		PickupTimeSlot: "12:00 PM - 2:00 PM",
		ContactInfo:    models.ContactInfo{Name: "Jane Q Doe", Phone: "+16502530000", Email: "jane@example.com"},
	}
	rec := DraftFromEstimate(est)
	assert.Equal(t, "dlg-1", rec.EstimateID)
	assert.Equal(t, "Jane", rec.FirstName)
	assert.Equal(t, "Q Doe", rec.LastName)
	assert.Equal(t, []string{"Furniture", "old piano"}, rec.Items)
	assert.Equal(t, "Second floor, no elevator", rec.SpecialInstructions)
	assert.Equal(t, "Springfield", rec.City)
	assert.Equal(t, "2025-06-11", rec.Date)

	guided := models.CompletedEstimate{
		Items:       []string{"appliances"},
		AccessNotes: "No special access notes",
		ContactInfo: models.ContactInfo{Name: "Not provided", Phone: "Not provided", Email: "Not provided"},
	}
	rec = DraftFromEstimate(guided)
	assert.Empty(t, rec.FirstName)
	assert.Empty(t, rec.Phone)
	assert.Empty(t, rec.Email)
	assert.Empty(t, rec.SpecialInstructions)
	assert.Equal(t, []string{"Appliances"}, rec.Items)
	assert.NotNil(t, rec.Photos)
}

func TestServiceArea(t *testing.T) {
	area := ServiceArea{Prefixes: []string{"900", "941"}}

	res, err := area.Check("94107")
	require.NoError(t, err)
	assert.True(t, res.Available)

	res, err = area.Check(" 10001 ")
	require.NoError(t, err)
	assert.False(t, res.Available)
	assert.Equal(t, "10001", res.Zip)

	_, err = area.Check("9410")
	assert.ErrorIs(t, err, ErrInvalidZip)

	res, err = ServiceArea{}.Check("10001")
	require.NoError(t, err)
	assert.True(t, res.Available)
}
