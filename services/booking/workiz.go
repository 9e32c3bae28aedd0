package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"junkbutler/models"
)

const DefaultWorkizURL = "https://api.workiz.com/api/v1"

// WorkizSubmitter creates jobs through the Workiz REST API.
type WorkizSubmitter struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewWorkizSubmitter(baseURL, apiKey string, client *http.Client) (*WorkizSubmitter, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("workiz: API key is required")
	}
	if baseURL == "" {
		baseURL = DefaultWorkizURL
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &WorkizSubmitter{baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey, client: client}, nil
}

func (w *WorkizSubmitter) Name() string { return "workiz" }

type workizAddress struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

type workizClient struct {
	FirstName string        `json:"first_name"`
	LastName  string        `json:"last_name"`
	Email     string        `json:"email"`
	Phone     string        `json:"phone"`
	Address   workizAddress `json:"address"`
}

type workizJob struct {
	ServiceType       string  `json:"service_type"`
	ScheduledDate     string  `json:"scheduled_date"`
	ScheduledTimeSlot string  `json:"scheduled_time_slot"`
	Description       string  `json:"description"`
	EstimatedPrice    float64 `json:"estimated_price"`
	Status            string  `json:"status"`
}

type workizJobRequest struct {
	Client workizClient `json:"client"`
	Job    workizJob    `json:"job"`
}

type workizResponse struct {
	JobID   string `json:"job_id"`
	Message string `json:"message"`
}

func workizRequest(rec models.BookingRecord) workizJobRequest {
	return workizJobRequest{
		Client: workizClient{
			FirstName: rec.FirstName,
			LastName:  rec.LastName,
			Email:     rec.Email,
			Phone:     rec.Phone,
			Address:   workizAddress{Street: rec.Address, City: rec.City, State: rec.State, Zip: rec.ZipCode},
		},
		Job: workizJob{
			ServiceType:       "Junk Removal",
			ScheduledDate:     rec.Date,
			ScheduledTimeSlot: rec.TimeSlot,
			Description:       fmt.Sprintf("Items: %s\nSpecial Instructions: %s", strings.Join(rec.Items, ", "), rec.SpecialInstructions),
			EstimatedPrice:    rec.Price,
			Status:            models.BookingStatusScheduled,
		},
	}
}

func (w *WorkizSubmitter) Submit(ctx context.Context, rec models.BookingRecord) (*Submission, error) {
	body, err := json.Marshal(workizRequest(rec))
	if err != nil {
		return nil, fmt.Errorf("workiz: encode job: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.baseURL+"/jobs", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("workiz: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+w.apiKey)

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("workiz: send job: %w", err)
	}
	defer resp.Body.Close()

	var out workizResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&out)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if decodeErr == nil && out.Message != "" {
			return nil, errors.New(out.Message)
		}
		return nil, fmt.Errorf("Failed to create booking in Workiz (status %d)", resp.StatusCode)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("workiz: decode response: %w", decodeErr)
	}
	return &Submission{BookingID: out.JobID, Message: "Booking successfully created in Workiz"}, nil
}
