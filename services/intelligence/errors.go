package ai

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/api/googleapi"
)

// Category groups upstream failures by what the customer should be told.
type Category string

const (
	CategoryConfig    Category = "config"
	CategoryCanceled  Category = "canceled"
	CategoryInvalid   Category = "invalid_request"
	CategoryRateLimit Category = "rate_limit"
	CategoryAuth      Category = "auth"
	CategoryNetwork   Category = "network"
	CategoryTimeout   Category = "timeout"
	CategoryEmpty     Category = "empty"
	CategoryBilling   Category = "billing"
	CategoryUnknown   Category = "unknown"
)

var categoryMessages = map[Category]string{
	CategoryRateLimit: "I'm getting too many requests right now. Please wait a moment and try again.",
	CategoryAuth:      "My AI brain is not properly configured. Please contact support.",
	CategoryNetwork:   "I'm having trouble connecting to my AI brain. Please check your internet connection.",
	CategoryTimeout:   "My AI brain is taking too long to respond. Please try again.",
	CategoryEmpty:     "I received an empty response. This might be due to reaching my conversation limits.",
	CategoryUnknown:   "Sorry, I'm having trouble connecting to my brain right now.",
}

// Classify maps a provider error onto a Category.
func Classify(err error) Category {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrMissingCredential):
		return CategoryConfig
	case errors.Is(err, context.Canceled):
		return CategoryCanceled
	case errors.Is(err, ErrInvalidHistory):
		return CategoryInvalid
	case errors.Is(err, context.DeadlineExceeded):
		return CategoryTimeout
	}

	if isBilling(err.Error()) {
		return CategoryBilling
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if c := classifyStatus(apiErr.HTTPStatusCode); c != "" {
			return c
		}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if c := classifyStatus(reqErr.HTTPStatusCode); c != "" {
			return c
		}
	}
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		if c := classifyStatus(gErr.Code); c != "" {
			return c
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return CategoryTimeout
		}
		return CategoryNetwork
	}

	msg := strings.ToLower(err.Error())
	switch {
	case containsAny(msg, "rate limit", "too many requests", "quota", "resource_exhausted", "429"):
		return CategoryRateLimit
	case containsAny(msg, "api key", "unauthorized", "unauthenticated", "permission_denied", "authentication"):
		return CategoryAuth
	case containsAny(msg, "timeout", "timed out", "deadline"):
		return CategoryTimeout
	case containsAny(msg, "connection", "network", "no such host", "unreachable", "unavailable", "eof"):
		return CategoryNetwork
	case strings.Contains(msg, "empty"):
		return CategoryEmpty
	}
	return CategoryUnknown
}

// UserMessage is the banner text for err. Billing problems are shown as the
// provider worded them.
func UserMessage(err error) string {
	cat := Classify(err)
	if cat == CategoryBilling {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			return apiErr.Message
		}
		return err.Error()
	}
	if msg, ok := categoryMessages[cat]; ok {
		return msg
	}
	return categoryMessages[CategoryUnknown]
}

// Retryable reports whether a failure of this category may succeed on a later attempt.
func (c Category) Retryable() bool {
	switch c {
	case CategoryConfig, CategoryCanceled, CategoryInvalid:
		return false
	}
	return true
}

func classifyStatus(code int) Category {
	switch {
	case code == http.StatusTooManyRequests:
		return CategoryRateLimit
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return CategoryAuth
	case code == http.StatusRequestTimeout || code == http.StatusGatewayTimeout:
		return CategoryTimeout
	case code == http.StatusBadGateway || code == http.StatusServiceUnavailable:
		return CategoryNetwork
	}
	return ""
}

func isBilling(msg string) bool {
	msg = strings.ToLower(msg)
	return strings.Contains(msg, "please purchase more credits") || strings.Contains(msg, "raise your spending limit")
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
