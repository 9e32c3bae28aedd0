package booking

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"junkbutler/models"
	"junkbutler/services/normalizer"

	"github.com/go-playground/validator/v10"
)

// FieldError names one invalid booking field by its JSON name.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// ValidationError lists every field that failed validation.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return "invalid booking: " + strings.Join(names, ", ")
}

// Validator checks a booking record against the struct tags and the pickup calendar.
type Validator struct {
	validate *validator.Validate
	loc      *time.Location
}

func NewValidator(loc *time.Location) *Validator {
	if loc == nil {
		loc = time.Local
	}
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("timeslot", func(fl validator.FieldLevel) bool {
		return normalizer.IsValidSlot(fl.Field().String())
	})
	return &Validator{validate: v, loc: loc}
}

// Validate returns a *ValidationError when rec cannot be booked on now's calendar.
// Pickups are never scheduled in the past or on a Sunday.
func (v *Validator) Validate(rec models.BookingRecord, now time.Time) error {
	verr := &ValidationError{}
	if err := v.validate.Struct(rec); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("validate booking: %w", err)
		}
		for _, fe := range fieldErrs {
			verr.Fields = append(verr.Fields, FieldError{Field: fe.Field(), Rule: fe.Tag()})
		}
	}

	if day, err := time.ParseInLocation("2006-01-02", rec.Date, v.loc); err == nil {
		local := now.In(v.loc)
		today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, v.loc)
		switch {
		case day.Before(today):
			verr.Fields = append(verr.Fields, FieldError{Field: "date", Rule: "future"})
		case day.Weekday() == time.Sunday:
			verr.Fields = append(verr.Fields, FieldError{Field: "date", Rule: "not_sunday"})
		}
	}

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}
