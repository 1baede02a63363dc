package request

import (
	"regexp"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// timeSlotPattern accepts "10:00", "9:30 AM" and ranges like "10:00 - 11:00".
var timeSlotPattern = regexp.MustCompile(
	`^(?:[01]?\d|2[0-3]):[0-5]\d(?:\s?[AaPp][Mm])?(?:\s?-\s?(?:[01]?\d|2[0-3]):[0-5]\d(?:\s?[AaPp][Mm])?)?$`,
)

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterValidators installs the custom binding tags on gin's validator.
// It must run before any route binds a struct using them.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("gin validator engine is not go-playground/validator")
			return
		}
		registerErr = v.RegisterValidation("timeslot", validateTimeSlot)
	})
	return registerErr
}

func validateTimeSlot(fl validator.FieldLevel) bool {
	return IsTimeSlot(fl.Field().String())
}

// IsTimeSlot reports whether s is a slot label.
func IsTimeSlot(s string) bool {
	return timeSlotPattern.MatchString(s)
}
