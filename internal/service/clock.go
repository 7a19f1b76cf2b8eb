package service

import (
	"time"

	"github.com/hongminglow/finance-be/internal/models"
)

// Clock supplies the current time; tests substitute a fixed one.
type Clock func() time.Time

// SystemClock reads the wall clock.
func SystemClock() Clock { return time.Now }

// Today is the current calendar day in the clock's location.
func (c Clock) Today() models.Date {
	if c == nil {
		return models.DateOf(time.Now())
	}
	return models.DateOf(c())
}
