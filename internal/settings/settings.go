package settings

import (
	"encoding/json"
	"fmt"
)

// ReminderDays is the set of lead times (days before renewal) that trigger a
// reminder. Older clients persisted a single integer; the JSON form therefore
// accepts both a scalar and an array.
type ReminderDays []int

func (r *ReminderDays) UnmarshalJSON(data []byte) error {
	var many []int
	if err := json.Unmarshal(data, &many); err == nil {
		*r = many
		return nil
	}

	var one int
	if err := json.Unmarshal(data, &one); err != nil {
		return fmt.Errorf("reminder days must be an integer or an array of integers")
	}

	*r = ReminderDays{one}

	return nil
}

// Contains reports whether days is a configured lead time.
func (r ReminderDays) Contains(days int) bool {
	for _, d := range r {
		if d == days {
			return true
		}
	}

	return false
}

// AppSettings is the per-user preference bag. Every other component reads it;
// only the settings handler writes it.
type AppSettings struct {
	Currency           string       `json:"currency"`
	DateFormat         string       `json:"dateFormat"`
	Theme              string       `json:"theme"`
	Language           string       `json:"language"`
	Timezone           string       `json:"timezone"`
	Email              string       `json:"email"`
	EmailNotifications bool         `json:"emailNotifications"`
	PushNotifications  bool         `json:"pushNotifications"`
	WeeklyDigest       bool         `json:"weeklyDigest"`
	MonthlyReport      bool         `json:"monthlyReport"`
	ReminderDays       ReminderDays `json:"reminderDays"`
}

// Defaults returns the settings a fresh account starts with.
func Defaults() AppSettings {
	return AppSettings{
		Currency:           "USD",
		DateFormat:         "2006-01-02",
		Theme:              "dark",
		Language:           "en",
		Timezone:           "UTC",
		EmailNotifications: false,
		PushNotifications:  true,
		WeeklyDigest:       false,
		MonthlyReport:      false,
		ReminderDays:       ReminderDays{7, 3, 1},
	}
}
