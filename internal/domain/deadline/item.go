// internal/domain/deadline/item.go
package deadline

import "time"

// Item is one classified deadline of one subject. It is derived on every
// read and never persisted.
type Item struct {
	SubjectID          int64
	SubjectName        string
	RegistrationNumber string
	Kind               Kind
	Target             time.Time
	DaysLeft           int // signed: negative once the target has passed
	Status             Status
}

// DaysOverdue is the positive number of days past the target, or 0.
func (it Item) DaysOverdue() int {
	if it.DaysLeft >= 0 {
		return 0
	}
	return -it.DaysLeft
}
