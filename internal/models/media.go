package models

import (
	"errors"
	"fmt"
	"time"
)

var ErrRequiredField = errors.New("required field missing")

type MediaRecord struct {
	ID            string    `json:"id" db:"id" bson:"_id"`
	MobileNumber  string    `json:"mobile_number" db:"mobile_number" bson:"mobile_number"`
	PhoneNumberID string    `json:"phone_number_id" db:"phone_number_id" bson:"phone_number_id"`
	MediaID       string    `json:"media_id" db:"media_id" bson:"media_id"`
	Filename      string    `json:"filename" db:"filename" bson:"filename"`
	CreatedAt     time.Time `json:"created_at" db:"created_at" bson:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at" bson:"updated_at"`
}

// Validate is the store-side requiredness check every repository runs before
// inserting a record.
func (m *MediaRecord) Validate() error {
	switch {
	case m.MobileNumber == "":
		return fmt.Errorf("%w: mobile_number", ErrRequiredField)
	case m.PhoneNumberID == "":
		return fmt.Errorf("%w: phone_number_id", ErrRequiredField)
	case m.MediaID == "":
		return fmt.Errorf("%w: media_id", ErrRequiredField)
	case m.Filename == "":
		return fmt.Errorf("%w: filename", ErrRequiredField)
	}
	return nil
}
