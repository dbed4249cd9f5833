package model

import "time"

type Application struct {
	ID          int64             `json:"id"`
	ApplicantID int64             `json:"applicant_id"`
	SchemeID    int64             `json:"scheme_id"`
	Status      ApplicationStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
}
