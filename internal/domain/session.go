package domain

import "time"

type Session struct {
	ID           string          `json:"id"`
	Subjects     []SubjectRecord `json:"subjects"`
	CreatedAt    time.Time       `json:"createdAt"`
	LastActiveAt time.Time       `json:"lastActiveAt"`
}
