package models

import "time"

type Invitation struct {
	Code      string
	CreatedBy int64
	CreatedAt time.Time
	UsedBy    *int64
	UsedAt    *time.Time
}

func (i *Invitation) IsUsed() bool {
	return i.UsedBy != nil
}
