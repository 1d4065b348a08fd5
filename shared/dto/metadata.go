package dto

import (
	"time"

	"evotodo/shared/model"
)

// Metadata is the response-side shape of model.Metadata. Timestamps are
// rendered ISO-8601 in UTC.
type Metadata struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (m *Metadata) FromModel(meta model.Metadata) {
	m.CreatedAt = meta.CreatedAt.UTC()
	m.UpdatedAt = meta.UpdatedAt.UTC()
}
