// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package storage

import (
	"time"

	"github.com/jgray-dev/swv3-sub000/internal/aggregate"
	"github.com/jgray-dev/swv3-sub000/internal/event"
)

// Upload is a finished sky quality result together with its location and statistics.
type Upload struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	CreatedAt time.Time `json:"created_at"`

	Latitude  float64 `gorm:"index" json:"latitude" validate:"latitude"`
	Longitude float64 `gorm:"index" json:"longitude" validate:"longitude"`
	Rating    int     `json:"rating" validate:"min=0,max=100"`
	ImageID   string  `gorm:"uniqueIndex" json:"image_id" validate:"required"`
	City      string  `json:"city"`

	Data aggregate.Stats `gorm:"serializer:json" json:"data"`
	Time int64           `gorm:"index" json:"time" validate:"gt=0"`
	Type event.Type      `json:"type" validate:"oneof=sunrise sunset"`
}
