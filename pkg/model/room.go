package model

import "time"

// Room is a bookable meeting room. Rooms are seeded by the migration
// tool and are read-only as far as the services are concerned.
type Room struct {
	ID          string    `json:"id" bson:"_id" validate:"required,uuid"`
	Name        string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Capacity    int       `json:"capacity" bson:"capacity" validate:"required,min=1,max=500"`
	Equipments  []string  `json:"equipments" bson:"equipments" validate:"omitempty,dive,min=1,max=50"`
	Description string    `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=500"`
	ImageURL    string    `json:"image_url,omitempty" bson:"image_url,omitempty" validate:"omitempty,url"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}
