package model

// Location 工作地点表 — 对应 locations
type Location struct {
	LocationID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"location_id"`
	Name       string `gorm:"type:varchar(100);not null;uniqueIndex"         json:"name"`
	Address    string `gorm:"type:varchar(255)"                              json:"address,omitempty"`
	BaseModel
}

func (Location) TableName() string { return "locations" }
