package entities

import "time"

// Video is the persisted metadata row for one object in the bucket.
// Column names match the schema the offline population scripts write.
type Video struct {
	ID           int64      `gorm:"column:id;primaryKey;autoIncrement"`
	Name         string     `gorm:"column:name;type:varchar(255);not null"`
	Key          string     `gorm:"column:key;type:varchar(512);uniqueIndex;not null"`
	Size         int64      `gorm:"column:size;not null"`
	LastModified int64      `gorm:"column:lastModified;not null"` // epoch millis
	Favorite     bool       `gorm:"column:favorite;not null;default:false"`
	Prediction   string     `gorm:"column:prediction;type:varchar(128);not null;default:''"`
	Seen         *time.Time `gorm:"column:seen"`
}

func (Video) TableName() string {
	return "videos"
}
