package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Row is one parsed spreadsheet row keyed by header-derived column name.
// Values are int64, float64 or string; blank cells are absent.
type Row = map[string]any

// Dataset is one uploaded document's parsed rows, stored in MongoDB when
// upload persistence is enabled.
type Dataset struct {
	ID         primitive.ObjectID `json:"id"          bson:"_id,omitempty"`
	UploadedBy string             `json:"uploaded_by" bson:"uploaded_by"`
	Filename   string             `json:"filename"    bson:"filename"`
	Rows       []Row              `json:"rows"        bson:"rows"`
	UploadedAt time.Time          `json:"uploaded_at" bson:"uploaded_at"`
}

// UploadRecord is one row of the PostgreSQL uploads audit table.
type UploadRecord struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id,omitempty"`
	Filename  string    `json:"filename"`
	ObjectKey string    `json:"object_key"`
	ByteSize  int64     `json:"byte_size"`
	RowCount  int       `json:"row_count"`
	CreatedAt time.Time `json:"created_at"`
}
