package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgressPhoto stores metadata about a photo the client uploads directly to
// object storage through a presigned URL. The file itself lives in S3.
type ProgressPhoto struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	ObjectKey   string             `bson:"objectKey" json:"key"`
	FileURL     string             `bson:"fileUrl" json:"fileUrl"`
	FileName    string             `bson:"fileName,omitempty" json:"fileName,omitempty"`
	ContentType string             `bson:"contentType" json:"contentType"`
	Size        int64              `bson:"size,omitempty" json:"size,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
