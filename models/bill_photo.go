package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Bill photo verification states.
const (
	BillUploaded   = "uploaded"
	BillProcessing = "processing"
	BillVerified   = "verified"
	BillRejected   = "rejected"
)

// MaxBillPhotoSize is the upload cap for bill photos.
const MaxBillPhotoSize = 5 << 20 // 5MB

// BillPhoto is the uploaded vape-shop bill attached to an application.
// At most one per application; replaced on re-upload.
type BillPhoto struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID `bson:"user_id" json:"userId"`
	ApplicationID primitive.ObjectID `bson:"application_id" json:"applicationId"`
	Filename      string             `bson:"filename" json:"filename"`
	OriginalName  string             `bson:"original_name" json:"originalName"`
	Mimetype      string             `bson:"mimetype" json:"mimetype"`
	Size          int64              `bson:"size" json:"size"`
	StorageKey    string             `bson:"storage_key" json:"-"`
	Status        string             `bson:"status" json:"status"`
	UploadedAt    time.Time          `bson:"uploaded_at" json:"uploadedAt"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updatedAt"`
}
