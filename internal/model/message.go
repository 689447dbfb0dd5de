package model

import (
	"time"

	"github.com/google/uuid"
)

// Sender/receiver model discriminators for Message records.
const (
	ModelAdmin = "Admin"
	ModelUser  = "User"
)

// Message is an admin-to-user inbox record written alongside email
// notifications as an audit trail. Writing it is best-effort: a failure never
// rolls back the order state change it describes.
type Message struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Sender        string    `json:"sender" db:"sender"`
	SenderModel   string    `json:"senderModel" db:"sender_model"`
	Receiver      uuid.UUID `json:"receiver" db:"receiver"`
	ReceiverModel string    `json:"receiverModel" db:"receiver_model"`
	Text          string    `json:"text" db:"text"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}
