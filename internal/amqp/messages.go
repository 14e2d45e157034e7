package amqp

import (
	"encoding/json"
	"time"
)

// Event kinds carried on the bill events queue.
const (
	EventBillPaid    = "bill.paid"
	EventBillChanged = "bill.changed"
)

// BillEventMessage is a lightweight pointer to a bill change. Consumers
// fetch whatever they need from the database; the message only carries
// identity. For EventBillPaid, ArchivedID is the new history record the
// mirror worker appends to the backup spreadsheet.
type BillEventMessage struct {
	Kind       string    `json:"kind"`
	BillID     int64     `json:"bill_id"`
	ArchivedID int64     `json:"archived_id,omitempty"`
	ProfileID  int64     `json:"profile_id"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewBillPaidMessage(billID, archivedID, profileID int64) *BillEventMessage {
	return &BillEventMessage{
		Kind:       EventBillPaid,
		BillID:     billID,
		ArchivedID: archivedID,
		ProfileID:  profileID,
		Timestamp:  time.Now(),
	}
}

func NewBillChangedMessage(billID, profileID int64) *BillEventMessage {
	return &BillEventMessage{
		Kind:      EventBillChanged,
		BillID:    billID,
		ProfileID: profileID,
		Timestamp: time.Now(),
	}
}

func (m *BillEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func BillEventMessageFromJSON(data []byte) (*BillEventMessage, error) {
	var msg BillEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
