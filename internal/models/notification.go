package models

// Notification is the payload published to the notification queue. The
// consumer picks the transport from Channel: email uses Recipient as an
// address and Subject/Body as the message, whatsapp uses Recipient as a phone
// number and Body as the text.
type Notification struct {
	Channel   string `json:"channel"`
	Recipient string `json:"recipient"`
	Subject   string `json:"subject,omitempty"`
	Body      string `json:"body"`
}
