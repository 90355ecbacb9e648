package domain

// NotificationType kind of outgoing customer or admin message
type NotificationType string

const (
	NotificationReservationCreated     NotificationType = "reservation_created"
	NotificationReservationAdminNotice NotificationType = "reservation_admin_notice"
	NotificationReservationConfirmed   NotificationType = "reservation_confirmed"
	NotificationReservationCancelled   NotificationType = "reservation_cancelled"
)

// NotificationMessage is the queue payload consumed by the notifier worker
type NotificationMessage struct {
	Type NotificationType `json:"type"`
	To   string           `json:"to"`
	Name string           `json:"name"`
	Data NotificationData `json:"data"`
}

// NotificationData template fields of a reservation email
type NotificationData struct {
	ReservationID     int64  `json:"reservationId"`
	BusinessName      string `json:"businessName"`
	Service           string `json:"service"`
	Date              string `json:"date"`
	Time              string `json:"time"`
	CustomerName      string `json:"customerName"`
	CustomerEmail     string `json:"customerEmail,omitempty"`
	CustomerPhone     string `json:"customerPhone,omitempty"`
	Token             string `json:"token,omitempty"`
	CancellationToken string `json:"cancellationToken,omitempty"`
	ConfirmURL        string `json:"confirmUrl,omitempty"`
	CancelURL         string `json:"cancelUrl,omitempty"`
	ExpiresAt         string `json:"expiresAt,omitempty"`
}
