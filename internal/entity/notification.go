package entity

// NotificationData carries the click-through target of a notification.
type NotificationData struct {
	URL string `json:"url"`
}

// NotificationPayload is the JSON document delivered over the push
// transport and rendered by the browser worker. It is built fresh for
// every delivery attempt and never persisted.
type NotificationPayload struct {
	Title string           `json:"title"`
	Body  string           `json:"body"`
	Icon  string           `json:"icon"`
	Data  NotificationData `json:"data"`
}

// CycleReport summarizes one dispatch cycle after every send attempt
// has resolved.
type CycleReport struct {
	Events    int `json:"events"`
	Attempted int `json:"attempted"`
	Delivered int `json:"delivered"`
	Removed   int `json:"removed"`
	Failed    int `json:"failed"`
}
