package service

import "github.com/ds124wfegd/abfall-notifier/internal/entity"

// WasteTypes are the known collection categories.
var WasteTypes = []string{"pt", "bio", "gm", "hm", "gs"}

type notificationTemplate struct {
	icon  string
	title string
	body  string
}

var notificationTemplates = map[string]notificationTemplate{
	"pt":  {icon: "/Blau.svg", title: "Papiertonne", body: "Papiertonne"},
	"bio": {icon: "/Braun.svg", title: "Bioabfall", body: "Bioabfall"},
	"gm":  {icon: "/Grün.svg", title: "Grüngutsammlung", body: "Grüngutsammlung"},
	"gs":  {icon: "/Gelb.svg", title: "Gelber Sack", body: "Gelber Sack"},
	"hm":  {icon: "/Schwarz.svg", title: "Hausmüll", body: "Hausmüll"},
}

var fallbackTemplate = notificationTemplate{icon: "/trash-bin.png", title: "Abfall", body: "Abfall"}

// GenerateNotification maps a waste-type code and a date label to the
// payload shown to the subscriber. Unknown codes use the generic
// template. The output is a pure function of the input.
func GenerateNotification(wasteType, dateLabel string) entity.NotificationPayload {
	tpl, ok := notificationTemplates[wasteType]
	if !ok {
		tpl = fallbackTemplate
	}

	return entity.NotificationPayload{
		Title: tpl.title,
		Body:  tpl.body + " • " + dateLabel,
		Icon:  tpl.icon,
		Data:  entity.NotificationData{URL: "/"},
	}
}
