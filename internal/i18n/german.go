package i18n

var german = map[string]string{
	"Yes":       "Ja",
	"No":        "Nein",
	"Creator":   "Ersteller",
	"Admin":     "Administrator",
	"Moderator": "Moderator",
	"Member":    "Mitglied",
	"Unread":    "Ungelesen",
	"Read":      "Gelesen",

	"Settings":                             "Einstellungen",
	"Activity":                             "Aktivität",
	"Extended Profile Data":                "Erweiterte Profildaten",
	"Private Messages":                     "Private Nachrichten",
	"Group Memberships":                    "Gruppenmitgliedschaften",
	"Pending Group Membership Requests":    "Ausstehende Gruppenbeitrittsanfragen",
	"Pending Group Invitations (Received)": "Ausstehende Gruppeneinladungen (empfangen)",
	"Pending Group Invitations (Sent)":     "Ausstehende Gruppeneinladungen (gesendet)",
	"Friends":                              "Freunde",
	"Pending Friend Requests (Sent)":       "Ausstehende Freundschaftsanfragen (gesendet)",
	"Pending Friend Requests (Received)":   "Ausstehende Freundschaftsanfragen (empfangen)",
	"Notifications":                        "Benachrichtigungen",

	"BuddyPress Settings Data":                        "BuddyPress-Einstellungsdaten",
	"BuddyPress Activity Data":                        "BuddyPress-Aktivitätsdaten",
	"BuddyPress XProfile Data":                        "BuddyPress-Profildaten",
	"BuddyPress Messages":                             "BuddyPress-Nachrichten",
	"BuddyPress Group Memberships":                    "BuddyPress-Gruppenmitgliedschaften",
	"BuddyPress Pending Group Membership Requests":    "BuddyPress ausstehende Gruppenbeitrittsanfragen",
	"BuddyPress Pending Group Invitations (Received)": "BuddyPress ausstehende Gruppeneinladungen (empfangen)",
	"BuddyPress Pending Group Invitations (Sent)":     "BuddyPress ausstehende Gruppeneinladungen (gesendet)",
	"BuddyPress Friends":                              "BuddyPress-Freunde",
	"BuddyPress Friend Requests (Sent)":               "BuddyPress-Freundschaftsanfragen (gesendet)",
	"BuddyPress Friend Requests (Received)":           "BuddyPress-Freundschaftsanfragen (empfangen)",
	"BuddyPress Notifications Data":                   "BuddyPress-Benachrichtigungsdaten",

	"Receive email when a member mentions you in an update?":                                   "E-Mail erhalten, wenn ein Mitglied dich in einem Beitrag erwähnt?",
	"Receive email when a member replies to an update or comment you've posted?":               "E-Mail erhalten, wenn ein Mitglied auf deinen Beitrag oder Kommentar antwortet?",
	"Receive email when a member sends you a new message?":                                     "E-Mail erhalten, wenn dir ein Mitglied eine neue Nachricht sendet?",
	"Receive email when a member invites you to join a group?":                                 "E-Mail erhalten, wenn dich ein Mitglied in eine Gruppe einlädt?",
	"Receive email when group information is updated?":                                         "E-Mail erhalten, wenn Gruppeninformationen aktualisiert werden?",
	"Receive email when you are promoted to a group administrator or moderator?":               "E-Mail erhalten, wenn du zum Gruppenadministrator oder -moderator befördert wirst?",
	"Receive email when a member requests to join a private group for which you are an admin?": "E-Mail erhalten, wenn ein Mitglied den Beitritt zu einer privaten Gruppe anfragt, die du verwaltest?",
	"Receive email when your request to join a group has been approved or denied?":             "E-Mail erhalten, wenn deine Beitrittsanfrage angenommen oder abgelehnt wurde?",
	"Receive group invitations from my friends only?":                                          "Gruppeneinladungen nur von meinen Freunden erhalten?",

	"Activity Date":        "Datum der Aktivität",
	"Activity Description": "Beschreibung der Aktivität",
	"Activity URL":         "URL der Aktivität",
	"Activity Content":     "Inhalt der Aktivität",
	"Message Subject":      "Betreff",
	"Message Content":      "Nachricht",
	"Date Sent":            "Gesendet am",
	"Recipients":           "Empfänger",
	"Thread URL":           "URL der Unterhaltung",
	"Group Name":           "Gruppenname",
	"Group URL":            "URL der Gruppe",
	"Invited By":           "Eingeladen von",
	"Group Role":           "Rolle in der Gruppe",
	"Date Joined":          "Beigetreten am",
	"Sent To":              "Gesendet an",
	"Friend":               "Freund",
	"Initiated By Me":      "Von mir angefragt",
	"Friendship Date":      "Freunde seit",
	"Recipient":            "Empfänger",
	"Requester":            "Anfragender",
	"Notification Content": "Inhalt der Benachrichtigung",
	"Notification Date":    "Datum der Benachrichtigung",
	"Status":               "Status",

	"Personal Data Export": "Export personenbezogener Daten",
	"Table of Contents":    "Inhaltsverzeichnis",
}
