package notify

import "crimewatch/backend/internal/models"

// Audience selectors for fan-out events.
const (
	AudienceUser      = ""
	AudienceAllPublic = "all_public"
	AudienceAllAdmins = "all_admins"
)

// Event is one pending notification side effect. Core operations
// return a list of events instead of calling the dispatcher inline;
// the dispatcher drains the list after the primary write commits, so
// the side-effect set stays auditable and a failed send can never roll
// back a committed report or validation.
type Event struct {
	// UserID targets a single recipient when Audience is empty.
	UserID string
	// Audience selects a role-resolved recipient set instead.
	Audience string
	// ExcludeUserID drops one recipient from an audience fan-out,
	// typically the user who triggered the event.
	ExcludeUserID string

	Type      string
	Title     string
	Message   string
	RelatedID string

	// Urgent forwards the event to the out-of-band admin sinks
	// (telegram, mail) in addition to the notification rows.
	Urgent bool

	// Feed, when set, is additionally broadcast on the live feed.
	Feed *models.FeedEvent
}
