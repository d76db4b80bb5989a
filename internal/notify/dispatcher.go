// Package notify creates per-user notification records and fans them
// out to computed recipient sets. Everything here is best-effort:
// failures are logged and swallowed, never surfaced to the workflow
// that produced the event.
package notify

import (
	"log"

	"crimewatch/backend/internal/apperr"
	"crimewatch/backend/internal/models"
	"crimewatch/backend/internal/storage"
)

// UrgentSink is an out-of-band channel for urgent admin events, such
// as the telegram bridge or the mailer. Implementations must not
// block long and must swallow their own failures.
type UrgentSink interface {
	SendUrgent(title, message string)
}

// Payload is the common shape for fan-out notifications.
type Payload struct {
	Type      string
	Title     string
	Message   string
	RelatedID string
}

type Dispatcher struct {
	Storage storage.Storage
	Sinks   []UrgentSink
}

func NewDispatcher(s storage.Storage, sinks ...UrgentSink) *Dispatcher {
	return &Dispatcher{Storage: s, Sinks: sinks}
}

// Notify creates a single notification row. The type must be one of
// alert, warning, info, success.
func (d *Dispatcher) Notify(userID, typ, title, message, relatedID string) (*models.Notification, error) {
	if !models.ValidNotificationType(typ) {
		return nil, apperr.Validation("unknown notification type: " + typ)
	}
	n := &models.Notification{
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Message:   message,
		RelatedID: relatedID,
	}
	if err := d.Storage.CreateNotification(n); err != nil {
		return nil, err
	}
	return n, nil
}

// NotifyMany creates one row per recipient, sequentially. There is no
// partial-failure rollback: if one insert fails, prior successes stay
// committed and the failure is only logged.
func (d *Dispatcher) NotifyMany(userIDs []string, p Payload) []models.Notification {
	created := make([]models.Notification, 0, len(userIDs))
	for _, id := range userIDs {
		n, err := d.Notify(id, p.Type, p.Title, p.Message, p.RelatedID)
		if err != nil {
			log.Printf("ERROR: Failed to notify user %s: %v", id, err)
			continue
		}
		created = append(created, *n)
	}
	return created
}

// NotifyAllPublicExcept fans out to every public user, optionally
// skipping one (usually the report submitter).
func (d *Dispatcher) NotifyAllPublicExcept(excludedUserID string, p Payload) []models.Notification {
	ids, err := d.Storage.GetUserIDsByRole(models.RolePublic)
	if err != nil {
		log.Printf("ERROR: Failed to resolve public recipients: %v", err)
		return nil
	}
	if excludedUserID != "" {
		filtered := ids[:0]
		for _, id := range ids {
			if id != excludedUserID {
				filtered = append(filtered, id)
			}
		}
		ids = filtered
	}
	return d.NotifyMany(ids, p)
}

// NotifyAllAdmins fans out to every admin user.
func (d *Dispatcher) NotifyAllAdmins(p Payload) []models.Notification {
	ids, err := d.Storage.GetUserIDsByRole(models.RoleAdmin)
	if err != nil {
		log.Printf("ERROR: Failed to resolve admin recipients: %v", err)
		return nil
	}
	return d.NotifyMany(ids, p)
}

// Drain delivers a list of outbox events produced by a core
// operation. It runs after the primary write has committed; every
// delivery is best-effort.
func (d *Dispatcher) Drain(events []Event) {
	for _, ev := range events {
		p := Payload{Type: ev.Type, Title: ev.Title, Message: ev.Message, RelatedID: ev.RelatedID}

		switch ev.Audience {
		case AudienceAllPublic:
			d.NotifyAllPublicExcept(ev.ExcludeUserID, p)
		case AudienceAllAdmins:
			d.NotifyAllAdmins(p)
		default:
			if ev.UserID != "" {
				if _, err := d.Notify(ev.UserID, ev.Type, ev.Title, ev.Message, ev.RelatedID); err != nil {
					log.Printf("ERROR: Failed to notify user %s: %v", ev.UserID, err)
				}
			}
		}

		if ev.Urgent {
			for _, sink := range d.Sinks {
				sink.SendUrgent(ev.Title, ev.Message)
			}
		}

		if ev.Feed != nil {
			if err := d.Storage.PublishFeedEvent(*ev.Feed); err != nil {
				log.Printf("ERROR: Failed to publish feed event for report %s: %v", ev.Feed.ReportID, err)
			}
		}
	}
}
