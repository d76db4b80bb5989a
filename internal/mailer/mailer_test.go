package mailer_test

import (
	"testing"

	"crimewatch/backend/internal/mailer"

	"github.com/stretchr/testify/assert"
)

type recordingSender struct {
	to, subject, body string
	sends             int
}

func (r *recordingSender) Send(to, subject, body string) {
	r.to, r.subject, r.body = to, subject, body
	r.sends++
}

func TestUrgentMailer_DeliversToAdminAddress(t *testing.T) {
	// Arrange
	sender := &recordingSender{}
	sink := mailer.NewUrgentMailer(sender, "oncall@example.com")

	// Act
	sink.SendUrgent("URGENT: high-risk crime reported", "A high-risk robbery report was filed in Dhaka-Mirpur.")

	// Assert
	assert.Equal(t, 1, sender.sends)
	assert.Equal(t, "oncall@example.com", sender.to)
	assert.Equal(t, "URGENT: high-risk crime reported", sender.subject)
	assert.Contains(t, sender.body, "Dhaka-Mirpur")
}
