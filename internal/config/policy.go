package config

import "time"

const (
	// Escalation
	ValidationThreshold = 3

	// Points
	CommunityValidReward    = 50
	CommunityInvalidPenalty = -50
	PoliceValidReward       = 200
	PoliceInvalidPenalty    = -200

	// Admin verification
	VerificationCodeTTL    = 10 * time.Minute
	VerificationCodeDigits = 6
)

// SevereCrimeTypes trigger a police alert at submission time,
// independent of community validation.
var SevereCrimeTypes = map[string]bool{
	"homicide": true,
	"assault":  true,
}

// HighRiskCrimeTypes additionally drive the urgent admin notification
// on submission. Armed reports count as high risk regardless of type.
var HighRiskCrimeTypes = map[string]bool{
	"homicide": true,
	"assault":  true,
	"robbery":  true,
}
