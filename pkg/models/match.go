package models

// MatchMethod is the identifier tier that produced a resolution.
type MatchMethod string

const (
	MatchMethodExternalID MatchMethod = "external_id"
	MatchMethodEmail      MatchMethod = "email"
	MatchMethodPhone      MatchMethod = "phone"
	MatchMethodNone       MatchMethod = "none"
)
