package domain

// Persona is a synthetic recipient profile. Personas are produced by a
// generator (or an external source) and are read-only to the simulation
// pipeline.
type Persona struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Role           string `json:"role"`
	Company        string `json:"company"`
	Avatar         string `json:"avatar"`
	Psychographics string `json:"psychographics"`
	PastBehavior   string `json:"pastBehavior"`
}

// Context concatenates the persona's profile fields into the text blob
// scored against the draft subject for relevance.
func (p Persona) Context() string {
	return p.Role + " " + p.Company + " " + p.Psychographics + " " + p.PastBehavior
}
