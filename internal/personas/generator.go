// Package personas builds the synthetic recipient populations a simulation
// runs against. Generation is deterministic: the same count and audience
// always produce the same personas, so runs are reproducible and tests can
// assert on exact populations.
package personas

import (
	"fmt"

	"github.com/ignite/audience-simulator/internal/domain"
)

// Audience describes a selectable recipient population.
type Audience struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// archetype is a persona template. Generate stamps out copies with stable
// IDs and numbered names.
type archetype struct {
	role           string
	company        string
	avatar         string
	psychographics string
	pastBehavior   string
}

const (
	AudienceSaaSCTOs           = "saas-ctos"
	AudienceMarketingDirectors = "marketing-directors"
	AudienceSMBOwners          = "smb-owners"
	audienceGeneral            = "general"
)

var audiences = []Audience{
	{ID: AudienceSaaSCTOs, Name: "SaaS CTOs", Description: "Technical executives at B2B software companies"},
	{ID: AudienceMarketingDirectors, Name: "Marketing Directors", Description: "Senior marketers at mid-market companies"},
	{ID: AudienceSMBOwners, Name: "SMB Owners", Description: "Owner-operators of small businesses"},
}

var archetypes = map[string][]archetype{
	AudienceSaaSCTOs: {
		{
			role:           "CTO",
			company:        "Northbeam Analytics",
			avatar:         "🧑‍💻",
			psychographics: "skeptical of vendor outreach, values hard numbers and benchmarks, allergic to buzzwords",
			pastBehavior:   "opens emails about infrastructure costs and security, replies only when there is a concrete technical claim to challenge",
		},
		{
			role:           "VP of Engineering",
			company:        "Relay Systems",
			avatar:         "👩‍💻",
			psychographics: "pragmatic builder, cares about team velocity and on-call load, distrusts silver bullets",
			pastBehavior:   "skims subject lines during standup gaps, clicks through to docs and pricing pages, never replies to cold email",
		},
		{
			role:           "Head of Platform",
			company:        "Quanta Cloud",
			avatar:         "🧔",
			psychographics: "early adopter, reads changelogs for fun, influenced by peer recommendations over marketing copy",
			pastBehavior:   "opens most developer-tool emails, forwards interesting ones to the platform channel, flags aggressive sales cadences as spam",
		},
		{
			role:           "CTO",
			company:        "Brightline Health",
			avatar:         "👨‍⚕️",
			psychographics: "compliance-first, risk averse, evaluates every tool through a HIPAA lens",
			pastBehavior:   "ignores anything that does not mention security or compliance, marks repeat senders as spam",
		},
	},
	AudienceMarketingDirectors: {
		{
			role:           "Marketing Director",
			company:        "Harbor & Lane",
			avatar:         "👩‍💼",
			psychographics: "metrics-driven, lives in attribution dashboards, receptive to case studies with real numbers",
			pastBehavior:   "opens emails with specific percentages in the subject, clicks through to benchmark reports",
		},
		{
			role:           "Head of Growth",
			company:        "Stitchwork",
			avatar:         "🧑‍🎤",
			psychographics: "experiment-obsessed, skeptical of best practices, wants channel-level detail",
			pastBehavior:   "replies to emails that reference her actual campaigns, ignores generic product pitches",
		},
		{
			role:           "Demand Gen Manager",
			company:        "Fieldstone Media",
			avatar:         "👨‍💼",
			psychographics: "budget-constrained, evaluates tools by payback period, wary of long contracts",
			pastBehavior:   "opens pricing-related emails, rarely clicks, flags daily cadences as spam",
		},
	},
	AudienceSMBOwners: {
		{
			role:           "Owner",
			company:        "Cedar Bakery",
			avatar:         "👩‍🍳",
			psychographics: "time-poor, handles email between customers, responds to plain language and local relevance",
			pastBehavior:   "opens short emails from recognizable senders, ignores anything that smells corporate",
		},
		{
			role:           "Owner",
			company:        "Ridgeline Contracting",
			avatar:         "👷",
			psychographics: "word-of-mouth buyer, distrusts online offers, values guarantees in writing",
			pastBehavior:   "ignores most marketing email, occasionally replies to ask a blunt question about price",
		},
		{
			role:           "Founder",
			company:        "Sable & Co. Design",
			avatar:         "🧑‍🎨",
			psychographics: "brand-conscious, notices typography and tone, unsubscribes from anything shouty",
			pastBehavior:   "opens well-designed emails, clicks portfolio and example links, marks all-caps subjects as spam",
		},
	},
	audienceGeneral: {
		{
			role:           "Operations Manager",
			company:        "Meridian Group",
			avatar:         "🧑‍💼",
			psychographics: "process-oriented, keeps a tidy inbox, batch-processes email twice a day",
			pastBehavior:   "opens clearly labeled emails, ignores vague subjects",
		},
		{
			role:           "Business Analyst",
			company:        "Compass Partners",
			avatar:         "👨‍🏫",
			psychographics: "curious, research-driven, reads long-form content when it is relevant",
			pastBehavior:   "clicks through to reports and whitepapers, rarely replies",
		},
		{
			role:           "Office Administrator",
			company:        "Lakeview Services",
			avatar:         "👩‍🏫",
			psychographics: "gatekeeper for purchases, forwards vendor email to decision makers or deletes it",
			pastBehavior:   "opens most email, flags obvious mass sends as spam",
		},
	},
}

// Audiences returns the selectable audience descriptors in stable order.
func Audiences() []Audience {
	out := make([]Audience, len(audiences))
	copy(out, audiences)
	return out
}

// Known reports whether audienceID names a defined audience.
func Known(audienceID string) bool {
	_, ok := archetypes[audienceID]
	return ok && audienceID != audienceGeneral
}

// Generate returns exactly count personas for the given audience, cycling
// through the audience's archetypes. Unknown audiences fall back to the
// general business set. IDs are stable: persona i of a given audience is
// always the same.
func Generate(count int, audienceID string) []domain.Persona {
	if count <= 0 {
		return nil
	}
	templates, ok := archetypes[audienceID]
	if !ok {
		audienceID = audienceGeneral
		templates = archetypes[audienceGeneral]
	}

	out := make([]domain.Persona, 0, count)
	for i := 0; i < count; i++ {
		t := templates[i%len(templates)]
		out = append(out, domain.Persona{
			ID:             fmt.Sprintf("%s-%03d", audienceID, i+1),
			Name:           fmt.Sprintf("%s #%d", t.role, i/len(templates)+1),
			Role:           t.role,
			Company:        t.company,
			Avatar:         t.avatar,
			Psychographics: t.psychographics,
			PastBehavior:   t.pastBehavior,
		})
	}
	return out
}

// Sample returns a small preview population for audience listings.
func Sample(audienceID string) []domain.Persona {
	return Generate(3, audienceID)
}
