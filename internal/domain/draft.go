package domain

import "fmt"

// Draft limits enforced by Validate. Oversized drafts blow up prompt size
// and oracle latency long before they hit any storage limit.
const (
	MaxSubjectLen = 200
	MaxBodyLen    = 10000
	MaxCTALen     = 200
	MaxSampleSize = 100
)

// Draft is the email under test. It is owned by the caller and immutable
// for the duration of a simulation run.
type Draft struct {
	Subject    string `json:"subject"`
	Body       string `json:"body"`
	CTA        string `json:"cta"`
	Audience   string `json:"audience"`
	SampleSize int    `json:"sample_size"`
}

// Validate checks the draft against input limits. It returns the first
// violation found.
func (d Draft) Validate() error {
	if d.Subject == "" {
		return fmt.Errorf("subject is required")
	}
	if len(d.Subject) > MaxSubjectLen {
		return fmt.Errorf("subject exceeds %d characters", MaxSubjectLen)
	}
	if d.Body == "" {
		return fmt.Errorf("body is required")
	}
	if len(d.Body) > MaxBodyLen {
		return fmt.Errorf("body exceeds %d characters", MaxBodyLen)
	}
	if len(d.CTA) > MaxCTALen {
		return fmt.Errorf("cta exceeds %d characters", MaxCTALen)
	}
	if d.SampleSize < 1 {
		return fmt.Errorf("sample_size must be at least 1")
	}
	if d.SampleSize > MaxSampleSize {
		return fmt.Errorf("sample_size exceeds %d", MaxSampleSize)
	}
	return nil
}
