package scans

import (
	"time"
)

// RecordID identifies a stored scan record
type RecordID string

// Kind enum
type Kind string

const (
	KindMessage Kind = "message"
	KindURL     Kind = "url"
)

func (k Kind) Valid() bool {
	return k == KindMessage || k == KindURL
}

// Input is the content submitted for scanning.
type Input struct {
	Kind Kind   `json:"type"`
	Text string `json:"content"`
}

// Analysis is attached to URL verdicts only.
type Analysis struct {
	Length          int       `json:"length"`
	HasSecureScheme bool      `json:"hasSecureScheme"`
	ScannedAt       time.Time `json:"scannedAt"`
}

// Verdict value object
type Verdict struct {
	IsSafe     bool      `json:"isSafe"`
	RiskScore  int       `json:"riskScore"`
	Categories []string  `json:"categories"`
	Reason     string    `json:"reason,omitempty"`
	Analysis   *Analysis `json:"analysis,omitempty"`
}

// Record is an immutable stored evaluation. Seq is assigned by the store and
// breaks ties between records created at the same instant.
type Record struct {
	ID        RecordID  `json:"id"`
	UserID    string    `json:"userId"`
	Input     Input     `json:"input"`
	Verdict   Verdict   `json:"verdict"`
	CreatedAt time.Time `json:"createdAt"`
	Seq       int64     `json:"-"`
}

// UnsafeStatsThreshold marks a URL scan as unsafe in dashboard counters.
const UnsafeStatsThreshold = 70

// Stats aggregates a user's URL scans for the dashboard.
type Stats struct {
	Total        int64
	Safe         int64
	Unsafe       int64
	AvgRiskScore float64
}
