package docdex

import (
	"context"
	"time"
)

// QuotaDimension is one of the metered resource types.
type QuotaDimension string

// Metered quota dimensions.
const (
	QuotaSearch    QuotaDimension = "search"
	QuotaSource    QuotaDimension = "source"
	QuotaWorkspace QuotaDimension = "workspace"
	QuotaPage      QuotaDimension = "page"
)

// QuotaDimensions lists all dimensions in a stable order.
var QuotaDimensions = []QuotaDimension{QuotaSearch, QuotaSource, QuotaWorkspace, QuotaPage}

// Valid reports whether d is a known dimension.
func (d QuotaDimension) Valid() bool {
	switch d {
	case QuotaSearch, QuotaSource, QuotaWorkspace, QuotaPage:
		return true
	}
	return false
}

// Unlimited is the sentinel limit value meaning "no limit".
const Unlimited = -1

// QuotaStatus is the result of an admission check for one dimension.
type QuotaStatus struct {
	Dimension QuotaDimension `json:"dimension"`
	Allowed   bool           `json:"allowed"`
	Used      int            `json:"used"`
	Limit     int            `json:"limit"`

	// Percentage is nil for unlimited dimensions. It can exceed 100
	// when usage has overshot the limit.
	Percentage *float64 `json:"percentage,omitempty"`

	// ResetAt is when the counter next resets, if the dimension resets.
	ResetAt *time.Time `json:"resetAt,omitempty"`
}

// NewQuotaStatus derives a status from raw counter values.
func NewQuotaStatus(dim QuotaDimension, used, limit int) *QuotaStatus {
	status := &QuotaStatus{
		Dimension: dim,
		Used:      used,
		Limit:     limit,
	}
	if limit == Unlimited {
		status.Allowed = true
		return status
	}
	status.Allowed = used < limit
	pct := 0.0
	if limit > 0 {
		pct = float64(used) / float64(limit) * 100
	} else if used > 0 {
		pct = 100
	}
	status.Percentage = &pct
	return status
}

// Warning thresholds as percentages of the limit.
const (
	WarnApproachingPct = 80
	WarnCriticalPct    = 100
)

// Quota warning levels.
const (
	WarnApproaching = "approaching_limit"
	WarnCritical    = "critical"
)

// QuotaWarning flags a dimension that is at or near its limit.
type QuotaWarning struct {
	Dimension  QuotaDimension `json:"dimension"`
	Level      string         `json:"level"`
	Used       int            `json:"used"`
	Limit      int            `json:"limit"`
	Percentage float64        `json:"percentage"`
}

// WarningsFromStatuses derives the warning list from a set of statuses.
// Dimensions at or above 100% are critical, at or above 80% approaching;
// unlimited dimensions and dimensions below 80% produce no warning.
func WarningsFromStatuses(statuses []*QuotaStatus) []QuotaWarning {
	var warnings []QuotaWarning
	for _, st := range statuses {
		if st.Percentage == nil {
			continue
		}
		pct := *st.Percentage
		level := ""
		switch {
		case pct >= WarnCriticalPct:
			level = WarnCritical
		case pct >= WarnApproachingPct:
			level = WarnApproaching
		default:
			continue
		}
		warnings = append(warnings, QuotaWarning{
			Dimension:  st.Dimension,
			Level:      level,
			Used:       st.Used,
			Limit:      st.Limit,
			Percentage: pct,
		})
	}
	return warnings
}

// QuotaService performs admission control against per-account counters.
type QuotaService interface {
	// Check returns the admission status for one dimension without
	// consuming quota.
	Check(ctx context.Context, accountID string, dim QuotaDimension) (*QuotaStatus, error)

	// CheckAll returns statuses for every dimension.
	CheckAll(ctx context.Context, accountID string) ([]*QuotaStatus, error)

	// Warnings derives warnings from the current statuses.
	Warnings(ctx context.Context, accountID string) ([]QuotaWarning, error)

	// Consume atomically checks and increments a counter dimension.
	// The returned status reflects the counter after a successful
	// increment; when Allowed is false no quota was consumed. Two
	// concurrent calls must never both take the last remaining unit.
	Consume(ctx context.Context, accountID string, dim QuotaDimension) (*QuotaStatus, error)
}

// Ensure Unmetered implements QuotaService.
var _ QuotaService = (*Unmetered)(nil)

// Unmetered is the QuotaService for self-hosted deployments. Every check
// reports allowed with no limit and Consume never blocks.
type Unmetered struct{}

// Check reports unlimited quota for any account and dimension.
func (Unmetered) Check(_ context.Context, _ string, dim QuotaDimension) (*QuotaStatus, error) {
	return NewQuotaStatus(dim, 0, Unlimited), nil
}

// CheckAll reports unlimited quota for every dimension.
func (u Unmetered) CheckAll(ctx context.Context, accountID string) ([]*QuotaStatus, error) {
	statuses := make([]*QuotaStatus, 0, len(QuotaDimensions))
	for _, dim := range QuotaDimensions {
		st, _ := u.Check(ctx, accountID, dim)
		statuses = append(statuses, st)
	}
	return statuses, nil
}

// Warnings never reports warnings.
func (Unmetered) Warnings(context.Context, string) ([]QuotaWarning, error) {
	return nil, nil
}

// Consume always admits without recording usage.
func (u Unmetered) Consume(ctx context.Context, accountID string, dim QuotaDimension) (*QuotaStatus, error) {
	return u.Check(ctx, accountID, dim)
}
