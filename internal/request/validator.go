package request

import (
	"fmt"
	"time"

	requesterrors "github.com/chikibriki1888/telegram-vacation-bot/internal/request/errors"
	"github.com/chikibriki1888/telegram-vacation-bot/internal/team"
)

// ActivePeriod is an existing pending or approved request considered by
// the overlap policy.
type ActivePeriod struct {
	Start     time.Time
	End       time.Time
	OwnerName string
	OwnerRole string
}

// SubmissionInput carries everything the rule pipeline needs, fetched
// up front so the checks themselves stay pure.
type SubmissionInput struct {
	Start time.Time
	End   time.Time
	Role  string

	Settings       team.TeamSettings
	FirstForbidden *time.Time
	Active         []ActivePeriod
	UsedDays       int
}

// ValidateSubmission runs the rule pipeline in its fixed order and
// stops at the first violation: date range, forbidden dates,
// per-request cap, overlap policy, annual quota.
func ValidateSubmission(in SubmissionInput) error {
	if in.End.Before(in.Start) {
		return requesterrors.Violation("end_date is before start_date")
	}

	if in.FirstForbidden != nil {
		return requesterrors.Violation(fmt.Sprintf(
			"the range contains a forbidden date: %s",
			in.FirstForbidden.Format("2006-01-02"),
		))
	}

	days := TotalDays(in.Start, in.End)
	if days > in.Settings.PerRequestCap {
		return requesterrors.Violation(fmt.Sprintf(
			"request exceeds the per-request cap (%d days)",
			in.Settings.PerRequestCap,
		))
	}

	if err := checkOverlapPolicy(in); err != nil {
		return err
	}

	year := in.Start.Year()
	if in.UsedDays+days > in.Settings.AnnualQuota {
		return requesterrors.Violation(fmt.Sprintf(
			"annual quota for %d exceeded: %d/%d days used",
			year, in.UsedDays, in.Settings.AnnualQuota,
		))
	}

	return nil
}

func checkOverlapPolicy(in SubmissionInput) error {
	if in.Settings.OverlapPolicy == team.OverlapAllowAll {
		return nil
	}

	for _, p := range in.Active {
		if !datesOverlap(in.Start, in.End, p.Start, p.End) {
			continue
		}
		switch in.Settings.OverlapPolicy {
		case team.OverlapDenyAll:
			return requesterrors.Violation(fmt.Sprintf(
				"overlaps with %s's leave (%s - %s), overlapping leave is not allowed",
				p.OwnerName,
				p.Start.Format("2006-01-02"),
				p.End.Format("2006-01-02"),
			))
		case team.OverlapDenySameRole:
			if p.OwnerRole == in.Role {
				return requesterrors.Violation(fmt.Sprintf(
					"overlaps with %s's leave (%s - %s) of the same role",
					p.OwnerName,
					p.Start.Format("2006-01-02"),
					p.End.Format("2006-01-02"),
				))
			}
		}
	}

	return nil
}

func datesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !(aEnd.Before(bStart) || bEnd.Before(aStart))
}

// TotalDays counts calendar days inclusive of both endpoints.
func TotalDays(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}
