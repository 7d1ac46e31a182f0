// Package report assembles and exports the operational monitoring reports.
package report

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/pieinspace/runTrackingAdmin/internal/domain"
)

// Type identifies one of the monitoring reports the admin panel offers.
type Type string

const (
	TypeActive   Type = "active"
	TypeTarget   Type = "target"
	TypeFourteen Type = "14km"
)

// ParseType validates a report type selector.
func ParseType(raw string) (Type, error) {
	switch Type(raw) {
	case TypeActive, TypeTarget, TypeFourteen:
		return Type(raw), nil
	}
	return "", fmt.Errorf("unknown report type %q", raw)
}

// Title returns the printed report heading.
func (t Type) Title() string {
	switch t {
	case TypeFourteen:
		return "Laporan Khusus Target 14 KM"
	case TypeTarget:
		return "Laporan Pencapaian Target"
	default:
		return "Laporan Pelari Aktif"
	}
}

// Filename derives the deterministic artifact name for a report download.
func Filename(t Type, period domain.Period, ext string) string {
	return fmt.Sprintf("laporan-%s-%s.%s", t, period, ext)
}

// Row is one line of a rendered report. Rows are ephemeral projections and
// live only for a single report-generation call.
type Row struct {
	No          int
	RunnerID    string
	Name        string
	Rank        string
	DistanceKM  float64
	TimeTaken   string
	Pace        string
	Date        string
	StatusLabel string

	date time.Time
}

// Options narrow and contextualize a report dataset.
type Options struct {
	// Search matches case-insensitively against name, identifier and rank.
	Search string
	Period domain.Period
	// Now anchors the period filter; the zero value means the wall clock.
	Now    time.Time
	Logger *log.Logger
}

func (o Options) now() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}
	return o.Now
}

func (o Options) logger() *log.Logger {
	if o.Logger == nil {
		return log.Default()
	}
	return o.Logger
}

// FromTargets builds report rows from target achievements. Ordering is
// achieved date descending, then distance descending, stable for exact ties.
func FromTargets(targets []domain.TargetAchievement, opts Options) []Row {
	rows := make([]Row, 0, len(targets))
	for _, t := range targets {
		rows = append(rows, Row{
			RunnerID:    t.RunnerID,
			Name:        t.RunnerName,
			Rank:        t.RunnerRank,
			DistanceKM:  t.DistanceKM,
			TimeTaken:   domain.FormatTime(t.DurationSec),
			Pace:        domain.FormatPace(t.DurationSec, t.DistanceKM),
			Date:        FormatDateID(t.AchievedDate),
			StatusLabel: ValidationLabel(t.Validation),
			date:        t.AchievedDate,
		})
	}
	return finalize(rows, opts)
}

// FromRunners builds report rows from runner totals for the active and
// target-progress reports. Session-level time and pace are not recorded on
// the runner aggregate, so those columns carry the "-" placeholder.
func FromRunners(runners []domain.Runner, opts Options) []Row {
	rows := make([]Row, 0, len(runners))
	for _, r := range runners {
		rows = append(rows, Row{
			RunnerID:    r.ID,
			Name:        r.Name,
			Rank:        r.Rank,
			DistanceKM:  r.TotalDistanceKM,
			TimeTaken:   "-",
			Pace:        "-",
			Date:        FormatDateID(r.CreatedAt),
			StatusLabel: StatusLabel(domain.Classify(r.TotalDistanceKM)),
			date:        r.CreatedAt,
		})
	}
	return finalize(rows, opts)
}

func finalize(rows []Row, opts Options) []Row {
	rows = filter(rows, opts)

	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].date.Equal(rows[j].date) {
			return rows[i].date.After(rows[j].date)
		}
		return rows[i].DistanceKM > rows[j].DistanceKM
	})

	// Display index is contiguous over the filtered set, never the source order.
	for i := range rows {
		rows[i].No = i + 1
	}
	return rows
}

func filter(rows []Row, opts Options) []Row {
	query := strings.ToLower(strings.TrimSpace(opts.Search))
	period := opts.Period
	if period == "" {
		period = domain.PeriodAll
	}
	now := opts.now()

	out := rows[:0]
	for _, row := range rows {
		if query != "" &&
			!strings.Contains(strings.ToLower(row.Name), query) &&
			!strings.Contains(strings.ToLower(row.RunnerID), query) &&
			!strings.Contains(strings.ToLower(row.Rank), query) {
			continue
		}
		if period != domain.PeriodAll {
			if row.date.IsZero() {
				// Records without a parseable date are included rather than
				// silently dropped; flag them for operator attention.
				opts.logger().Printf("report: row %s has no achieved date, including in %s window", row.RunnerID, period)
			} else if !period.Contains(row.date, now) {
				continue
			}
		}
		out = append(out, row)
	}
	return out
}

// ValidationLabel maps a validation status onto its printed label.
func ValidationLabel(status domain.ValidationStatus) string {
	if status == domain.ValidationValidated {
		return "Tervalidasi"
	}
	return "Pending"
}

// StatusLabel maps an achievement status onto its printed label.
func StatusLabel(status domain.AchievementStatus) string {
	switch status {
	case domain.StatusAchieved:
		return "Tercapai"
	case domain.StatusInProgress:
		return "Dalam Proses"
	default:
		return "Belum Mulai"
	}
}

var monthsID = [...]string{"Jan", "Feb", "Mar", "Apr", "Mei", "Jun", "Jul", "Agu", "Sep", "Okt", "Nov", "Des"}

// FormatDateID renders a date the way the admin panel prints it (02 Jan 2026).
// The zero value renders as the "-" placeholder.
func FormatDateID(date time.Time) string {
	if date.IsZero() {
		return "-"
	}
	return fmt.Sprintf("%02d %s %d", date.Day(), monthsID[date.Month()-1], date.Year())
}
