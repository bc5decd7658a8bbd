// internal/views/dashboard/models.go
package dashboard

import (
	"sort"
	"time"

	"github.com/anujsoni3/NovaScore/internal/models"
)

// Snapshot is one consistent refresh: stats and history always come from
// the same round trip.
type Snapshot struct {
	Stats       *models.DashboardStats
	History     []models.AssessmentRecord
	Derived     Derived
	RefreshedAt time.Time
}

type RiskPerformance struct {
	Category     models.RiskCategory
	Total        int
	Approved     int
	ApprovalRate float64
}

type PartnerPerformance struct {
	PartnerType  models.PartnerType
	Total        int
	Approved     int
	ApprovalRate float64
	AvgScore     float64
}

// Derived holds the aggregates computed on the client from stats and history.
type Derived struct {
	AvgLoanAmount      float64
	TotalLoanValue     float64
	RiskPerformance    []RiskPerformance
	PartnerPerformance []PartnerPerformance
	TodayAssessments   int
}

// Empty reports whether nothing could be derived.
func (d Derived) Empty() bool {
	return len(d.RiskPerformance) == 0 && len(d.PartnerPerformance) == 0 && d.TotalLoanValue == 0
}

type Input struct{}

type Output struct {
	Snapshot *Snapshot
}

// ComputeDerived reduces stats and history into the dashboard aggregates.
// Either input being absent yields the zero Derived.
func ComputeDerived(stats *models.DashboardStats, history []models.AssessmentRecord) Derived {
	if stats == nil || history == nil {
		return Derived{}
	}

	var d Derived
	approved := 0
	for i := range history {
		if history[i].LoanApproved {
			approved++
			d.TotalLoanValue += history[i].Amount()
		}
	}
	if approved > 0 {
		d.AvgLoanAmount = d.TotalLoanValue / float64(approved)
	}

	for category := range stats.RiskDistribution {
		p := RiskPerformance{Category: category}
		for i := range history {
			if history[i].RiskCategory != category {
				continue
			}
			p.Total++
			if history[i].LoanApproved {
				p.Approved++
			}
		}
		p.ApprovalRate = rate(p.Approved, p.Total)
		d.RiskPerformance = append(d.RiskPerformance, p)
	}
	sort.Slice(d.RiskPerformance, func(i, j int) bool {
		a, b := d.RiskPerformance[i].Category, d.RiskPerformance[j].Category
		if a.Rank() != b.Rank() {
			return a.Rank() < b.Rank()
		}
		return a < b
	})

	for pt := range stats.PartnerDistribution {
		p := PartnerPerformance{PartnerType: pt}
		var scoreSum float64
		for i := range history {
			if history[i].PartnerType != pt {
				continue
			}
			p.Total++
			scoreSum += history[i].NovaScore
			if history[i].LoanApproved {
				p.Approved++
			}
		}
		p.ApprovalRate = rate(p.Approved, p.Total)
		if p.Total > 0 {
			p.AvgScore = scoreSum / float64(p.Total)
		}
		d.PartnerPerformance = append(d.PartnerPerformance, p)
	}
	sort.Slice(d.PartnerPerformance, func(i, j int) bool {
		a, b := partnerRank(d.PartnerPerformance[i].PartnerType), partnerRank(d.PartnerPerformance[j].PartnerType)
		if a != b {
			return a < b
		}
		return d.PartnerPerformance[i].PartnerType < d.PartnerPerformance[j].PartnerType
	})

	d.TodayAssessments = TodayAssessments(stats)
	return d
}

// TodayAssessments is the count of the most recent daily entry.
func TodayAssessments(stats *models.DashboardStats) int {
	if stats == nil || len(stats.DailyAssessments) == 0 {
		return 0
	}
	return stats.DailyAssessments[len(stats.DailyAssessments)-1].Count
}

func rate(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func partnerRank(pt models.PartnerType) int {
	for i, known := range models.PartnerTypes {
		if known == pt {
			return i
		}
	}
	return len(models.PartnerTypes)
}
