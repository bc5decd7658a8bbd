// internal/views/batch/models.go
package batch

import (
	"github.com/anujsoni3/NovaScore/internal/models"
)

type Input struct {
	Path string `json:"path"`
}

type Output struct {
	Result  *models.BatchResult `json:"result"`
	Summary Summary             `json:"summary"`
}

// Summary holds the figures shown next to a batch result.
type Summary struct {
	TotalProcessed int     `json:"totalProcessed"`
	TotalRows      int     `json:"totalRows"`
	SuccessRate    float64 `json:"successRate"`
	Approved       int     `json:"approved"`
	Rejected       int     `json:"rejected"`
	AverageScore   float64 `json:"averageScore"`
}

// Summarize derives the summary of res. Empty inputs give zeros, never NaN.
func Summarize(res *models.BatchResult) Summary {
	if res == nil {
		return Summary{}
	}
	s := Summary{TotalProcessed: res.TotalProcessed, TotalRows: res.TotalRows}
	if res.TotalRows > 0 {
		s.SuccessRate = float64(res.TotalProcessed) / float64(res.TotalRows) * 100
	}
	var total float64
	for _, r := range res.Results {
		if r.LoanApproved {
			s.Approved++
		} else {
			s.Rejected++
		}
		total += r.NovaScore
	}
	if len(res.Results) > 0 {
		s.AverageScore = total / float64(len(res.Results))
	}
	return s
}
