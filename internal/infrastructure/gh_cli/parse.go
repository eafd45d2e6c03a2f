package gh_cli

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/davarch/ci-dashboard/internal/domain"
)

// runFields is the --json field list requested from `gh run list`.
const runFields = "status,conclusion,displayTitle,databaseId,workflowName"

type runDTO struct {
	DatabaseID   int64  `json:"databaseId"`
	Status       string `json:"status"`
	Conclusion   string `json:"conclusion"`
	DisplayTitle string `json:"displayTitle"`
	WorkflowName string `json:"workflowName"`
}

// ParseRuns decodes `gh run list --json` output. It returns either every
// record or an error wrapping domain.ErrMalformedOutput, never a prefix.
func ParseRuns(raw []byte) ([]domain.RunRecord, error) {
	body := bytes.TrimSpace(raw)
	if len(body) == 0 || body[0] != '[' {
		return nil, fmt.Errorf("%w: expected a JSON array", domain.ErrMalformedOutput)
	}

	var list []*runDTO
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedOutput, err)
	}

	out := make([]domain.RunRecord, 0, len(list))
	for i, d := range list {
		if d == nil {
			return nil, fmt.Errorf("%w: run %d is null", domain.ErrMalformedOutput, i)
		}
		r := domain.RunRecord{
			ID:           d.DatabaseID,
			Status:       mapStatus(d.Status),
			Title:        d.DisplayTitle,
			WorkflowName: d.WorkflowName,
		}
		if r.Status == domain.RunCompleted {
			r.Conclusion = mapConclusion(d.Conclusion)
		}
		out = append(out, r)
	}
	return out, nil
}

func mapStatus(s string) domain.RunStatus {
	switch s {
	case "queued":
		return domain.RunQueued
	case "in_progress":
		return domain.RunInProgress
	case "completed":
		return domain.RunCompleted
	default:
		return domain.RunOther
	}
}

func mapConclusion(s string) domain.Conclusion {
	switch s {
	case "success":
		return domain.ConclusionSuccess
	case "failure":
		return domain.ConclusionFailure
	case "cancelled":
		return domain.ConclusionCancelled
	default:
		return domain.ConclusionOther
	}
}
