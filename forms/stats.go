package forms

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/jmorel/formwell/model"
)

const recentWindow = 7 * 24 * time.Hour

// Stats aggregates submission counts for a form. CompletionRate stays a
// fixed placeholder until a real completion funnel is designed, and
// AverageCompletionTime is not tracked yet.
func (s *Service) Stats(ctx context.Context, formID string) (model.FormStats, error) {
	if _, err := getForm(ctx, s.db, formID); err != nil {
		return model.FormStats{}, err
	}

	stats := model.FormStats{CompletionRate: 1.0}

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM form_response WHERE form_id = ?`,
		formID,
	).Scan(&stats.TotalResponses)
	if err != nil {
		return model.FormStats{}, errors.Wrap(err, "count responses")
	}

	since := time.Now().UTC().Add(-recentWindow)
	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM form_response
		WHERE form_id = ? AND submitted_at >= ?`,
		formID, since,
	).Scan(&stats.RecentResponses)
	if err != nil {
		return model.FormStats{}, errors.Wrap(err, "count recent responses")
	}

	return stats, nil
}
