package workflow

import (
	"context"

	"github.com/classconduct/conduct-server/internal/db"
	"github.com/classconduct/conduct-server/internal/faults"
	"github.com/classconduct/conduct-server/internal/metrics"
	"github.com/classconduct/conduct-server/internal/models"
	"github.com/classconduct/conduct-server/internal/score"
)

// Resolution reports what an approve/reject did.
type Resolution struct {
	Action    string         `json:"action"`
	StudentID string         `json:"studentId,omitempty"`
	Ledger    *models.Ledger `json:"ledger,omitempty"`
}

// Resolve finishes an application. Approval turns it into an adjustment
// engine call and then deletes the record; rejection deletes it without
// side effect. No terminal state is retained, so resolving an id twice
// fails with not-found — idempotence by absence.
//
// overrideScore, when non-zero, replaces the application's stored score;
// report approvals have no stored delta and require it.
func (w *Workflow) Resolve(ctx context.Context, applicationID, action string, overrideScore int, reviewerID string) (*Resolution, error) {
	if action != models.ActionApprove && action != models.ActionReject {
		return nil, faults.Validationf("unknown action %q", action)
	}

	app, err := db.GetApplication(ctx, w.database, applicationID)
	if err != nil {
		return nil, faults.Storage("get application", err)
	}
	if app == nil {
		return nil, faults.NotFoundf("application %s", applicationID)
	}

	if action == models.ActionReject {
		if err := w.Discard(ctx, applicationID); err != nil {
			return nil, err
		}
		metrics.ApplicationsResolved.WithLabelValues(models.ActionReject).Inc()
		return &Resolution{Action: models.ActionReject, StudentID: app.StudentID}, nil
	}

	adj, err := approvalAdjustment(*app, overrideScore, reviewerID)
	if err != nil {
		return nil, err
	}
	ledger, err := w.engine.Apply(ctx, adj)
	if err != nil {
		return nil, err
	}

	// Delete unconditionally: the entry is already in the ledger and a
	// leftover pending row would invite a double approval.
	if _, err := db.DeleteApplication(ctx, w.database, applicationID); err != nil {
		return nil, faults.Storage("delete application", err)
	}
	metrics.ApplicationsResolved.WithLabelValues(models.ActionApprove).Inc()

	return &Resolution{Action: models.ActionApprove, StudentID: adj.StudentID, Ledger: ledger}, nil
}

// approvalAdjustment maps an approved application onto an engine call.
//
//   - add/deduct: stored type and score (or the reviewer's override).
//   - appeal: compensating add of the disputed deduction's points.
//   - report: deduction from the *reported* student; the reviewer must
//     supply the override since reports carry no delta of their own.
func approvalAdjustment(app models.Application, overrideScore int, reviewerID string) (score.Adjustment, error) {
	magnitude := app.Score
	if overrideScore != 0 {
		magnitude = overrideScore
	}

	adj := score.Adjustment{
		StudentID:       app.StudentID,
		Type:            app.Type,
		Magnitude:       magnitude,
		Reason:          app.Reason,
		Subject:         app.Subject,
		TeacherID:       reviewerID,
		FromApplication: true,
		ApplicationID:   app.ID,
	}

	switch app.Type {
	case models.ApplicationAdd, models.ApplicationDeduct:
		// as stored
	case models.ApplicationAppeal:
		adj.Type = models.EntryAdd
		if overrideScore == 0 && app.OriginalScore != nil {
			adj.Magnitude = *app.OriginalScore
		}
		adj.Reason = "appeal upheld: " + app.Reason
	case models.ApplicationReport:
		if overrideScore <= 0 {
			return score.Adjustment{}, faults.Validationf("report approval requires a score")
		}
		if app.ReportedStudentID == nil {
			return score.Adjustment{}, faults.Validationf("report has no target student")
		}
		adj.StudentID = *app.ReportedStudentID
		adj.Type = models.EntryDeduct
		adj.Magnitude = overrideScore
	default:
		return score.Adjustment{}, faults.Validationf("unknown application type %q", app.Type)
	}
	return adj, nil
}
