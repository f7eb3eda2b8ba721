package importer

import (
	"context"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/aster/pkg/kafka"
)

// ImportRequestHandler adapts the orchestrator to the Kafka consumer. Run
// errors propagate so the message is not committed and gets redelivered;
// the run itself is idempotent over person and role creation.
func ImportRequestHandler(orchestrator *Orchestrator, logger ectologger.Logger) kafka.MessageHandler {
	return func(ctx context.Context, msg *kafka.IncomingMessage) error {
		req := msg.ImportRequest

		log := logger.WithContext(ctx).WithFields(map[string]any{
			"tenant_id": req.TenantID,
			"job_id":    req.JobID,
		})
		log.Info("Received import request")

		if _, err := orchestrator.Run(ctx, req.TenantID, req.JobID); err != nil {
			log.WithError(err).Error("Import request failed")
			return err
		}

		return nil
	}
}
