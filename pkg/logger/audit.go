package logger

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuditLogger writes admin and payment audit trails through the main logger.
type AuditLogger struct {
	logger *Logger
}

func NewAuditLogger(base *Logger) *AuditLogger {
	return &AuditLogger{
		logger: base.WithField("type", "audit"),
	}
}

func (a *AuditLogger) LogAction(action, resource string, actorID *primitive.ObjectID, details map[string]interface{}) {
	fields := map[string]interface{}{
		"action":    action,
		"resource":  resource,
		"timestamp": time.Now().UTC(),
	}

	if actorID != nil {
		fields["actor_id"] = actorID.Hex()
	}

	for k, v := range details {
		fields[k] = v
	}

	a.logger.WithFields(fields).Info("Audit log entry")
}

func (a *AuditLogger) LogPaymentAudit(paymentID primitive.ObjectID, amount int64, currency, gateway, status string) {
	a.logger.WithFields(map[string]interface{}{
		"payment_id": paymentID.Hex(),
		"amount":     amount,
		"currency":   currency,
		"gateway":    gateway,
		"status":     status,
	}).Info("Payment audit logged")
}
