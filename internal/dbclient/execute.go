package dbclient

import (
	"context"
	"strings"

	"hostpanel/internal/domain"
)

// Execute runs an ad-hoc statement through the guard.
//
// A blank statement returns (nil, nil). A blocked statement returns a
// *QueryBlockedError and never reaches the host. Connection and engine errors are
// reported as a failed QueryResult with a nil error.
func (b *Browser) Execute(ctx context.Context, cred domain.HostCredential, database, statement string) (*domain.QueryResult, error) {
	if strings.TrimSpace(statement) == "" {
		return nil, nil
	}
	if verb, blocked := b.currentGuard().Check(statement); blocked {
		return nil, &QueryBlockedError{Verb: verb}
	}

	h, err := b.provisioner.Acquire(ctx, cred, database)
	if err != nil {
		return domain.NewQueryFailure(statement, err), nil
	}
	defer h.Close()

	rows, err := h.queryRows(ctx, 0, statement)
	if err != nil {
		b.logger.Debug("query failed", "database", h.database, "error", err)
		return domain.NewQueryFailure(statement, err), nil
	}
	return domain.NewQuerySuccess(statement, rows), nil
}
