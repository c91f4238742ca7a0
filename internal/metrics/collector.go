package metrics

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/joestump/bytevault/internal/store"
)

// TotalsSource reports instance-wide row counts.
type TotalsSource interface {
	Totals(ctx context.Context) (store.Totals, error)
}

// RunTotalsCollector sets the row-count gauges now and every interval after
// until ctx is done.
func RunTotalsCollector(ctx context.Context, src TotalsSource, interval time.Duration, log logrus.FieldLogger) {
	collect := func() {
		t, err := src.Totals(ctx)
		if err != nil {
			if ctx.Err() == nil {
				log.WithError(err).Warn("collect row totals")
			}
			return
		}
		UsersTotal.Set(float64(t.Users))
		LinksTotal.Set(float64(t.Links))
		SessionsTotal.Set(float64(t.Sessions))
	}

	collect()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			collect()
		}
	}
}
