package revocation

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ExpiredPruner deletes blacklist records whose token has expired.
type ExpiredPruner interface {
	PruneExpired(ctx context.Context) (int64, error)
}

// Pruner runs ExpiredPruner on a cron schedule.
type Pruner struct {
	target  ExpiredPruner
	cron    *cron.Cron
	log     logrus.FieldLogger
	timeout time.Duration
}

func NewPruner(target ExpiredPruner, schedule string, log logrus.FieldLogger) (*Pruner, error) {
	p := &Pruner{
		target:  target,
		cron:    cron.New(),
		log:     log.WithField("component", "revocation_pruner"),
		timeout: time.Minute,
	}
	if _, err := p.cron.AddFunc(schedule, p.run); err != nil {
		return nil, fmt.Errorf("revocation: invalid prune schedule %q: %w", schedule, err)
	}
	return p, nil
}

func (p *Pruner) Start() {
	p.cron.Start()
	p.log.Info("revocation pruner started")
}

// Stop halts the schedule and waits for a running prune to finish.
func (p *Pruner) Stop() {
	<-p.cron.Stop().Done()
}

// RunOnce prunes immediately.
func (p *Pruner) RunOnce(ctx context.Context) (int64, error) {
	return p.target.PruneExpired(ctx)
}

func (p *Pruner) run() {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	removed, err := p.RunOnce(ctx)
	if err != nil {
		p.log.WithError(err).Error("failed to prune revoked tokens")
		return
	}
	p.log.WithField("removed", removed).Debug("pruned revoked tokens")
}
