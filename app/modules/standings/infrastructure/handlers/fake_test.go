package standingshandlers

import (
	"context"
	"sync"

	standingsqueue "github.com/Black-And-White-Club/teamcup/app/modules/standings/infrastructure/queue"
	"github.com/Black-And-White-Club/teamcup/app/observability/attr"
)

// FakeScheduler records scheduled divisions and the correlation id each call carried.
type FakeScheduler struct {
	mu             sync.Mutex
	Divisions      []string
	CorrelationIDs []string

	ScheduleRecomputeFunc func(ctx context.Context, division string) error
	called                chan string
}

func NewFakeScheduler() *FakeScheduler {
	return &FakeScheduler{called: make(chan string, 16)}
}

func (f *FakeScheduler) ScheduleRecompute(ctx context.Context, division string) error {
	f.mu.Lock()
	f.Divisions = append(f.Divisions, division)
	f.CorrelationIDs = append(f.CorrelationIDs, attr.CorrelationIDFrom(ctx))
	f.mu.Unlock()

	var err error
	if f.ScheduleRecomputeFunc != nil {
		err = f.ScheduleRecomputeFunc(ctx, division)
	}
	if f.called != nil {
		f.called <- division
	}
	return err
}

func (f *FakeScheduler) Scheduled() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.Divisions...)
}

var _ standingsqueue.Scheduler = (*FakeScheduler)(nil)
