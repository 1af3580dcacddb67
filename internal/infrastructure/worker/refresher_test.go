package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"stockval/internal/domain"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeService struct {
	mu    sync.Mutex
	calls []string
	errs  map[string]error
	boom  string
}

func (f *fakeService) RefreshSeries(_ context.Context, symbol string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, symbol)
	if symbol == f.boom {
		panic("boom")
	}
	return f.errs[symbol]
}

func (f *fakeService) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func TestRefresher_RefreshesWatchlist(t *testing.T) {
	svc := &fakeService{}
	w := &Refresher{Service: svc, Symbols: []string{"AAPL", "SAP"}, Every: 10 * time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { w.Start(ctx); close(done) }()

	require.Eventually(t, func() bool { return len(svc.seen()) >= 4 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
	calls := svc.seen()
	require.Equal(t, []string{"AAPL", "SAP", "AAPL", "SAP"}, calls[:4])
}

func TestRefresher_RateLimitEndsRound(t *testing.T) {
	svc := &fakeService{errs: map[string]error{"AAPL": domain.ErrRateLimited}}
	w := &Refresher{Service: svc, Symbols: []string{"AAPL", "SAP"}}
	w.Timeout = time.Second

	w.tick(context.Background(), zapNop())
	require.Equal(t, []string{"AAPL"}, svc.seen())
}

func TestRefresher_FailureAndPanicContinue(t *testing.T) {
	svc := &fakeService{errs: map[string]error{"AAPL": errors.New("down")}, boom: "SAP"}
	w := &Refresher{Service: svc, Symbols: []string{"AAPL", "SAP", "IBM"}, Timeout: time.Second, Log: zapNop()}

	w.tick(context.Background(), zapNop())
	require.Equal(t, []string{"AAPL", "SAP", "IBM"}, svc.seen())
}

func TestRefresher_DisabledReturns(t *testing.T) {
	done := make(chan struct{})
	go func() {
		(&Refresher{Service: &fakeService{}, Symbols: []string{"AAPL"}}).Start(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("refresher without interval should return immediately")
	}
}

func zapNop() *zap.Logger { return zap.NewNop() }
