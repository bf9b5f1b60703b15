package jobs

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"hrinsight/internal/domain/attrition"
)

type fakeRow struct {
	id string
}

func (r fakeRow) Scan(dest ...any) error {
	*(dest[0].(*string)) = r.id
	return nil
}

type execCall struct {
	sql    string
	args   []any
	ctxErr error
}

type fakeDB struct {
	mu        sync.Mutex
	execs     []execCall
	insertErr error
}

func (f *fakeDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("not supported")
}

func (f *fakeDB) QueryRow(ctx context.Context, _ string, _ ...any) pgx.Row {
	f.mu.Lock()
	f.insertErr = ctx.Err()
	f.mu.Unlock()
	return fakeRow{id: "run-1"}
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.execs = append(f.execs, execCall{sql: sql, args: args, ctxErr: ctx.Err()})
	if err := ctx.Err(); err != nil {
		return pgconn.CommandTag{}, err
	}
	return pgconn.NewCommandTag("UPDATE 1"), nil
}

func (f *fakeDB) calls() []execCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]execCall(nil), f.execs...)
}

func TestRunNowRecordsCompletion(t *testing.T) {
	db := &fakeDB{}
	svc := New(db)
	out, err := svc.RunNow(context.Background(), "test_job", "t1", func(context.Context) (any, error) {
		return map[string]int{"processed": 3}, nil
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.(map[string]int)["processed"] != 3 {
		t.Fatalf("unexpected details %v", out)
	}
	calls := db.calls()
	if len(calls) != 1 || calls[0].args[0] != StatusCompleted || calls[0].args[2] != "run-1" {
		t.Fatalf("unexpected update %#v", calls)
	}
	if !strings.Contains(string(calls[0].args[1].([]byte)), `"processed":3`) {
		t.Fatalf("details not stored: %s", calls[0].args[1])
	}
}

func TestRunNowRecordsFailure(t *testing.T) {
	db := &fakeDB{}
	svc := New(db)
	_, err := svc.RunNow(context.Background(), "test_job", "t1", func(context.Context) (any, error) {
		return nil, errors.New("boom")
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	calls := db.calls()
	if len(calls) != 1 || calls[0].args[0] != StatusFailed || !strings.Contains(string(calls[0].args[1].([]byte)), "boom") {
		t.Fatalf("unexpected update %#v", calls)
	}
}

func TestRunNowRecordsFailureAfterCallerCancels(t *testing.T) {
	db := &fakeDB{}
	svc := New(db)
	ctx, cancel := context.WithCancel(context.Background())
	_, err := svc.RunNow(ctx, "test_job", "t1", func(ctx context.Context) (any, error) {
		cancel()
		return nil, ctx.Err()
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	calls := db.calls()
	if len(calls) != 1 || calls[0].ctxErr != nil || calls[0].args[0] != StatusFailed {
		t.Fatalf("expected the run to be marked failed on a live context, got %#v", calls)
	}
}

func TestRunNowRecordsRunForCancelledCaller(t *testing.T) {
	db := &fakeDB{}
	svc := New(db)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.RunNow(ctx, "test_job", "t1", func(context.Context) (any, error) {
		return nil, nil
	}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if db.insertErr != nil {
		t.Fatalf("insert used a cancelled context: %v", db.insertErr)
	}
	if calls := db.calls(); len(calls) != 1 || calls[0].ctxErr != nil {
		t.Fatalf("unexpected update %#v", calls)
	}
}

type signalRecalculator struct {
	tenants chan string
}

func (s signalRecalculator) Recalculate(_ context.Context, tenantID string) (attrition.RecalcSummary, error) {
	s.tenants <- tenantID
	return attrition.RecalcSummary{}, nil
}

func TestEnqueueRecalculationRunsInWorker(t *testing.T) {
	db := &fakeDB{}
	svc := New(db)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx)

	recalc := signalRecalculator{tenants: make(chan string, 1)}
	if !svc.EnqueueRecalculation("t1", recalc) {
		t.Fatalf("expected job to be queued")
	}
	select {
	case tenant := <-recalc.tenants:
		if tenant != "t1" {
			t.Fatalf("unexpected tenant %q", tenant)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("job did not run")
	}
	if calls := db.calls(); len(calls) != 0 {
		t.Fatalf("queued recalculations record their run through the attrition service, got %#v", calls)
	}
}

func TestScheduleRecalculationRejectsBadSpec(t *testing.T) {
	svc := New(&fakeDB{})
	if err := svc.ScheduleRecalculation(context.Background(), "not a cron", nil); err == nil {
		t.Fatalf("expected cron parse error")
	}
}
