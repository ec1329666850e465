package services_test

import (
	"context"
	"sync"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type fakeTxManager struct{}

type fakeSession struct{ ctx context.Context }

func (fakeTxManager) WithinTx(ctx context.Context, _ txmanager.TxOptions, fn func(context.Context, txmanager.Session) error) error {
	return fn(ctx, fakeSession{ctx: ctx})
}

func (fakeTxManager) WithinReadOnlyTx(ctx context.Context, _ txmanager.TxOptions, fn func(context.Context, txmanager.Session) error) error {
	return fn(ctx, fakeSession{ctx: ctx})
}

func (fakeSession) Tx() pgx.Tx { return nil }

func (s fakeSession) Context() context.Context { return s.ctx }

// fakeSeenStore 线程安全地记录曝光写入，曝光记录在异步 goroutine 里发生，
// 用 gomock 会在测试结束后触发断言竞态。
type fakeSeenStore struct {
	mu     sync.Mutex
	seen   map[uuid.UUID][]uuid.UUID
	listFn func(viewerID uuid.UUID) ([]uuid.UUID, error)
}

func newFakeSeenStore() *fakeSeenStore {
	return &fakeSeenStore{seen: map[uuid.UUID][]uuid.UUID{}}
}

func (f *fakeSeenStore) Add(_ context.Context, viewerID uuid.UUID, videoIDs []uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen[viewerID] = append(f.seen[viewerID], videoIDs...)
	return nil
}

func (f *fakeSeenStore) List(_ context.Context, viewerID uuid.UUID) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listFn != nil {
		return f.listFn(viewerID)
	}
	return f.seen[viewerID], nil
}

func ptrFloat64(v float64) *float64 { return &v }

func ptrUUID(v uuid.UUID) *uuid.UUID { return &v }
