package kafka

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func recordFetches(records ...*kgo.Record) kgo.Fetches {
	return kgo.Fetches{{Topics: []kgo.FetchTopic{{
		Topic:      records[0].Topic,
		Partitions: []kgo.FetchPartition{{Partition: records[0].Partition, Records: records}},
	}}}}
}

func errFetches(topic string, err error) kgo.Fetches {
	return kgo.Fetches{{Topics: []kgo.FetchTopic{{
		Topic:      topic,
		Partitions: []kgo.FetchPartition{{Partition: -1, Err: err}},
	}}}}
}

// fakeConsumerClient serves queued fetches and then blocks until the poll
// context is done, like a real client with no new records.
type fakeConsumerClient struct {
	mu         sync.Mutex
	fetches    []kgo.Fetches
	committed  []*kgo.Record
	commitErr  error
	rebalances int
	closed     bool
	onEmpty    func()
}

func (f *fakeConsumerClient) PollRecords(ctx context.Context, maxPollRecords int) kgo.Fetches {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return errFetches("", kgo.ErrClientClosed)
	}
	if len(f.fetches) > 0 {
		next := f.fetches[0]
		f.fetches = f.fetches[1:]
		f.mu.Unlock()
		return next
	}
	onEmpty := f.onEmpty
	f.mu.Unlock()

	if onEmpty != nil {
		onEmpty()
	}
	<-ctx.Done()
	return errFetches("", ctx.Err())
}

func (f *fakeConsumerClient) CommitRecords(ctx context.Context, rs ...*kgo.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.commitErr != nil {
		return f.commitErr
	}
	f.committed = append(f.committed, rs...)
	return nil
}

func (f *fakeConsumerClient) AllowRebalance() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rebalances++
}

func (f *fakeConsumerClient) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *fakeConsumerClient) committedOffsets() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	offsets := make([]int64, 0, len(f.committed))
	for _, r := range f.committed {
		offsets = append(offsets, r.Offset)
	}
	return offsets
}

type fakeProducerClient struct {
	mu       sync.Mutex
	records  []*kgo.Record
	err      error
	flushed  bool
	closed   bool
	flushErr error
}

func (f *fakeProducerClient) ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	f.mu.Lock()
	defer f.mu.Unlock()
	results := make(kgo.ProduceResults, 0, len(rs))
	for _, r := range rs {
		if f.err == nil {
			f.records = append(f.records, r)
		}
		results = append(results, kgo.ProduceResult{Record: r, Err: f.err})
	}
	return results
}

func (f *fakeProducerClient) Flush(ctx context.Context) error {
	f.flushed = true
	return f.flushErr
}

func (f *fakeProducerClient) Close() {
	f.closed = true
}
