package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-screener/internal/pipeline"
)

type countingIngestor struct {
	mu         sync.Mutex
	inFlight   int
	maxFlight  int
	calls      []string
	failOn     map[string]error
	duplicates map[string]bool
	delay      time.Duration
}

func (c *countingIngestor) Process(ctx context.Context, filename string, _ []byte) (*pipeline.Outcome, error) {
	c.mu.Lock()
	c.inFlight++
	if c.inFlight > c.maxFlight {
		c.maxFlight = c.inFlight
	}
	c.calls = append(c.calls, filename)
	c.mu.Unlock()

	if c.delay > 0 {
		time.Sleep(c.delay)
	}

	c.mu.Lock()
	c.inFlight--
	c.mu.Unlock()

	if err := c.failOn[filename]; err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &pipeline.Outcome{Filename: filename, Duplicate: c.duplicates[filename]}, nil
}

func makeFiles(n int) []File {
	files := make([]File, n)
	for i := range files {
		files[i] = File{Name: fmt.Sprintf("cv%02d.txt", i), Data: []byte("x")}
	}
	return files
}

func TestRunKeepsInputOrder(t *testing.T) {
	ingestor := &countingIngestor{delay: 5 * time.Millisecond}
	p := NewProcessor(ingestor, 3, time.Second)

	summary := p.Run(context.Background(), makeFiles(8))

	assert.Equal(t, 8, summary.Total)
	assert.Equal(t, 8, summary.Succeeded)
	require.Len(t, summary.Results, 8)
	for i, r := range summary.Results {
		assert.Equal(t, fmt.Sprintf("cv%02d.txt", i), r.Filename)
		require.NotNil(t, r.Outcome)
	}
}

func TestRunBoundsConcurrencyToChunkSize(t *testing.T) {
	ingestor := &countingIngestor{delay: 20 * time.Millisecond}
	p := NewProcessor(ingestor, 3, time.Second)

	p.Run(context.Background(), makeFiles(9))

	assert.LessOrEqual(t, ingestor.maxFlight, 3)
	assert.Len(t, ingestor.calls, 9)
}

func TestRunOneFailureDoesNotStopBatch(t *testing.T) {
	ingestor := &countingIngestor{
		failOn: map[string]error{"cv01.txt": errors.New("unreadable")},
	}
	p := NewProcessor(ingestor, 2, time.Second)

	summary := p.Run(context.Background(), makeFiles(4))

	assert.Equal(t, 3, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, "unreadable", summary.Results[1].Error)
	assert.Nil(t, summary.Results[1].Outcome)
}

func TestRunCountsDuplicates(t *testing.T) {
	ingestor := &countingIngestor{
		duplicates: map[string]bool{"cv00.txt": true, "cv02.txt": true},
	}
	p := NewProcessor(ingestor, 5, time.Second)

	summary := p.Run(context.Background(), makeFiles(3))

	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 2, summary.Duplicates)
	assert.Equal(t, 0, summary.Failed)
}

func TestRunCancelledContextFailsRemaining(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ingestor := &countingIngestor{}
	p := NewProcessor(ingestor, 2, time.Second)

	summary := p.Run(ctx, makeFiles(4))

	assert.Equal(t, 4, summary.Failed)
}

func TestNewProcessorDefaults(t *testing.T) {
	p := NewProcessor(&countingIngestor{}, 0, 0)
	assert.Equal(t, defaultChunkSize, p.chunkSize)
	assert.Equal(t, defaultFileTimeout, p.fileTimeout)
}
