package bus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"soundmark/models"
)

func TestWorkerProcessesSubmittedJob(t *testing.T) {
	data := wavFixture(t)
	blobs := &fakeBlobStore{objects: map[string][]byte{"bucket/songs/1.wav": data}}
	store := &fakeStore{inserted: map[int64][]models.Fingerprint{}}
	producer := &MockProducer{}

	w := NewWorker("bucket", blobs, store, producer, zap.NewNop())
	w.Start(context.Background())
	defer w.Stop()

	job, err := w.Submit(SongUploaded{SongID: "song-1", S3Key: "songs/1.wav"})
	require.NoError(t, err)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		got, ok := w.Status(job.ID)
		require.True(t, ok)
		if got.Status == JobComplete || got.Status == JobFailed {
			assert.Equal(t, JobComplete, got.Status)
			assert.NoError(t, got.Err)
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("job never reached a terminal state")
}

func TestWorkerMarksMissingObjectAsFailed(t *testing.T) {
	blobs := &fakeBlobStore{objects: map[string][]byte{}}
	store := &fakeStore{inserted: map[int64][]models.Fingerprint{}}
	producer := &MockProducer{}

	w := NewWorker("bucket", blobs, store, producer, zap.NewNop())
	w.Start(context.Background())
	defer w.Stop()

	job, err := w.Submit(SongUploaded{SongID: "song-x", S3Key: "missing.wav"})
	require.NoError(t, err)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		got, ok := w.Status(job.ID)
		require.True(t, ok)
		if got.Status == JobFailed {
			assert.Error(t, got.Err)
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("job never failed")
}

func TestWorkerStartIsIdempotent(t *testing.T) {
	w := NewWorker("bucket", &fakeBlobStore{objects: map[string][]byte{}}, &fakeStore{inserted: map[int64][]models.Fingerprint{}}, &MockProducer{}, zap.NewNop())
	w.Start(context.Background())
	w.Start(context.Background()) // must not panic or spawn a second pool
	w.Stop()
}

func TestWorkerStatusUnknownJobReturnsFalse(t *testing.T) {
	w := NewWorker("bucket", &fakeBlobStore{objects: map[string][]byte{}}, &fakeStore{inserted: map[int64][]models.Fingerprint{}}, &MockProducer{}, zap.NewNop())
	_, ok := w.Status("nonexistent")
	assert.False(t, ok)
}
