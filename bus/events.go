// Package bus implements the message-bus worker: it consumes "song
// uploaded" events, runs the fingerprint pipeline, persists the result,
// and produces "fingerprint generated" events. The worker is parametric
// over anything exposing Send(topic, key, payload) — the only place in
// this module where polymorphism is load-bearing.
package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"soundmark/blob"
	"soundmark/core"
	"soundmark/db"
	"soundmark/metrics"
	"soundmark/models"
)

// SongUploaded is the consumed event envelope.
type SongUploaded struct {
	SongID     string `json:"song_id"`
	S3Key      string `json:"s3_key"`
	UploadedAt int64  `json:"uploaded_at"`
}

// FingerprintGenerated is the produced event envelope.
type FingerprintGenerated struct {
	SongID       string                  `json:"song_id"`
	Fingerprints []models.FingerprintDTO `json:"fingerprints"`
	GeneratedAt  int64                   `json:"generated_at"`
}

// EventProducer is the capability interface the worker is parametric
// over: anything that can publish a keyed payload to a topic.
type EventProducer interface {
	Send(ctx context.Context, topic, key string, payload []byte) error
}

// nowFn is overridable in tests so event timestamps are deterministic.
var nowFn = func() int64 { return time.Now().Unix() }

// ProcessEvent fetches the uploaded object from the blob store, runs the
// fingerprint pipeline, persists the result under the song id in the
// store, and emits a "fingerprint generated" event. Mirrors the original
// source's process_event, adapted to Go idiom (no async runtime, a plain
// blocking call since the core pipeline is itself synchronous).
func ProcessEvent(ctx context.Context, bucket string, blobs blob.Store, store db.Store, producer EventProducer, event SongUploaded, songID int64) error {
	data, err := blobs.GetObject(ctx, bucket, event.S3Key)
	if err != nil {
		return fmt.Errorf("fetching uploaded object: %w", err)
	}

	fps, err := core.FingerprintPipeline(ctx, data)
	if err != nil {
		return fmt.Errorf("fingerprinting song %s: %w", event.SongID, err)
	}
	metrics.Get().PipelineFingerprints.Observe(float64(len(fps)))

	if err := store.InsertFingerprints(ctx, songID, fps); err != nil {
		return fmt.Errorf("persisting fingerprints for song %s: %w", event.SongID, err)
	}

	dtos := make([]models.FingerprintDTO, len(fps))
	for i, fp := range fps {
		dtos[i] = fp.ToDTO()
	}
	out := FingerprintGenerated{
		SongID:       event.SongID,
		Fingerprints: dtos,
		GeneratedAt:  nowFn(),
	}
	payload, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("encoding fingerprint_generated event: %w", err)
	}

	return producer.Send(ctx, "fingerprint_generated", event.SongID, payload)
}
