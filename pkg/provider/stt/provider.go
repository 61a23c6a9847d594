// Package stt defines the transcription-source abstraction for recorded
// call audio. The pipeline treats speech recognition as a black box: a
// provider takes an audio file and yields an ordered sequence of timed text
// segments, and everything downstream works on those segments alone.
package stt

import (
	"context"
	"time"
)

// Segment is one contiguous stretch of transcribed speech.
type Segment struct {
	// Start and End are offsets from the beginning of the recording.
	Start time.Duration
	End   time.Duration

	// Text is the transcribed speech content.
	Text string

	// Speaker identifies the speaker when diarization is available. Empty
	// otherwise.
	Speaker string
}

// Transcript is the full result of transcribing one recording.
type Transcript struct {
	// Segments are ordered by start time.
	Segments []Segment

	// Language is the detected or configured BCP-47 language code.
	Language string
}

// Provider transcribes recorded audio files. Implementations must be safe
// for concurrent use; the batch runner transcribes several recordings at
// once against one shared provider.
type Provider interface {
	// TranscribeFile reads the audio file at path and returns its timed
	// transcript. The context bounds the whole transcription.
	TranscribeFile(ctx context.Context, path string) (*Transcript, error)
}
