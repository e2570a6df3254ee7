// Package voice captures a single spoken utterance and returns its
// transcription, feeding the same path as a typed query.
package voice

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrUnavailable means speech capture cannot work on this system. The
// caller disables the voice trigger and carries on; nothing else is
// affected.
var ErrUnavailable = errors.New("speech capture is not available")

// ErrNoSpeech means the capture ran but produced no words.
var ErrNoSpeech = errors.New("no speech detected")

// Transcriber captures one utterance. Implementations are
// single-utterance: they record, transcribe, and return, with no
// continuous listening.
type Transcriber interface {
	// Available reports whether capture can be attempted at all.
	Available() bool
	// Transcribe blocks until one utterance is transcribed, the context is
	// cancelled, or capture fails.
	Transcribe(ctx context.Context) (string, error)
}

// CommandTranscriber shells out to an external speech-to-text program that
// records from the microphone and prints the transcription on stdout.
// Which program is a config choice (whisper wrappers, vosk CLIs, etc.).
type CommandTranscriber struct {
	Command string
	Args    []string
}

func NewCommand(command string, args ...string) *CommandTranscriber {
	return &CommandTranscriber{Command: command, Args: args}
}

func (t *CommandTranscriber) Available() bool {
	if t == nil || t.Command == "" {
		return false
	}
	_, err := exec.LookPath(t.Command)
	return err == nil
}

func (t *CommandTranscriber) Transcribe(ctx context.Context) (string, error) {
	if !t.Available() {
		return "", ErrUnavailable
	}

	out, err := exec.CommandContext(ctx, t.Command, t.Args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("speech capture failed: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("speech capture failed: %w", err)
	}

	text := strings.TrimSpace(string(out))
	if text == "" {
		return "", ErrNoSpeech
	}
	return text, nil
}

// None is the degraded adapter used when no capture command is configured.
type None struct{}

func (None) Available() bool { return false }

func (None) Transcribe(context.Context) (string, error) { return "", ErrUnavailable }
