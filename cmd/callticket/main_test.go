package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/daehyun-cc/callticket/internal/config"
	"github.com/daehyun-cc/callticket/internal/extract"
	"github.com/daehyun-cc/callticket/internal/pipeline"
	"github.com/daehyun-cc/callticket/internal/resolve"
	"github.com/daehyun-cc/callticket/internal/vocab"
	llmmock "github.com/daehyun-cc/callticket/pkg/provider/llm/mock"
	"github.com/daehyun-cc/callticket/pkg/provider/stt"
	sttmock "github.com/daehyun-cc/callticket/pkg/provider/stt/mock"
)

func testPipeline(t *testing.T, provider *llmmock.Provider) *pipeline.Pipeline {
	t.Helper()
	store, err := vocab.NewStore(func() (*vocab.Vocabulary, error) {
		return vocab.New(
			[]string{"ROADM", "UPS"},
			[]string{"ERR-003"},
			[]string{"RQ-ONS"},
		), nil
	})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return pipeline.New(store,
		extract.New(provider, resolve.New(), extract.WithTimeout(time.Second)))
}

func TestProcessFile_TranscribesRecordings(t *testing.T) {
	sttProvider := &sttmock.Provider{Transcript: &stt.Transcript{
		Segments: []stt.Segment{
			{Start: 0, Text: "여보세요, 전성만입니다.", Speaker: "고객"},
			{Start: 12 * time.Second, Text: "판교 유피에스 전원이 나갔습니다."},
		},
	}}
	llmProvider := &llmmock.Provider{Script: []llmmock.Reply{
		{Content: `{"장비명": "UPS", "장애유형": "ERR-003", "요청유형": "RQ-ONS", "위치": "판교"}`},
	}}
	pipe := testPipeline(t, llmProvider)
	outDir := t.TempDir()

	input := "call-20250529163932-0.wav"
	if err := processFile(context.Background(), pipe, sttProvider, input, outDir); err != nil {
		t.Fatalf("processFile: %v", err)
	}

	if len(sttProvider.Paths) != 1 || sttProvider.Paths[0] != input {
		t.Errorf("transcribed paths = %v, want [%s]", sttProvider.Paths, input)
	}

	raw, err := os.ReadFile(filepath.Join(outDir, "call-20250529163932-0.ticket.json"))
	if err != nil {
		t.Fatalf("read ticket: %v", err)
	}
	var fields map[string]string
	if err := json.Unmarshal(raw, &fields); err != nil {
		t.Fatalf("unmarshal ticket: %v", err)
	}
	if got := fields["장비명"]; got != "UPS" {
		t.Errorf("장비명 = %q, want UPS", got)
	}
	if got := fields["요청자"]; got != "전성만" {
		t.Errorf("요청자 = %q, want 전성만", got)
	}
	if got := fields["요청일"]; got != "2025-05-29" {
		t.Errorf("요청일 = %q, want 2025-05-29", got)
	}
}

func TestProcessFile_RecordingWithoutSTTFails(t *testing.T) {
	pipe := testPipeline(t, &llmmock.Provider{})
	err := processFile(context.Background(), pipe, nil, "call.wav", t.TempDir())
	if err == nil {
		t.Fatal("processFile accepted a recording without an stt provider")
	}
}

func TestRegisterBuiltinProviders_MockNames(t *testing.T) {
	reg := config.NewRegistry()
	registerBuiltinProviders(reg)

	if _, err := reg.CreateLLM(config.ProviderEntry{Name: "mock"}); err != nil {
		t.Errorf("CreateLLM(mock): %v", err)
	}
	if _, err := reg.CreateSTT(config.ProviderEntry{Name: "mock"}); err != nil {
		t.Errorf("CreateSTT(mock): %v", err)
	}
}
