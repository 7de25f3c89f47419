package bot

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/FranciscoRer293/pizzaria-ultimat/lang"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypingDelay(t *testing.T) {
	tests := []struct {
		text string
		want time.Duration
	}{
		{"", 2 * time.Second},
		{strings.Repeat("a", 100), 3 * time.Second},
		{strings.Repeat("ã", 100), 3 * time.Second},
		{strings.Repeat("a", 300), 5 * time.Second},
		{strings.Repeat("a", 5000), 5 * time.Second},
	}
	for _, tt := range tests {
		if got := TypingDelay(tt.text); got != tt.want {
			t.Errorf("TypingDelay(%d chars) = %v, want %v", len([]rune(tt.text)), got, tt.want)
		}
	}
}

func TestWithFooter(t *testing.T) {
	once := WithFooter("olá")
	assert.Equal(t, "olá"+lang.Footer, once)
	assert.Equal(t, once, WithFooter(once))
}

func TestPresenter(t *testing.T) {
	out := &fakeTransport{}
	var slept []time.Duration
	p := NewPresenter(out).WithSleep(func(_ context.Context, d time.Duration) {
		slept = append(slept, d)
	})

	require.NoError(t, p.Deliver(context.Background(), "1", "oi"))
	require.Len(t, out.sent, 1)
	assert.Equal(t, "oi"+lang.Footer, out.sent[0].text)
	assert.Equal(t, 1, out.typing)
	assert.Equal(t, []time.Duration{TypingDelay("oi" + lang.Footer)}, slept)

	out.setFail(errBoom)
	assert.ErrorIs(t, p.Deliver(context.Background(), "1", "oi"), errBoom)
}

func TestSleepCtxStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	sleepCtx(ctx, time.Minute)
	assert.Less(t, time.Since(start), time.Second)
}

func TestImageOf(t *testing.T) {
	photo := &tgbotapi.Message{Photo: []tgbotapi.PhotoSize{
		{FileID: "small", Width: 90},
		{FileID: "large", Width: 1280},
	}}
	id, mimeType, ok := imageOf(photo)
	assert.True(t, ok)
	assert.Equal(t, "large", id)
	assert.Equal(t, "image/jpeg", mimeType)

	doc := &tgbotapi.Message{Document: &tgbotapi.Document{FileID: "doc", MimeType: "image/png"}}
	id, mimeType, ok = imageOf(doc)
	assert.True(t, ok)
	assert.Equal(t, "doc", id)
	assert.Equal(t, "image/png", mimeType)

	_, _, ok = imageOf(&tgbotapi.Message{Document: &tgbotapi.Document{FileID: "pdf", MimeType: "application/pdf"}})
	assert.False(t, ok)
	_, _, ok = imageOf(&tgbotapi.Message{Text: "oi"})
	assert.False(t, ok)
}

func TestReadProofRejectsOversizedFile(t *testing.T) {
	data, err := readProof(bytes.NewReader(make([]byte, maxProofBytes)))
	require.NoError(t, err)
	assert.Len(t, data, maxProofBytes)

	_, err = readProof(bytes.NewReader(make([]byte, maxProofBytes+1)))
	assert.Error(t, err)
}

func TestRunConsole(t *testing.T) {
	h := newHarness(t)
	var buf bytes.Buffer
	console := NewConsole(&buf)
	b := New(h.flow, h.sessions, h.history, NewPresenter(console).WithSleep(func(context.Context, time.Duration) {}), nil)

	h.toPayment(t, SimulatedCustomer)
	h.say(t, SimulatedCustomer, "pix")

	proof := filepath.Join(t.TempDir(), "comprovante.png")
	require.NoError(t, os.WriteFile(proof, []byte("png"), 0o644))

	in := strings.NewReader("oi\n/foto " + proof + "\n")
	require.NoError(t, RunConsole(context.Background(), in, b))

	out := buf.String()
	assert.Contains(t, out, "[bot -> cliente-simulado]")
	assert.Contains(t, out, "digitando")
	assert.Contains(t, out, "Comprovante recebido")
	require.Equal(t, 1, h.proofs.count())
	assert.Equal(t, "png", h.proofs.proofs[0].ext)
	d, err := h.sessions.Get(context.Background(), SimulatedCustomer)
	require.NoError(t, err)
	assert.Nil(t, d)
}
