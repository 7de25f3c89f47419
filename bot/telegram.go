package bot

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// maxProofBytes caps a downloaded proof image.
const maxProofBytes = 10 << 20

// Telegram is the Transport for a Telegram bot. Customer ids are chat ids.
type Telegram struct {
	api    *tgbotapi.BotAPI
	client *http.Client

	mu      sync.Mutex
	pending map[int64][]tgbotapi.Update
	running map[int64]bool
}

func NewTelegram(token string) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	log.Printf("telegram: authorized as @%s", api.Self.UserName)
	return &Telegram{
		api:     api,
		client:  &http.Client{Timeout: 30 * time.Second},
		pending: make(map[int64][]tgbotapi.Update),
		running: make(map[int64]bool),
	}, nil
}

func (t *Telegram) Deliver(_ context.Context, customerID, text string) error {
	chatID, err := strconv.ParseInt(customerID, 10, 64)
	if err != nil {
		return fmt.Errorf("bad chat id %q: %w", customerID, err)
	}
	_, err = t.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

func (t *Telegram) NotifyTyping(_ context.Context, customerID string) error {
	chatID, err := strconv.ParseInt(customerID, 10, 64)
	if err != nil {
		return fmt.Errorf("bad chat id %q: %w", customerID, err)
	}
	_, err = t.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping))
	return err
}

func (t *Telegram) setCommands() error {
	cfg := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "Menu inicial"},
	)
	_, err := t.api.Request(cfg)
	return err
}

// Start polls for updates until ctx is cancelled. Each chat gets its own
// queue so one slow customer does not hold up the others.
func (t *Telegram) Start(ctx context.Context, b *Bot) {
	if err := t.setCommands(); err != nil {
		log.Printf("telegram: set commands: %v", err)
	}
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := t.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			t.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			msg := update.Message
			if msg == nil || msg.Chat == nil || !msg.Chat.IsPrivate() {
				continue
			}
			t.enqueue(ctx, msg.Chat.ID, update, b)
		}
	}
}

func (t *Telegram) enqueue(ctx context.Context, chatID int64, update tgbotapi.Update, b *Bot) {
	t.mu.Lock()
	t.pending[chatID] = append(t.pending[chatID], update)
	if t.running[chatID] {
		t.mu.Unlock()
		return
	}
	t.running[chatID] = true
	t.mu.Unlock()
	go t.drain(ctx, chatID, b)
}

func (t *Telegram) drain(ctx context.Context, chatID int64, b *Bot) {
	for {
		t.mu.Lock()
		queue := t.pending[chatID]
		if len(queue) == 0 {
			delete(t.pending, chatID)
			delete(t.running, chatID)
			t.mu.Unlock()
			return
		}
		update := queue[0]
		t.pending[chatID] = queue[1:]
		t.mu.Unlock()

		t.handle(ctx, update.Message, b)
	}
}

func (t *Telegram) handle(ctx context.Context, msg *tgbotapi.Message, b *Bot) {
	customerID := strconv.FormatInt(msg.Chat.ID, 10)

	if fileID, mimeType, ok := imageOf(msg); ok {
		data, err := t.download(ctx, fileID)
		if err != nil {
			log.Printf("telegram: download file customer=%s: %v", customerID, err)
			if err := b.MediaUnavailable(ctx, customerID, err); err != nil {
				log.Printf("telegram: media customer=%s: %v", customerID, err)
			}
			return
		}
		if err := b.HandleMedia(ctx, customerID, data, mimeType); err != nil {
			log.Printf("telegram: media customer=%s: %v", customerID, err)
		}
		return
	}

	name := ""
	if msg.From != nil {
		name = msg.From.FirstName
	}
	if err := b.HandleText(ctx, customerID, name, strings.TrimSpace(msg.Text)); err != nil {
		log.Printf("telegram: text customer=%s: %v", customerID, err)
	}
}

// imageOf returns the largest photo size, or an image sent as a document.
func imageOf(msg *tgbotapi.Message) (fileID, mimeType string, ok bool) {
	if n := len(msg.Photo); n > 0 {
		return msg.Photo[n-1].FileID, "image/jpeg", true
	}
	if d := msg.Document; d != nil && strings.HasPrefix(d.MimeType, "image/") {
		return d.FileID, d.MimeType, true
	}
	return "", "", false
}

func (t *Telegram) download(ctx context.Context, fileID string) ([]byte, error) {
	url, err := t.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download: status %d", resp.StatusCode)
	}
	return readProof(resp.Body)
}

// readProof reads at most maxProofBytes and fails on anything longer.
func readProof(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxProofBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxProofBytes {
		return nil, fmt.Errorf("download: file larger than %d bytes", maxProofBytes)
	}
	return data, nil
}
