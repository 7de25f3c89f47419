package bot

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	SimulatedCustomer    = "cliente-simulado"
	SimulatedDisplayName = "Cliente Teste"

	photoCommand = "/foto "
)

// Console is a Transport that prints to a writer, for trying the bot locally.
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) Deliver(_ context.Context, customerID, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintf(c.out, "\n[bot -> %s]\n%s\n\n", customerID, text)
	return err
}

func (c *Console) NotifyTyping(_ context.Context, customerID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintf(c.out, "[bot -> %s] digitando...\n", customerID)
	return err
}

// RunConsole reads customer lines from in and feeds them to b as the
// simulated customer. "/foto <path>" sends the file as an image.
func RunConsole(ctx context.Context, in io.Reader, b *Bot) error {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		line := sc.Text()
		if path, ok := strings.CutPrefix(line, photoCommand); ok {
			sendPhoto(ctx, b, strings.TrimSpace(path))
			continue
		}
		if err := b.HandleText(ctx, SimulatedCustomer, SimulatedDisplayName, line); err != nil {
			log.Printf("console: %v", err)
		}
	}
	return sc.Err()
}

func sendPhoto(ctx context.Context, b *Bot, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("console: read %s: %v", path, err)
		return
	}
	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	if err := b.HandleMedia(ctx, SimulatedCustomer, data, mimeType); err != nil {
		log.Printf("console: %v", err)
	}
}
