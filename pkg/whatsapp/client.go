package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"go.mau.fi/whatsmeow"
	waProto "go.mau.fi/whatsmeow/binary/proto"
	"go.mau.fi/whatsmeow/store/sqlstore"
	waTypes "go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	waLog "go.mau.fi/whatsmeow/util/log"
	"google.golang.org/protobuf/proto"
	_ "modernc.org/sqlite"
)

// ErrNotReady is returned by SendText while the session is not connected.
var ErrNotReady = errors.New("whatsapp session is not connected")

const (
	reconnectBase = 5 * time.Second
	reconnectMax  = 5 * time.Minute
)

var phoneCleaner = regexp.MustCompile(`[^\d+]`)

// Client wraps a single platform-wide whatsmeow session. Connection state is
// owned exclusively by the Run goroutine: connection events arrive on an
// internal channel, readiness is exposed through an atomic flag, and
// reconnects go through a supervised retry loop with bounded exponential
// backoff instead of a fixed timer.
type Client struct {
	cli       *whatsmeow.Client
	container *sqlstore.Container
	events    chan interface{}
	ready     atomic.Bool
}

// NewClient opens the sqlite-backed session store and builds the whatsmeow
// client. Call Run to bring the connection up.
func NewClient(ctx context.Context, dbPath string) (*Client, error) {
	clientLog := waLog.Stdout("whatsapp", "WARN", true)

	container, err := sqlstore.New(ctx, "sqlite",
		fmt.Sprintf("file:%s?_pragma=foreign_keys(1)", dbPath), clientLog)
	if err != nil {
		return nil, fmt.Errorf("failed to open whatsapp session store: %w", err)
	}

	device, err := container.GetFirstDevice(ctx)
	if err != nil {
		container.Close()
		return nil, fmt.Errorf("failed to get whatsapp device: %w", err)
	}

	c := &Client{
		cli:       whatsmeow.NewClient(device, clientLog),
		container: container,
		events:    make(chan interface{}, 64),
	}

	c.cli.AddEventHandler(func(evt interface{}) {
		switch evt.(type) {
		case *events.Connected, *events.Disconnected, *events.LoggedOut, *events.StreamReplaced:
			select {
			case c.events <- evt:
			default:
				// Run loop is behind; state converges on the next event.
			}
		}
	})

	return c, nil
}

// Run owns the connection until ctx is cancelled. It is the only goroutine
// that mutates connection state or schedules reconnects.
func (c *Client) Run(ctx context.Context) {
	backoff := reconnectBase
	retry := time.NewTimer(0) // immediate first connect
	defer retry.Stop()

	for {
		select {
		case <-ctx.Done():
			c.ready.Store(false)
			c.cli.Disconnect()
			c.container.Close()
			log.Info().Msg("whatsapp client stopped")
			return

		case <-retry.C:
			if c.cli.IsConnected() {
				continue
			}
			if err := c.connect(ctx); err != nil {
				log.Warn().Err(err).Dur("retry_in", backoff).Msg("whatsapp connect failed")
				retry.Reset(backoff)
				backoff = nextBackoff(backoff)
			}

		case evt := <-c.events:
			switch evt.(type) {
			case *events.Connected:
				c.ready.Store(true)
				backoff = reconnectBase
				log.Info().Msg("whatsapp session connected")
			case *events.Disconnected, *events.StreamReplaced:
				c.ready.Store(false)
				log.Warn().Dur("retry_in", backoff).Msg("whatsapp session disconnected")
				retry.Reset(backoff)
				backoff = nextBackoff(backoff)
			case *events.LoggedOut:
				c.ready.Store(false)
				log.Error().Msg("whatsapp session logged out, new pairing required")
			}
		}
	}
}

func nextBackoff(d time.Duration) time.Duration {
	d *= 2
	if d > reconnectMax {
		d = reconnectMax
	}
	return d
}

// connect dials the websocket. Without a stored device the pairing QR payload
// is logged so an operator can link the platform account.
func (c *Client) connect(ctx context.Context) error {
	if c.cli.Store.ID == nil {
		qrChan, err := c.cli.GetQRChannel(ctx)
		if err != nil {
			return fmt.Errorf("failed to get QR channel: %w", err)
		}
		if err := c.cli.Connect(); err != nil {
			return fmt.Errorf("failed to connect: %w", err)
		}
		go func() {
			for evt := range qrChan {
				switch evt.Event {
				case "code":
					log.Info().Str("qr", evt.Code).Msg("scan to pair whatsapp session")
				case "success":
					log.Info().Msg("whatsapp pairing complete")
				case "timeout":
					log.Warn().Msg("whatsapp pairing QR expired")
				}
			}
		}()
		return nil
	}
	if err := c.cli.Connect(); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	return nil
}

// Ready reports whether the session can send messages right now.
func (c *Client) Ready() bool {
	return c.ready.Load()
}

// SendText sends a plain text message to the given phone number. It fails
// fast with ErrNotReady while the session is down.
func (c *Client) SendText(ctx context.Context, phone, text string) error {
	if !c.ready.Load() {
		return ErrNotReady
	}

	jid, err := FormatPhone(phone)
	if err != nil {
		return err
	}

	_, err = c.cli.SendMessage(ctx, jid, &waProto.Message{
		Conversation: proto.String(text),
	})
	if err != nil {
		return fmt.Errorf("failed to send whatsapp message: %w", err)
	}
	return nil
}

// FormatPhone normalizes a phone number into a WhatsApp JID.
func FormatPhone(phone string) (waTypes.JID, error) {
	clean := phoneCleaner.ReplaceAllString(phone, "")
	clean = strings.TrimPrefix(clean, "+")
	if len(clean) < 10 {
		return waTypes.JID{}, fmt.Errorf("invalid phone number %q: too short", phone)
	}
	return waTypes.NewJID(clean, waTypes.DefaultUserServer), nil
}
