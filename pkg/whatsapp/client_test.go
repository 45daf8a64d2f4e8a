package whatsapp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextBackoff_DoublesUpToCap(t *testing.T) {
	d := reconnectBase
	expected := []time.Duration{
		10 * time.Second,
		20 * time.Second,
		40 * time.Second,
		80 * time.Second,
		160 * time.Second,
		reconnectMax,
		reconnectMax,
	}
	for _, want := range expected {
		d = nextBackoff(d)
		assert.Equal(t, want, d)
	}
}

func TestFormatPhone(t *testing.T) {
	jid, err := FormatPhone("+54 9 11 5555-0000")
	require.NoError(t, err)
	assert.Equal(t, "5491155550000", jid.User)

	_, err = FormatPhone("12345")
	assert.Error(t, err)
}

func TestSendText_NotReady(t *testing.T) {
	c := &Client{}
	err := c.SendText(context.Background(), "+5491155550000", "hola")
	assert.ErrorIs(t, err, ErrNotReady)
}
