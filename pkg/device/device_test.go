package device

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"testing"

	"github.com/jmwilson/ollie/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ ports.DeviceChannel = (*Line)(nil)
	_ ports.DeviceChannel = (*PerCommand)(nil)
)

// fakeInstrument answers every query line with its response and records writes.
func fakeInstrument(t *testing.T, conn net.Conn, responses map[string]string) <-chan []string {
	t.Helper()
	done := make(chan []string, 1)
	go func() {
		var lines []string
		sc := bufio.NewScanner(conn)
		for sc.Scan() {
			line := sc.Text()
			lines = append(lines, line)
			if resp, ok := responses[line]; ok {
				_, _ = io.WriteString(conn, resp+"\n")
			}
		}
		done <- lines
	}()
	return done
}

func TestLine_WriteAndQuery(t *testing.T) {
	client, server := net.Pipe()
	done := fakeInstrument(t, server, map[string]string{":TIMEBASE:SCALE?": "+1.00000E-03\r"})

	line := NewLine("pipe", client)
	ctx := context.Background()

	require.NoError(t, line.Write(ctx, ":RUN"))
	resp, err := line.Query(ctx, ":TIMEBASE:SCALE?")
	require.NoError(t, err)
	assert.Equal(t, "+1.00000E-03", resp)

	require.NoError(t, line.Close())
	require.NoError(t, line.Close(), "Close should be idempotent")
	assert.Equal(t, []string{":RUN", ":TIMEBASE:SCALE?"}, <-done)

	assert.ErrorIs(t, line.Write(ctx, ":STOP"), ErrClosed)
}

func TestLine_CanceledContext(t *testing.T) {
	client, server := net.Pipe()
	defer server.Close()
	line := NewLine("pipe", client)
	defer line.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, line.Write(ctx, ":RUN"), context.Canceled)
}

// echoScope answers every line ending in "?" with "<line>-answer" and runs
// onWrite after each write.
type echoScope struct {
	pending bytes.Buffer
	onWrite func()
}

func (e *echoScope) Write(p []byte) (int, error) {
	line := string(bytes.TrimSpace(p))
	if bytes.HasSuffix(p, []byte("?\n")) {
		e.pending.WriteString(line + "-answer\n")
	}
	if e.onWrite != nil {
		e.onWrite()
	}
	return len(p), nil
}

func (e *echoScope) Read(p []byte) (int, error) { return e.pending.Read(p) }
func (e *echoScope) Close() error               { return nil }

func TestLine_QueryConsumesResponseAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	scope := &echoScope{onWrite: cancel}
	line := NewLine("echo", scope)

	resp, err := line.Query(ctx, ":TIMEBASE:SCALE?")
	require.NoError(t, err, "a written query is always answered")
	assert.Equal(t, ":TIMEBASE:SCALE?-answer", resp)

	scope.onWrite = nil
	resp, err = line.Query(context.Background(), ":CHANNEL1:SCALE?")
	require.NoError(t, err)
	assert.Equal(t, ":CHANNEL1:SCALE?-answer", resp)

	_, err = line.Query(ctx, ":CHANNEL1:SCALE?")
	assert.ErrorIs(t, err, context.Canceled, "nothing is written once ctx is done")
	assert.Zero(t, scope.pending.Len())
}

type nopCloser struct {
	*bytes.Buffer
	closed *int
}

func (n nopCloser) Close() error {
	*n.closed++
	return nil
}

func TestPerCommand(t *testing.T) {
	var buf bytes.Buffer
	opens, closes := 0, 0
	ch := NewPerCommand("usb", func(context.Context) (io.WriteCloser, error) {
		opens++
		return nopCloser{Buffer: &buf, closed: &closes}, nil
	})
	ctx := context.Background()

	require.NoError(t, ch.Write(ctx, ":RUN"))
	require.NoError(t, ch.Write(ctx, ":SINGle"))
	assert.Equal(t, ":RUN\n:SINGle\n", buf.String())
	assert.Equal(t, 2, opens, "a fresh connection per command")
	assert.Equal(t, 2, closes)

	_, err := ch.Query(ctx, ":TIMebase:SCALe?")
	assert.ErrorIs(t, err, ErrNoReadback)

	require.NoError(t, ch.Close())
	assert.ErrorIs(t, ch.Write(ctx, ":RUN"), ErrClosed)
}

func TestPerCommand_OpenFailure(t *testing.T) {
	boom := errors.New("no device")
	ch := NewPerCommand("usb", func(context.Context) (io.WriteCloser, error) { return nil, boom })
	err := ch.Write(context.Background(), ":RUN")
	assert.ErrorIs(t, err, boom)
}

func TestOpenUSBTMC_Missing(t *testing.T) {
	_, err := OpenUSBTMC(t.TempDir() + "/usbtmc9")
	assert.Error(t, err)
}
