package redis_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jmwilson/ollie/internal/logging"
	"github.com/jmwilson/ollie/pkg/adapters/redis"
	"github.com/jmwilson/ollie/pkg/backend/rigol"
	"github.com/jmwilson/ollie/pkg/device/devicetest"
	"github.com/jmwilson/ollie/pkg/dispatch"
	"github.com/jmwilson/ollie/pkg/domain"
	"github.com/jmwilson/ollie/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startRunner(t *testing.T, rec *devicetest.Recorder) *runner.Runner {
	t.Helper()
	r := runner.New(dispatch.New(rigol.New(rec)), runner.WithLogger(logging.NewNop()))
	ctx, cancel := context.WithCancel(context.Background())
	go r.Run(ctx)
	t.Cleanup(cancel)
	return r
}

func TestSource_Serve(t *testing.T) {
	_, client := newClient(t)
	rec := devicetest.NewRecorder().Respond(":TIMEBASE:SCALE?", "1")
	src := redis.NewSource(client, startRunner(t, rec), redis.WithLogger(logging.NewNop()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	status := client.Subscribe(ctx, src.StatusChannel())
	defer status.Close()
	_, err := status.Receive(ctx)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- src.Serve(ctx) }()

	// Wait for the source's pattern subscription before publishing.
	require.Eventually(t, func() bool {
		n, err := client.PubSubNumPat(ctx).Result()
		return err == nil && n > 0
	}, time.Second, 10*time.Millisecond)

	record := `{"name": "setTimebaseReference", "slots": [{"slotName": "reference", "value": "left"}]}`
	require.NoError(t, client.Publish(ctx, "ollie:intent:bench", record).Err())

	select {
	case msg := <-status.Channel():
		var st redis.Status
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &st))
		assert.Equal(t, "bench", st.SessionID)
		assert.Equal(t, "setTimebaseReference", st.Intent)
		assert.Empty(t, st.Error)
	case <-time.After(2 * time.Second):
		t.Fatal("no status published")
	}
	assert.Equal(t, []string{":TIMEBASE:OFFSET 4"}, rec.Writes())

	cancel()
	require.NoError(t, <-done)
}

func TestSource_HandleErrors(t *testing.T) {
	_, client := newClient(t)
	rec := devicetest.NewRecorder()
	src := redis.NewSource(client, startRunner(t, rec), redis.WithLogger(logging.NewNop()), redis.WithPrefix("lab:"))
	ctx := context.Background()

	src.Handle(ctx, "lab:intent:1", []byte(`{"name": "saveImage"}`))
	src.Handle(ctx, "lab:intent:2", []byte(`garbage`))

	assert.Empty(t, rec.Transcript())
	assert.Equal(t, "lab:session:end", src.StatusChannel())
}

func TestStatus_JSON(t *testing.T) {
	data, err := json.Marshal(redis.Status{Channel: "ollie:intent:x", Intent: "increaseTimebase", Outcome: domain.BoundaryReached})
	require.NoError(t, err)
	assert.JSONEq(t, `{"channel": "ollie:intent:x", "intent": "increaseTimebase", "outcome": "boundary_reached"}`, string(data))
}
