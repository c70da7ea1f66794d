package container

import (
	"context"
	"testing"
	"time"

	"sheetchat/adapters/llm"
	"sheetchat/domain/core"
	"sheetchat/domain/dataset"
	"sheetchat/internal/chat"
	"sheetchat/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		AI: config.AIConfig{
			Model:        "gpt-3.5-turbo",
			MaxTokens:    400,
			Temperature:  0.2,
			HistoryLimit: 10,
		},
		Upload:  config.UploadConfig{MaxFileMB: 5, PreviewRows: 20},
		Session: config.SessionConfig{IdleTTL: time.Hour, SweepInterval: time.Minute},
	}
}

func TestNewRequiresConfig(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestInitWiresMemoryLedger(t *testing.T) {
	c, err := New(testConfig())
	require.NoError(t, err)

	client := &llm.MockClient{Response: "offline"}
	require.NoError(t, c.Init(context.Background(), client))
	assert.Nil(t, c.DB)
	assert.Equal(t, "memory", c.ledgerKind())
	assert.Equal(t, chat.Settings{Model: "gpt-3.5-turbo", MaxTokens: 400, Temperature: 0.2, HistoryLimit: 10, PreviewRows: 20}, c.Settings())

	session, created := c.Manager.GetOrCreate(core.NewID())
	require.True(t, created)

	ds, err := dataset.New("t.csv", "t", []string{"a"}, [][]string{{"1"}}, core.NewHash([]byte("t")))
	require.NoError(t, err)
	_, err = session.LoadDataset(ds)
	require.NoError(t, err)

	answer, err := session.Ask(context.Background(), "what is in here")
	require.NoError(t, err)
	assert.Equal(t, "offline", answer.Text)

	require.NoError(t, c.Shutdown(context.Background()))
	totals, err := c.Usage.Totals(context.Background(), time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 1, totals.Calls)
}

func TestInitBuildsOpenAIClientByDefault(t *testing.T) {
	c, err := New(testConfig())
	require.NoError(t, err)
	require.NoError(t, c.Init(context.Background(), nil))

	_, ok := c.Completion.(*llm.OpenAIClient)
	assert.True(t, ok)
}
