package cmd

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/nfrund/toybattle/internal/events"
	"github.com/nfrund/toybattle/internal/pubsub"
	"github.com/nfrund/toybattle/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "toybattle v"+version+"\n", out)
}

func TestTopicsList(t *testing.T) {
	out, err := execute(t, "topics", "list", "--format", "json", "--module", "match")
	require.NoError(t, err)

	var got struct {
		Topics []pubsub.TopicInfo `json:"topics"`
		Count  int                `json:"count"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, len(events.AllTopics()), got.Count)

	_, err = execute(t, "topics", "list", "--format", "yaml")
	assert.Error(t, err)
	topicsOutputFormat = "table"
}

func TestTemplates(t *testing.T) {
	path := filepath.Join(testutils.ProjectRoot(t), "data", "catalog.yaml")

	out, err := execute(t, "templates", "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")

	out, err = execute(t, "templates", "list", path)
	require.NoError(t, err)
	assert.Contains(t, out, "toy_soldier")

	_, err = execute(t, "templates", "validate", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSimulate(t *testing.T) {
	testutils.LoadTestEnv(t)

	out, err := execute(t, "simulate", "--seed", "5", "--matches", "2", "--format", "json")
	require.NoError(t, err)

	var got struct {
		Count   int `json:"count"`
		Matches []struct {
			Seed    int64 `json:"seed"`
			Wins    int   `json:"wins"`
			Losses  int   `json:"losses"`
			Battles []any `json:"battles"`
		} `json:"matches"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Equal(t, 2, got.Count)
	assert.Equal(t, int64(5), got.Matches[0].Seed)
	assert.Equal(t, int64(6), got.Matches[1].Seed)
	for _, m := range got.Matches {
		assert.Len(t, m.Battles, 2)
		assert.Equal(t, 2, m.Wins+m.Losses)
	}
}
