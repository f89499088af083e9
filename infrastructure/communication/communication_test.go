package communication

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlackRoutesByChannel(t *testing.T) {
	var channels []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		channels = append(channels, r.Form.Get("channel"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"ok": true, "channel": r.Form.Get("channel"), "ts": "1"})
	}))
	defer server.Close()

	client := slack.New("xoxb-test", slack.OptionAPIURL(server.URL+"/"))
	s := NewSlack(client, SlackOption{InfoChannelID: "C-INFO", ErrorChannelID: "C-ERR"})

	require.NoError(t, s.Info("export ready"))
	require.NoError(t, s.Error("sync failed"))
	assert.Equal(t, []string{"C-INFO", "C-ERR"}, channels)
}

func TestConnectSlackWithoutToken(t *testing.T) {
	assert.Nil(t, ConnectSlack("", SlackOption{}))
}
