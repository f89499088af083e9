package communication

import (
	"fmt"

	"github.com/slack-go/slack"
)

type Slack struct {
	client  *slack.Client
	options SlackOption
}

type SlackOption struct {
	InfoChannelID  string
	ErrorChannelID string
}

// ConnectSlack returns nil when no bot token is configured.
func ConnectSlack(token string, options SlackOption) *Slack {
	if token == "" {
		return nil
	}
	return NewSlack(slack.New(token), options)
}

func NewSlack(client *slack.Client, options SlackOption) *Slack {
	return &Slack{client: client, options: options}
}

func (s *Slack) postMessage(channelID, message string) error {
	if channelID == "" {
		return nil
	}
	_, _, err := s.client.PostMessage(
		channelID,
		slack.MsgOptionText(message, false),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		return fmt.Errorf("failed to post message to Slack: %w", err)
	}
	return nil
}

// Info posts to the info channel, used for export notices.
func (s *Slack) Info(message string) error {
	return s.postMessage(s.options.InfoChannelID, message)
}

// Error posts to the error channel, used for exhausted attendance syncs.
func (s *Slack) Error(message string) error {
	return s.postMessage(s.options.ErrorChannelID, message)
}
