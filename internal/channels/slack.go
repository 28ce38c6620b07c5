package channels

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	slackgo "github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"

	"github.com/copperotter/copperotter/internal/config"
	"github.com/copperotter/copperotter/internal/schema"
)

// SlackChannel bridges Slack via Socket Mode. In channels the bot responds
// to mentions; direct messages go straight through.
type SlackChannel struct {
	Base
	cfg       *config.SlackConfig
	webClient *slackgo.Client
	smClient  *socketmode.Client
	botUserID string
}

func NewSlackChannel(cfg *config.SlackConfig, agent schema.Agent) *SlackChannel {
	return &SlackChannel{
		Base: NewBase("slack", agent, cfg.AllowFrom),
		cfg:  cfg,
	}
}

func (s *SlackChannel) Name() string { return "slack" }

func (s *SlackChannel) Start(ctx context.Context) error {
	if s.cfg.BotToken == "" || s.cfg.AppToken == "" {
		slog.Warn("slack: bot/app token not configured")
		<-ctx.Done()
		return ctx.Err()
	}

	s.webClient = slackgo.New(s.cfg.BotToken,
		slackgo.OptionAppLevelToken(s.cfg.AppToken))

	if resp, err := s.webClient.AuthTestContext(ctx); err == nil {
		s.botUserID = resp.UserID
		slog.Info("slack: connected", "bot_user_id", s.botUserID)
	}

	s.smClient = socketmode.New(s.webClient)

	go s.smClient.RunContext(ctx) //nolint:errcheck

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case evt, ok := <-s.smClient.Events:
			if !ok {
				return nil
			}
			s.handleEvent(ctx, evt)
		}
	}
}

func (s *SlackChannel) handleEvent(ctx context.Context, evt socketmode.Event) {
	switch evt.Type {
	case socketmode.EventTypeEventsAPI:
		s.smClient.Ack(*evt.Request)
		cb, ok := evt.Data.(slackevents.EventsAPIEvent)
		if !ok {
			return
		}
		if cb.InnerEvent.Type != "message" && cb.InnerEvent.Type != "app_mention" {
			return
		}
		go s.handleInnerEvent(ctx, cb.InnerEvent)
	}
}

func (s *SlackChannel) handleInnerEvent(ctx context.Context, ev slackevents.EventsAPIInnerEvent) {
	// Inner event data arrives as map[string]interface{} — parse manually.
	data, ok := ev.Data.(map[string]interface{})
	if !ok {
		return
	}
	userID, _ := data["user"].(string)
	channelID, _ := data["channel"].(string)
	text, _ := data["text"].(string)
	subtype, _ := data["subtype"].(string)
	channelType, _ := data["channel_type"].(string)
	ts, _ := data["ts"].(string)
	threadTS, _ := data["thread_ts"].(string)

	if subtype != "" || userID == "" || channelID == "" {
		return
	}
	if userID == s.botUserID {
		return
	}
	// The same mention arrives as both message and app_mention; handle one.
	if ev.Type == "message" && s.botUserID != "" && strings.Contains(text, "<@"+s.botUserID+">") {
		return
	}
	if !s.IsAllowed(userID) {
		slog.Warn("slack: access denied", "sender", userID)
		return
	}
	// In channels, only respond when mentioned.
	if channelType != "im" && ev.Type != "app_mention" {
		return
	}

	text = s.stripMention(text)
	if text == "" {
		return
	}

	if threadTS == "" {
		threadTS = ts
	}

	reply := s.Respond(ctx, channelID, text)
	if reply == "" {
		return
	}

	var options []slackgo.MsgOption
	options = append(options, slackgo.MsgOptionText(reply, false))
	if channelType != "im" && threadTS != "" {
		options = append(options, slackgo.MsgOptionTS(threadTS))
	}
	if _, _, err := s.webClient.PostMessageContext(ctx, channelID, options...); err != nil {
		slog.Error("slack: send failed", "channel", channelID, "err", err)
	}
}

func (s *SlackChannel) stripMention(text string) string {
	if s.botUserID == "" {
		return strings.TrimSpace(text)
	}
	re := regexp.MustCompile(`<@` + regexp.QuoteMeta(s.botUserID) + `>\s*`)
	return strings.TrimSpace(re.ReplaceAllString(text, ""))
}
