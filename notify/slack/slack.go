// Package slack posts run outcome messages to a Slack channel.
package slack

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"

	"github.com/civigen/billforge/model"
)

type api interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// Notifier posts rich messages via a Slack bot token.
type Notifier struct {
	api     api
	channel string
}

// New creates a Notifier posting to the given channel.
func New(botToken, channel string) *Notifier {
	return &Notifier{api: slack.New(botToken), channel: channel}
}

// RunCompleted posts a Block Kit message linking the published artifacts.
func (n *Notifier) RunCompleted(ctx context.Context, run *model.Run, bill *model.Bill) error {
	title := bill.Title
	if title == "" {
		title = run.BillURL
	}

	headerText := slack.NewTextBlockObject(slack.MarkdownType,
		fmt.Sprintf(":white_check_mark: *Bill published!*\n%s", title),
		false, false)
	headerSection := slack.NewSectionBlock(headerText, nil, nil)

	detail := fmt.Sprintf("Run `%s` | Jurisdiction `%s`", run.ID, run.Jurisdiction)
	if run.DiscussionURL != "" {
		detail += fmt.Sprintf(" | <%s|Kialo discussion>", run.DiscussionURL)
	}
	contextBlock := slack.NewContextBlock("",
		slack.NewTextBlockObject(slack.MarkdownType, detail, false, false))

	_, _, err := n.api.PostMessageContext(ctx, n.channel,
		slack.MsgOptionBlocks(headerSection, slack.NewDividerBlock(), contextBlock))
	if err != nil {
		// Fall back to plain text.
		_, _, err = n.api.PostMessageContext(ctx, n.channel,
			slack.MsgOptionText(fmt.Sprintf(":white_check_mark: Bill published: %s", title), false))
	}
	return err
}

// RunFailed posts a plain failure notice.
func (n *Notifier) RunFailed(ctx context.Context, run *model.Run) error {
	_, _, err := n.api.PostMessageContext(ctx, n.channel,
		slack.MsgOptionText(fmt.Sprintf(":x: Run `%s` failed: %s", run.ID, run.Error), false))
	return err
}
