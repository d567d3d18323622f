// Package rollcall implements the roll-call coordination protocol. The set
// of members who have not yet responded is never stored anywhere: it is
// encoded as mention tokens in the text of the tracking message itself and
// re-derived from that text on every incoming event.
package rollcall

import (
	"regexp"
	"strings"

	slackapi "github.com/slack-go/slack"

	"github.com/zulandar/tenco/internal/slack"
)

const (
	rollCallHeader   = "点呼を取ります。スタンプをつけてください"
	allPresentNotice = "全員出席 :tada:"
)

// mentionPattern matches Slack mention tokens like <@U0123ABCD>.
var mentionPattern = regexp.MustCompile(`<@([0-9A-Z]+)>`)

// EncodeNotice renders the tracking-message text for the given pending
// member IDs, one mention token per ID in input order. An empty input
// produces the all-present notice, which contains no mention tokens.
func EncodeNotice(ids []string) string {
	if len(ids) == 0 {
		return allPresentNotice
	}
	mentions := make([]string, len(ids))
	for i, id := range ids {
		mentions[i] = "<@" + id + ">"
	}
	return rollCallHeader + "\n" + strings.Join(mentions, " ")
}

// DecodeMentions extracts every mention token from text in order of first
// appearance, duplicates included. It is total: text without mention tokens
// simply yields an empty result, it never fails.
func DecodeMentions(text string) []string {
	matches := mentionPattern.FindAllStringSubmatch(text, -1)
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m[1])
	}
	return ids
}

// NoticeBlocks wraps the encoded notice in a single mrkdwn section block,
// the shape the tracking message is posted and updated with.
func NoticeBlocks(ids []string) []slackapi.Block {
	text := slackapi.NewTextBlockObject(slackapi.MarkdownType, EncodeNotice(ids), false, false)
	return []slackapi.Block{slackapi.NewSectionBlock(text, nil, nil)}
}

// FirstSectionText returns the text of the first section block of a fetched
// message, falling back to the message's plain text. An empty string means
// the message carries no text segment at all.
func FirstSectionText(msg *slack.Message) string {
	for _, b := range msg.Blocks {
		sec, ok := b.(*slackapi.SectionBlock)
		if !ok || sec.Text == nil {
			continue
		}
		return sec.Text.Text
	}
	return msg.Text
}
