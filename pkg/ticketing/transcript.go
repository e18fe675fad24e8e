package ticketing

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Jacobbrewer1/discordgo"
)

// transcriptPageSize is the number of messages fetched per history page.
const transcriptPageSize = 100

// transcriptTimeLayout is the timestamp layout used throughout transcripts.
const transcriptTimeLayout = "02/01/2006 15:04:05"

// transcriptRule separates the transcript's sections.
var transcriptRule = strings.Repeat("=", 80)

// Transcript is a plain text rendering of a ticket channel's full message
// history in chronological order.
type Transcript struct {
	// ChannelName is the name of the channel the transcript was taken from.
	ChannelName string

	// Content is the rendered transcript.
	Content string
}

// FileName is the name the transcript is attached under when mirrored to the
// log channel.
func (t *Transcript) FileName() string {
	return fmt.Sprintf("transcript-%s.txt", t.ChannelName)
}

// File wraps the transcript as a discord file attachment.
func (t *Transcript) File() *discordgo.File {
	return &discordgo.File{
		Name:        t.FileName(),
		ContentType: "text/plain",
		Reader:      bytes.NewReader([]byte(t.Content)),
	}
}

// Transcript renders the channel's full history. The read is unbounded by
// message count and strictly single pass: pages are fetched oldest first and
// each message is formatted exactly once.
func (m *Manager) Transcript(ctx context.Context, channelID string) (*Transcript, error) {
	channel, err := m.s.Channel(channelID)
	if err != nil {
		return nil, fmt.Errorf("error getting channel: %w", err)
	}

	sb := new(strings.Builder)

	createdAt, err := discordgo.SnowflakeTimestamp(channel.ID)
	if err != nil {
		// The channel ID should always be a valid snowflake; fall back to a
		// zero time rather than refusing the transcript.
		createdAt = time.Time{}
	}

	fmt.Fprintf(sb, "Transcrição do Ticket: %s\n", channel.Name)
	fmt.Fprintf(sb, "Canal ID: %s\n", channel.ID)
	fmt.Fprintf(sb, "Criado em: %s UTC\n", createdAt.UTC().Format(transcriptTimeLayout))
	fmt.Fprintf(sb, "%s\n\n", transcriptRule)

	after := ""
	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("transcript cancelled: %w", err)
		}

		page, err := m.s.ChannelMessages(channelID, transcriptPageSize, "", after, "")
		if err != nil {
			return nil, fmt.Errorf("error fetching channel history: %w", err)
		}
		if len(page) == 0 {
			break
		}

		// The API does not guarantee an ordering within the window, so each
		// page is sorted before it is consumed.
		sort.Slice(page, func(i, j int) bool {
			return page[i].Timestamp.Before(page[j].Timestamp)
		})

		for _, msg := range page {
			writeTranscriptMessage(sb, msg)
		}

		after = page[len(page)-1].ID
		if len(page) < transcriptPageSize {
			break
		}
	}

	fmt.Fprintf(sb, "%s\n", transcriptRule)
	fmt.Fprintf(sb, "Fim da transcrição - %s UTC\n", time.Now().UTC().Format(transcriptTimeLayout))

	return &Transcript{
		ChannelName: channel.Name,
		Content:     sb.String(),
	}, nil
}

func writeTranscriptMessage(sb *strings.Builder, msg *discordgo.Message) {
	author := "desconhecido"
	if msg.Author != nil {
		author = fmt.Sprintf("%s#%s", msg.Author.Username, msg.Author.Discriminator)
	}

	fmt.Fprintf(sb, "[%s] %s:\n", msg.Timestamp.UTC().Format(transcriptTimeLayout), author)

	if msg.Content != "" {
		fmt.Fprintf(sb, "%s\n", msg.Content)
	}

	if len(msg.Embeds) > 0 {
		sb.WriteString("[Embed anexado]\n")
	}

	for _, attachment := range msg.Attachments {
		fmt.Fprintf(sb, "[Anexo: %s]\n", attachment.Filename)
	}

	sb.WriteString("\n")
}
