package ticketing

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/stretchr/testify/require"
)

func newTranscriptMessage(id int, author, content string, at time.Time) *discordgo.Message {
	return &discordgo.Message{
		ID:      fmt.Sprintf("%d", id),
		Content: content,
		Author: &discordgo.User{
			Username:      author,
			Discriminator: "0001",
		},
		Timestamp: at,
	}
}

func TestTranscript(t *testing.T) {
	h := newTestHarness(t)
	channel := h.session.addChannel("1000000123", "ticket-0007")

	base := time.Date(2024, 3, 14, 15, 9, 26, 0, time.UTC)
	h.session.history[channel.ID] = []*discordgo.Message{
		newTranscriptMessage(1, "alice", "olá, preciso de ajuda", base),
		newTranscriptMessage(2, "bob", "claro, qual o problema?", base.Add(time.Minute)),
		newTranscriptMessage(3, "alice", "resolvido, obrigada!", base.Add(2*time.Minute)),
	}

	transcript, err := h.manager.Transcript(context.Background(), channel.ID)
	require.NoError(t, err)
	require.Equal(t, "ticket-0007", transcript.ChannelName)
	require.Equal(t, "transcript-ticket-0007.txt", transcript.FileName())

	content := transcript.Content
	require.Contains(t, content, "Transcrição do Ticket: ticket-0007")
	require.Contains(t, content, "Canal ID: 1000000123")
	require.Contains(t, content, "Fim da transcrição")
	require.Contains(t, content, strings.Repeat("=", 80))

	require.Contains(t, content, "[14/03/2024 15:09:26] alice#0001:\nolá, preciso de ajuda")
	require.Contains(t, content, "[14/03/2024 15:10:26] bob#0001:\nclaro, qual o problema?")

	// Chronological order regardless of anything else.
	require.Less(t,
		strings.Index(content, "olá, preciso de ajuda"),
		strings.Index(content, "claro, qual o problema?"),
	)
	require.Less(t,
		strings.Index(content, "claro, qual o problema?"),
		strings.Index(content, "resolvido, obrigada!"),
	)
}

func TestTranscriptMarkers(t *testing.T) {
	h := newTestHarness(t)
	channel := h.session.addChannel("1000000123", "ticket-0007")

	base := time.Date(2024, 3, 14, 15, 9, 26, 0, time.UTC)
	withEmbed := newTranscriptMessage(1, "alice", "veja isto", base)
	withEmbed.Embeds = []*discordgo.MessageEmbed{{Title: "um embed"}}
	withAttachment := newTranscriptMessage(2, "bob", "", base.Add(time.Minute))
	withAttachment.Attachments = []*discordgo.MessageAttachment{{Filename: "screenshot.png"}}
	h.session.history[channel.ID] = []*discordgo.Message{withEmbed, withAttachment}

	transcript, err := h.manager.Transcript(context.Background(), channel.ID)
	require.NoError(t, err)

	require.Contains(t, transcript.Content, "[Embed anexado]")
	require.Contains(t, transcript.Content, "[Anexo: screenshot.png]")
}

func TestTranscriptPagination(t *testing.T) {
	h := newTestHarness(t)
	channel := h.session.addChannel("1000000123", "ticket-0007")

	base := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)
	total := transcriptPageSize*2 + 17
	msgs := make([]*discordgo.Message, 0, total)
	for i := 0; i < total; i++ {
		msgs = append(msgs, newTranscriptMessage(i+1, "alice", fmt.Sprintf("mensagem %d", i+1), base.Add(time.Duration(i)*time.Second)))
	}
	h.session.history[channel.ID] = msgs

	transcript, err := h.manager.Transcript(context.Background(), channel.ID)
	require.NoError(t, err)

	// Every message from every page made it in, exactly once.
	require.Equal(t, total, strings.Count(transcript.Content, "mensagem "))
	require.Contains(t, transcript.Content, fmt.Sprintf("mensagem %d\n", total))
}

func TestTranscriptEmptyChannel(t *testing.T) {
	h := newTestHarness(t)
	channel := h.session.addChannel("1000000123", "ticket-0007")

	transcript, err := h.manager.Transcript(context.Background(), channel.ID)
	require.NoError(t, err)
	require.Contains(t, transcript.Content, "Transcrição do Ticket: ticket-0007")
	require.Contains(t, transcript.Content, "Fim da transcrição")
}

func TestTranscriptCancelled(t *testing.T) {
	h := newTestHarness(t)
	channel := h.session.addChannel("1000000123", "ticket-0007")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.manager.Transcript(ctx, channel.ID)
	require.ErrorIs(t, err, context.Canceled)
}
