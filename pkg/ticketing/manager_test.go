package ticketing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/porter/pkg/entities"
	"github.com/stretchr/testify/require"
)

const (
	testGuildID  = "guild-1"
	testUserID   = "user-1"
	testStaffA   = "staff-a"
	testStaffB   = "staff-b"
	testBotID    = "bot-1"
	testLogChan  = "9000000001"
	testOpenCat  = "9000000002"
	testCloseCat = "9000000003"
)

type testHarness struct {
	manager *Manager
	session *fakeSession
	guilds  *fakeGuildConfigDal
	tickets *fakeTicketDal
	logs    *fakeTicketLogDal
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()

	h := &testHarness{
		session: newFakeSession(),
		guilds:  newFakeGuildConfigDal(),
		tickets: newFakeTicketDal(),
		logs:    newFakeTicketLogDal(),
	}
	h.manager = NewManager(
		slog.Default(),
		h.session,
		h.guilds,
		h.tickets,
		h.logs,
		Config{
			BotUserID: func() string { return testBotID },
			RenderLogEmbed: func(action entities.LogAction, ticket *entities.Ticket) *discordgo.MessageEmbed {
				return &discordgo.MessageEmbed{Title: string(action), Description: ticket.Name()}
			},
		},
	)
	return h
}

func (h *testHarness) configureGuild(t *testing.T) {
	t.Helper()

	staffRole := "role-staff"
	logChan := testLogChan
	openCat := testOpenCat
	closeCat := testCloseCat
	err := h.guilds.SaveGuildConfig(context.Background(), testGuildID, entities.GuildConfigPatch{
		StaffRoleID:      &staffRole,
		LogChannelID:     &logChan,
		OpenCategoryID:   &openCat,
		ClosedCategoryID: &closeCat,
	})
	require.NoError(t, err)
}

func (h *testHarness) createTicket(t *testing.T) *entities.Ticket {
	t.Helper()

	ticket, err := h.manager.CreateTicket(context.Background(), testGuildID, testUserID, "suporte", "preciso de ajuda", "detalhes do problema", "alta")
	require.NoError(t, err)
	return ticket
}

func TestCreateTicket(t *testing.T) {
	h := newTestHarness(t)
	h.configureGuild(t)

	ticket := h.createTicket(t)

	require.Equal(t, 1, ticket.TicketID)
	require.Equal(t, "ticket-0001", ticket.Name())
	require.Equal(t, testGuildID, ticket.GuildID)
	require.Equal(t, testUserID, ticket.UserID)
	require.Equal(t, "suporte", ticket.Category)
	require.Equal(t, entities.UrgencyHigh, ticket.Urgency)
	require.Equal(t, entities.TicketStatusOpen, ticket.Status)
	require.Empty(t, ticket.ClaimedBy)

	// The channel was created in the open category with the ticket's name.
	require.Len(t, h.session.created, 1)
	require.Equal(t, "ticket-0001", h.session.created[0].Name)
	require.Equal(t, testOpenCat, h.session.created[0].ParentID)
	require.Equal(t, h.session.created[0].ID, ticket.ChannelID)

	// The channel is private: @everyone is denied view.
	var everyoneDenied bool
	for _, ow := range h.session.creates[0].PermissionOverwrites {
		if ow.ID == testGuildID && ow.Deny&discordgo.PermissionViewChannel != 0 {
			everyoneDenied = true
		}
	}
	require.True(t, everyoneDenied)

	// The row is persisted and the creation was audited.
	stored, err := h.tickets.GetTicketByChannel(context.Background(), ticket.ChannelID)
	require.NoError(t, err)
	require.Equal(t, ticket.TicketID, stored.TicketID)

	created := h.logs.byAction(ticket.TicketID, entities.LogActionCreated)
	require.Len(t, created, 1)
	require.Equal(t, "Categoria: suporte, Urgência: alta", created[0].Details)
}

func TestCreateTicketDuplicate(t *testing.T) {
	h := newTestHarness(t)
	h.configureGuild(t)

	first := h.createTicket(t)

	_, err := h.manager.CreateTicket(context.Background(), testGuildID, testUserID, "compras", "outro", "outro", "baixa")
	require.Error(t, err)

	dupErr := new(DuplicateTicketError)
	require.ErrorAs(t, err, &dupErr)
	require.Equal(t, []string{first.ChannelID}, dupErr.ChannelIDs)

	// No second channel and no second row.
	require.Len(t, h.session.created, 1)
}

func TestCreateTicketInvalidUrgency(t *testing.T) {
	h := newTestHarness(t)
	h.configureGuild(t)

	_, err := h.manager.CreateTicket(context.Background(), testGuildID, testUserID, "suporte", "ajuda", "detalhes", "urgentissima")
	require.Error(t, err)

	// Nothing was created anywhere.
	require.Empty(t, h.session.created)
	require.Empty(t, h.tickets.tickets)
	require.Empty(t, h.logs.logs)
}

func TestCreateTicketUrgencyCaseInsensitive(t *testing.T) {
	h := newTestHarness(t)
	h.configureGuild(t)

	ticket, err := h.manager.CreateTicket(context.Background(), testGuildID, testUserID, "suporte", "ajuda", "detalhes", "  Média ")
	require.NoError(t, err)
	require.Equal(t, entities.UrgencyMedium, ticket.Urgency)
}

func TestCreateTicketChannelFailure(t *testing.T) {
	h := newTestHarness(t)
	h.configureGuild(t)
	h.session.createErr = errors.New("missing permissions")

	_, err := h.manager.CreateTicket(context.Background(), testGuildID, testUserID, "suporte", "ajuda", "detalhes", "baixa")
	require.Error(t, err)

	// The store must be untouched when the channel never existed.
	require.Empty(t, h.tickets.tickets)
	require.Empty(t, h.logs.logs)
}

func TestCreateTicketUnconfiguredGuild(t *testing.T) {
	h := newTestHarness(t)

	// No guild config saved at all; the ticket still opens, just uncategorised.
	ticket := h.createTicket(t)
	require.Len(t, h.session.created, 1)
	require.Empty(t, h.session.created[0].ParentID)
	require.NotEmpty(t, ticket.ChannelID)
}

func TestSequentialNumbering(t *testing.T) {
	h := newTestHarness(t)
	h.configureGuild(t)

	for i := 1; i <= 3; i++ {
		ticket, err := h.manager.CreateTicket(context.Background(), testGuildID, fmt.Sprintf("user-%d", i), "suporte", "ajuda", "detalhes", "baixa")
		require.NoError(t, err)
		require.Equal(t, i, ticket.TicketID)
	}
}

func TestRandomNumbering(t *testing.T) {
	h := newTestHarness(t)
	h.configureGuild(t)
	h.manager.cfg.Numbering = NumberingRandom
	h.manager.randInt = func(n int) int {
		require.Equal(t, randomNumberCeiling, n)
		return 41
	}

	ticket := h.createTicket(t)
	require.Equal(t, 42, ticket.TicketID)
	require.Equal(t, "ticket-0042", ticket.Name())

	// The sequential counter must not have moved.
	require.Empty(t, h.tickets.counters)
}

func TestClaim(t *testing.T) {
	h := newTestHarness(t)
	h.configureGuild(t)
	ticket := h.createTicket(t)

	claimed, err := h.manager.Claim(context.Background(), ticket.ChannelID, testStaffA)
	require.NoError(t, err)
	require.Equal(t, testStaffA, claimed.ClaimedBy)

	stored, err := h.tickets.GetTicketByChannel(context.Background(), ticket.ChannelID)
	require.NoError(t, err)
	require.Equal(t, testStaffA, stored.ClaimedBy)

	logs := h.logs.byAction(ticket.TicketID, entities.LogActionClaimed)
	require.Len(t, logs, 1)
	require.Equal(t, "Assumido por <@staff-a>", logs[0].Details)
}

func TestClaimExclusivity(t *testing.T) {
	h := newTestHarness(t)
	h.configureGuild(t)
	ticket := h.createTicket(t)

	// B claims, C is rejected and told who holds the claim; after B releases,
	// C may claim.
	_, err := h.manager.Claim(context.Background(), ticket.ChannelID, testStaffA)
	require.NoError(t, err)

	_, err = h.manager.Claim(context.Background(), ticket.ChannelID, testStaffB)
	require.Error(t, err)
	claimErr := new(AlreadyClaimedError)
	require.ErrorAs(t, err, &claimErr)
	require.Equal(t, testStaffA, claimErr.ClaimedBy)

	stored, err := h.tickets.GetTicketByChannel(context.Background(), ticket.ChannelID)
	require.NoError(t, err)
	require.Equal(t, testStaffA, stored.ClaimedBy)

	_, err = h.manager.Disclaim(context.Background(), ticket.ChannelID, testStaffA)
	require.NoError(t, err)

	claimed, err := h.manager.Claim(context.Background(), ticket.ChannelID, testStaffB)
	require.NoError(t, err)
	require.Equal(t, testStaffB, claimed.ClaimedBy)
}

func TestClaimRace(t *testing.T) {
	h := newTestHarness(t)
	h.configureGuild(t)
	ticket := h.createTicket(t)

	// Simulate the ticket being claimed between the read and the conditional
	// update by claiming directly at the store.
	require.NoError(t, h.tickets.ClaimTicket(context.Background(), ticket.ChannelID, testStaffB))

	_, err := h.manager.Claim(context.Background(), ticket.ChannelID, testStaffA)
	require.Error(t, err)
	claimErr := new(AlreadyClaimedError)
	require.ErrorAs(t, err, &claimErr)
	require.Equal(t, testStaffB, claimErr.ClaimedBy)
}

func TestClaimUnknownChannel(t *testing.T) {
	h := newTestHarness(t)

	_, err := h.manager.Claim(context.Background(), "no-such-channel", testStaffA)
	require.ErrorIs(t, err, ErrTicketNotFound)
}

func TestDisclaimUnclaimed(t *testing.T) {
	h := newTestHarness(t)
	h.configureGuild(t)
	ticket := h.createTicket(t)

	_, err := h.manager.Disclaim(context.Background(), ticket.ChannelID, testStaffA)
	require.ErrorIs(t, err, ErrNotClaimed)
}

func TestDisclaimNotClaimant(t *testing.T) {
	h := newTestHarness(t)
	h.configureGuild(t)
	ticket := h.createTicket(t)

	_, err := h.manager.Claim(context.Background(), ticket.ChannelID, testStaffA)
	require.NoError(t, err)

	_, err = h.manager.Disclaim(context.Background(), ticket.ChannelID, testStaffB)
	require.ErrorIs(t, err, ErrNotClaimant)

	// The claim survives an unauthorised release attempt.
	stored, err := h.tickets.GetTicketByChannel(context.Background(), ticket.ChannelID)
	require.NoError(t, err)
	require.Equal(t, testStaffA, stored.ClaimedBy)
}

func TestDisclaim(t *testing.T) {
	h := newTestHarness(t)
	h.configureGuild(t)
	ticket := h.createTicket(t)

	_, err := h.manager.Claim(context.Background(), ticket.ChannelID, testStaffA)
	require.NoError(t, err)

	released, err := h.manager.Disclaim(context.Background(), ticket.ChannelID, testStaffA)
	require.NoError(t, err)
	require.Empty(t, released.ClaimedBy)

	logs := h.logs.byAction(ticket.TicketID, entities.LogActionDisclaimed)
	require.Len(t, logs, 1)
	require.Equal(t, "Liberado por <@staff-a>", logs[0].Details)
}

func TestClose(t *testing.T) {
	h := newTestHarness(t)
	h.configureGuild(t)
	ticket := h.createTicket(t)

	closed, err := h.manager.Close(context.Background(), ticket.ChannelID, testStaffA, "resolvido")
	require.NoError(t, err)
	require.Equal(t, entities.TicketStatusClosed, closed.Status)
	require.NotNil(t, closed.ClosedAt)
	require.Equal(t, "resolvido", closed.CloseReason)

	// The channel moved to the closed category.
	edit, ok := h.session.edits[ticket.ChannelID]
	require.True(t, ok)
	require.Equal(t, testCloseCat, edit.ParentID)

	// The requester lost view; nobody else was touched.
	require.Len(t, h.session.perms, 1)
	require.Equal(t, testUserID, h.session.perms[0].targetID)
	require.Equal(t, discordgo.PermissionOverwriteTypeMember, h.session.perms[0].targetType)
	require.EqualValues(t, discordgo.PermissionViewChannel, h.session.perms[0].deny)
	require.Zero(t, h.session.perms[0].allow)

	logs := h.logs.byAction(ticket.TicketID, entities.LogActionClosed)
	require.Len(t, logs, 1)
	require.Equal(t, "resolvido", logs[0].Details)
}

func TestCloseTwice(t *testing.T) {
	h := newTestHarness(t)
	h.configureGuild(t)
	ticket := h.createTicket(t)

	_, err := h.manager.Close(context.Background(), ticket.ChannelID, testStaffA, "resolvido")
	require.NoError(t, err)

	_, err = h.manager.Close(context.Background(), ticket.ChannelID, testStaffB, "de novo")
	require.ErrorIs(t, err, ErrTicketClosed)

	// The first close's state is preserved.
	stored, err := h.tickets.GetTicketByChannel(context.Background(), ticket.ChannelID)
	require.NoError(t, err)
	require.Equal(t, "resolvido", stored.CloseReason)
	require.Len(t, h.logs.byAction(ticket.TicketID, entities.LogActionClosed), 1)
}

func TestCloseWithoutClosedCategory(t *testing.T) {
	h := newTestHarness(t)
	ticket := h.createTicket(t)

	_, err := h.manager.Close(context.Background(), ticket.ChannelID, testStaffA, "resolvido")
	require.NoError(t, err)

	// No category configured means no channel move.
	require.Empty(t, h.session.edits)
	require.Len(t, h.session.perms, 1)
}

func TestClaimClosedTicket(t *testing.T) {
	h := newTestHarness(t)
	h.configureGuild(t)
	ticket := h.createTicket(t)

	_, err := h.manager.Close(context.Background(), ticket.ChannelID, testStaffA, "resolvido")
	require.NoError(t, err)

	_, err = h.manager.Claim(context.Background(), ticket.ChannelID, testStaffB)
	require.ErrorIs(t, err, ErrTicketClosed)

	_, err = h.manager.Disclaim(context.Background(), ticket.ChannelID, testStaffB)
	require.ErrorIs(t, err, ErrTicketClosed)
}

func TestDelete(t *testing.T) {
	h := newTestHarness(t)
	h.configureGuild(t)
	ticket := h.createTicket(t)

	deleted, err := h.manager.Delete(context.Background(), ticket.ChannelID, testStaffA)
	require.NoError(t, err)
	require.Equal(t, ticket.TicketID, deleted.TicketID)

	// The transcript was mirrored to the log channel before deletion.
	require.Len(t, h.session.sent, 1)
	require.Equal(t, testLogChan, h.session.sent[0].channelID)
	require.NotNil(t, h.session.sent[0].data.Embed)
	require.Len(t, h.session.sent[0].data.Files, 1)
	require.Equal(t, "transcript-ticket-0001.txt", h.session.sent[0].data.Files[0].Name)

	require.Equal(t, []string{ticket.ChannelID}, h.session.deleted)

	logs := h.logs.byAction(ticket.TicketID, entities.LogActionDeleted)
	require.Len(t, logs, 1)
	require.Equal(t, "Canal deletado", logs[0].Details)
}

func TestDeleteUnknownChannel(t *testing.T) {
	h := newTestHarness(t)

	_, err := h.manager.Delete(context.Background(), "no-such-channel", testStaffA)
	require.ErrorIs(t, err, ErrTicketNotFound)
}

func TestMirrorLogWithoutLogChannel(t *testing.T) {
	h := newTestHarness(t)
	ticket := h.createTicket(t)

	// No log channel configured: mirroring is a silent no-op.
	err := h.manager.MirrorLog(context.Background(), ticket, entities.LogActionClosed)
	require.NoError(t, err)
	require.Empty(t, h.session.sent)
}

func TestRecordMessage(t *testing.T) {
	h := newTestHarness(t)
	h.configureGuild(t)
	ticket := h.createTicket(t)

	require.NoError(t, h.manager.RecordMessage(context.Background(), ticket.ChannelID, testUserID, 42))

	logs := h.logs.byAction(ticket.TicketID, entities.LogActionMessage)
	require.Len(t, logs, 1)
	require.Equal(t, "Mensagem enviada: 42 caracteres", logs[0].Details)
}

func TestRecordMessageUnboundChannel(t *testing.T) {
	h := newTestHarness(t)

	require.NoError(t, h.manager.RecordMessage(context.Background(), "random-channel", testUserID, 42))
	require.Empty(t, h.logs.logs)
}

func TestHandleExternalDeletion(t *testing.T) {
	h := newTestHarness(t)
	h.configureGuild(t)
	ticket := h.createTicket(t)

	closed, err := h.manager.HandleExternalDeletion(context.Background(), ticket.ChannelID)
	require.NoError(t, err)
	require.NotNil(t, closed)
	require.Equal(t, entities.TicketStatusClosed, closed.Status)
	require.Equal(t, "Deletado manualmente", closed.CloseReason)

	logs := h.logs.byAction(ticket.TicketID, entities.LogActionClosed)
	require.Len(t, logs, 1)
	require.Equal(t, "Deletado manualmente", logs[0].Details)
}

func TestHandleExternalDeletionUnboundChannel(t *testing.T) {
	h := newTestHarness(t)

	closed, err := h.manager.HandleExternalDeletion(context.Background(), "random-channel")
	require.NoError(t, err)
	require.Nil(t, closed)
}

func TestHandleExternalDeletionClosedTicket(t *testing.T) {
	h := newTestHarness(t)
	h.configureGuild(t)
	ticket := h.createTicket(t)

	_, err := h.manager.Close(context.Background(), ticket.ChannelID, testStaffA, "resolvido")
	require.NoError(t, err)

	closed, err := h.manager.HandleExternalDeletion(context.Background(), ticket.ChannelID)
	require.NoError(t, err)
	require.Nil(t, closed)
}
