package ticketing

import (
	"context"
	"fmt"
	"sync"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/porter/pkg/custom"
	"github.com/Jacobbrewer1/porter/pkg/dataaccess"
	"github.com/Jacobbrewer1/porter/pkg/entities"
)

// fakeGuildConfigDal is an in-memory GuildConfigDal.
type fakeGuildConfigDal struct {
	mu      sync.Mutex
	configs map[string]*entities.GuildConfig
}

func newFakeGuildConfigDal() *fakeGuildConfigDal {
	return &fakeGuildConfigDal{configs: make(map[string]*entities.GuildConfig)}
}

func (f *fakeGuildConfigDal) SaveGuildConfig(_ context.Context, guildID string, patch entities.GuildConfigPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	cfg, ok := f.configs[guildID]
	if !ok {
		cfg = &entities.GuildConfig{GuildID: guildID}
		f.configs[guildID] = cfg
	}
	if patch.StaffRoleID != nil {
		cfg.StaffRoleID = *patch.StaffRoleID
	}
	if patch.LogChannelID != nil {
		cfg.LogChannelID = *patch.LogChannelID
	}
	if patch.OpenCategoryID != nil {
		cfg.OpenCategoryID = *patch.OpenCategoryID
	}
	if patch.ClosedCategoryID != nil {
		cfg.ClosedCategoryID = *patch.ClosedCategoryID
	}
	if patch.Settings != nil {
		cfg.Settings = patch.Settings
	}
	return nil
}

func (f *fakeGuildConfigDal) GetGuildConfig(_ context.Context, guildID string) (*entities.GuildConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	cfg, ok := f.configs[guildID]
	if !ok {
		return nil, dataaccess.ErrNotFound
	}
	clone := *cfg
	return &clone, nil
}

// fakeTicketDal is an in-memory TicketDal with the same conditional update
// semantics as the mongo implementation.
type fakeTicketDal struct {
	mu       sync.Mutex
	tickets  map[string]*entities.Ticket
	counters map[string]int

	createErr error
}

func newFakeTicketDal() *fakeTicketDal {
	return &fakeTicketDal{
		tickets:  make(map[string]*entities.Ticket),
		counters: make(map[string]int),
	}
}

func (f *fakeTicketDal) CreateTicket(_ context.Context, ticket *entities.Ticket) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.tickets[ticket.ChannelID]; ok {
		return fmt.Errorf("duplicate channel %s", ticket.ChannelID)
	}
	clone := *ticket
	f.tickets[ticket.ChannelID] = &clone
	return nil
}

func (f *fakeTicketDal) GetTicketByChannel(_ context.Context, channelID string) (*entities.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, ok := f.tickets[channelID]
	if !ok {
		return nil, dataaccess.ErrNotFound
	}
	clone := *t
	return &clone, nil
}

func (f *fakeTicketDal) ListOpenTickets(_ context.Context, guildID, userID string) ([]*entities.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*entities.Ticket
	for _, t := range f.tickets {
		if t.GuildID == guildID && t.UserID == userID && t.Status == entities.TicketStatusOpen {
			clone := *t
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeTicketDal) ClaimTicket(_ context.Context, channelID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, ok := f.tickets[channelID]
	if !ok || t.Status != entities.TicketStatusOpen || t.ClaimedBy != "" {
		return dataaccess.ErrNotModified
	}
	t.ClaimedBy = userID
	return nil
}

func (f *fakeTicketDal) DisclaimTicket(_ context.Context, channelID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, ok := f.tickets[channelID]
	if !ok || t.Status != entities.TicketStatusOpen || t.ClaimedBy != userID {
		return dataaccess.ErrNotModified
	}
	t.ClaimedBy = ""
	return nil
}

func (f *fakeTicketDal) CloseTicket(_ context.Context, channelID, reason string, at custom.Datetime) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, ok := f.tickets[channelID]
	if !ok || t.Status != entities.TicketStatusOpen {
		return dataaccess.ErrNotModified
	}
	t.Status = entities.TicketStatusClosed
	t.ClosedAt = &at
	t.CloseReason = reason
	return nil
}

func (f *fakeTicketDal) NextTicketNumber(_ context.Context, guildID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.counters[guildID]++
	return f.counters[guildID], nil
}

// fakeTicketLogDal is an in-memory TicketLogDal.
type fakeTicketLogDal struct {
	mu   sync.Mutex
	logs []*entities.TicketLog
}

func newFakeTicketLogDal() *fakeTicketLogDal {
	return &fakeTicketLogDal{}
}

func (f *fakeTicketLogDal) AppendLog(_ context.Context, log *entities.TicketLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	clone := *log
	f.logs = append(f.logs, &clone)
	return nil
}

func (f *fakeTicketLogDal) ListLogs(_ context.Context, ticketID int) ([]*entities.TicketLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*entities.TicketLog
	for _, l := range f.logs {
		if l.TicketID == ticketID {
			clone := *l
			out = append(out, &clone)
		}
	}
	return out, nil
}

// byAction returns the recorded entries for a ticket with the given action.
func (f *fakeTicketLogDal) byAction(ticketID int, action entities.LogAction) []*entities.TicketLog {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*entities.TicketLog
	for _, l := range f.logs {
		if l.TicketID == ticketID && l.Action == action {
			out = append(out, l)
		}
	}
	return out
}

// sentMessage records one ChannelMessageSendComplex call.
type sentMessage struct {
	channelID string
	data      *discordgo.MessageSend
}

// permissionSet records one ChannelPermissionSet call.
type permissionSet struct {
	channelID  string
	targetID   string
	targetType discordgo.PermissionOverwriteType
	allow      int64
	deny       int64
}

// fakeSession is an in-memory Session.
type fakeSession struct {
	mu sync.Mutex

	nextID   int64
	channels map[string]*discordgo.Channel
	history  map[string][]*discordgo.Message

	created   []*discordgo.Channel
	creates   []discordgo.GuildChannelCreateData
	edits     map[string]*discordgo.ChannelEdit
	sent      []sentMessage
	perms     []permissionSet
	deleted   []string
	createErr error
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		nextID:   1000000000,
		channels: make(map[string]*discordgo.Channel),
		history:  make(map[string][]*discordgo.Message),
		edits:    make(map[string]*discordgo.ChannelEdit),
	}
}

func (f *fakeSession) addChannel(id, name string) *discordgo.Channel {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch := &discordgo.Channel{ID: id, Name: name, Type: discordgo.ChannelTypeGuildText}
	f.channels[id] = ch
	return ch
}

func (f *fakeSession) Channel(channelID string, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch, ok := f.channels[channelID]
	if !ok {
		return nil, fmt.Errorf("unknown channel %s", channelID)
	}
	return ch, nil
}

func (f *fakeSession) GuildChannelCreateComplex(guildID string, data discordgo.GuildChannelCreateData, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return nil, f.createErr
	}

	f.nextID++
	ch := &discordgo.Channel{
		ID:       fmt.Sprintf("%d", f.nextID),
		GuildID:  guildID,
		Name:     data.Name,
		Type:     data.Type,
		ParentID: data.ParentID,
	}
	f.channels[ch.ID] = ch
	f.created = append(f.created, ch)
	f.creates = append(f.creates, data)
	return ch, nil
}

func (f *fakeSession) ChannelEditComplex(channelID string, data *discordgo.ChannelEdit, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch, ok := f.channels[channelID]
	if !ok {
		return nil, fmt.Errorf("unknown channel %s", channelID)
	}
	if data.ParentID != "" {
		ch.ParentID = data.ParentID
	}
	f.edits[channelID] = data
	return ch, nil
}

func (f *fakeSession) ChannelPermissionSet(channelID, targetID string, targetType discordgo.PermissionOverwriteType, allow, deny int64, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.perms = append(f.perms, permissionSet{
		channelID:  channelID,
		targetID:   targetID,
		targetType: targetType,
		allow:      allow,
		deny:       deny,
	})
	return nil
}

func (f *fakeSession) ChannelDelete(channelID string, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch, ok := f.channels[channelID]
	if !ok {
		return nil, fmt.Errorf("unknown channel %s", channelID)
	}
	delete(f.channels, channelID)
	f.deleted = append(f.deleted, channelID)
	return ch, nil
}

func (f *fakeSession) ChannelMessages(channelID string, limit int, _, afterID, _ string, _ ...discordgo.RequestOption) ([]*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	msgs := f.history[channelID]
	start := 0
	if afterID != "" {
		for i, m := range msgs {
			if m.ID == afterID {
				start = i + 1
				break
			}
		}
	}
	if start >= len(msgs) {
		return nil, nil
	}
	end := start + limit
	if end > len(msgs) {
		end = len(msgs)
	}
	return msgs[start:end], nil
}

func (f *fakeSession) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.sent = append(f.sent, sentMessage{channelID: channelID, data: data})
	f.nextID++
	return &discordgo.Message{ID: fmt.Sprintf("%d", f.nextID), ChannelID: channelID}, nil
}
