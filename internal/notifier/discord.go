package notifier

import (
	"fmt"
	"log"

	"github.com/andestrip/registration-api/internal/models"
	"github.com/bwmarrin/discordgo"
)

// Notifier is the out-of-band channel for announcements and for the
// failures the choice flow deliberately swallows (completion-roster
// updates must never fail a traveler's request).
type Notifier interface {
	AnnounceRegistration(registration models.Registration) error
	AnnounceChoice(event models.ChoiceEvent) error
	ReportFailure(op string, reportErr error) error
}

type DiscordNotifier struct {
	session   *discordgo.Session
	channelID string
}

func NewDiscordNotifier(session *discordgo.Session, channelID string) *DiscordNotifier {
	return &DiscordNotifier{
		session:   session,
		channelID: channelID,
	}
}

func (n *DiscordNotifier) send(message string) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}
	if n.channelID == "" {
		return fmt.Errorf("discord channel ID is empty")
	}

	_, err := n.session.ChannelMessageSend(n.channelID, message)
	if err != nil {
		log.Printf("Failed to send discord message: %v", err)
		return err
	}

	return nil
}

func (n *DiscordNotifier) AnnounceRegistration(registration models.Registration) error {
	message := fmt.Sprintf("🎉 **New Registration**\n**Traveler:** %s\n**Room:** %s\n**Extra Luggage:** %d\n**Payment:** %s\n**Confirmation:** %s",
		registration.Email,
		registration.RoomType,
		registration.ExtraLuggage,
		registration.PaymentMethod,
		registration.ConfirmationRef,
	)
	return n.send(message)
}

func (n *DiscordNotifier) AnnounceChoice(event models.ChoiceEvent) error {
	message := fmt.Sprintf("📝 **Choice Recorded**\n**Traveler:** %s\n**Item:** %s / %s\n**Answer:** %s (%d EUR)",
		event.Email,
		event.ItemKey,
		event.Option,
		event.Choice,
		event.Value,
	)
	return n.send(message)
}

func (n *DiscordNotifier) ReportFailure(op string, reportErr error) error {
	message := fmt.Sprintf("⚠️ **Background Failure**\n**Operation:** %s\n**Error:** %v", op, reportErr)
	return n.send(message)
}
