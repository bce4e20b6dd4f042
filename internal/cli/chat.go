package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/avoronin/facadekeeper/internal/models"
)

func parsePinID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid pin id %q", s)
	}
	return id, nil
}

// Chat prints a pin's message log.
func (a *App) Chat(ctx context.Context, pin string) error {
	id, err := parsePinID(pin)
	if err != nil {
		return err
	}
	msgs := a.svc.ChatLog(ctx, id)
	if len(msgs) == 0 {
		printlnFn("No messages yet.")
		return nil
	}
	for _, m := range msgs {
		if m.Type == models.MessageTypePhoto {
			printfFn("[%s] %s: (photo) %s %s\n", m.Date, m.Author, m.Filename, m.Caption)
		} else {
			printfFn("[%s] %s: %s\n", m.Date, m.Author, m.Text)
		}
	}
	return nil
}

// Say sends a text message to a pin's chat.
func (a *App) Say(ctx context.Context, pin string) error {
	id, err := parsePinID(pin)
	if err != nil {
		return err
	}
	text, err := GetSimpleText(a.reader, "Message:", os.Stdout)
	if err != nil {
		return err
	}
	if text == "" {
		return nil
	}
	return a.svc.Say(ctx, id, text, a.config.Author)
}

// Photo attaches a photo file to a pin's chat.
func (a *App) Photo(ctx context.Context, pin, path string) error {
	id, err := parsePinID(pin)
	if err != nil {
		return err
	}
	caption, err := GetSimpleText(a.reader, "Caption (optional):", os.Stdout)
	if err != nil {
		return err
	}
	stored, err := a.svc.AttachPhoto(ctx, id, path, caption, a.config.Author)
	if err != nil {
		return err
	}
	printlnFn("Attached:", stored)
	return nil
}

// DelChat deletes a pin's chat history after confirmation.
func (a *App) DelChat(ctx context.Context, pin string) error {
	id, err := parsePinID(pin)
	if err != nil {
		return err
	}
	answer, err := GetSimpleText(a.reader, fmt.Sprintf("Delete all messages and photos of pin %d? (y/N)", id), os.Stdout)
	if err != nil {
		return err
	}
	if answer != "y" && answer != "Y" {
		printlnFn("Cancelled.")
		return nil
	}
	if err := a.svc.DeleteChat(ctx, id); err != nil {
		return err
	}
	printlnFn("Chat history deleted.")
	return nil
}
