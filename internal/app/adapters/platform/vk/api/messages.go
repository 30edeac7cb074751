package api

import (
	"buttonhandler/internal/app/domain/event"
	"buttonhandler/internal/app/domain/keyboard"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

func (v *VK) Edit(ctx context.Context, peerID, messageID int64, text string, kb *keyboard.Keyboard) error {
	params := url.Values{
		"peer_id":                 {strconv.FormatInt(peerID, 10)},
		"conversation_message_id": {strconv.FormatInt(messageID, 10)},
		"message":                 {text},
	}

	if kb != nil {
		raw, err := kb.JSON()
		if err != nil {
			return fmt.Errorf("encode keyboard: %w", err)
		}
		params.Set("keyboard", raw)
	}

	return v.call(ctx, "messages.edit", params, nil)
}

func (v *VK) Delete(ctx context.Context, peerID, messageID int64) error {
	params := url.Values{
		"peer_id":        {strconv.FormatInt(peerID, 10)},
		"cmids":          {strconv.FormatInt(messageID, 10)},
		"delete_for_all": {"1"},
	}

	return v.call(ctx, "messages.delete", params, nil)
}

type eventData struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func (v *VK) Snackbar(ctx context.Context, ev *event.Event, text string) error {
	data, err := json.Marshal(eventData{Type: "show_snackbar", Text: text})
	if err != nil {
		return fmt.Errorf("encode event data: %w", err)
	}

	params := url.Values{
		"event_id":   {ev.Button.EventID},
		"user_id":    {strconv.FormatInt(ev.User.ID, 10)},
		"peer_id":    {strconv.FormatInt(ev.Peer.ID, 10)},
		"event_data": {string(data)},
	}

	return v.call(ctx, "messages.sendMessageEventAnswer", params, nil)
}
