package push

import (
	"context"
	"strings"
)

// Message is the payload delivered to a single device.
type Message struct {
	Title string
	Body  string
	Data  map[string]string // Custom data payload
	Badge int
}

// Sender delivers one message to one device token. Delivery is best-effort:
// an error means the send failed for that token only.
type Sender interface {
	Send(ctx context.Context, token string, msg Message) error
}

// IsExpoToken reports whether a token was issued by the Expo push service.
func IsExpoToken(token string) bool {
	return strings.HasPrefix(token, "ExponentPushToken")
}

// Router dispatches each send to the sender matching the token shape:
// Expo-issued tokens go through the Expo relay, everything else through FCM.
// With no FCM client configured, all tokens fall back to the Expo relay.
type Router struct {
	expo Sender
	fcm  Sender
}

func NewRouter(expo, fcm Sender) *Router {
	return &Router{expo: expo, fcm: fcm}
}

func (r *Router) Send(ctx context.Context, token string, msg Message) error {
	if r.fcm != nil && !IsExpoToken(token) {
		return r.fcm.Send(ctx, token, msg)
	}
	return r.expo.Send(ctx, token, msg)
}
