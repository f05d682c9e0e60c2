package services

import (
	"sync"

	expo "github.com/oliveroneill/exponent-server-sdk-golang/sdk"

	"github.com/khalildhmine/neatify-server/utils"
)

var (
	pushClient *expo.PushClient
	pushOnce   sync.Once
)

func getPushClient() *expo.PushClient {
	pushOnce.Do(func() {
		pushClient = expo.NewPushClient(nil)
	})
	return pushClient
}

// SendPush delivers an Expo push notification. Delivery is best effort: a
// missing token or a gateway error is logged and swallowed, never surfaced
// to the request that triggered it.
func SendPush(token, title, body string, data map[string]string) {
	if token == "" {
		return
	}

	pushToken, err := expo.NewExponentPushToken(token)
	if err != nil {
		utils.ErrorLogger.Printf("invalid expo push token %q: %v", token, err)
		return
	}

	go func() {
		response, err := getPushClient().Publish(&expo.PushMessage{
			To:       []expo.ExponentPushToken{pushToken},
			Title:    title,
			Body:     body,
			Data:     data,
			Sound:    "default",
			Priority: expo.DefaultPriority,
		})
		if err != nil {
			utils.ErrorLogger.Printf("expo push failed: %v", err)
			return
		}
		if err := response.ValidateResponse(); err != nil {
			utils.ErrorLogger.Printf("expo push rejected: %v", err)
		}
	}()
}
