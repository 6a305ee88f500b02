package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Screen is the single piece of navigation state.
type Screen int

const (
	ScreenHome Screen = iota
	ScreenPrice
	ScreenTools
	ScreenNews
	ScreenHealth
	ScreenChat
	ScreenInfo
)

const subtitle = "For Adrian Hensgen, Master Builder"

var titles = map[Screen]string{
	ScreenHome:   "Hensgen Helper",
	ScreenPrice:  "Photo Price Check",
	ScreenTools:  "Builder's Tools",
	ScreenNews:   "News & Weather",
	ScreenHealth: "Heart Health",
	ScreenChat:   "AI Seller Coach",
	ScreenInfo:   "Information",
}

// Title falls back to Home for unknown screens.
func (s Screen) Title() string {
	if t, ok := titles[s]; ok {
		return t
	}
	return titles[ScreenHome]
}

func (s Screen) valid() bool {
	_, ok := titles[s]
	return ok
}

// Navigation buttons. The bottom bar is always shown; News and Info are only
// offered from Home.
const (
	btnHome   = "🏠 Home"
	btnPrice  = "📷 Price"
	btnTools  = "🛠 Tools"
	btnHealth = "❤️ Health"
	btnChat   = "💬 Chat"
	btnNews   = "📰 News"
	btnInfo   = "ℹ️ Info"
)

var navTargets = map[string]Screen{
	"home":   ScreenHome,
	"price":  ScreenPrice,
	"tools":  ScreenTools,
	"health": ScreenHealth,
	"chat":   ScreenChat,
	"news":   ScreenNews,
	"info":   ScreenInfo,
}

// navTarget matches a keyboard button or its bare word ("price").
func navTarget(text string) (Screen, bool) {
	text = strings.TrimSpace(text)
	switch text {
	case btnHome, btnPrice, btnTools, btnHealth, btnChat, btnNews, btnInfo:
		_, word, _ := strings.Cut(text, " ")
		text = word
	}
	s, ok := navTargets[strings.ToLower(text)]
	return s, ok
}

func navKeyboard(s Screen) tgbotapi.ReplyKeyboardMarkup {
	rows := [][]tgbotapi.KeyboardButton{
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnHome),
			tgbotapi.NewKeyboardButton(btnPrice),
			tgbotapi.NewKeyboardButton(btnTools),
			tgbotapi.NewKeyboardButton(btnHealth),
			tgbotapi.NewKeyboardButton(btnChat),
		),
	}
	if s == ScreenHome {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnNews),
			tgbotapi.NewKeyboardButton(btnInfo),
		))
	}
	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	return kb
}

// commandScreen maps slash commands onto the screen they belong to.
var commandScreen = map[string]Screen{
	"start":       ScreenHome,
	"home":        ScreenHome,
	"help":        ScreenHome,
	"price":       ScreenPrice,
	"queue":       ScreenPrice,
	"tools":       ScreenTools,
	"level":       ScreenTools,
	"ruler":       ScreenTools,
	"news":        ScreenNews,
	"health":      ScreenHealth,
	"inr":         ScreenHealth,
	"remind":      ScreenHealth,
	"chat":        ScreenChat,
	"reset":       ScreenChat,
	"info":        ScreenInfo,
	"legacy":      ScreenInfo,
	"legacy_edit": ScreenInfo,
}
