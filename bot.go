package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/davecgh/go-spew/spew"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/turbekoff/scicalc/pkg/calc"
	"github.com/turbekoff/scicalc/pkg/session"
	"github.com/turbekoff/scicalc/pkg/solver"
)

var (
	ErrClosed         = errors.New("bot has closed")
	ErrSessionExpired = errors.New("session has expired")
	ErrAlreadyStarted = errors.New("bot already started")
	ErrUnsupported    = errors.New("unsupported input")
	ErrMissingToken   = errors.New("telegram token is not set")
)

func keypad(angle calc.AngleUnit) tgbotapi.InlineKeyboardMarkup {
	button := tgbotapi.NewInlineKeyboardButtonData
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			button("sin", "sin"),
			button("cos", "cos"),
			button("tan", "tan"),
			button(angle.String(), "angle"),
			button("AC", "AC"),
		),
		tgbotapi.NewInlineKeyboardRow(
			button("π", "pi"),
			button("e", "e"),
			button("√", "sqrt"),
			button("^", "^"),
			button("÷", "/"),
		),
		tgbotapi.NewInlineKeyboardRow(
			button("x²", "sqr"),
			button("7", "7"),
			button("8", "8"),
			button("9", "9"),
			button("×", "*"),
		),
		tgbotapi.NewInlineKeyboardRow(
			button("x!", "fact"),
			button("4", "4"),
			button("5", "5"),
			button("6", "6"),
			button("-", "-"),
		),
		tgbotapi.NewInlineKeyboardRow(
			button("log", "log"),
			button("1", "1"),
			button("2", "2"),
			button("3", "3"),
			button("+", "+"),
		),
		tgbotapi.NewInlineKeyboardRow(
			button("ln", "ln"),
			button(".", "."),
			button("0", "0"),
			button("⌫", "BS"),
			button("=", "="),
		),
		tgbotapi.NewInlineKeyboardRow(
			button("±", "neg"),
			button("%", "%"),
		),
	)
}

// chatSession is one user's calculator in one chat. The calculator is only
// touched from the update loop; solve goroutines use the desk alone.
type chatSession struct {
	calc calc.Session
	desk *solver.Desk
}

type Bot struct {
	store      *session.Store[*chatSession]
	api        *tgbotapi.BotAPI
	solver     *solver.Client
	config     *Config
	welcome    string
	help       string
	isStarted  atomic.Bool
	inShutdown atomic.Bool
	isDone     chan struct{}
	solving    sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc
	logger     *log.Logger
}

func LoadBot(config *Config, logger *log.Logger) (*Bot, error) {
	if config.BotToken == "" {
		return nil, ErrMissingToken
	}

	api, err := tgbotapi.NewBotAPI(config.BotToken)
	if err != nil {
		return nil, err
	}
	api.Debug = config.Debug

	ctx, cancel := context.WithCancel(context.Background())
	return &Bot{
		api:    api,
		config: config,
		logger: logger,
		isDone: make(chan struct{}),
		ctx:    ctx,
		cancel: cancel,
		solver: solver.NewClient(config.SolverConfig(), logger),
		store: session.NewStore[*chatSession](
			config.SessionTTL,
			config.SessionCleanup,
		),
		welcome: fmt.Sprintf(
			"%s%s %s of inactivity.",
			"Welcome! Type /open to get started.\n",
			"Note: the session expires after",
			config.SessionTTL,
		),
		help: strings.Join([]string{
			"Help:",
			"/start - welcome message.",
			"/open - open new session.",
		"/close - close the current session.",
			"/history - list calculations of the session.",
			"/angle - switch between degrees and radians.",
			"/solve <problem> - ask the assistant.",
			"/help - send this message.",
		}, "\n"),
	}, nil
}

func (b *Bot) Run() error {
	if !b.isStarted.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	defer close(b.isDone)

	updateConfig := tgbotapi.NewUpdate(b.config.BotOffset)
	updateConfig.Timeout = b.config.BotTimeout
	updates := b.api.GetUpdatesChan(updateConfig)

	for update := range updates {
		if b.inShutdown.Load() && b.store.IsEmpty() {
			continue
		}

		if b.config.Debug {
			b.logger.Printf("update: %s", spew.Sdump(update))
		}

		if update.CallbackQuery != nil {
			if err := b.handleCallback(update.CallbackQuery); err != nil {
				b.logger.Printf("failed to handle callback, error: %v", err)
				continue
			}
		}

		if update.Message == nil {
			continue
		}

		if err := b.handleCommand(update.Message); err != nil {
			b.logger.Printf("failed to send message, error: %v", err)
		}
	}

	return ErrClosed
}

func (b *Bot) allowed(user *tgbotapi.User) bool {
	if len(b.config.AllowedUsers) == 0 {
		return true
	}
	return user != nil && slices.Contains(b.config.AllowedUsers, user.ID)
}

func sessionKey(chatID, userID int64) string {
	return fmt.Sprintf("%d_%d", chatID, userID)
}

func (b *Bot) createMessage(chatID int64, text string) (tgbotapi.Message, error) {
	return b.api.Send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) createKeyboard(chatID int64, text string, angle calc.AngleUnit) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keypad(angle)

	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) updateKeyboard(callback *tgbotapi.CallbackQuery, text string, markup *tgbotapi.InlineKeyboardMarkup) error {
	if text == callback.Message.Text {
		return nil
	}

	edit := tgbotapi.NewEditMessageText(
		callback.Message.Chat.ID,
		callback.Message.MessageID,
		text,
	)
	edit.ReplyMarkup = markup

	_, err := b.api.Send(edit)
	return err
}

func (b *Bot) handleCommand(command *tgbotapi.Message) error {
	if command.From == nil || !b.allowed(command.From) {
		return nil
	}

	chatID := command.Chat.ID
	key := sessionKey(chatID, command.From.ID)

	var err error
	switch command.Command() {
	case "start":
		_, err = b.createMessage(chatID, b.welcome)
	case "help":
		_, err = b.createMessage(chatID, b.help)
	case "open":
		if _, ok := b.store.Get(key); ok {
			_, err = b.createMessage(chatID, "Your session is not expired!")
			break
		}

		sess := &chatSession{
			calc: calc.NewSession(b.config.AngleUnit),
			desk: solver.NewDesk(b.solver),
		}
		err = b.createKeyboard(chatID, renderDisplay(sess.calc), sess.calc.Angle)
		if err == nil {
			b.store.Set(key, sess)
		}
	case "history":
		sess, ok := b.store.Get(key)
		if !ok {
			_, err = b.createMessage(chatID, "No open session. Type /open to start one.")
			break
		}

		text := renderHistory(sess.calc.State.History)
		_, err = b.createMessage(chatID, text)
	case "angle":
		sess, ok := b.store.Get(key)
		if !ok {
			_, err = b.createMessage(chatID, "No open session. Type /open to start one.")
			break
		}

		sess.calc = sess.calc.Dispatch(calc.Action(calc.IntentToggleAngle))
		angle := sess.calc.Angle
		b.store.Set(key, sess)
		_, err = b.createMessage(chatID, "Angle unit: "+angle.String())
	case "close":
		text := "No open session. Type /open to start one."
		if b.closeSession(key) {
			text = "Session closed."
		}
		_, err = b.createMessage(chatID, text)
	case "solve":
		err = b.handleSolve(command, key)
	default:
		_, err = b.createMessage(chatID, "Unknown command. Try /help")
	}
	return err
}

func (b *Bot) handleSolve(command *tgbotapi.Message, key string) error {
	chatID := command.Chat.ID
	problem := strings.TrimSpace(command.CommandArguments())
	if problem == "" {
		_, err := b.createMessage(chatID, "Usage: /solve <problem>")
		return err
	}

	sess, ok := b.store.Get(key)
	if !ok {
		sess = &chatSession{
			calc: calc.NewSession(b.config.AngleUnit),
			desk: solver.NewDesk(b.solver),
		}
	}
	if sess.desk.Busy() {
		_, err := b.createMessage(chatID, "Still solving the previous problem.")
		return err
	}

	pending, err := b.createMessage(chatID, "Thinking...")
	if err != nil {
		return err
	}
	b.store.Set(key, sess)

	b.solving.Add(1)
	go func() {
		defer b.solving.Done()

		ctx, cancel := context.WithTimeout(b.ctx, b.config.SolveTimeout)
		defer cancel()

		exchange, err := sess.desk.Ask(ctx, problem)
		if err != nil {
			b.logger.Printf("failed to ask assistant, error: %v", err)
			return
		}

		edit := tgbotapi.NewEditMessageText(chatID, pending.MessageID, exchange.Response)
		if _, err := b.api.Send(edit); err != nil {
			b.logger.Printf("failed to send answer, error: %v", err)
		}
	}()
	return nil
}

func (b *Bot) handleCallback(callback *tgbotapi.CallbackQuery) error {
	if callback.From == nil || callback.Message == nil || !b.allowed(callback.From) {
		return nil
	}

	key := sessionKey(callback.Message.Chat.ID, callback.From.ID)
	sess, ok := b.store.Get(key)

	notice := ""
	if ok && sess.desk.Busy() {
		notice = "Solving, please wait."
	}
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, notice)); err != nil {
		return err
	}

	if !ok {
		err := b.updateKeyboard(
			callback,
			"Your session has expired, please /open a new one.",
			nil,
		)
		if err != nil {
			return err
		}
		return ErrSessionExpired
	}

	// The keypad is disabled while the assistant is working.
	if notice != "" {
		return nil
	}

	next, err := press(sess.calc, callback.Data)
	if err != nil {
		return err
	}

	markup := keypad(next.Angle)
	if err := b.updateKeyboard(callback, renderDisplay(next), &markup); err != nil {
		return err
	}

	sess.calc = next
	b.store.Set(key, sess)
	return nil
}

// press resolves a keypad token and returns the session it leads to.
func press(s calc.Session, data string) (calc.Session, error) {
	intent, ok := calc.LookupKey(data)
	if !ok {
		return s, fmt.Errorf("%w: %q", ErrUnsupported, data)
	}
	return s.Dispatch(intent), nil
}

// closeSession drops the session stored under key together with its
// assistant exchange. It reports whether a session was open.
func (b *Bot) closeSession(key string) bool {
	sess, ok := b.store.Get(key)
	if !ok {
		return false
	}
	sess.desk.Reset()
	b.store.Delete(key)
	return true
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.inShutdown.Store(true)
	err := b.store.Shutdown(ctx)
	b.api.StopReceivingUpdates()
	b.cancel()
	b.solving.Wait()

	select {
	case <-b.isDone:
		if errors.Is(err, session.ErrClosed) {
			return ErrClosed
		}
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Bot) Close() error {
	b.inShutdown.Store(true)
	err := b.store.Close()
	b.api.StopReceivingUpdates()
	b.cancel()
	b.solving.Wait()
	<-b.isDone

	if errors.Is(err, session.ErrClosed) {
		return ErrClosed
	}
	return err
}
