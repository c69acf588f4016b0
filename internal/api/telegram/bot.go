package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"annadata/internal/container"
	"annadata/internal/domain/entity"
	"annadata/internal/infrastructure/vision"
)

const (
	msgStart = `👋 Привет! Я бот агромониторинга.

📸 Пришлите фото листа, и я проверю его на болезни и сорняки.
🌱 По показаниям датчиков почвы оценю плодородие.

📋 Команды:
/check — проверить фото листа
/soil N P K pH EC — плодородие почвы
/history — последние записи журнала
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте /check и затем фото листа
2️⃣ Бот найдёт лист, определит болезнь и проверит кадр на сорняки
3️⃣ Результаты с болезнями и сорняками попадают в общий журнал

🌱 Плодородие: /soil 150 50 200 7.0 0.5
Диапазоны: N 6–383, P 3–125, K 11–887, pH 1–12, EC 0.1–0.95

📋 Команды:
/check — начать проверку
/history — журнал
/cancel — отменить операцию`

	msgAwaitingPhoto   = "📸 Отправьте фото листа для проверки."
	msgCancelled       = "❌ Операция отменена. Отправьте /check для новой проверки."
	msgSendPhoto       = "📸 Сначала отправьте /check, затем фото листа."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing      = "⏳ Обрабатываю изображение..."
	msgBusy            = "⏳ Предыдущее фото ещё обрабатывается."
	msgProcessingError = "⚠️ Не удалось обработать изображение. Попробуйте сделать другое фото."
	msgHistoryError    = "⚠️ Не удалось прочитать журнал."
)

// maxPhotoBytes ограничивает размер скачиваемого из Telegram файла.
const maxPhotoBytes = 20 << 20

// Bot представляет Telegram-бота
type Bot struct {
	api         *tgbotapi.BotAPI
	services    *container.Container
	log         *zap.Logger
	historyRows int
	httpClient  *http.Client
}

// NewBot создаёт нового бота
func NewBot(token string, services *container.Container, historyRows int, log *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}

	log.Info("telegram bot authorized", zap.String("account", api.Self.UserName))

	return &Bot{
		api:         api,
		services:    services,
		log:         log,
		historyRows: historyRows,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Run запускает основной цикл обработки сообщений до отмены ctx
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || update.Message.From == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	users := b.services.UserService
	user, err := users.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		b.log.Error("get user", zap.Int64("user_id", msg.From.ID), zap.Error(err))
		return
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	if len(msg.Photo) > 0 {
		switch user.State {
		case entity.StateAwaitingPhoto:
			b.handlePhoto(ctx, msg)
		case entity.StateProcessing:
			b.sendMessage(msg.Chat.ID, msgBusy)
		default:
			b.sendMessage(msg.Chat.ID, msgSendPhoto)
		}
		return
	}

	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	users := b.services.UserService
	userID, chatID := msg.From.ID, msg.Chat.ID

	switch msg.Command() {
	case "start":
		b.setState(users.Cancel(ctx, userID, chatID))
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "check":
		b.setState(users.BeginCheck(ctx, userID, chatID))
		b.sendMessage(chatID, msgAwaitingPhoto)

	case "cancel":
		b.setState(users.Cancel(ctx, userID, chatID))
		b.sendMessage(chatID, msgCancelled)

	case "history":
		rows, err := b.services.MonitoringService.History(ctx, b.historyRows)
		if err != nil {
			b.log.Error("read history", zap.Error(err))
			b.sendMessage(chatID, msgHistoryError)
			return
		}
		b.sendMessage(chatID, FormatHistory(rows))

	case "soil":
		sample, err := ParseSoilArgs(msg.CommandArguments())
		if err != nil {
			b.sendMessage(chatID, "⚠️ "+err.Error()+"\nПример: /soil 150 50 200 7.0 0.5")
			return
		}
		result := b.services.MonitoringService.PredictFertility(ctx, sample)
		b.sendMessage(chatID, FormatFertility(result))

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}
}

// handlePhoto проверяет фото листа: сначала болезнь, затем сорняки
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message) {
	users := b.services.UserService
	userID, chatID := msg.From.ID, msg.Chat.ID

	b.setState(users.StartProcessing(ctx, userID, chatID))
	b.sendMessage(chatID, msgProcessing)

	// Файл с максимальным разрешением
	photo := msg.Photo[len(msg.Photo)-1]
	filename := photo.FileUniqueID + ".jpg"

	text, err := b.inspectPhoto(ctx, photo.FileID, filename)
	if err != nil {
		b.log.Error("inspect photo", zap.String("file", filename), zap.Error(err))
		b.sendMessage(chatID, msgProcessingError)
		b.setState(users.Cancel(ctx, userID, chatID))
		return
	}

	b.sendMessage(chatID, text)
	b.setState(users.CompleteCheck(ctx, userID, chatID))
}

func (b *Bot) inspectPhoto(ctx context.Context, fileID, filename string) (string, error) {
	data, err := b.downloadFile(ctx, fileID)
	if err != nil {
		return "", err
	}
	img, _, err := vision.DecodeImage(data)
	if err != nil {
		return "", err
	}

	svc := b.services.MonitoringService
	leaf, err := svc.ClassifyLeaf(ctx, filename, img)
	if err != nil {
		return "", err
	}
	if !leaf.LeafDetected {
		return FormatInspection(leaf, nil), nil
	}

	weed, err := svc.DetectWeed(ctx, filename, img)
	if err != nil {
		return "", err
	}
	return FormatInspection(leaf, weed), nil
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.api.Token), nil)
	if err != nil {
		return nil, err
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPhotoBytes))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

func (b *Bot) setState(_ *entity.User, err error) {
	if err != nil {
		b.log.Error("update user state", zap.Error(err))
	}
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
