package worker

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"lookism-bot/api/internal/engine"
	"lookism-bot/api/internal/llm"
	"lookism-bot/api/internal/logger"
	"lookism-bot/api/internal/queue"
	"lookism-bot/api/internal/store"
	"lookism-bot/api/internal/util"
)

const dequeueTimeout = 5 * time.Second

// Worker разбирает очередь анализов: скачивает фото, гоняет их через
// внешние API и движок метрик, просит LLM написать отчёт и отправляет
// его пользователю.
type Worker struct {
	Bot      *tgbotapi.BotAPI
	Queue    *queue.Queue
	Sessions *store.SessionRepo
	Tasks    *store.TaskRepo
	FPP      faceDetector
	AILab    landmarkClient
	LLM      *llm.Manager
	Agg      *engine.Aggregator

	Concurrency int

	httpc *http.Client
}

func New(bot *tgbotapi.BotAPI, q *queue.Queue, sessions *store.SessionRepo, tasks *store.TaskRepo,
	fpp faceDetector, al landmarkClient, mgr *llm.Manager, agg *engine.Aggregator, concurrency int) *Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Worker{
		Bot:         bot,
		Queue:       q,
		Sessions:    sessions,
		Tasks:       tasks,
		FPP:         fpp,
		AILab:       al,
		LLM:         mgr,
		Agg:         agg,
		Concurrency: concurrency,
		httpc:       &http.Client{Timeout: 60 * time.Second},
	}
}

// Run крутит пул воркеров до отмены контекста.
func (w *Worker) Run(ctx context.Context) {
	logger.Info("worker: старт", logger.Fields{"concurrency": w.Concurrency})

	var wg sync.WaitGroup
	for i := 0; i < w.Concurrency; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			w.loop(ctx, n)
		}(i)
	}
	wg.Wait()
	logger.Info("worker: остановлен", nil)
}

func (w *Worker) loop(ctx context.Context, n int) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		task, err := w.Queue.Dequeue(ctx, dequeueTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error("worker: ошибка очереди", logger.Fields{"worker": n, "err": err})
			time.Sleep(time.Second)
			continue
		}
		if task == nil {
			continue
		}
		w.processSession(ctx, task.SessionID)
	}
}

func (w *Worker) processSession(ctx context.Context, sessionID int64) {
	log := logger.Fields{"session_id": sessionID}
	logger.Info("worker: обрабатываю сессию", log)

	sess, err := w.Sessions.Get(ctx, sessionID)
	if err != nil {
		logger.Error("worker: сессия не найдена", logger.Fields{"session_id": sessionID, "err": err})
		return
	}

	if err := w.Sessions.SetStatus(ctx, sessionID, store.SessionProcessing); err != nil {
		logger.Error("worker: не смог обновить статус", logger.Fields{"session_id": sessionID, "err": err})
	}
	taskID, err := w.Tasks.Create(ctx, sessionID)
	if err != nil {
		logger.Error("worker: не смог создать задачу", logger.Fields{"session_id": sessionID, "err": err})
		return
	}
	_ = w.Tasks.Start(ctx, taskID)

	fail := func(cause error) {
		logger.Error("worker: сессия провалена", logger.Fields{"session_id": sessionID, "err": cause})
		_ = w.Sessions.Fail(ctx, sessionID)
		_ = w.Tasks.Fail(ctx, taskID, cause.Error())
		w.notify(sess.UserID, "Произошла ошибка при анализе. Попробуйте, пожалуйста, ещё раз позже.")
	}

	front, err := w.downloadPhoto(sess.FrontFileID)
	if err != nil {
		fail(fmt.Errorf("download front: %w", err))
		return
	}

	// профиль не критичен для рейтинга, но пишем его позу в результат
	var profile []byte
	if sess.ProfileFileID != "" {
		if profile, err = w.downloadPhoto(sess.ProfileFileID); err != nil {
			logger.Warn("worker: не удалось скачать профильное фото", logger.Fields{"session_id": sessionID, "err": err})
			profile = nil
		}
	}

	res, err := w.analyze(ctx, front, profile)
	if err != nil {
		fail(err)
		return
	}

	// отчёт генерируем best-effort: упавшая LLM не роняет анализ
	report := w.generateReport(ctx, sess.UserID, res)

	if err := w.Sessions.Finish(ctx, sessionID, res, report); err != nil {
		fail(fmt.Errorf("save result: %w", err))
		return
	}
	_ = w.Tasks.Done(ctx, taskID)

	w.notify(sess.UserID, report)
	logger.Info("worker: сессия готова", log)
}

func (w *Worker) generateReport(ctx context.Context, chatID int64, res *Result) string {
	eng := w.LLM.Get(chatID)
	prompt := buildReportPrompt(res, time.Now())
	report, err := eng.Complete(ctx, llm.ReportSystemPrompt, nil, prompt)
	if err != nil {
		logger.Error("worker: LLM не сгенерировала отчёт", logger.Fields{"chat_id": chatID, "err": err})
		return fmt.Sprintf("🏷️ РЕЙТИНГ И КАТЕГОРИЯ\nКомпозитный рейтинг: %.1f/10\nКатегория: %s\n\nПолный отчёт временно недоступен, попробуйте команду /report позже.",
			res.Rating.CompositeRating, res.Rating.Label)
	}
	return util.SanitizeReport(report)
}

// downloadPhoto скачивает файл с серверов Telegram по file_id.
func (w *Worker) downloadPhoto(fileID string) ([]byte, error) {
	if fileID == "" {
		return nil, fmt.Errorf("empty file_id")
	}
	file, err := w.Bot.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("https://api.telegram.org/file/bot%s/%s", w.Bot.Token, file.FilePath)
	resp, err := w.httpc.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
	}
	return io.ReadAll(resp.Body)
}

func (w *Worker) notify(chatID int64, text string) {
	if w.Bot == nil {
		return
	}
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := w.Bot.Send(msg); err != nil {
		logger.Error("worker: не смог отправить сообщение", logger.Fields{"chat_id": chatID, "err": err})
	}
}
