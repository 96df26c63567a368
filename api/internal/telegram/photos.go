package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"lookism-bot/api/internal/photocheck"
)

// acceptPhoto принимает фото в режимах await_front / await_profile:
// скачивает, валидирует ракурс через Face++ и двигает сессию дальше.
func (r *Router) acceptPhoto(m tgbotapi.Message) {
	cid := m.Chat.ID
	mode := getMode(cid)
	if mode != modeAwaitFront && mode != modeAwaitProfile {
		r.send(cid, "Сейчас я не жду фото. /analyze — запустить анализ.")
		return
	}
	sessionID, ok := getSession(cid)
	if !ok {
		clearMode(cid)
		r.send(cid, "Сессия анализа потерялась. Запустите /analyze заново.")
		return
	}

	// берём самое большое превью
	ph := m.Photo[len(m.Photo)-1]
	img, err := r.downloadPhoto(ph.FileID)
	if err != nil {
		r.SendError(cid, err)
		return
	}

	pose := photocheck.PoseFront
	if mode == modeAwaitProfile {
		pose = photocheck.PoseProfile
	}

	r.send(cid, "Фото получил, проверяю…")
	res, err := r.Checker.Check(context.Background(), img, pose)
	if err != nil {
		r.SendError(cid, err)
		return
	}
	if !res.OK {
		r.send(cid, res.Reason)
		return
	}

	ctx := context.Background()
	switch mode {
	case modeAwaitFront:
		if err := r.Sessions.SetFrontPhoto(ctx, sessionID, ph.FileID); err != nil {
			r.SendError(cid, err)
			return
		}
		setMode(cid, modeAwaitProfile)
		r.send(cid, "Анфас принят ✅\n\nШаг 2 из 2. Теперь пришлите фото В ПРОФИЛЬ: голова повёрнута вбок, виден контур челюсти.")

	case modeAwaitProfile:
		if err := r.Sessions.SetProfilePhoto(ctx, sessionID, ph.FileID); err != nil {
			r.SendError(cid, err)
			return
		}
		// квоту списываем только когда оба фото прошли валидацию
		ok, err := r.Users.DecrementAnalyses(ctx, cid)
		if err != nil {
			r.SendError(cid, err)
			return
		}
		if !ok {
			clearMode(cid)
			clearSession(cid)
			r.send(cid, "Квота анализов исчерпана. Новые анализы придут с продлением подписки.")
			return
		}
		if err := r.Queue.Enqueue(ctx, sessionID); err != nil {
			r.SendError(cid, err)
			return
		}
		clearMode(cid)
		clearSession(cid)
		r.send(cid, "Профиль принят ✅\n\nАнализ запущен. Обычно это занимает 1–2 минуты, отчёт придёт сюда.")
	}
}

func (r *Router) downloadPhoto(fileID string) ([]byte, error) {
	file, err := r.Bot.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("https://api.telegram.org/file/bot%s/%s", r.Bot.Token, file.FilePath)
	return download(url)
}

func download(url string) ([]byte, error) {
	resp, err := httpClient().Get(url)
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

func httpClient() *http.Client {
	return &http.Client{Timeout: 60 * time.Second}
}
