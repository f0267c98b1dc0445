package storage

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"impulse-server/internal/domain"
)

const (
	MagicHeader string = `IMRP` // 4 байта
	Version1    uint32 = 1
)

// ReplayFileHeader - точное представление заголовка файла в памяти.
// binary.Write пишет это целиком: только числа и массивы, без слайсов.
type ReplayFileHeader struct {
	Magic      [4]byte
	Version    uint32
	Timestamp  int64 // Unix ms начала записи
	EventCount int32
	SessionLen uint8 // Длина SessionID, тело идет сразу за заголовком
}

// eventHeader - фиксированный заголовок каждой записи события.
// Переменные части (device, key, button) идут следом с длинами отсюда.
type eventHeader struct {
	TickMs  int64
	Kind    uint8
	State   uint8
	Mods    uint8
	Repeat  uint8
	X       int32
	Y       int32
	ScrollX int32
	ScrollY int32

	DeviceLen uint8
	KeyLen    uint8
	ButtonLen uint8
}

// ReplayService пишет и читает бинарные записи сессий ввода.
type ReplayService struct {
	SaveDir string
}

func NewReplayService(dir string) *ReplayService {
	// Создаем папку если нет
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		_ = os.MkdirAll(dir, 0755)
	}
	return &ReplayService{SaveDir: dir}
}

// Save сохраняет сессию в файл replay_<session>_<ts>.imrp.
// Возвращает полный путь к файлу.
func (s *ReplayService) Save(session *domain.ReplaySession) (string, error) {
	filename := fmt.Sprintf("replay_%s_%d.imrp", session.SessionID, session.Timestamp)
	path := filepath.Join(s.SaveDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := writeBinary(f, session); err != nil {
		return "", err
	}
	return path, nil
}

func writeBinary(w io.Writer, s *domain.ReplaySession) error {
	sessionBytes := []byte(s.SessionID)
	if len(sessionBytes) > 255 {
		return fmt.Errorf("session id too long: %d", len(sessionBytes))
	}

	// 1. Глобальный заголовок
	header := ReplayFileHeader{
		Version:    Version1,
		Timestamp:  s.Timestamp,
		EventCount: int32(len(s.Events)),
		SessionLen: uint8(len(sessionBytes)),
	}
	copy(header.Magic[:], MagicHeader)

	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := w.Write(sessionBytes); err != nil {
		return err
	}

	// 2. События
	for _, rec := range s.Events {
		ev := rec.Event

		device := []byte(ev.Device)
		key := []byte(ev.Key.Key)
		button := []byte(ev.Pointer.Button)
		if len(device) > 255 || len(key) > 255 || len(button) > 255 {
			return fmt.Errorf("identifier too long in event at tick %d", rec.TickMs)
		}

		eh := eventHeader{
			TickMs:    rec.TickMs,
			Kind:      uint8(ev.Kind),
			DeviceLen: uint8(len(device)),
			KeyLen:    uint8(len(key)),
			ButtonLen: uint8(len(button)),
		}
		switch ev.Kind {
		case domain.KindKey:
			eh.State = uint8(ev.Key.State)
			eh.Mods = uint8(ev.Key.Mods)
			if ev.Key.Repeat {
				eh.Repeat = 1
			}
		case domain.KindPointer:
			eh.State = uint8(ev.Pointer.State)
			eh.X = int32(ev.Pointer.X)
			eh.Y = int32(ev.Pointer.Y)
			eh.ScrollX = int32(ev.Pointer.ScrollX)
			eh.ScrollY = int32(ev.Pointer.ScrollY)
		}

		if err := binary.Write(w, binary.LittleEndian, &eh); err != nil {
			return err
		}
		for _, blob := range [][]byte{device, key, button} {
			if len(blob) == 0 {
				continue
			}
			if _, err := w.Write(blob); err != nil {
				return err
			}
		}
	}

	return nil
}
