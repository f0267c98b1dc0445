package storage

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"impulse-server/internal/domain"
)

// Load читает бинарный файл записи и восстанавливает сессию.
// Dx/Dy указателя не хранятся: при воспроизведении источник событий
// пересчитывает дельты сам.
func (s *ReplayService) Load(path string) (*domain.ReplaySession, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return readBinary(bytes.NewReader(data))
}

func readBinary(r io.Reader) (*domain.ReplaySession, error) {
	var header ReplayFileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	if string(header.Magic[:]) != MagicHeader {
		return nil, fmt.Errorf("invalid file format: bad magic %q", header.Magic)
	}
	if header.Version != Version1 {
		return nil, fmt.Errorf("unsupported replay version: %d", header.Version)
	}

	// Счетчик приходит из файла: битый или враждебный файл не должен
	// ронять процесс на make, только вернуть ошибку
	if header.EventCount < 0 {
		return nil, fmt.Errorf("invalid file format: negative event count %d", header.EventCount)
	}

	sessionBytes := make([]byte, header.SessionLen)
	if _, err := io.ReadFull(r, sessionBytes); err != nil {
		return nil, err
	}

	// Преаллокация по счетчику из файла ограничена сверху: реальный
	// размер все равно проверяется чтением каждого события
	capHint := int(header.EventCount)
	if capHint > 4096 {
		capHint = 4096
	}

	session := &domain.ReplaySession{
		SessionID: string(sessionBytes),
		Timestamp: header.Timestamp,
		Events:    make([]domain.ReplayEvent, 0, capHint),
	}

	for i := int32(0); i < header.EventCount; i++ {
		var eh eventHeader
		if err := binary.Read(r, binary.LittleEndian, &eh); err != nil {
			return nil, fmt.Errorf("failed to read event %d: %w", i, err)
		}

		device, err := readString(r, eh.DeviceLen)
		if err != nil {
			return nil, err
		}
		key, err := readString(r, eh.KeyLen)
		if err != nil {
			return nil, err
		}
		button, err := readString(r, eh.ButtonLen)
		if err != nil {
			return nil, err
		}

		ev := domain.InputEvent{
			Kind:   domain.Kind(eh.Kind),
			Device: device,
		}
		switch ev.Kind {
		case domain.KindKey:
			ev.Key = domain.KeyEvent{
				Key:    key,
				State:  domain.KeyState(eh.State),
				Mods:   domain.Modifier(eh.Mods),
				Repeat: eh.Repeat != 0,
			}
		case domain.KindPointer:
			ev.Pointer = domain.PointerEvent{
				X:       int(eh.X),
				Y:       int(eh.Y),
				Button:  button,
				State:   domain.KeyState(eh.State),
				ScrollX: int(eh.ScrollX),
				ScrollY: int(eh.ScrollY),
			}
		default:
			return nil, fmt.Errorf("unknown event kind %d at index %d", eh.Kind, i)
		}

		session.Events = append(session.Events, domain.ReplayEvent{
			TickMs: eh.TickMs,
			Event:  ev,
		})
	}

	return session, nil
}

func readString(r io.Reader, n uint8) (string, error) {
	if n == 0 {
		return "", nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
