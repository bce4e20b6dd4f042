// Package chat is the per-pin message log: text messages and photo
// attachments, stored separately from the pin records under
// <project>/chat_data/. Logs are append-only; the only delete is the
// cascading removal of a pin's whole history.
package chat

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/avoronin/facadekeeper/internal/common"
	"github.com/avoronin/facadekeeper/internal/logging"
	"github.com/avoronin/facadekeeper/internal/models"
	"github.com/avoronin/facadekeeper/internal/storage"
)

// Test seams.
var (
	timeNow  = time.Now
	readFile = os.ReadFile
)

// photoTimeLayout names copied photos: pin_{id}_{timestamp}{ext}.
const photoTimeLayout = "20060102_150405"

// photoExtensions are the file types counted as photos on disk.
var photoExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".bmp": true, ".gif": true,
}

// Stats is the diagnostic aggregate over a project's chat data.
type Stats struct {
	PinsWithChat      int `json:"pins_with_chat"`
	TotalTextMessages int `json:"total_text_messages"`
	TotalPhotos       int `json:"total_photos"`
	PhotoFilesOnDisk  int `json:"photo_files_on_disk"`
}

// Store reads and writes one project's chat logs and photo blobs.
type Store struct {
	backend storage.Backend
	project string
	log     logging.Logger
}

// New returns a chat store for the project.
func New(backend storage.Backend, project string, log logging.Logger) (*Store, error) {
	if !models.ValidProjectName(project) {
		return nil, fmt.Errorf("%w: %q", common.ErrInvalidProject, project)
	}
	return &Store{backend: backend, project: project, log: log.With("project", project)}, nil
}

// Path is the storage key of one pin's chat log.
func (s *Store) Path(pinID int) string {
	return fmt.Sprintf("%s/chat_data/pin_%d_chat.json", s.project, pinID)
}

func (s *Store) chatPrefix() string {
	return s.project + "/chat_data/"
}

func (s *Store) photoPrefix() string {
	return s.project + "/chat_data/photos/"
}

// Load returns a pin's messages, empty when the pin has no chat yet. A
// corrupt log is logged and treated as empty.
func (s *Store) Load(ctx context.Context, pinID int) []models.Message {
	var msgs []models.Message
	found, err := s.backend.GetJSON(ctx, s.Path(pinID), &msgs)
	if err != nil {
		s.log.Error(ctx, "failed to load chat", "pin_id", pinID, "error", err)
		return []models.Message{}
	}
	if !found || msgs == nil {
		return []models.Message{}
	}
	return msgs
}

func (s *Store) save(ctx context.Context, pinID int, msgs []models.Message) error {
	return s.backend.PutJSON(ctx, s.Path(pinID), msgs)
}

// AppendText appends a text message stamped at append time.
func (s *Store) AppendText(ctx context.Context, pinID int, text, author string) error {
	if pinID == 0 {
		return common.ErrPinNotSaved
	}
	msgs := s.Load(ctx, pinID)
	msgs = append(msgs, models.NewTextMessage(text, author, timeNow()))
	return s.save(ctx, pinID, msgs)
}

// AppendPhoto copies the photo at srcPath into the project's photo area and
// appends a photo message referencing the copy. When the log write fails
// after the copy succeeded, the copy is removed again so no photo exists
// without a corresponding chat entry. Returns the storage path of the copy.
func (s *Store) AppendPhoto(ctx context.Context, pinID int, srcPath, caption, author string) (string, error) {
	if pinID == 0 {
		return "", common.ErrPinNotSaved
	}

	data, err := readFile(srcPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", common.ErrPhotoNotFound, srcPath)
		}
		return "", fmt.Errorf("read photo %s: %w", srcPath, err)
	}

	ext := strings.ToLower(filepath.Ext(srcPath))
	filename := fmt.Sprintf("pin_%d_%s%s", pinID, timeNow().Format(photoTimeLayout), ext)
	stored := s.photoPrefix() + filename

	if err := s.backend.PutBytes(ctx, stored, data); err != nil {
		return "", fmt.Errorf("store photo: %w", err)
	}

	msgs := s.Load(ctx, pinID)
	msgs = append(msgs, models.NewPhotoMessage(stored, srcPath, filename, caption, author, timeNow()))
	if err := s.save(ctx, pinID, msgs); err != nil {
		if derr := s.backend.Delete(ctx, stored); derr != nil {
			s.log.Error(ctx, "failed to remove orphaned photo", "path", stored, "error", derr)
		}
		return "", fmt.Errorf("append photo message: %w", err)
	}

	s.log.Info(ctx, "photo attached", "pin_id", pinID, "path", stored)
	return stored, nil
}

// Photos returns the photo messages of a pin.
func (s *Store) Photos(ctx context.Context, pinID int) []models.Message {
	return filterType(s.Load(ctx, pinID), models.MessageTypePhoto)
}

// TextMessages returns the text messages of a pin.
func (s *Store) TextMessages(ctx context.Context, pinID int) []models.Message {
	return filterType(s.Load(ctx, pinID), models.MessageTypeText)
}

func filterType(msgs []models.Message, typ string) []models.Message {
	out := []models.Message{}
	for _, m := range msgs {
		if m.Type == typ {
			out = append(out, m)
		}
	}
	return out
}

// DeleteAll removes every photo referenced by the pin's messages and then
// the log itself. Cleanup is best-effort: an already-missing photo is logged
// and the remaining deletions continue.
func (s *Store) DeleteAll(ctx context.Context, pinID int) error {
	for _, m := range s.Photos(ctx, pinID) {
		if m.Path == "" {
			continue
		}
		if err := s.backend.Delete(ctx, m.Path); err != nil {
			s.log.Warn(ctx, "failed to delete photo, continuing", "path", m.Path, "error", err)
		}
	}

	if err := s.backend.Delete(ctx, s.Path(pinID)); err != nil {
		return fmt.Errorf("delete chat log for pin %d: %w", pinID, err)
	}
	s.log.Info(ctx, "chat history deleted", "pin_id", pinID)
	return nil
}

// Stats scans every chat log of the project. Individual corrupt logs are
// skipped, not fatal.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	keys, err := s.backend.ListPrefix(ctx, s.chatPrefix())
	if err != nil {
		return Stats{}, err
	}

	var st Stats
	for _, key := range keys {
		switch {
		case strings.HasSuffix(key, "_chat.json"):
			var msgs []models.Message
			if _, err := s.backend.GetJSON(ctx, key, &msgs); err != nil {
				s.log.Warn(ctx, "skipping corrupt chat log", "path", key, "error", err)
				continue
			}
			st.PinsWithChat++
			for _, m := range msgs {
				switch m.Type {
				case models.MessageTypeText:
					st.TotalTextMessages++
				case models.MessageTypePhoto:
					st.TotalPhotos++
				}
			}
		case strings.HasPrefix(key, s.photoPrefix()):
			if photoExtensions[strings.ToLower(path.Ext(key))] {
				st.PhotoFilesOnDisk++
			}
		}
	}
	return st, nil
}

// MigrateInline moves legacy inline chat lists off the given pins into
// per-pin log files and clears the inline field. A pin whose log file
// already exists keeps the log and only has the stale inline list cleared,
// so the migration can run repeatedly. Returns the updated pins, how many
// logs were written, and whether any pin record was modified (the caller
// must persist the pins when so).
func (s *Store) MigrateInline(ctx context.Context, pinList []models.Pin) ([]models.Pin, int, bool, error) {
	migrated := 0
	changed := false
	for i := range pinList {
		p := &pinList[i]
		if p.ID == 0 || len(p.Chat) == 0 {
			continue
		}

		exists, err := s.backend.Exists(ctx, s.Path(p.ID))
		if err != nil {
			return pinList, migrated, changed, err
		}
		if exists {
			p.Chat = nil
			changed = true
			continue
		}

		msgs := []models.Message{}
		for _, raw := range p.Chat {
			if m, ok := models.DecodeLegacyMessage(raw, timeNow()); ok {
				msgs = append(msgs, m)
			} else {
				s.log.Warn(ctx, "skipping unreadable legacy chat entry", "pin_id", p.ID)
			}
		}

		if err := s.save(ctx, p.ID, msgs); err != nil {
			return pinList, migrated, changed, err
		}
		p.Chat = nil
		migrated++
		changed = true
	}
	if migrated > 0 {
		s.log.Info(ctx, "inline chat migration finished", "pins", migrated)
	}
	return pinList, migrated, changed, nil
}
